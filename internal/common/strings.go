package common

// UnknownStr is the fallback rendering of enum values without a name.
const UnknownStr = "unknown"
