package common

// Count predicates used when selecting among designated members.

// IsEmpty reports whether s has no elements.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// IsSingle reports whether s holds exactly one element, e.g. the one
// designated constructor.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// IsMultiple reports whether s holds more than one element.
func IsMultiple[S ~[]E, E any](s S) bool {
	return len(s) > 1
}

// First returns the first element of s. The second result is false when s
// is empty.
func First[S ~[]E, E any](s S) (E, bool) {
	var zero E
	if IsEmpty(s) {
		return zero, false
	}

	return s[0], true
}
