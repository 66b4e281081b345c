// Package log holds the process-wide zap logger.
//
// The global logger writes info and above to standard error until the CLI
// calls InitLogger and ReplaceGlobals with the configured level, format and
// optional rotated file output.
package log
