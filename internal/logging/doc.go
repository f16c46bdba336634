// Package logging builds the zap loggers used by the CLI. Output goes to
// stderr, and optionally to a size-rotated file managed by lumberjack.
package logging
