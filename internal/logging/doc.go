// Package logging builds the slog loggers used by mhwork.
//
// Console output is a compact single-line format, colored when it goes to a
// terminal. JSON output uses short keys and UTC timestamps.
package logging
