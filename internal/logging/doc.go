// Package logging assembles the slog loggers used by atlasmeta.
//
// It owns the console and JSON handlers, level parsing and output routing.
// Log lines always go to stderr (and optionally a file) because stdout is
// reserved for extraction results. Context helpers tag log lines with the
// run id, video URL and batch id so a single extraction can be followed
// through the pipeline. NewNop gives tests and optional wiring a logger that
// discards everything.
package logging
