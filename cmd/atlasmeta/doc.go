// Package main hosts the atlasmeta CLI entrypoint and command graph.
//
// The Cobra command tree covers metadata extraction for single URLs and URL
// files (synchronously or through a message batch), channel listing that
// produces URL files, a doctor report and configuration scaffolding. It owns
// configuration resolution, .env loading and logger setup so the internal
// packages receive explicit values instead of reading process state.
//
// JSON results and URL lists go to stdout. Logs, progress and summaries go
// to stderr.
package main
