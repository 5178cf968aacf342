// Package transcript converts caption payloads into a single line of plain
// text suitable for prompt insertion.
//
// Two encodings are understood. The structured json3 format (timed events
// holding text segments) is walked segment by segment. Every other format,
// and any json3 payload that fails to decode, goes through a line-based
// cleaner that drops WebVTT/SRT headers, timing ranges and cue indices,
// strips inline tags, and collapses the rolling duplicate lines that
// auto-generated captions emit.
//
// Normalize never returns an error: payloads that yield no text produce an
// empty string, which callers treat as "no transcript".
package transcript
