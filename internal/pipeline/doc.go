// Package pipeline turns video URLs into extraction records.
//
// Runner.RunSequential handles one URL at a time: fetch the video, normalize
// its captions, send a single self-contained prompt, then parse and normalize
// the reply. Runner.RunBatch moves a whole URL list through a message batch:
// it collects metadata for every URL, submits one job that shares a cached
// instruction block, polls until the service reports the job ended, and
// drains the results. Per-item failures never stop sibling items; they are
// returned as ItemError values next to the successful records. The only
// whole-run failure is a batch in which no URL yielded usable metadata.
package pipeline
