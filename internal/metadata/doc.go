// Package metadata defines the records that flow through the extraction
// pipeline and the total mapping that turns model output into the persisted
// output schema.
//
// VideoRecord carries the raw facts fetched from the video source.
// ExtractionResult is the structured payload recovered from the model, and
// OutputRecord is the union of the two with every field present.
//
// # Normalization
//
// Normalize fills every optional section of an ExtractionResult so callers
// never branch on absent data: list fields become empty sets, unknown enum
// codes are dropped, confidence scores are clamped to [0, 1], and a present
// location object keeps each sub-field independently (a partially specified
// location never collapses to null). Normalize is idempotent.
package metadata
