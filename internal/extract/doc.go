// Package extract recovers the answer object from free-form model output.
//
// The extraction prompt asks for reasoning in tagged sections followed by a
// single JSON object, and those sections may quote braces of their own. JSON
// therefore anchors on the last closing brace and walks backward to its
// matching opener, after unwrapping a surrounding code fence if present.
//
// Parse decodes that span into a metadata.ExtractionResult. Decode failures
// come back as *ParseError carrying the raw response so the caller can record
// it against the item that produced it.
package extract
