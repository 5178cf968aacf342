package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"atlasmeta/internal/metadata"
)

const fence = "```"

// ParseError reports model output that did not yield a valid extraction.
// Raw keeps the untouched model text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %v (response snippet: %s)", e.Err, Snippet(e.Raw))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// JSON returns the span of the last balanced JSON object in text. When no
// closing brace has a matching opener, the trimmed input is returned and the
// caller's decode reports the failure.
func JSON(text string) string {
	trimmed := stripFence(strings.TrimSpace(text))

	last := strings.LastIndexByte(trimmed, '}')
	if last < 0 {
		return trimmed
	}
	depth := 0
	for i := last; i >= 0; i-- {
		switch trimmed[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				return trimmed[i : last+1]
			}
		}
	}
	return trimmed
}

// stripFence keeps the interior of a fenced block when text opens with a
// fence marker. The language tag line is dropped with the opening fence.
func stripFence(text string) string {
	if !strings.HasPrefix(text, fence) {
		return text
	}
	firstNewline := strings.IndexByte(text, '\n')
	if firstNewline < 0 {
		return text
	}
	lastFence := strings.LastIndex(text, fence)
	if lastFence <= firstNewline {
		return text
	}
	return strings.TrimSpace(text[firstNewline+1 : lastFence])
}

// Parse recovers the extraction object from raw model output. Any failure
// is returned as a *ParseError.
func Parse(raw string) (metadata.ExtractionResult, error) {
	var result metadata.ExtractionResult
	candidate := JSON(raw)
	if candidate == "" {
		return result, &ParseError{Raw: raw, Err: errors.New("empty response")}
	}
	if !strings.HasPrefix(candidate, "{") {
		return result, &ParseError{Raw: raw, Err: errors.New("no JSON object found")}
	}
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return metadata.ExtractionResult{}, &ParseError{Raw: raw, Err: err}
	}
	return result, nil
}

// Snippet flattens text to a single line capped at 160 characters.
func Snippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
