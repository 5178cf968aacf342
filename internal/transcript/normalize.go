package transcript

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Format identifies the caption encoding of a payload.
type Format string

const (
	// FormatJSON3 is the structured-segment format (events with segs[].utf8).
	FormatJSON3 Format = "json3"
	FormatVTT   Format = "vtt"
	FormatSRT   Format = "srt"
)

// Payload is raw caption data tagged with its format.
type Payload struct {
	Data   string
	Format Format
}

// ParseFormat maps a file extension or format name to a Format.
func ParseFormat(value string) Format {
	return Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")))
}

var (
	inlineTagPattern = regexp.MustCompile(`<[^>]+>`)
	headerPrefixes   = []string{"WEBVTT", "Kind:", "Language:"}
)

// Normalize returns the plain-text transcript for payload, or "" when no text
// could be recovered.
func Normalize(payload *Payload) string {
	if payload == nil {
		return ""
	}
	data := strings.TrimPrefix(payload.Data, "\ufeff")
	if strings.TrimSpace(data) == "" {
		return ""
	}
	if payload.Format == FormatJSON3 {
		if text, ok := fromSegments(data); ok {
			return finish(text)
		}
	}
	return finish(fromLines(data))
}

type json3Document struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// fromSegments reports ok=false only when data is not a json3 document, so the
// caller can retry it as line-based text.
func fromSegments(data string) (string, bool) {
	var doc json3Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return "", false
	}
	parts := make([]string, 0, len(doc.Events))
	for _, event := range doc.Events {
		for _, seg := range event.Segs {
			text := collapseLineBreaks(strings.TrimSpace(seg.UTF8))
			if text == "" {
				continue
			}
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), true
}

func fromLines(data string) string {
	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || isTimingLine(line) || isHeaderLine(line) || isCueIndex(line) {
			continue
		}
		clean := strings.TrimSpace(inlineTagPattern.ReplaceAllString(line, ""))
		if clean == "" {
			continue
		}
		if n := len(kept); n > 0 && kept[n-1] == clean {
			continue
		}
		kept = append(kept, clean)
	}
	return strings.Join(kept, " ")
}

func isTimingLine(line string) bool {
	return strings.Contains(line, "-->")
}

func isHeaderLine(line string) bool {
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func isCueIndex(line string) bool {
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return line != ""
}

func collapseLineBreaks(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	return strings.Join(strings.Fields(text), " ")
}

func finish(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return norm.NFC.String(text)
}
