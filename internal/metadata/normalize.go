package metadata

import "strings"

// Normalize returns a schema-stable copy of result.
func Normalize(result ExtractionResult) ExtractionResult {
	out := ExtractionResult{
		Amendments:   normalizeAmendments(result.Amendments),
		Participants: normalizeParticipants(result.Participants),
		VideoDate:    normalizeDate(result.VideoDate),
		Confidence: Confidence{
			Amendments:   clampScore(result.Confidence.Amendments),
			Participants: clampScore(result.Confidence.Participants),
			VideoDate:    clampScore(result.Confidence.VideoDate),
			Location:     clampScore(result.Confidence.Location),
		},
	}
	if result.Location != nil {
		loc := *result.Location
		out.Location = &loc
	}
	return out
}

// BuildOutputRecord merges the fetched video facts with a normalized extraction.
// requestedURL is used when the source did not report a canonical URL.
func BuildOutputRecord(requestedURL string, video VideoRecord, result ExtractionResult) OutputRecord {
	url := strings.TrimSpace(video.URL)
	if url == "" {
		url = strings.TrimSpace(requestedURL)
	}
	record := OutputRecord{
		YouTubeURL:       url,
		Title:            video.Title,
		Description:      video.Description,
		ChannelName:      video.ChannelName,
		ExtractionResult: Normalize(result),
	}
	if thumb := strings.TrimSpace(video.ThumbnailURL); thumb != "" {
		record.ThumbnailURL = &thumb
	}
	if video.DurationSeconds != nil {
		duration := *video.DurationSeconds
		record.DurationSeconds = &duration
	}
	return record
}

func normalizeAmendments(values []Amendment) []Amendment {
	out := make([]Amendment, 0, len(values))
	seen := make(map[Amendment]struct{}, len(values))
	for _, value := range values {
		code, ok := ParseAmendment(string(value))
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func normalizeParticipants(values []Participant) []Participant {
	out := make([]Participant, 0, len(values))
	seen := make(map[Participant]struct{}, len(values))
	for _, value := range values {
		code, ok := ParseParticipant(string(value))
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// normalizeDate treats blank strings and a literal "null" as absent.
func normalizeDate(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
