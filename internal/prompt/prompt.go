package prompt

import (
	"strings"
	"unicode/utf8"

	"atlasmeta/internal/metadata"
)

// MaxMessageLength is the ceiling, in characters, for any composed message.
const MaxMessageLength = 180_000

// TruncationNotice is appended to messages cut down to MaxMessageLength.
const TruncationNotice = "\n\n[Transcript truncated due to length]"

// BatchDirective closes every per-item batch message.
const BatchDirective = "Analyze this video following the instructions above."

const unknownPublished = "unknown"

var (
	singleTemplate = rolePreamble + "\n\n" +
		videoDataTemplate + "\n" +
		"## Your Task\n\n" +
		"Extract structured metadata from this video and output it as a JSON object. You will identify:\n\n" +
		taskList + "\n\n" +
		classificationAndSteps

	sharedInstructions = rolePreamble + "\n\n" +
		"## Your Task\n\n" +
		"You will be given YouTube video information in XML tags. Extract structured metadata from the video and output it as a JSON object. You will identify:\n\n" +
		taskList + "\n\n" +
		classificationAndSteps

	itemTemplate = videoDataTemplate + "\n" + BatchDirective
)

// Single renders the self-contained request message for one video.
func Single(video metadata.VideoRecord) string {
	return Truncate(fill(singleTemplate, video), MaxMessageLength)
}

// Instructions returns the shared instruction block used by batch requests.
// It contains no per-video data so it can be cached across a job.
func Instructions() string {
	return sharedInstructions
}

// Item renders the per-video data block paired with Instructions.
func Item(video metadata.VideoRecord) string {
	return Truncate(fill(itemTemplate, video), MaxMessageLength)
}

// TranscriptSection wraps a transcript in its XML tags, or returns "" when
// there is nothing to insert.
func TranscriptSection(transcript string) string {
	if strings.TrimSpace(transcript) == "" {
		return ""
	}
	return "\n<transcript>\n" + transcript + "\n</transcript>\n"
}

// Truncate cuts message to at most limit characters. A truncated message
// always ends with TruncationNotice.
func Truncate(message string, limit int) string {
	if utf8.RuneCountInString(message) <= limit {
		return message
	}
	keep := limit - utf8.RuneCountInString(TruncationNotice)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(message)
	return string(runes[:keep]) + TruncationNotice
}

// fill substitutes every placeholder in a single pass so video text that
// happens to contain a placeholder is never expanded again.
func fill(template string, video metadata.VideoRecord) string {
	published := strings.TrimSpace(video.Published)
	if published == "" {
		published = unknownPublished
	}
	replacer := strings.NewReplacer(
		"{{title}}", video.Title,
		"{{description}}", video.Description,
		"{{published}}", published,
		"{{transcript_section}}", TranscriptSection(video.Transcript),
	)
	return replacer.Replace(template)
}
