package metadata

import "strings"

// Amendment is a constitutional-rights category an encounter is classified against.
type Amendment string

const (
	AmendmentFirst      Amendment = "FIRST"
	AmendmentSecond     Amendment = "SECOND"
	AmendmentFourth     Amendment = "FOURTH"
	AmendmentFifth      Amendment = "FIFTH"
	AmendmentFourteenth Amendment = "FOURTEENTH"
)

// Amendments lists every valid amendment code in canonical order.
var Amendments = []Amendment{
	AmendmentFirst,
	AmendmentSecond,
	AmendmentFourth,
	AmendmentFifth,
	AmendmentFourteenth,
}

// Participant is a category of non-publisher actor in an encounter.
type Participant string

const (
	ParticipantPolice     Participant = "POLICE"
	ParticipantGovernment Participant = "GOVERNMENT"
	ParticipantBusiness   Participant = "BUSINESS"
	ParticipantSecurity   Participant = "SECURITY"
	ParticipantCitizen    Participant = "CITIZEN"
)

// Participants lists every valid participant code in canonical order.
var Participants = []Participant{
	ParticipantPolice,
	ParticipantGovernment,
	ParticipantBusiness,
	ParticipantSecurity,
	ParticipantCitizen,
}

// ParseAmendment maps a loosely formatted code to a known Amendment.
func ParseAmendment(value string) (Amendment, bool) {
	code := Amendment(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range Amendments {
		if code == known {
			return known, true
		}
	}
	return "", false
}

// ParseParticipant maps a loosely formatted code to a known Participant.
func ParseParticipant(value string) (Participant, bool) {
	code := Participant(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range Participants {
		if code == known {
			return known, true
		}
	}
	return "", false
}

// VideoRecord holds the per-video facts gathered from the video source.
// Empty strings mean the source did not provide the value.
type VideoRecord struct {
	URL             string
	Title           string
	Description     string
	ChannelName     string
	ThumbnailURL    string
	DurationSeconds *int
	Published       string
	Transcript      string
}

// HasTranscript reports whether a normalized transcript is attached.
func (v VideoRecord) HasTranscript() bool {
	return strings.TrimSpace(v.Transcript) != ""
}

// Location is where an encounter took place. Every field is independently nullable.
type Location struct {
	Name          *string  `json:"name"`
	StreetAddress *string  `json:"streetAddress"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// Confidence holds per-field certainty scores in [0, 1]. Absent scores decode as 0.
type Confidence struct {
	Amendments   float64 `json:"amendments"`
	Participants float64 `json:"participants"`
	VideoDate    float64 `json:"videoDate"`
	Location     float64 `json:"location"`
}

// ExtractionResult is the structured payload returned by the model.
type ExtractionResult struct {
	Amendments   []Amendment   `json:"amendments"`
	Participants []Participant `json:"participants"`
	VideoDate    *string       `json:"videoDate"`
	Location     *Location     `json:"location"`
	Confidence   Confidence    `json:"confidence"`
}

// OutputRecord is the persisted record: video facts plus the normalized extraction.
type OutputRecord struct {
	YouTubeURL      string  `json:"youtubeUrl"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ChannelName     string  `json:"channelName"`
	ThumbnailURL    *string `json:"thumbnailUrl"`
	DurationSeconds *int    `json:"durationSeconds"`
	ExtractionResult
}
