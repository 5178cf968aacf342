package youtube

import (
	"math"
	"strings"

	"atlasmeta/internal/metadata"
)

type videoInfo struct {
	ID                 string                    `json:"id"`
	WebpageURL         string                    `json:"webpage_url"`
	URL                string                    `json:"url"`
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	Channel            string                    `json:"channel"`
	Uploader           string                    `json:"uploader"`
	Duration           *float64                  `json:"duration"`
	UploadDate         string                    `json:"upload_date"`
	Thumbnail          string                    `json:"thumbnail"`
	Thumbnails         []Thumbnail               `json:"thumbnails"`
	RequestedSubtitles map[string]*subtitleTrack `json:"requested_subtitles"`
}

type subtitleTrack struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Data string `json:"data"`
}

// Thumbnail is one thumbnail candidate reported by yt-dlp.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (i videoInfo) record(requestedURL string) metadata.VideoRecord {
	record := metadata.VideoRecord{
		URL:          firstNonEmpty(i.WebpageURL, requestedURL),
		Title:        i.Title,
		Description:  i.Description,
		ChannelName:  firstNonEmpty(i.Channel, i.Uploader),
		ThumbnailURL: PickThumbnail(i.Thumbnails, i.Thumbnail),
		Published:    strings.TrimSpace(i.UploadDate),
	}
	record.DurationSeconds = roundDuration(i.Duration)
	return record
}

func roundDuration(value *float64) *int {
	if value == nil || *value < 0 || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil
	}
	seconds := int(math.Round(*value))
	return &seconds
}

// PickThumbnail ranks thumbnail candidates: a maxresdefault image first,
// then hqdefault or sddefault, then the largest width×height among
// candidates that report a width, and finally fallback.
func PickThumbnail(candidates []Thumbnail, fallback string) string {
	fallback = strings.TrimSpace(fallback)
	if len(candidates) == 0 {
		return fallback
	}
	for _, candidate := range candidates {
		if strings.Contains(candidate.URL, "maxresdefault") {
			return candidate.URL
		}
	}
	for _, candidate := range candidates {
		if strings.Contains(candidate.URL, "hqdefault") || strings.Contains(candidate.URL, "sddefault") {
			return candidate.URL
		}
	}
	best := -1
	bestArea := -1
	for idx, candidate := range candidates {
		if candidate.Width <= 0 {
			continue
		}
		area := candidate.Width * candidate.Height
		if area > bestArea {
			best = idx
			bestArea = area
		}
	}
	if best >= 0 && strings.TrimSpace(candidates[best].URL) != "" {
		return candidates[best].URL
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
