package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMinDuration drops Shorts (60 seconds or less) from channel listings.
const DefaultMinDuration = 61

// overFetchFactor compensates for entries removed by the duration filter.
const overFetchFactor = 3

const dateLayout = "2006-01-02"

var channelTabSuffixes = []string{"/videos", "/shorts", "/streams", "/playlists", "/community"}

// ListOptions filters a channel listing. Dates are inclusive and use
// YYYY-MM-DD; zero values disable the corresponding filter.
type ListOptions struct {
	MaxResults  int
	After       string
	Before      string
	MinDuration int
}

// Validate checks the date filters.
func (o ListOptions) Validate() error {
	if o.MaxResults < 0 {
		return fmt.Errorf("max results must not be negative, got %d", o.MaxResults)
	}
	for _, check := range []struct{ flag, value string }{{"--after", o.After}, {"--before", o.Before}} {
		if check.value == "" {
			continue
		}
		if _, err := ParseDate(check.value); err != nil {
			return fmt.Errorf("%s must be in YYYY-MM-DD format, got: %s", check.flag, check.value)
		}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(value))
}

// ChannelVideo is one entry of a channel listing.
type ChannelVideo struct {
	URL             string
	Title           string
	DurationSeconds int
	UploadDate      string
}

// Lister lists the videos of a channel.
type Lister interface {
	ListChannel(ctx context.Context, channelURL string, opts ListOptions) ([]ChannelVideo, error)
}

// NormalizeChannelURL turns a channel URL, @handle, UC channel id or bare
// handle into the channel's /videos URL.
func NormalizeChannelURL(channel string) (string, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return "", errors.New("channel is required")
	}
	if strings.HasPrefix(channel, "http://") || strings.HasPrefix(channel, "https://") {
		url := strings.TrimRight(channel, "/")
		for _, suffix := range channelTabSuffixes {
			if strings.HasSuffix(url, suffix) {
				url = strings.TrimSuffix(url, suffix)
				break
			}
		}
		return url + "/videos", nil
	}
	if strings.HasPrefix(channel, "@") {
		return "https://www.youtube.com/" + channel + "/videos", nil
	}
	if isChannelID(channel) {
		return "https://www.youtube.com/channel/" + channel + "/videos", nil
	}
	return "https://www.youtube.com/@" + channel + "/videos", nil
}

func isChannelID(value string) bool {
	return strings.HasPrefix(value, "UC") && len(value) == 24
}

type channelInfo struct {
	Entries []*channelEntry `json:"entries"`
}

type channelEntry struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	WebpageURL string   `json:"webpage_url"`
	Title      string   `json:"title"`
	Duration   *float64 `json:"duration"`
	UploadDate string   `json:"upload_date"`
}

// ListChannel lists channel videos through yt-dlp.
func (c *Client) ListChannel(ctx context.Context, channelURL string, opts ListOptions) ([]ChannelVideo, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	args := []string{"-J", "--skip-download", "--ignore-errors", "--no-warnings"}
	if opts.After != "" {
		args = append(args, "--dateafter", compactDate(opts.After))
	}
	if opts.Before != "" {
		args = append(args, "--datebefore", compactDate(opts.Before))
	}
	if opts.MaxResults > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(opts.MaxResults*overFetchFactor))
	}
	args = c.appendCookies(args)
	args = append(args, "--", channelURL)

	c.logger.Info("fetching channel videos", "channel_url", channelURL)
	out, err := c.run(ctx, c.cfg.Binary, args...)
	if err != nil {
		return nil, err
	}
	var info channelInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp: decode channel info: %w", err)
	}
	return selectEntries(info.Entries, opts), nil
}

// selectEntries applies the duration filter, rebuilds non-watch URLs and
// stops at MaxResults.
func selectEntries(entries []*channelEntry, opts ListOptions) []ChannelVideo {
	videos := make([]ChannelVideo, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		duration := 0
		if rounded := roundDuration(entry.Duration); rounded != nil {
			duration = *rounded
		}
		if duration < opts.MinDuration {
			continue
		}
		url := firstNonEmpty(entry.WebpageURL, entry.URL)
		if url == "" {
			continue
		}
		if id := strings.TrimSpace(entry.ID); id != "" && !strings.Contains(url, "watch?v=") {
			url = WatchURL(id)
		}
		videos = append(videos, ChannelVideo{
			URL:             url,
			Title:           entry.Title,
			DurationSeconds: duration,
			UploadDate:      entry.UploadDate,
		})
		if opts.MaxResults > 0 && len(videos) >= opts.MaxResults {
			break
		}
	}
	return videos
}

// WatchURL builds the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func compactDate(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), "-", "")
}

// FormatURLList renders videos one URL per line under a comment header, in
// the shape accepted by extract --file.
func FormatURLList(videos []ChannelVideo, channel string, fetched time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Channel: %s\n", channel)
	fmt.Fprintf(&b, "# Fetched: %s\n", fetched.Format(dateLayout))
	fmt.Fprintf(&b, "# Count: %d\n", len(videos))
	for _, video := range videos {
		b.WriteString(video.URL)
		b.WriteByte('\n')
	}
	return b.String()
}
