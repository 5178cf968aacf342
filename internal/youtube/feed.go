package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"atlasmeta/internal/logging"
)

// DefaultFeedBaseURL is the host serving channel RSS feeds.
const DefaultFeedBaseURL = "https://www.youtube.com"

var channelIDPattern = regexp.MustCompile(`/channel/(UC[0-9A-Za-z_-]{22})`)

// FeedLister lists recent channel uploads from the channel's RSS feed. The
// feed carries no durations, so the duration filter can only drop entries
// that link to the Shorts player.
type FeedLister struct {
	parser  *gofeed.Parser
	baseURL string
	logger  *slog.Logger
}

// FeedOption customizes a FeedLister.
type FeedOption func(*FeedLister)

// WithFeedBaseURL overrides the feed host (useful for tests).
func WithFeedBaseURL(baseURL string) FeedOption {
	return func(l *FeedLister) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			l.baseURL = trimmed
		}
	}
}

// WithFeedHTTPClient overrides the HTTP client used to fetch feeds.
func WithFeedHTTPClient(client *http.Client) FeedOption {
	return func(l *FeedLister) {
		if client != nil {
			l.parser.Client = client
		}
	}
}

// WithFeedLogger attaches a logger.
func WithFeedLogger(logger *slog.Logger) FeedOption {
	return func(l *FeedLister) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewFeedLister constructs a FeedLister.
func NewFeedLister(opts ...FeedOption) *FeedLister {
	lister := &FeedLister{
		parser:  gofeed.NewParser(),
		baseURL: DefaultFeedBaseURL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(lister)
	}
	lister.logger = logging.NewComponentLogger(lister.logger, "youtube-feed")
	return lister
}

// FeedURL returns the RSS feed URL for a normalized channel URL. Only
// channel-id URLs can be mapped; handles need yt-dlp to resolve.
func (l *FeedLister) FeedURL(channelURL string) (string, error) {
	if strings.Contains(channelURL, "/feeds/videos.xml") {
		return channelURL, nil
	}
	match := channelIDPattern.FindStringSubmatch(channelURL)
	if match == nil {
		return "", fmt.Errorf("feed source needs a UC channel id, got %s", channelURL)
	}
	return l.baseURL + "/feeds/videos.xml?channel_id=" + match[1], nil
}

// ListChannel lists channel videos from the RSS feed.
func (l *FeedLister) ListChannel(ctx context.Context, channelURL string, opts ListOptions) ([]ChannelVideo, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	feedURL, err := l.FeedURL(channelURL)
	if err != nil {
		return nil, err
	}
	after, before, err := dateBounds(opts)
	if err != nil {
		return nil, err
	}
	if opts.MinDuration > 0 {
		l.logger.Warn("feed entries carry no duration; only Shorts links are filtered",
			logging.Int("min_duration", opts.MinDuration),
		)
	}

	feed, err := l.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel feed: %w", err)
	}

	videos := make([]ChannelVideo, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if opts.MinDuration > 0 && strings.Contains(link, "/shorts/") {
			continue
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		if !withinBounds(published, after, before) {
			continue
		}
		uploadDate := ""
		if !published.IsZero() {
			uploadDate = published.Format("20060102")
		}
		videos = append(videos, ChannelVideo{
			URL:        link,
			Title:      item.Title,
			UploadDate: uploadDate,
		})
		if opts.MaxResults > 0 && len(videos) >= opts.MaxResults {
			break
		}
	}
	return videos, nil
}

func dateBounds(opts ListOptions) (time.Time, time.Time, error) {
	var after, before time.Time
	var err error
	if opts.After != "" {
		if after, err = ParseDate(opts.After); err != nil {
			return after, before, err
		}
	}
	if opts.Before != "" {
		if before, err = ParseDate(opts.Before); err != nil {
			return after, before, err
		}
		before = before.AddDate(0, 0, 1)
	}
	return after, before, nil
}

// withinBounds treats before as exclusive (it is already advanced one day).
// Entries without a publish time pass only when no bound is set.
func withinBounds(published, after, before time.Time) bool {
	if after.IsZero() && before.IsZero() {
		return true
	}
	if published.IsZero() {
		return false
	}
	if !after.IsZero() && published.Before(after) {
		return false
	}
	if !before.IsZero() && !published.Before(before) {
		return false
	}
	return true
}
