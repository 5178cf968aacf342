package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"atlasmeta/internal/logging"
	"atlasmeta/internal/metadata"
	"atlasmeta/internal/transcript"
)

const (
	DefaultBinary           = "yt-dlp"
	DefaultSubtitleLanguage = "en"
	DefaultCaptionTimeout   = 15 * time.Second

	captionFormat = "json3"
)

// Runner executes a command and returns its stdout. Errors should carry the
// trimmed stderr.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Config captures the yt-dlp settings.
type Config struct {
	Binary           string
	SubtitleLanguage string
	CaptionTimeout   time.Duration
	CookiesPath      string
}

// Client fetches video facts and caption payloads through yt-dlp.
type Client struct {
	cfg        Config
	run        Runner
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithRunner overrides how yt-dlp is executed (useful for tests).
func WithRunner(run Runner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// WithHTTPClient overrides the client used to download caption payloads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.Binary = strings.TrimSpace(cfg.Binary)
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	cfg.SubtitleLanguage = strings.TrimSpace(cfg.SubtitleLanguage)
	if cfg.SubtitleLanguage == "" {
		cfg.SubtitleLanguage = DefaultSubtitleLanguage
	}
	if cfg.CaptionTimeout <= 0 {
		cfg.CaptionTimeout = DefaultCaptionTimeout
	}
	cfg.CookiesPath = strings.TrimSpace(cfg.CookiesPath)
	client := &Client{
		cfg:        cfg,
		run:        defaultRunner,
		httpClient: &http.Client{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "youtube")
	return client
}

// FetchVideo returns the video facts for url. When withCaptions is set the
// caption track for the configured language is returned as well; caption
// failures are logged and yield a nil payload rather than an error.
func (c *Client) FetchVideo(ctx context.Context, url string, withCaptions bool) (metadata.VideoRecord, *transcript.Payload, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return metadata.VideoRecord{}, nil, errors.New("yt-dlp: video url required")
	}
	args := []string{"-J", "--skip-download", "--no-playlist", "--no-warnings"}
	if withCaptions {
		args = append(args,
			"--write-subs",
			"--write-auto-subs",
			"--sub-langs", c.cfg.SubtitleLanguage,
			"--sub-format", captionFormat,
		)
	}
	args = c.appendCookies(args)
	args = append(args, "--", url)

	out, err := c.run(ctx, c.cfg.Binary, args...)
	if err != nil {
		return metadata.VideoRecord{}, nil, err
	}
	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return metadata.VideoRecord{}, nil, fmt.Errorf("yt-dlp: decode video info: %w", err)
	}
	record := info.record(url)
	if !withCaptions {
		return record, nil, nil
	}
	payload, err := c.captionPayload(ctx, info)
	if err != nil {
		c.logger.Warn("caption download failed",
			logging.String(logging.FieldURL, url),
			logging.Error(err),
		)
		return record, nil, nil
	}
	return record, payload, nil
}

func (c *Client) appendCookies(args []string) []string {
	if c.cfg.CookiesPath == "" {
		return args
	}
	return append(args, "--cookies", c.cfg.CookiesPath)
}

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, errors.New("yt-dlp returned empty output")
	}
	return stdout.Bytes(), nil
}
