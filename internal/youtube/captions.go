package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"atlasmeta/internal/transcript"
)

// maxCaptionBytes bounds a caption download.
const maxCaptionBytes = 16 << 20

var errEmptyCaption = errors.New("caption request: empty body")

// captionPayload returns the caption track for the configured language.
// A missing track is not an error: it yields a nil payload.
func (c *Client) captionPayload(ctx context.Context, info videoInfo) (*transcript.Payload, error) {
	track := info.RequestedSubtitles[c.cfg.SubtitleLanguage]
	if track == nil {
		return nil, nil
	}
	format := transcript.ParseFormat(track.Ext)
	if track.Data != "" {
		return &transcript.Payload{Data: track.Data, Format: format}, nil
	}
	if strings.TrimSpace(track.URL) == "" {
		return nil, nil
	}
	data, err := c.downloadCaption(ctx, track.URL)
	if err != nil {
		return nil, err
	}
	return &transcript.Payload{Data: data, Format: format}, nil
}

func (c *Client) downloadCaption(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CaptionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("caption request: http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		return "", fmt.Errorf("caption request: read body: %w", err)
	}
	if len(body) == 0 {
		return "", errEmptyCaption
	}
	return strings.ToValidUTF8(string(body), "\uFFFD"), nil
}
