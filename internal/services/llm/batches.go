package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
)

// Batch processing states reported by the service.
const (
	BatchStatusInProgress = "in_progress"
	BatchStatusCanceling  = "canceling"
	BatchStatusEnded      = "ended"
)

// Per-request terminal outcomes inside an ended batch.
const (
	ResultSucceeded = "succeeded"
	ResultErrored   = "errored"
	ResultExpired   = "expired"
	ResultCanceled  = "canceled"
)

// results lines carry whole model responses; allow well beyond the default
// bufio token size.
const maxResultLineBytes = 32 << 20

// BatchRequest is one item of a batch job.
type BatchRequest struct {
	CustomID string
	Prompt   Prompt
}

// RequestCounts tallies batch items per processing bucket.
type RequestCounts struct {
	Processing int `json:"processing"`
	Succeeded  int `json:"succeeded"`
	Errored    int `json:"errored"`
	Canceled   int `json:"canceled"`
	Expired    int `json:"expired"`
}

// Total returns the number of items across all buckets.
func (r RequestCounts) Total() int {
	return r.Processing + r.Succeeded + r.Errored + r.Canceled + r.Expired
}

// Batch is the job handle returned by create and retrieve calls.
type Batch struct {
	ID               string        `json:"id"`
	Type             string        `json:"type"`
	ProcessingStatus string        `json:"processing_status"`
	RequestCounts    RequestCounts `json:"request_counts"`
	ResultsURL       string        `json:"results_url"`
	CreatedAt        string        `json:"created_at"`
	EndedAt          string        `json:"ended_at"`
	ExpiresAt        string        `json:"expires_at"`
}

// Ended reports whether the batch reached its terminal state.
func (b Batch) Ended() bool {
	return b.ProcessingStatus == BatchStatusEnded
}

// BatchResult is one decoded line of a batch results document.
type BatchResult struct {
	CustomID     string
	Type         string
	Text         string
	StopReason   string
	ErrorType    string
	ErrorMessage string
}

type batchCreateRequest struct {
	Requests []batchRequestItem `json:"requests"`
}

type batchRequestItem struct {
	CustomID string          `json:"custom_id"`
	Params   messagesRequest `json:"params"`
}

type batchResultLine struct {
	CustomID string `json:"custom_id"`
	Result   struct {
		Type    string           `json:"type"`
		Message messagesResponse `json:"message"`
		Error   *apiError        `json:"error"`
	} `json:"result"`
}

// CreateBatch submits requests as one batch job.
func (c *Client) CreateBatch(ctx context.Context, requests []BatchRequest) (Batch, error) {
	var batch Batch
	if len(requests) == 0 {
		return batch, errors.New("llm batch create: no requests")
	}
	if c.cfg.APIKey == "" {
		return batch, errors.New("llm batch create: api key required")
	}
	payload := batchCreateRequest{Requests: make([]batchRequestItem, 0, len(requests))}
	for _, request := range requests {
		if strings.TrimSpace(request.CustomID) == "" {
			return batch, errors.New("llm batch create: custom id required")
		}
		if strings.TrimSpace(request.Prompt.User) == "" {
			return batch, fmt.Errorf("llm batch create: user prompt required for %s", request.CustomID)
		}
		payload.Requests = append(payload.Requests, batchRequestItem{
			CustomID: request.CustomID,
			Params:   c.buildRequest(request.Prompt, c.cfg.MaxTokens),
		})
	}
	err := c.withRetry(ctx, "llm batch create", func() error {
		body, err := c.sendOnce(ctx, http.MethodPost, c.endpoint("v1", "messages", "batches"), payload)
		if err != nil {
			return err
		}
		return decodeBatch(body, &batch)
	})
	return batch, err
}

// RetrieveBatch fetches the current status of a batch job.
func (c *Client) RetrieveBatch(ctx context.Context, id string) (Batch, error) {
	var batch Batch
	id = strings.TrimSpace(id)
	if id == "" {
		return batch, errors.New("llm batch retrieve: batch id required")
	}
	err := c.withRetry(ctx, "llm batch retrieve", func() error {
		body, err := c.sendOnce(ctx, http.MethodGet, c.endpoint("v1", "messages", "batches", id), nil)
		if err != nil {
			return err
		}
		return decodeBatch(body, &batch)
	})
	return batch, err
}

func decodeBatch(body []byte, batch *Batch) error {
	if err := json.Unmarshal(body, batch); err != nil {
		return fmt.Errorf("llm request: decode batch: %w", err)
	}
	if strings.TrimSpace(batch.ID) == "" {
		return fmt.Errorf("llm request: batch response missing id (response_snippet=%s)", summarizePayloadSnippet(string(body)))
	}
	return nil
}

// BatchResults streams the results document of an ended batch. Each line is
// yielded as it is decoded; a line that cannot be decoded yields an error and
// iteration continues. Failing to open the document yields a single error.
func (c *Client) BatchResults(ctx context.Context, batch Batch) iter.Seq2[BatchResult, error] {
	return func(yield func(BatchResult, error) bool) {
		endpoint := strings.TrimSpace(batch.ResultsURL)
		if endpoint == "" {
			endpoint = c.endpoint("v1", "messages", "batches", batch.ID, "results")
		}
		body, err := c.openResults(ctx, endpoint)
		if err != nil {
			yield(BatchResult{}, err)
			return
		}
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxResultLineBytes)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var entry batchResultLine
			if err := json.Unmarshal(line, &entry); err != nil {
				if !yield(BatchResult{}, fmt.Errorf("llm batch results: decode line: %w (line_snippet=%s)", err, summarizePayloadSnippet(string(line)))) {
					return
				}
				continue
			}
			if !yield(entry.toResult(), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(BatchResult{}, fmt.Errorf("llm batch results: read stream: %w", err))
		}
	}
}

func (l batchResultLine) toResult() BatchResult {
	result := BatchResult{
		CustomID: strings.TrimSpace(l.CustomID),
		Type:     strings.TrimSpace(l.Result.Type),
	}
	switch result.Type {
	case ResultSucceeded:
		result.Text = responseText(l.Result.Message)
		result.StopReason = l.Result.Message.StopReason
	case ResultErrored:
		result.ErrorType, result.ErrorMessage = l.Result.Error.describe()
	}
	return result
}

func (c *Client) openResults(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	var stream io.ReadCloser
	err := c.withRetry(ctx, "llm batch results", func() error {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.streamClient().Do(req)
		if err != nil {
			return fmt.Errorf("llm request: http error: %w", err)
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return statusError(resp, body)
		}
		stream = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// streamClient drops the whole-request timeout so a large results document
// is bounded by ctx instead.
func (c *Client) streamClient() *http.Client {
	clone := *c.httpClient
	clone.Timeout = 0
	return &clone
}
