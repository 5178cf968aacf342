package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func textResponse(text string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"stop_reason": "end_turn",
		"content": []any{
			map[string]any{"type": "text", "text": text},
		},
	}
}

func TestClientCompleteSendsHeadersAndSystemBlock(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test" {
			t.Errorf("unexpected api key header %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != DefaultAPIVersion {
			t.Errorf("unexpected version header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(textResponse("  reasoning then {\"amendments\":[]}  "))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	text, err := client.Complete(context.Background(), Prompt{
		Instructions:      "shared rules",
		CacheInstructions: true,
		User:              "video data",
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != `reasoning then {"amendments":[]}` {
		t.Fatalf("unexpected text %q", text)
	}
	if captured.Model != "demo-model" || captured.MaxTokens != DefaultMaxTokens {
		t.Fatalf("unexpected model/max tokens: %+v", captured)
	}
	if len(captured.System) != 1 || captured.System[0].Text != "shared rules" {
		t.Fatalf("unexpected system blocks: %+v", captured.System)
	}
	if captured.System[0].CacheControl == nil || captured.System[0].CacheControl.Type != "ephemeral" {
		t.Fatalf("expected ephemeral cache control, got %+v", captured.System[0].CacheControl)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" || captured.Messages[0].Content != "video data" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
}

func TestClientCompleteWithoutInstructionsOmitsSystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := raw["system"]; ok {
			t.Errorf("expected no system field, got %v", raw["system"])
		}
		_ = json.NewEncoder(w).Encode(textResponse("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if _, err := client.Complete(context.Background(), Prompt{User: "single message"}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
}

func TestClientCompleteJoinsTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"content": []any{
				map[string]any{"type": "text", "text": "part one "},
				map[string]any{"type": "tool_use", "id": "x"},
				map[string]any{"type": "text", "text": "part two"},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	text, err := client.Complete(context.Background(), Prompt{User: "u"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "part one part two" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestClientCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Complete(context.Background(), Prompt{User: "u"})
	if err == nil || !strings.Contains(err.Error(), "api key required") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MaxTokens != 1 {
			t.Errorf("expected max_tokens=1, got %d", req.MaxTokens)
		}
		_ = json.NewEncoder(w).Encode(textResponse("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	err := client.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("expected health check to fail")
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}

func TestClientEmptyContentHasSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"stop_reason": "max_tokens",
			"content":     []any{},
		})
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.Complete(context.Background(), Prompt{User: "u"})
	if err == nil {
		t.Fatal("expected complete to fail")
	}
	if !strings.Contains(err.Error(), "empty content") || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected empty-content error to include snippet, got %v", err)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(textResponse(`{"amendments":["FIRST"]}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	text, err := client.Complete(context.Background(), Prompt{User: "u"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if !strings.Contains(text, "FIRST") {
		t.Fatalf("unexpected text %q", text)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientRetriesOnOverloaded(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(statusOverloaded)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(textResponse("done"))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(time.Second, 10*time.Second),
	)
	if _, err := client.Complete(context.Background(), Prompt{User: "u"}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("expected exponential backoff 1s,2s, got %v", slept)
	}
}

func TestClientDoesNotRetryBadRequest(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"prompt is too long"}}`))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.Complete(context.Background(), Prompt{User: "u"})
	if err == nil || !strings.Contains(err.Error(), "http 400") {
		t.Fatalf("expected http 400 error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestClientSleepHonoursContext(t *testing.T) {
	client := NewClient(Config{APIKey: "test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, expected := range want {
		if got := client.backoffDelay(i + 1); got != expected {
			t.Fatalf("attempt %d: got %s want %s", i+1, got, expected)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("unexpected %s %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("negative seconds must be rejected")
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("garbage must be rejected")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://example.test/"})
	if client.cfg.BaseURL != "https://example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", client.cfg.BaseURL)
	}
	if client.Model() != DefaultModel {
		t.Fatalf("unexpected default model %q", client.Model())
	}
	if client.cfg.MaxTokens != DefaultMaxTokens || client.cfg.APIVersion != DefaultAPIVersion {
		t.Fatalf("unexpected defaults %+v", client.cfg)
	}
}
