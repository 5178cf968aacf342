package main

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"atlasmeta/internal/config"
	"atlasmeta/internal/metadata"
	"atlasmeta/internal/pipeline"
	"atlasmeta/internal/services/llm"
	"atlasmeta/internal/transcript"
	"atlasmeta/internal/youtube"
)

const validResponse = "<analysis>lobby audit</analysis>\n```json\n" +
	`{"amendments":["FIRST"],"participants":["GOVERNMENT"],"videoDate":"2024-01-15",` +
	`"location":{"city":"Springfield","state":"IL"},` +
	`"confidence":{"amendments":0.9,"participants":0.8,"videoDate":0.7,"location":0.6}}` +
	"\n```"

type fakeSource struct {
	fail  map[string]error
	calls []string
}

func (f *fakeSource) FetchVideo(_ context.Context, url string, _ bool) (metadata.VideoRecord, *transcript.Payload, error) {
	f.calls = append(f.calls, url)
	if err := f.fail[url]; err != nil {
		return metadata.VideoRecord{}, nil, err
	}
	return metadata.VideoRecord{URL: url, Title: "Title " + url, ChannelName: "Channel"}, nil, nil
}

type fakeService struct {
	completions int
	created     []llm.BatchRequest
}

func (f *fakeService) Complete(context.Context, llm.Prompt) (string, error) {
	f.completions++
	return validResponse, nil
}

func (f *fakeService) CreateBatch(_ context.Context, requests []llm.BatchRequest) (llm.Batch, error) {
	f.created = requests
	return llm.Batch{ID: "msgbatch_cli", ProcessingStatus: llm.BatchStatusInProgress}, nil
}

func (f *fakeService) RetrieveBatch(_ context.Context, id string) (llm.Batch, error) {
	return llm.Batch{ID: id, ProcessingStatus: llm.BatchStatusEnded, RequestCounts: llm.RequestCounts{Succeeded: len(f.created)}}, nil
}

func (f *fakeService) BatchResults(context.Context, llm.Batch) iter.Seq2[llm.BatchResult, error] {
	return func(yield func(llm.BatchResult, error) bool) {
		for _, request := range f.created {
			if !yield(llm.BatchResult{CustomID: request.CustomID, Type: llm.ResultSucceeded, Text: validResponse}, nil) {
				return
			}
		}
	}
}

type fakeLister struct {
	videos []youtube.ChannelVideo
	calls  int
	opts   youtube.ListOptions
	url    string
	source string
}

func (f *fakeLister) ListChannel(_ context.Context, channelURL string, opts youtube.ListOptions) ([]youtube.ChannelVideo, error) {
	f.calls++
	f.url = channelURL
	f.opts = opts
	return f.videos, nil
}

type cliEnv struct {
	source  *fakeSource
	service *fakeService
	lister  *fakeLister
	dir     string
}

// setupCLI isolates HOME, the working directory and credentials, and wires
// fakes in place of yt-dlp and the inference service.
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")
	os.Unsetenv("ANTHROPIC_API_KEY")
	t.Setenv("ANTHROPIC_BASE_URL", "")
	os.Unsetenv("ANTHROPIC_BASE_URL")
	dir := t.TempDir()
	t.Chdir(dir)
	return &cliEnv{
		source:  &fakeSource{fail: map[string]error{}},
		service: &fakeService{},
		lister:  &fakeLister{},
		dir:     dir,
	}
}

func (e *cliEnv) factory() serviceFactory {
	return serviceFactory{
		source:  func(*config.Config, *slog.Logger) pipeline.Source { return e.source },
		service: func(*config.Config) pipeline.Service { return e.service },
		lister: func(_ *config.Config, source string, _ *slog.Logger) (youtube.Lister, error) {
			e.lister.source = source
			return e.lister, nil
		},
		runnerOptions: []pipeline.Option{
			pipeline.WithWait(func(context.Context, time.Duration) error { return nil }),
		},
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cctx := newCommandContext()
	cctx.factory = e.factory()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), newRootCommandWith(cctx), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (e *cliEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRunMapsErrorsToExitCodes(t *testing.T) {
	setupCLI(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), newRootCommand(), []string{"no-such-command"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr.String(), "Error: unknown command")
}

func TestExitErrorMessage(t *testing.T) {
	err := error(&exitError{code: 1})
	if got := fmt.Sprint(err); got != "exit status 1" {
		t.Fatalf("unexpected message %q", got)
	}
}
