package pipeline

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"atlasmeta/internal/extract"
	"atlasmeta/internal/logging"
	"atlasmeta/internal/metadata"
	"atlasmeta/internal/prompt"
	"atlasmeta/internal/services/llm"
	"atlasmeta/internal/transcript"
)

// DefaultPollInterval is the wait between batch status checks.
const DefaultPollInterval = 60 * time.Second

// Source fetches video facts and, when asked, the raw caption payload.
type Source interface {
	FetchVideo(ctx context.Context, url string, withCaptions bool) (metadata.VideoRecord, *transcript.Payload, error)
}

// Completer answers one prompt synchronously.
type Completer interface {
	Complete(ctx context.Context, p llm.Prompt) (string, error)
}

// BatchService runs prompts as an asynchronous message batch.
type BatchService interface {
	CreateBatch(ctx context.Context, requests []llm.BatchRequest) (llm.Batch, error)
	RetrieveBatch(ctx context.Context, id string) (llm.Batch, error)
	BatchResults(ctx context.Context, batch llm.Batch) iter.Seq2[llm.BatchResult, error]
}

// Service is the inference service as used by both pipelines.
type Service interface {
	Completer
	BatchService
}

// Outcome holds the records produced by a run and the items that failed.
type Outcome struct {
	Records []metadata.OutputRecord
	Errors  []*ItemError
}

func (o *Outcome) fail(err *ItemError) {
	o.Errors = append(o.Errors, err)
}

// Runner executes the single-item and batch pipelines.
type Runner struct {
	source            Source
	service           Service
	logger            *slog.Logger
	includeTranscript bool
	pollInterval      time.Duration
	wait              func(context.Context, time.Duration) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for progress and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTranscripts controls whether captions are requested from the source.
func WithTranscripts(include bool) Option {
	return func(r *Runner) {
		r.includeTranscript = include
	}
}

// WithPollInterval overrides the batch status polling interval.
func WithPollInterval(interval time.Duration) Option {
	return func(r *Runner) {
		if interval > 0 {
			r.pollInterval = interval
		}
	}
}

// WithWait replaces the cancellation-aware wait used between polls.
func WithWait(wait func(context.Context, time.Duration) error) Option {
	return func(r *Runner) {
		if wait != nil {
			r.wait = wait
		}
	}
}

// NewRunner builds a Runner around a video source and inference service.
func NewRunner(source Source, service Service, opts ...Option) *Runner {
	r := &Runner{
		source:            source,
		service:           service,
		logger:            logging.NewNop(),
		includeTranscript: true,
		pollInterval:      DefaultPollInterval,
		wait:              sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "pipeline")
	return r
}

// RunSequential processes urls one after another. Failures are collected in
// the outcome; only context cancellation stops the run early.
func (r *Runner) RunSequential(ctx context.Context, urls []string) (Outcome, error) {
	var outcome Outcome
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		itemCtx := logging.WithURL(ctx, url)
		r.logger.InfoContext(itemCtx, "processing video",
			logging.String("progress", progressLabel(i+1, len(urls))),
		)
		record, err := r.ProcessURL(itemCtx, url)
		if err != nil {
			var itemErr *ItemError
			if !errors.As(err, &itemErr) {
				itemErr = &ItemError{URL: url, Err: err}
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return outcome, ctxErr
			}
			r.logger.ErrorContext(itemCtx, "video failed",
				logging.Error(itemErr),
				logging.String(logging.FieldEventType, "item_failed"),
				logging.String("kind", string(itemErr.Kind)),
			)
			outcome.fail(itemErr)
			continue
		}
		r.logger.InfoContext(itemCtx, "metadata extracted", logging.String("title", record.Title))
		outcome.Records = append(outcome.Records, record)
	}
	return outcome, nil
}

// ProcessURL runs the single-item pipeline for url. Any failure is returned
// as an *ItemError.
func (r *Runner) ProcessURL(ctx context.Context, url string) (metadata.OutputRecord, error) {
	video, err := r.fetchVideo(ctx, url)
	if err != nil {
		return metadata.OutputRecord{}, &ItemError{URL: url, Kind: KindFetch, Err: err}
	}

	raw, err := r.service.Complete(ctx, llm.Prompt{User: prompt.Single(video)})
	if err != nil {
		return metadata.OutputRecord{}, &ItemError{URL: url, Kind: KindService, Err: err}
	}

	result, err := extract.Parse(raw)
	if err != nil {
		r.logger.DebugContext(ctx, "unparseable model response", logging.String("raw_response", raw))
		return metadata.OutputRecord{}, &ItemError{URL: url, Kind: KindParse, Err: err, Raw: raw}
	}
	return metadata.BuildOutputRecord(url, video, result), nil
}

// fetchVideo loads the video and attaches its normalized transcript.
func (r *Runner) fetchVideo(ctx context.Context, url string) (metadata.VideoRecord, error) {
	video, payload, err := r.source.FetchVideo(ctx, url, r.includeTranscript)
	if err != nil {
		return metadata.VideoRecord{}, err
	}
	if payload != nil {
		video.Transcript = transcript.Normalize(payload)
	}
	if r.includeTranscript && !video.HasTranscript() {
		logging.WarnWithContext(r.logger.With(logging.Args(logging.ContextFields(ctx)...)...),
			"no transcript available",
			"transcript_missing",
			logging.String(logging.FieldImpact, "extraction uses title and description only"),
			logging.String(logging.FieldErrorHint, "check that the video has captions or pass cookies for restricted videos"),
		)
	}
	return video, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
