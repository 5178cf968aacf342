package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"atlasmeta/internal/extract"
	"atlasmeta/internal/logging"
	"atlasmeta/internal/metadata"
	"atlasmeta/internal/prompt"
	"atlasmeta/internal/services/llm"
)

// maxPollFailures bounds consecutive status lookups that fail after the
// client's own retries.
const maxPollFailures = 5

// CustomID derives the wire identifier for url. Batch ids are limited to
// [A-Za-z0-9_-]{1,64}, which URLs are not, so a name-based UUID stands in.
func CustomID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

type batchItem struct {
	url      string
	customID string
	video    metadata.VideoRecord
}

// batchJob carries one batch run through collect, submit, poll and drain.
type batchJob struct {
	runner  *Runner
	items   []batchItem
	byID    map[string]int
	batch   llm.Batch
	records map[int]metadata.OutputRecord
	outcome Outcome
}

// RunBatch processes urls through a single message batch. Duplicate URLs are
// submitted once. When no URL yields metadata the returned error wraps
// ErrNoUsableVideos and the outcome lists the fetch failures. Cancelling ctx
// stops the poll wait and returns the context error.
func (r *Runner) RunBatch(ctx context.Context, urls []string) (Outcome, error) {
	job := &batchJob{
		runner:  r,
		byID:    make(map[string]int, len(urls)),
		records: make(map[int]metadata.OutputRecord, len(urls)),
	}

	if err := job.collect(ctx, urls); err != nil {
		return job.outcome, err
	}
	if len(job.items) == 0 {
		return job.outcome, fmt.Errorf("failed to fetch metadata for all %d URLs: %w", len(urls), ErrNoUsableVideos)
	}
	if err := job.submit(ctx); err != nil {
		return job.outcome, err
	}
	if job.batch.ID == "" {
		// submission failed; every item is already recorded
		return job.outcome, nil
	}

	ctx = logging.WithBatchID(ctx, job.batch.ID)
	if err := job.poll(ctx); err != nil {
		return job.outcome, err
	}
	if err := job.drain(ctx); err != nil {
		return job.outcome, err
	}
	return job.outcome, nil
}

func (j *batchJob) collect(ctx context.Context, urls []string) error {
	logger := j.runner.logger
	seen := make(map[string]struct{}, len(urls))
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		itemCtx := logging.WithURL(ctx, url)
		if _, dup := seen[url]; dup {
			logger.WarnContext(itemCtx, "duplicate URL skipped",
				logging.String(logging.FieldEventType, "duplicate_url"),
				logging.String(logging.FieldImpact, "the video is submitted once"),
			)
			continue
		}
		seen[url] = struct{}{}

		logger.InfoContext(itemCtx, "fetching metadata", logging.String("progress", progressLabel(i+1, len(urls))))
		video, err := j.runner.fetchVideo(itemCtx, url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			itemErr := &ItemError{URL: url, Kind: KindFetch, Err: err}
			logger.ErrorContext(itemCtx, "metadata fetch failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "fetch_failed"),
				logging.String(logging.FieldImpact, "video left out of the batch"),
			)
			j.outcome.fail(itemErr)
			continue
		}
		id := CustomID(url)
		j.byID[id] = len(j.items)
		j.items = append(j.items, batchItem{url: url, customID: id, video: video})
	}
	return nil
}

func (j *batchJob) submit(ctx context.Context) error {
	instructions := prompt.Instructions()
	requests := make([]llm.BatchRequest, 0, len(j.items))
	for _, item := range j.items {
		requests = append(requests, llm.BatchRequest{
			CustomID: item.customID,
			Prompt: llm.Prompt{
				Instructions:      instructions,
				CacheInstructions: true,
				User:              prompt.Item(item.video),
			},
		})
	}

	j.runner.logger.InfoContext(ctx, "submitting batch", logging.Int("requests", len(requests)))
	batch, err := j.runner.service.CreateBatch(ctx, requests)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		j.runner.logger.ErrorContext(ctx, "batch submission failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "batch_submit_failed"),
			logging.String(logging.FieldErrorHint, "check the API key and model name"),
		)
		for _, item := range j.items {
			j.outcome.fail(&ItemError{URL: item.url, Kind: KindService, Err: err})
		}
		return nil
	}
	if batch.ID == "" {
		return errors.New("batch create: response has no batch id")
	}
	j.batch = batch
	j.runner.logger.InfoContext(logging.WithBatchID(ctx, batch.ID), "batch created",
		logging.String("status", batch.ProcessingStatus),
	)
	return nil
}

func (j *batchJob) poll(ctx context.Context) error {
	logger := j.runner.logger
	started := time.Now()
	failures := 0
	for !j.batch.Ended() {
		logger.InfoContext(ctx, "batch in progress", countAttrs(j.batch.RequestCounts)...)
		if err := j.runner.wait(ctx, j.runner.pollInterval); err != nil {
			return fmt.Errorf("batch %s: %w", j.batch.ID, err)
		}
		batch, err := j.runner.service.RetrieveBatch(ctx, j.batch.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("batch %s: %w", j.batch.ID, ctxErr)
			}
			failures++
			logging.WarnWithContext(logger, "batch status lookup failed", "batch_poll_failed",
				logging.Error(err),
				logging.String(logging.FieldBatchID, j.batch.ID),
				logging.Int("attempt", failures),
				logging.String(logging.FieldImpact, "polling continues with the last known status"),
			)
			if failures >= maxPollFailures {
				return fmt.Errorf("poll batch %s: %w", j.batch.ID, err)
			}
			continue
		}
		failures = 0
		j.batch = batch
	}
	attrs := countAttrs(j.batch.RequestCounts)
	attrs = append(attrs, logging.Duration("elapsed", time.Since(started).Round(time.Second)))
	logger.InfoContext(ctx, "batch complete", attrs...)
	return nil
}

func (j *batchJob) drain(ctx context.Context) error {
	logger := j.runner.logger
	seen := make(map[int]bool, len(j.items))
	for result, err := range j.runner.service.BatchResults(ctx, j.batch) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("batch %s results: %w", j.batch.ID, ctxErr)
			}
			logging.WarnWithContext(logger, "batch result unreadable", "batch_result_invalid",
				logging.Error(err),
				logging.String(logging.FieldBatchID, j.batch.ID),
				logging.String(logging.FieldImpact, "affected videos are reported as missing"),
			)
			continue
		}

		idx, ok := j.byID[result.CustomID]
		if !ok {
			j.outcome.fail(&ItemError{URL: result.CustomID, Kind: KindUnknown})
			continue
		}
		if seen[idx] {
			logger.WarnContext(ctx, "duplicate batch result ignored", logging.String("custom_id", result.CustomID))
			continue
		}
		seen[idx] = true
		j.record(ctx, j.items[idx], idx, result)
	}

	for idx, item := range j.items {
		if !seen[idx] {
			j.outcome.fail(&ItemError{URL: item.url, Kind: KindMissing})
		}
	}
	for idx := range j.items {
		if record, ok := j.records[idx]; ok {
			j.outcome.Records = append(j.outcome.Records, record)
		}
	}
	return nil
}

// record files one batch result under exactly one of records or errors.
func (j *batchJob) record(ctx context.Context, item batchItem, idx int, result llm.BatchResult) {
	itemCtx := logging.WithURL(ctx, item.url)
	switch result.Type {
	case llm.ResultSucceeded:
		parsed, err := extract.Parse(result.Text)
		if err != nil {
			j.outcome.fail(&ItemError{URL: item.url, Kind: KindParse, Err: err, Raw: result.Text})
			return
		}
		j.records[idx] = metadata.BuildOutputRecord(item.url, item.video, parsed)
		j.runner.logger.InfoContext(itemCtx, "processed", logging.String("title", item.video.Title))
	case llm.ResultErrored:
		j.outcome.fail(&ItemError{URL: item.url, Kind: KindService, Err: errors.New(resultErrorMessage(result))})
	case llm.ResultExpired:
		j.outcome.fail(&ItemError{URL: item.url, Kind: KindExpired})
	case llm.ResultCanceled:
		j.outcome.fail(&ItemError{URL: item.url, Kind: KindCanceled})
	default:
		j.outcome.fail(&ItemError{URL: item.url, Kind: KindService, Err: fmt.Errorf("unexpected result type %q", result.Type)})
	}
}

func resultErrorMessage(result llm.BatchResult) string {
	switch {
	case result.ErrorMessage != "":
		return result.ErrorMessage
	case result.ErrorType != "":
		return result.ErrorType
	default:
		return "request failed without a message"
	}
}

func countAttrs(counts llm.RequestCounts) []any {
	return logging.Args(
		logging.Int("succeeded", counts.Succeeded),
		logging.Int("errored", counts.Errored),
		logging.Int("processing", counts.Processing),
		logging.Int("expired", counts.Expired),
		logging.Int("canceled", counts.Canceled),
	)
}

func progressLabel(current, total int) string {
	return strconv.Itoa(current) + "/" + strconv.Itoa(total)
}
