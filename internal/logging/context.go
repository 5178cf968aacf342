package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one invocation of the tool.
	FieldRunID = "run_id"
	// FieldURL is the video URL a log line concerns.
	FieldURL = "url"
	// FieldBatchID is the provider's message batch identifier.
	FieldBatchID = "batch_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step when something went wrong.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out.
	FieldAlert = "alert"
)

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	urlKey     contextKey = "url"
	batchIDKey contextKey = "batch_id"
)

// WithRunID annotates ctx with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return withString(ctx, runIDKey, id)
}

// WithURL annotates ctx with the video URL being processed.
func WithURL(ctx context.Context, url string) context.Context {
	return withString(ctx, urlKey, url)
}

// WithBatchID annotates ctx with a message batch identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	return withString(ctx, batchIDKey, id)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// ContextFields extracts standardized slog attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringFromContext(ctx, runIDKey); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if url, ok := stringFromContext(ctx, urlKey); ok {
		fields = append(fields, slog.String(FieldURL, url))
	}
	if id, ok := stringFromContext(ctx, batchIDKey); ok {
		fields = append(fields, slog.String(FieldBatchID, id))
	}
	return fields
}
