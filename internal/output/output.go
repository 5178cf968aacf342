package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"

	"atlasmeta/internal/fileutil"
	"atlasmeta/internal/metadata"
)

const (
	fileMode       = 0o644
	lockRetryDelay = 100 * time.Millisecond
)

// ErrNotArray is returned when an append target holds JSON that is not an array.
var ErrNotArray = errors.New("does not contain a JSON array")

// Result reports how many elements a write kept and added.
type Result struct {
	Existing int
	Added    int
}

// Total is the number of elements in the written array.
func (r Result) Total() int {
	return r.Existing + r.Added
}

// Write stores records at path. With appendMode the array already at path is
// loaded first and the new records are placed after it; a missing file counts
// as an empty array. The file is left untouched when loading fails.
func Write(ctx context.Context, path string, records []metadata.OutputRecord, appendMode bool) (Result, error) {
	if path == "" {
		return Result{}, errors.New("output path is required")
	}
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return Result{}, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return Result{}, fmt.Errorf("lock %s: not acquired", path)
	}
	defer func() { _ = lock.Unlock() }()

	var existing []json.RawMessage
	if appendMode {
		existing, err = Load(path)
		if err != nil {
			return Result{}, err
		}
	}

	elements := make([]any, 0, len(existing)+len(records))
	for _, raw := range existing {
		elements = append(elements, raw)
	}
	for _, record := range records {
		elements = append(elements, record)
	}

	var buf bytes.Buffer
	if err := encode(&buf, elements); err != nil {
		return Result{}, err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), fileMode); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Result{Existing: len(existing), Added: len(records)}, nil
}

// Load reads the JSON array stored at path. A missing or blank file yields an
// empty slice.
func Load(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read existing file %s: %w", path, err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		var probe any
		err := json.Unmarshal(trimmed, &probe)
		return nil, fmt.Errorf("failed to parse existing file %s: %w", path, err)
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("existing file %s %w", path, ErrNotArray)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("failed to parse existing file %s: %w", path, err)
	}
	return elements, nil
}

// Encode writes records to w as an indented JSON array followed by a newline.
func Encode(w io.Writer, records []metadata.OutputRecord) error {
	if records == nil {
		records = []metadata.OutputRecord{}
	}
	return encode(w, records)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
