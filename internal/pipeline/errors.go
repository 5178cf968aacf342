package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies why an item produced no record.
type Kind string

const (
	KindFetch    Kind = "fetch"
	KindService  Kind = "service"
	KindParse    Kind = "parse"
	KindExpired  Kind = "expired"
	KindCanceled Kind = "canceled"
	KindMissing  Kind = "missing"
	KindUnknown  Kind = "unknown"
)

// ErrNoUsableVideos is wrapped by RunBatch when every metadata fetch failed.
var ErrNoUsableVideos = errors.New("no usable videos")

// ItemError records the failure of a single URL. Raw keeps the model output
// for parse failures.
type ItemError struct {
	URL  string
	Kind Kind
	Err  error
	Raw  string
}

func (e *ItemError) Error() string {
	switch e.Kind {
	case KindFetch:
		return fmt.Sprintf("failed to fetch YouTube metadata for %s: %v", e.URL, e.Err)
	case KindService:
		return fmt.Sprintf("API error for %s: %v", e.URL, e.Err)
	case KindParse:
		return fmt.Sprintf("failed to parse response for %s: %v", e.URL, e.Err)
	case KindExpired:
		return fmt.Sprintf("request expired for %s", e.URL)
	case KindCanceled:
		return fmt.Sprintf("request canceled for %s", e.URL)
	case KindMissing:
		return fmt.Sprintf("no result returned for %s", e.URL)
	case KindUnknown:
		return fmt.Sprintf("result for unknown request %s", e.URL)
	default:
		return fmt.Sprintf("failed to process %s: %v", e.URL, e.Err)
	}
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ExitCode maps a run's tallies onto the process exit status: failure only
// when errors occurred and nothing new was produced.
func ExitCode(newRecords, errorCount int) int {
	if errorCount > 0 && newRecords == 0 {
		return 1
	}
	return 0
}
