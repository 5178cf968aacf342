package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atlasmeta/internal/metadata"
)

func record(url, title string) metadata.OutputRecord {
	return metadata.OutputRecord{
		YouTubeURL: url,
		Title:      title,
		ExtractionResult: metadata.ExtractionResult{
			Amendments:   []metadata.Amendment{},
			Participants: []metadata.Participant{},
		},
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "videos.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`[{"youtubeUrl":"old"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Write(context.Background(), path, []metadata.OutputRecord{record("https://youtu.be/a", "A & B")}, false)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if res.Existing != 0 || res.Added != 1 || res.Total() != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "[\n  {\n    \"youtubeUrl\": \"https://youtu.be/a\"") {
		t.Fatalf("unexpected layout:\n%s", text)
	}
	if !strings.HasSuffix(text, "]\n") {
		t.Fatalf("expected trailing newline, got %q", text[len(text)-3:])
	}
	if !strings.Contains(text, `"A & B"`) {
		t.Fatalf("expected unescaped ampersand, got:\n%s", text)
	}
	if strings.Contains(text, "old") {
		t.Fatal("overwrite kept old entries")
	}
}

func TestWriteAppendKeepsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	existing := `[{"youtubeUrl":"https://youtu.be/old","reviewed":true}]`
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Write(context.Background(), path, []metadata.OutputRecord{record("https://youtu.be/new", "New")}, true)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if res.Existing != 1 || res.Added != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	var got []map[string]any
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0]["reviewed"] != true {
		t.Fatalf("unknown field lost: %v", got[0])
	}
	if got[1]["youtubeUrl"] != "https://youtu.be/new" {
		t.Fatalf("new record not appended last: %v", got[1])
	}
}

func TestWriteAppendMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	res, err := Write(context.Background(), path, []metadata.OutputRecord{record("u", "t")}, true)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if res.Existing != 0 || res.Added != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestWriteAppendRejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	original := `{"youtubeUrl":"x"}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Write(context.Background(), path, []metadata.OutputRecord{record("u", "t")}, true)
	if !errors.Is(err, ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Fatalf("file modified on failure: %q", data)
	}
}

func TestWriteAppendRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	if err := os.WriteFile(path, []byte(`[{"broken"`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Write(context.Background(), path, nil, true)
	if err == nil || !strings.Contains(err.Error(), "failed to parse existing file") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestWriteEmptyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	if _, err := Write(context.Background(), path, nil, false); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestEncodeNilRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("unexpected encoding %q", buf.String())
	}
}
