package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlasmeta/internal/preflight"
)

func TestDoctorReportsChecks(t *testing.T) {
	env := setupCLI(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"type":"message","content":[{"type":"text","text":"ok"}]}`)
	}))
	defer srv.Close()

	cfgPath := env.writeFile(t, "atlasmeta.toml", fmt.Sprintf(
		"[llm]\napi_key = \"test-key\"\nbase_url = %q\n\n[youtube]\nytdlp_binary = \"atlasmeta-missing-ytdlp\"\n", srv.URL))

	stdout, stderr, code := env.run(t, "--config", cfgPath, "doctor")
	if code != 1 {
		t.Fatalf("expected exit 1 for missing yt-dlp, got %d", code)
	}
	requireContains(t, stdout, "== Settings ==")
	requireContains(t, stdout, "== Checks ==")
	if !containsLine(stdout, "yt-dlp:", "[ERROR]") {
		t.Fatalf("expected yt-dlp error line in\n%s", stdout)
	}
	if !containsLine(stdout, "Inference service:", "[OK]") {
		t.Fatalf("expected inference service ok line in\n%s", stdout)
	}
	requireContains(t, stderr, "1 check(s) failed: yt-dlp")
}

func TestDoctorSkipLLM(t *testing.T) {
	env := setupCLI(t)
	cfgPath := env.writeFile(t, "atlasmeta.toml", "[youtube]\nytdlp_binary = \"atlasmeta-missing-ytdlp\"\n")

	stdout, _, _ := env.run(t, "--config", cfgPath, "doctor", "--skip-llm")
	if strings.Contains(stdout, "Inference service") {
		t.Fatalf("inference check should be skipped:\n%s", stdout)
	}
}

func containsLine(output string, parts ...string) bool {
	for line := range strings.SplitSeq(output, "\n") {
		matched := true
		for _, part := range parts {
			if !strings.Contains(line, part) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("yt-dlp", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "yt-dlp:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Output file", statusOK, "writable", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestCheckLines(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "yt-dlp", Passed: true, Detail: "/usr/bin/yt-dlp"},
		{Name: "Cookies file", Passed: false, Optional: true, Detail: "missing"},
		{Name: "Inference service", Passed: false, Detail: "authentication failed (http 401)"},
	}, false)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"[OK] /usr/bin/yt-dlp", "[WARN] missing", "[ERROR] authentication failed"} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "only") || !strings.Contains(out, "╭") {
		t.Fatalf("unexpected table %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
