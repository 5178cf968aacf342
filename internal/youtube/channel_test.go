package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNormalizeChannelURL(t *testing.T) {
	cases := map[string]string{
		"@AuditTheAudit":                                 "https://www.youtube.com/@AuditTheAudit/videos",
		"AuditTheAudit":                                  "https://www.youtube.com/@AuditTheAudit/videos",
		"UCwobzUc3z-0PrFpoRxNszXQ":                       "https://www.youtube.com/channel/UCwobzUc3z-0PrFpoRxNszXQ/videos",
		"https://www.youtube.com/@AuditTheAudit":         "https://www.youtube.com/@AuditTheAudit/videos",
		"https://www.youtube.com/@AuditTheAudit/shorts/": "https://www.youtube.com/@AuditTheAudit/videos",
		"https://www.youtube.com/@AuditTheAudit/videos":  "https://www.youtube.com/@AuditTheAudit/videos",
		"  https://www.youtube.com/c/Name/streams ":      "https://www.youtube.com/c/Name/videos",
	}
	for input, want := range cases {
		got, err := NormalizeChannelURL(input)
		if err != nil {
			t.Fatalf("NormalizeChannelURL(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeChannelURL(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := NormalizeChannelURL("  "); err == nil {
		t.Fatal("expected error for empty channel")
	}
}

func TestListOptionsValidate(t *testing.T) {
	if err := (ListOptions{After: "2024-01-01", Before: "2025-01-01"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := (ListOptions{After: "20240101"}).Validate()
	if err == nil || !strings.Contains(err.Error(), "--after must be in YYYY-MM-DD format") {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (ListOptions{Before: "2024-13-01"}).Validate(); err == nil {
		t.Fatal("expected invalid month to fail")
	}
	if err := (ListOptions{MaxResults: -1}).Validate(); err == nil {
		t.Fatal("expected negative max results to fail")
	}
}

func TestListChannelFiltersAndLimits(t *testing.T) {
	info := `{"entries":[
		{"id":"short1","webpage_url":"https://www.youtube.com/shorts/short1","duration":45},
		null,
		{"id":"long1","url":"https://www.youtube.com/watch?v=long1","duration":600,"title":"One","upload_date":"20240301"},
		{"id":"noduration","webpage_url":"https://www.youtube.com/watch?v=noduration"},
		{"id":"long2","webpage_url":"https://www.youtube.com/@x/videos","duration":61},
		{"id":"","duration":900},
		{"id":"long3","webpage_url":"https://www.youtube.com/watch?v=long3","duration":1200}
	]}`
	var calls []recordedCall
	client := NewClient(Config{}, WithRunner(fakeRunner(info, nil, &calls)))

	videos, err := client.ListChannel(context.Background(), "https://www.youtube.com/@x/videos", ListOptions{
		MaxResults:  2,
		After:       "2024-01-01",
		Before:      "2024-12-31",
		MinDuration: DefaultMinDuration,
	})
	if err != nil {
		t.Fatalf("ListChannel returned error: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %+v", videos)
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=long1" || videos[0].Title != "One" {
		t.Fatalf("unexpected first video %+v", videos[0])
	}
	if videos[1].URL != "https://www.youtube.com/watch?v=long2" {
		t.Fatalf("expected rebuilt watch url, got %q", videos[1].URL)
	}

	args := strings.Join(calls[0].args, " ")
	for _, want := range []string{"--dateafter 20240101", "--datebefore 20241231", "--playlist-end 6", "--ignore-errors"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in %s", want, args)
		}
	}
}

func TestListChannelRejectsBadDates(t *testing.T) {
	var calls []recordedCall
	client := NewClient(Config{}, WithRunner(fakeRunner("{}", nil, &calls)))
	if _, err := client.ListChannel(context.Background(), "u", ListOptions{After: "yesterday"}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(calls) != 0 {
		t.Fatal("yt-dlp must not run when validation fails")
	}
}

func TestFormatURLList(t *testing.T) {
	videos := []ChannelVideo{
		{URL: "https://www.youtube.com/watch?v=a"},
		{URL: "https://www.youtube.com/watch?v=b"},
	}
	got := FormatURLList(videos, "@Audit", time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC))
	want := "# Channel: @Audit\n# Fetched: 2025-03-09\n# Count: 2\nhttps://www.youtube.com/watch?v=a\nhttps://www.youtube.com/watch?v=b\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>Audit Channel</title>
  <entry>
    <yt:videoId>v3</yt:videoId>
    <title>Newest</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=v3"/>
    <published>2025-02-10T15:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>s1</yt:videoId>
    <title>A short</title>
    <link rel="alternate" href="https://www.youtube.com/shorts/s1"/>
    <published>2025-02-05T15:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>v2</yt:videoId>
    <title>Middle</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=v2"/>
    <published>2025-01-31T23:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>v1</yt:videoId>
    <title>Oldest</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=v1"/>
    <published>2024-12-01T10:00:00+00:00</published>
  </entry>
</feed>`

func TestFeedListerFiltersByDateAndShorts(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.String()
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer server.Close()

	lister := NewFeedLister(WithFeedBaseURL(server.URL), WithFeedHTTPClient(server.Client()))
	videos, err := lister.ListChannel(context.Background(),
		"https://www.youtube.com/channel/UCwobzUc3z-0PrFpoRxNszXQ/videos",
		ListOptions{After: "2025-01-01", Before: "2025-01-31", MinDuration: DefaultMinDuration},
	)
	if err != nil {
		t.Fatalf("ListChannel returned error: %v", err)
	}
	if requested != "/feeds/videos.xml?channel_id=UCwobzUc3z-0PrFpoRxNszXQ" {
		t.Fatalf("unexpected feed request %q", requested)
	}
	if len(videos) != 1 || videos[0].URL != "https://www.youtube.com/watch?v=v2" {
		t.Fatalf("unexpected videos %+v", videos)
	}
	if videos[0].UploadDate != "20250131" {
		t.Fatalf("unexpected upload date %q", videos[0].UploadDate)
	}
}

func TestFeedListerLimitAndNoDurationFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer server.Close()

	lister := NewFeedLister(WithFeedBaseURL(server.URL), WithFeedHTTPClient(server.Client()))
	videos, err := lister.ListChannel(context.Background(),
		server.URL+"/feeds/videos.xml?channel_id=UCwobzUc3z-0PrFpoRxNszXQ",
		ListOptions{MaxResults: 2},
	)
	if err != nil {
		t.Fatalf("ListChannel returned error: %v", err)
	}
	if len(videos) != 2 || videos[1].URL != "https://www.youtube.com/shorts/s1" {
		t.Fatalf("unexpected videos %+v", videos)
	}
}

func TestFeedListerNeedsChannelID(t *testing.T) {
	lister := NewFeedLister()
	_, err := lister.ListChannel(context.Background(), "https://www.youtube.com/@handle/videos", ListOptions{})
	if err == nil || !strings.Contains(err.Error(), "UC channel id") {
		t.Fatalf("expected channel id error, got %v", err)
	}
}
