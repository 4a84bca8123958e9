package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsPortal/internal/scanner"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Test</title>
  <item>
    <title>চট্টগ্রাম বন্দরে নতুন টার্মিনাল উদ্বোধন</title>
    <link>/news/42</link>
    <enclosure url="https://cdn.example.org/42.jpg" type="image/jpeg" length="1"/>
  </item>
  <item><title>ছোট</title><link>/news/43</link></item>
  <item><title>রাজশাহীতে আমের বাম্পার ফলন হয়েছে</title><link>https://other.example.org/44</link></item>
  <item><title>Beyond the configured limit headline</title></item>
</channel></rss>`

func TestFeedScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	sc := NewFeedScanner(HTTPOptions{Client: server.Client()}, nil)
	got, err := sc.Scan(context.Background(), scanner.Request{
		SiteName:       "feed",
		BaseURL:        server.URL + "/rss.xml",
		Limit:          2,
		MinTitleLength: 10,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].SourceURL != server.URL+"/news/42" {
		t.Fatalf("unexpected link: %s", got[0].SourceURL)
	}
	if got[0].ImageURL != "https://cdn.example.org/42.jpg" {
		t.Fatalf("unexpected image: %s", got[0].ImageURL)
	}
	if got[1].SourceURL != "https://other.example.org/44" {
		t.Fatalf("unexpected link: %s", got[1].SourceURL)
	}
}

func TestFeedScannerBrokenFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	sc := NewFeedScanner(HTTPOptions{Client: server.Client()}, nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{SiteName: "feed", BaseURL: server.URL}); err == nil {
		t.Fatalf("expected error")
	}
}
