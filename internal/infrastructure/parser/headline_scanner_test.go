package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsPortal/internal/scanner"
)

const landingPage = `
<html><body>
  <div class="menu"><a href="/x">Menu item that is long enough</a></div>
  <div class="Breaking-News">
    <img src="/img/one.jpg">
    <a href="/story/1">ঢাকায় বড় ধরনের অগ্নিকাণ্ডে হতাহত</a>
  </div>
  <article class="latest-card">
    <h3>ছোট</h3>
  </article>
  <div class="urgent">
    <h2>সংসদে নতুন বাজেট পাস হয়েছে আজ</h2>
    <img src="https://cdn.example.org/two.jpg">
  </div>
  <div class="latest">
    <h2>Fourth matching block beyond the limit</h2>
  </div>
</body></html>`

func newLandingServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func somoyRequest(baseURL string) scanner.Request {
	return scanner.Request{
		SiteName:       "somoy",
		DisplayName:    "সময় টিভি",
		BaseURL:        baseURL + "/bangla",
		Keywords:       []string{"breaking", "urgent", "latest"},
		Limit:          3,
		MinTitleLength: 10,
		ContentPrefix:  "সময় টিভি থেকে প্রাপ্ত ব্রেকিং নিউজ",
	}
}

func TestHeadlineScannerScan(t *testing.T) {
	t.Parallel()

	server := newLandingServer(t, landingPage, http.StatusOK)
	sc := NewHeadlineScanner(HTTPOptions{Client: server.Client(), UserAgent: "test-agent"}, nil)

	got, err := sc.Scan(context.Background(), somoyRequest(server.URL))
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	// three blocks match, the short title is dropped
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	first := got[0]
	if first.Title != "ঢাকায় বড় ধরনের অগ্নিকাণ্ডে হতাহত" {
		t.Fatalf("unexpected title: %s", first.Title)
	}
	if first.SourceURL != server.URL+"/story/1" {
		t.Fatalf("unexpected source url: %s", first.SourceURL)
	}
	if first.ImageURL != server.URL+"/img/one.jpg" {
		t.Fatalf("unexpected image url: %s", first.ImageURL)
	}
	if first.SourceName != "সময় টিভি" {
		t.Fatalf("unexpected source: %s", first.SourceName)
	}
	if first.BodyText != "সময় টিভি থেকে প্রাপ্ত ব্রেকিং নিউজ: "+first.Title {
		t.Fatalf("unexpected body: %s", first.BodyText)
	}

	second := got[1]
	if second.SourceURL != "" {
		t.Fatalf("heading titles carry no link, got %s", second.SourceURL)
	}
	if second.ImageURL != "https://cdn.example.org/two.jpg" {
		t.Fatalf("unexpected image url: %s", second.ImageURL)
	}
}

func TestHeadlineScannerNon200(t *testing.T) {
	t.Parallel()

	server := newLandingServer(t, landingPage, http.StatusServiceUnavailable)
	sc := NewHeadlineScanner(HTTPOptions{Client: server.Client(), UserAgent: "test-agent"}, nil)

	got, err := sc.Scan(context.Background(), somoyRequest(server.URL))
	if err == nil {
		t.Fatalf("expected error for non-200 response")
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestHeadlineScannerNoMarkup(t *testing.T) {
	t.Parallel()

	server := newLandingServer(t, "<html><body><p>nothing</p></body></html>", http.StatusOK)
	sc := NewHeadlineScanner(HTTPOptions{Client: server.Client(), UserAgent: "test-agent"}, nil)

	got, err := sc.Scan(context.Background(), somoyRequest(server.URL))
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	short := strings.Repeat("ক", 100)
	if summarize(short) != short {
		t.Fatalf("title at the limit must be kept verbatim")
	}

	long := strings.Repeat("ক", 101)
	want := strings.Repeat("ক", 100) + "..."
	if got := summarize(long); got != want {
		t.Fatalf("unexpected summary: %s", got)
	}
}

func TestNewCandidateTitleThreshold(t *testing.T) {
	t.Parallel()

	req := scanner.Request{SiteName: "site", MinTitleLength: 10}

	// ten Bengali runes are thirty bytes but still too short
	if _, ok := newCandidate(req, strings.Repeat("খ", 10), "", ""); ok {
		t.Fatalf("title of exactly 10 runes must be rejected")
	}
	c, ok := newCandidate(req, "  "+strings.Repeat("খ", 11)+"  ", "", "")
	if !ok {
		t.Fatalf("title of 11 runes must be accepted")
	}
	if c.SourceName != "site" || c.BodyText != c.Title {
		t.Fatalf("unexpected fallbacks: %+v", c)
	}
}

const spannedHeadlinePage = `
<html><body>
  <div class="breaking-card">
    <a href="/story/9">
      <span>ঢাকায় বড়</span>
      <span>ঘটনা ঘটেছে আজ</span>
    </a>
  </div>
</body></html>`

func TestHeadlineScannerCollapsesMarkupWhitespace(t *testing.T) {
	t.Parallel()

	server := newLandingServer(t, spannedHeadlinePage, http.StatusOK)
	sc := NewHeadlineScanner(HTTPOptions{Client: server.Client(), UserAgent: "test-agent"}, nil)

	got, err := sc.Scan(context.Background(), somoyRequest(server.URL))
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Title != "ঢাকায় বড় ঘটনা ঘটেছে আজ" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
	if got[0].SourceURL != server.URL+"/story/9" {
		t.Fatalf("unexpected source url: %s", got[0].SourceURL)
	}
}
