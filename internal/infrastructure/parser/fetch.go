package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/scanner"
)

const (
	defaultUserAgent      = "NewsPortal/1.0"
	defaultRequestTimeout = 10 * time.Second
	summaryRuneLimit      = 100
)

// HTTPOptions configures the outbound client shared by HTML scanners.
type HTTPOptions struct {
	Client    *http.Client
	UserAgent string
}

func (o HTTPOptions) withDefaults() HTTPOptions {
	if o.Client == nil {
		o.Client = &http.Client{Timeout: defaultRequestTimeout}
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

func fetchDocument(ctx context.Context, opts HTTPOptions, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// absoluteURL resolves ref against base; empty or unparsable refs yield "".
func absoluteURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() || base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

func summarize(title string) string {
	if utf8.RuneCountInString(title) <= summaryRuneLimit {
		return title
	}
	return string([]rune(title)[:summaryRuneLimit]) + "..."
}

// newCandidate applies the shared title threshold and text templates.
// ok is false when the title is too short to be a headline.
func newCandidate(req scanner.Request, title, link, image string) (domain.Candidate, bool) {
	title = collapseSpace(title)
	if utf8.RuneCountInString(title) <= req.MinTitleLength {
		return domain.Candidate{}, false
	}

	body := title
	if req.ContentPrefix != "" {
		body = req.ContentPrefix + ": " + title
	}

	source := req.DisplayName
	if source == "" {
		source = req.SiteName
	}

	return domain.Candidate{
		Title:       title,
		BodyText:    body,
		SummaryText: summarize(title),
		SourceName:  source,
		SourceURL:   link,
		ImageURL:    image,
	}, true
}

// collapseSpace joins the text fragments of a title with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
