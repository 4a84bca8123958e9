package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/scanner"
)

// FeedScanner reads breaking headlines from an RSS or Atom feed.
type FeedScanner struct {
	http   HTTPOptions
	logger *slog.Logger
}

// NewFeedScanner wires an HTTP client; nil values fall back to defaults.
func NewFeedScanner(opts HTTPOptions, logger *slog.Logger) *FeedScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedScanner{http: opts.withDefaults(), logger: logger}
}

// Name identifies the strategy inside the registry.
func (f *FeedScanner) Name() string {
	return "rss"
}

// Scan parses the feed at req.BaseURL and returns up to req.Limit candidates.
func (f *FeedScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	base, err := url.Parse(req.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid feed url %q", req.BaseURL)
	}

	fp := gofeed.NewParser()
	fp.Client = f.http.Client
	fp.UserAgent = f.http.UserAgent

	feed, err := fp.ParseURLWithContext(req.BaseURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if req.Limit > 0 && len(candidates) >= req.Limit {
			break
		}
		if item == nil {
			continue
		}
		candidate, ok := newCandidate(req, item.Title, absoluteURL(base, item.Link), feedImage(base, item))
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	f.logger.Debug("feed scan done", "site", req.SiteName, "items", len(feed.Items), "candidates", len(candidates))
	return candidates, nil
}

func feedImage(base *url.URL, item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return absoluteURL(base, item.Image.URL)
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return absoluteURL(base, enc.URL)
		}
	}
	return ""
}
