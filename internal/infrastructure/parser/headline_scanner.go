package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/scanner"
)

const (
	headlineSelector = "h1, h2, h3, h4, a"
	// OptionReadability enables full-body extraction of each linked story.
	OptionReadability = "readability"
)

var redundantNewLines = regexp.MustCompile(`\n{3,}`)

// HeadlineScanner finds headline blocks on a landing page by class keyword.
type HeadlineScanner struct {
	http   HTTPOptions
	logger *slog.Logger
}

// NewHeadlineScanner wires an HTTP client; nil values fall back to defaults.
func NewHeadlineScanner(opts HTTPOptions, logger *slog.Logger) *HeadlineScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeadlineScanner{http: opts.withDefaults(), logger: logger}
}

// Name identifies the strategy inside the registry.
func (h *HeadlineScanner) Name() string {
	return "headline"
}

// Scan fetches the landing page and converts up to req.Limit matching blocks into candidates.
func (h *HeadlineScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	base, err := url.Parse(req.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", req.BaseURL)
	}

	doc, err := fetchDocument(ctx, h.http, req.BaseURL)
	if err != nil {
		return nil, err
	}

	blocks := matchBlocks(doc, req.Keywords, req.Limit)
	withBody := req.Options[OptionReadability] == "true"

	candidates := make([]domain.Candidate, 0, len(blocks))
	for _, block := range blocks {
		candidate, ok := extractCandidate(block, base, req)
		if !ok {
			continue
		}
		if withBody && candidate.SourceURL != "" {
			if text, err := h.readBody(ctx, candidate.SourceURL); err != nil {
				h.logger.Debug("readability extraction failed", "site", req.SiteName, "url", candidate.SourceURL, "error", err)
			} else if text != "" {
				candidate.BodyText = candidate.BodyText + "\n\n" + text
			}
		}
		candidates = append(candidates, candidate)
	}

	h.logger.Debug("headline scan done", "site", req.SiteName, "blocks", len(blocks), "candidates", len(candidates))
	return candidates, nil
}

// matchBlocks returns div/article elements whose class attribute contains any keyword, in document order.
func matchBlocks(doc *goquery.Document, keywords []string, limit int) []*goquery.Selection {
	var blocks []*goquery.Selection
	doc.Find("div, article").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(blocks) >= limit {
			return false
		}
		class, ok := sel.Attr("class")
		if !ok || class == "" {
			return true
		}
		class = strings.ToLower(class)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(class, strings.ToLower(kw)) {
				blocks = append(blocks, sel)
				break
			}
		}
		return true
	})
	return blocks
}

func extractCandidate(block *goquery.Selection, base *url.URL, req scanner.Request) (domain.Candidate, bool) {
	titleNode := block.Find(headlineSelector).First()
	if titleNode.Length() == 0 {
		return domain.Candidate{}, false
	}

	title := titleNode.Text()

	var link string
	if goquery.NodeName(titleNode) == "a" {
		href, _ := titleNode.Attr("href")
		link = absoluteURL(base, href)
	}

	var image string
	if src, ok := block.Find("img").First().Attr("src"); ok {
		image = absoluteURL(base, src)
	}

	return newCandidate(req, title, link, image)
}

func (h *HeadlineScanner) readBody(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.http.UserAgent)

	resp, err := h.http.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request story: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("story returned %s", resp.Status)
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("extract story: %w", err)
	}

	return strings.TrimSpace(redundantNewLines.ReplaceAllString(article.TextContent, "\n")), nil
}
