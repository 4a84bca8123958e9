package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

const (
	editionPerCategory   = 5
	editionContentRunes  = 500
	editionKeyDateLayout = "2006_01_02"
)

// Edition is a rendered daily newspaper.
type Edition struct {
	Filename string
	PDF      []byte
}

type editionSection struct {
	Category string
	Articles []domain.Article
}

type editionPage struct {
	Date          string
	TotalArticles int
	Sections      []editionSection
	Year          int
}

// EditionService renders the latest articles of every category as a PDF.
type EditionService struct {
	store    ports.ArticleStore
	renderer ports.PDFRenderer
	cache    ports.EditionCache
	ttl      time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewEditionService builds the edition use case; cache may be nil.
func NewEditionService(store ports.ArticleStore, renderer ports.PDFRenderer, cache ports.EditionCache, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) *EditionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EditionService{store: store, renderer: renderer, cache: cache, ttl: ttl, clock: clock, logger: logger}
}

// Today returns today's edition, from cache when available.
func (s *EditionService) Today(ctx context.Context) (Edition, error) {
	now := s.clock.Now().UTC()
	key := now.Format(editionKeyDateLayout)
	edition := Edition{Filename: "bangla_news_" + key + ".pdf"}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("edition cache read", "key", key, "error", err)
		} else if ok {
			edition.PDF = cached
			return edition, nil
		}
	}

	html, err := s.RenderHTML(ctx, now)
	if err != nil {
		return Edition{}, err
	}
	if s.renderer == nil {
		return Edition{}, fmt.Errorf("pdf renderer is not configured")
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return Edition{}, fmt.Errorf("render edition: %w", err)
	}
	edition.PDF = pdf

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, pdf, s.ttl); err != nil {
			s.logger.Warn("edition cache write", "key", key, "error", err)
		}
	}
	s.logger.Info("edition rendered", "file", edition.Filename, "bytes", len(pdf))
	return edition, nil
}

// RenderHTML builds the edition page for the given day.
func (s *EditionService) RenderHTML(ctx context.Context, day time.Time) (string, error) {
	page := editionPage{Date: day.Format("02 January 2006"), Year: day.Year()}
	for _, category := range domain.Categories {
		articles, err := s.store.FindMany(ctx,
			ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldCategory, category)}},
			newestFirst(0, editionPerCategory))
		if err != nil {
			return "", fmt.Errorf("load %s for edition: %w", category, err)
		}
		if len(articles) == 0 {
			continue
		}
		page.Sections = append(page.Sections, editionSection{Category: category, Articles: articles})
		page.TotalArticles += len(articles)
	}

	var buf bytes.Buffer
	if err := editionTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("execute edition template: %w", err)
	}
	return buf.String(), nil
}

var editionTemplate = template.Must(template.New("edition").Funcs(template.FuncMap{
	"excerpt": func(s string) string { return truncateRunes(s, editionContentRunes) },
	"stamp":   func(t time.Time) string { return t.UTC().Format("02/01/2006 15:04") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>বাংলা নিউজ পোর্টাল - দৈনিক সংবাদ</title>
<style>
@import url('https://fonts.googleapis.com/css2?family=Noto+Sans+Bengali:wght@400;600;700&display=swap');
body { font-family: 'Noto Sans Bengali', sans-serif; margin: 0; padding: 20px; color: #333; font-size: 14px; line-height: 1.6; }
.header { text-align: center; border-bottom: 3px solid #dc2626; padding-bottom: 16px; margin-bottom: 24px; }
.header h1 { color: #dc2626; font-size: 32px; margin: 0; }
.tagline { color: #666; }
.stats { background: #f3f4f6; padding: 10px; text-align: center; margin-bottom: 20px; }
.category-section { margin-bottom: 28px; page-break-inside: avoid; }
.category-title { background: #dc2626; color: white; padding: 6px 12px; font-size: 18px; font-weight: 600; }
.article { border-bottom: 1px solid #e5e7eb; padding: 12px 0; }
.article-title { font-size: 16px; font-weight: 700; }
.article-summary { color: #4b5563; font-style: italic; }
.article-meta { color: #9ca3af; font-size: 12px; }
.article-meta span { margin-right: 16px; }
.footer { text-align: center; border-top: 1px solid #e5e7eb; margin-top: 32px; padding-top: 12px; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="header">
<h1>বাংলা নিউজ পোর্টাল</h1>
<div class="tagline">আধুনিক সংবাদ প্ল্যাটফর্ম</div>
<div class="date">তারিখ: {{.Date}}</div>
</div>
<div class="stats"><strong>আজকের সংবাদ সংখ্যা: {{.TotalArticles}}টি</strong> | বিভাগ: {{len .Sections}}টি</div>
{{range .Sections}}<div class="category-section">
<div class="category-title">{{.Category}}</div>
{{range .Articles}}<div class="article">
<div class="article-title">{{.Title}}</div>
<div class="article-summary">{{.Summary}}</div>
<div class="article-content">{{excerpt .Content}}</div>
<div class="article-meta"><span>লেখক: {{.Author}}</span><span>প্রকাশ: {{stamp .PublishedAt}}</span><span>দেখা হয়েছে: {{.Views}} বার</span></div>
</div>
{{end}}</div>
{{end}}<div class="footer">
<p><strong>বাংলা নিউজ পোর্টাল</strong> - সত্য, নির্ভরযোগ্য এবং আপডেট সংবাদের জন্য</p>
<p>© {{.Year}} বাংলা নিউজ পোর্টাল। সকল অধিকার সংরক্ষিত।</p>
</div>
</body>
</html>
`))
