package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

const (
	// DefaultGenerateCount is used when a generate request omits count.
	DefaultGenerateCount = 5
	// PerCategoryCount is how many articles GenerateAll asks for in each category.
	PerCategoryCount = 4

	rawContentRunes = 1000
)

// MsgNoAPIKey is returned when neither settings nor config provide an LLM key.
const MsgNoAPIKey = "AI API key not configured"

// GenerateAllResult summarises a run over every category.
type GenerateAllResult struct {
	Articles            []domain.Article
	CategoriesProcessed int
	FailedCategories    []string
}

// WriterDeps wires the AI writer.
type WriterDeps struct {
	Generator ports.TextGenerator
	Store     ports.ArticleStore
	Settings  *SettingsService
	// KeyOptional is set for local generators that need no API key.
	KeyOptional bool
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

// NewsWriter produces category articles with a language model.
type NewsWriter struct {
	generator   ports.TextGenerator
	store       ports.ArticleStore
	settings    *SettingsService
	keyOptional bool
	clock       clockwork.Clock
	logger      *slog.Logger
}

// NewNewsWriter builds the AI writer use case.
func NewNewsWriter(deps WriterDeps) *NewsWriter {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &NewsWriter{
		generator:   deps.Generator,
		store:       deps.Store,
		settings:    deps.Settings,
		keyOptional: deps.KeyOptional,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
}

// Generate writes up to count articles for category and persists them.
// It returns an empty batch when automatic news is disabled.
func (w *NewsWriter) Generate(ctx context.Context, category string, count int) ([]domain.Article, error) {
	if !domain.IsKnownCategory(category) {
		return nil, apperrors.Validation("Invalid category")
	}
	if count <= 0 {
		count = DefaultGenerateCount
	}

	drafts, err := w.draft(ctx, category, count)
	if err != nil {
		return nil, err
	}

	saved := make([]domain.Article, 0, len(drafts))
	for _, d := range drafts {
		article := domain.NewArticle(d, w.clock.Now())
		if err := w.store.InsertOne(ctx, article); err != nil {
			return saved, fmt.Errorf("insert generated article: %w", err)
		}
		saved = append(saved, article)
	}
	w.logger.Info("generated articles", "category", category, "requested", count, "saved", len(saved))
	return saved, nil
}

// GenerateAll runs Generate for every category; failing categories are collected.
func (w *NewsWriter) GenerateAll(ctx context.Context) GenerateAllResult {
	result := GenerateAllResult{Articles: []domain.Article{}, FailedCategories: []string{}}
	for _, category := range domain.Categories {
		articles, err := w.Generate(ctx, category, PerCategoryCount)
		result.Articles = append(result.Articles, articles...)
		if err != nil {
			w.logger.Error("generate category", "category", category, "error", err)
			result.FailedCategories = append(result.FailedCategories, category)
			continue
		}
	}
	result.CategoriesProcessed = len(domain.Categories) - len(result.FailedCategories)
	return result
}

func (w *NewsWriter) draft(ctx context.Context, category string, count int) ([]domain.ArticleDraft, error) {
	settings, err := w.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AutoNewsEnabled {
		w.logger.Info("automatic news disabled, nothing generated", "category", category)
		return nil, nil
	}

	key, err := w.settings.APIKey(ctx)
	if err != nil {
		return nil, err
	}
	if (key == "" && !w.keyOptional) || w.generator == nil {
		return nil, apperrors.Internal(MsgNoAPIKey, nil)
	}

	prompt := ports.Prompt{
		System: systemPrompt(category, w.clock.Now()),
		User:   userPrompt(category),
		APIKey: key,
	}

	drafts := make([]domain.ArticleDraft, 0, count)
	for i := 1; i <= count; i++ {
		response, err := w.generator.Complete(ctx, prompt)
		if err != nil {
			w.logger.Warn("generate article", "category", category, "n", i, "error", err)
			continue
		}
		drafts = append(drafts, ParseGenerated(response, category, i))
	}
	return drafts, nil
}

// ParseGenerated turns a model reply into a draft. Markdown fences are
// stripped, alias keys normalised and missing fields filled with fallbacks.
// A reply that is not JSON becomes the content of a fallback article.
func ParseGenerated(response, category string, n int) domain.ArticleDraft {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(stripFences(response)), &fields); err != nil {
		return domain.ArticleDraft{
			Title:    fmt.Sprintf("%s বিভাগের সংবাদ %d", category, n),
			Content:  response,
			Summary:  fallbackSummary(category),
			Category: category,
		}
	}

	d := domain.ArticleDraft{
		Title:    pick(fields, "title", "headline", "শিরোনাম"),
		Content:  pick(fields, "content", "body", "বিষয়বস্তু"),
		Summary:  pick(fields, "summary", "description", "সারাংশ"),
		Category: category,
	}
	if d.Title == "" {
		d.Title = fmt.Sprintf("%s বিষয়ক সংবাদ %d", category, n)
	}
	if d.Content == "" {
		d.Content = truncateRunesExact(response, rawContentRunes)
	}
	if d.Summary == "" {
		d.Summary = fallbackSummary(category)
	}
	return d
}

func fallbackSummary(category string) string {
	return category + " সম্পর্কিত গুরুত্বপূর্ণ সংবাদ"
}

// pick returns the last non-empty string among keys.
func pick(fields map[string]any, keys ...string) string {
	var out string
	for _, k := range keys {
		if v, ok := fields[k].(string); ok && v != "" {
			out = v
		}
	}
	return out
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateRunesExact(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
