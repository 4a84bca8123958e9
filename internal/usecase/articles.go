package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// Listing bounds for List.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

const (
	breakingListLimit   = 20
	tickerLimit         = 10
	recentActivityCount = 5
	activityTitleRunes  = 50
)

// MsgArticleNotFound is returned for unknown article ids.
const MsgArticleNotFound = "সংবাদটি পাওয়া যায়নি"

// ListQuery filters the public article listing. Nil flags are not filtered.
type ListQuery struct {
	Category string
	Featured *bool
	Breaking *bool
	Limit    int
	Skip     int
}

// ArticleService implements article CRUD, listings and statistics.
type ArticleService struct {
	store  ports.ArticleStore
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewArticleService builds the article use case.
func NewArticleService(store ports.ArticleStore, clock clockwork.Clock, logger *slog.Logger) *ArticleService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleService{store: store, clock: clock, logger: logger}
}

// List returns matching articles, newest first.
func (s *ArticleService) List(ctx context.Context, q ListQuery) ([]domain.Article, error) {
	if q.Limit > MaxListLimit {
		return nil, apperrors.Validation(fmt.Sprintf("limit must not exceed %d", MaxListLimit))
	}
	if q.Skip < 0 {
		return nil, apperrors.Validation("skip must not be negative")
	}
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}

	var filter ports.Filter
	if q.Category != "" {
		filter.All = append(filter.All, ports.Eq(ports.FieldCategory, q.Category))
	}
	if q.Featured != nil {
		filter.All = append(filter.All, ports.Eq(ports.FieldIsFeatured, *q.Featured))
	}
	if q.Breaking != nil {
		filter.All = append(filter.All, ports.Eq(ports.FieldIsBreaking, *q.Breaking))
	}

	articles, err := s.store.FindMany(ctx, filter, newestFirst(q.Skip, q.Limit))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Get returns one article and counts the view.
func (s *ArticleService) Get(ctx context.Context, id string) (domain.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}

	byID := ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldID, id)}}
	if _, err := s.store.UpdateOne(ctx, byID, ports.Patch{Inc: map[string]int{ports.FieldViews: 1}}); err != nil {
		s.logger.Warn("increment article views", "id", id, "error", err)
		return article, nil
	}
	article.Views++
	return article, nil
}

// Create persists a new article built from draft.
func (s *ArticleService) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	if draft.Title == "" {
		return domain.Article{}, apperrors.Validation("title is required")
	}
	if draft.Category == "" {
		return domain.Article{}, apperrors.Validation("category is required")
	}

	article := domain.NewArticle(draft, s.clock.Now())
	if err := s.store.InsertOne(ctx, article); err != nil {
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}
	s.logger.Info("article created", "id", article.ID, "category", article.Category)
	return article, nil
}

// ToggleFeatured flips is_featured and returns the new value.
func (s *ArticleService) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, id, ports.FieldIsFeatured, func(a domain.Article) bool { return a.IsFeatured })
}

// ToggleBreaking flips is_breaking and returns the new value.
func (s *ArticleService) ToggleBreaking(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, id, ports.FieldIsBreaking, func(a domain.Article) bool { return a.IsBreaking })
}

func (s *ArticleService) toggle(ctx context.Context, id, field string, current func(domain.Article) bool) (bool, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}

	next := !current(article)
	byID := ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldID, id)}}
	matched, err := s.store.UpdateOne(ctx, byID, ports.Patch{Set: map[string]any{field: next}})
	if err != nil {
		return false, fmt.Errorf("update %s: %w", field, err)
	}
	if !matched {
		return false, apperrors.NotFound(MsgArticleNotFound)
	}
	return next, nil
}

// Breaking returns the latest breaking articles.
func (s *ArticleService) Breaking(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.store.FindMany(ctx, breakingOnly(), newestFirst(0, breakingListLimit))
	if err != nil {
		return nil, fmt.Errorf("list breaking news: %w", err)
	}
	return articles, nil
}

// Ticker returns the latest breaking headlines in the compact ticker shape.
func (s *ArticleService) Ticker(ctx context.Context) ([]domain.TickerItem, error) {
	articles, err := s.store.FindMany(ctx, breakingOnly(), newestFirst(0, tickerLimit))
	if err != nil {
		return nil, fmt.Errorf("list ticker: %w", err)
	}
	return lo.Map(articles, func(a domain.Article, _ int) domain.TickerItem {
		return domain.TickerItem{ID: a.ID, Title: a.Title, PublishedAt: a.PublishedAt}
	}), nil
}

// Stats counts all, featured and breaking articles plus each category.
func (s *ArticleService) Stats(ctx context.Context) (domain.NewsStats, error) {
	var stats domain.NewsStats
	var err error

	if stats.TotalNews, err = s.store.Count(ctx, ports.Filter{}); err != nil {
		return stats, fmt.Errorf("count articles: %w", err)
	}
	featured := ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldIsFeatured, true)}}
	if stats.FeaturedNews, err = s.store.Count(ctx, featured); err != nil {
		return stats, fmt.Errorf("count featured: %w", err)
	}
	if stats.BreakingNews, err = s.store.Count(ctx, breakingOnly()); err != nil {
		return stats, fmt.Errorf("count breaking: %w", err)
	}

	stats.CategoryStats = make(map[string]int, len(domain.Categories))
	for _, category := range domain.Categories {
		n, err := s.store.Count(ctx, ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldCategory, category)}})
		if err != nil {
			return stats, fmt.Errorf("count category %s: %w", category, err)
		}
		stats.CategoryStats[category] = n
	}
	return stats, nil
}

// AdminStats extends Stats with today's count, recent activity and health.
func (s *ArticleService) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	base, err := s.Stats(ctx)
	if err != nil {
		return domain.AdminStats{}, err
	}

	now := s.clock.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.store.Count(ctx, ports.Filter{All: []ports.Predicate{ports.Gte(ports.FieldPublishedAt, todayStart)}})
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("count today: %w", err)
	}

	recent, err := s.store.FindMany(ctx, ports.Filter{}, newestFirst(0, recentActivityCount))
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("recent articles: %w", err)
	}

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	return domain.AdminStats{
		NewsStats: base,
		TodayNews: today,
		RecentActivities: lo.Map(recent, func(a domain.Article, _ int) domain.Activity {
			return domain.Activity{
				Type:       "news_created",
				Title:      truncateRunes(a.Title, activityTitleRunes),
				Category:   a.Category,
				Timestamp:  a.PublishedAt,
				IsBreaking: a.IsBreaking,
				IsFeatured: a.IsFeatured,
			}
		}),
		SystemHealth: map[string]any{
			"database_status":      dbStatus,
			"api_status":           "active",
			"breaking_news_fetch":  "active",
			"total_articles_today": today,
		},
	}, nil
}

func (s *ArticleService) find(ctx context.Context, id string) (domain.Article, error) {
	article, err := s.store.FindOne(ctx, ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldID, id)}})
	if err != nil {
		return domain.Article{}, fmt.Errorf("find article %s: %w", id, err)
	}
	if article == nil {
		return domain.Article{}, apperrors.NotFound(MsgArticleNotFound)
	}
	return *article, nil
}

func breakingOnly() ports.Filter {
	return ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldIsBreaking, true)}}
}

func newestFirst(skip, limit int) ports.FindOptions {
	return ports.FindOptions{SortField: ports.FieldPublishedAt, SortDesc: true, Skip: skip, Limit: limit}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
