package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/infrastructure/storage"
)

func seedArticles(t *testing.T, store *storage.MemoryRepository) []domain.Article {
	t.Helper()
	drafts := []domain.ArticleDraft{
		{Title: "রাজনীতির প্রথম সংবাদ", Category: "রাজনীতি", IsFeatured: true},
		{Title: "খেলাধুলার সংবাদ", Category: "খেলাধুলা"},
		{Title: "রাজনীতির দ্বিতীয় সংবাদ", Category: "রাজনীতি"},
		{Title: "জরুরি ব্রেকিং সংবাদ", Category: domain.BreakingCategory, IsBreaking: true},
	}
	var out []domain.Article
	for i, d := range drafts {
		a := domain.NewArticle(d, testNow.Add(time.Duration(i-len(drafts))*time.Hour))
		require.NoError(t, store.InsertOne(context.Background(), a))
		out = append(out, a)
	}
	return out
}

func TestArticleListFiltersAndSorts(t *testing.T) {
	store := storage.NewMemoryRepository()
	seeded := seedArticles(t, store)
	svc := NewArticleService(store, clockwork.NewFakeClockAt(testNow), nil)

	all, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, seeded[3].ID, all[0].ID)

	politics, err := svc.List(context.Background(), ListQuery{Category: "রাজনীতি"})
	require.NoError(t, err)
	assert.Equal(t, []string{"রাজনীতির দ্বিতীয় সংবাদ", "রাজনীতির প্রথম সংবাদ"}, titles(politics))

	featured, err := svc.List(context.Background(), ListQuery{Featured: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"রাজনীতির প্রথম সংবাদ"}, titles(featured))

	notBreaking, err := svc.List(context.Background(), ListQuery{Breaking: lo.ToPtr(false), Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"খেলাধুলার সংবাদ"}, titles(notBreaking))
}

func TestArticleListValidatesPaging(t *testing.T) {
	svc := NewArticleService(storage.NewMemoryRepository(), nil, nil)

	_, err := svc.List(context.Background(), ListQuery{Limit: MaxListLimit + 1})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))

	_, err = svc.List(context.Background(), ListQuery{Skip: -1})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
}

func TestArticleGetCountsViews(t *testing.T) {
	store := storage.NewMemoryRepository()
	seeded := seedArticles(t, store)
	svc := NewArticleService(store, nil, nil)

	got, err := svc.Get(context.Background(), seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	got, err = svc.Get(context.Background(), seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))
	assert.Equal(t, MsgArticleNotFound, apperrors.AsStructured(err).Message)
}

func TestArticleCreateDefaults(t *testing.T) {
	store := storage.NewMemoryRepository()
	svc := NewArticleService(store, clockwork.NewFakeClockAt(testNow), nil)

	a, err := svc.Create(context.Background(), domain.ArticleDraft{Title: "নতুন সংবাদ", Content: "বিস্তারিত", Category: "শিক্ষা"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.DefaultAuthor, a.Author)
	assert.True(t, testNow.Equal(a.PublishedAt))
	assert.Zero(t, a.Views)

	_, err = svc.Create(context.Background(), domain.ArticleDraft{Category: "শিক্ষা"})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
}

func TestArticleToggles(t *testing.T) {
	store := storage.NewMemoryRepository()
	seeded := seedArticles(t, store)
	svc := NewArticleService(store, nil, nil)

	featured, err := svc.ToggleFeatured(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.False(t, featured)

	featured, err = svc.ToggleFeatured(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.True(t, featured)

	breaking, err := svc.ToggleBreaking(context.Background(), seeded[1].ID)
	require.NoError(t, err)
	assert.True(t, breaking)

	_, err = svc.ToggleBreaking(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))
}

func TestArticleBreakingAndTicker(t *testing.T) {
	store := storage.NewMemoryRepository()
	for i := 0; i < 25; i++ {
		a := candidate(fmt.Sprintf("ব্রেকিং নিউজ নম্বর %02d শিরোনাম", i)).BreakingArticle(testNow.Add(time.Duration(i) * time.Minute))
		require.NoError(t, store.InsertOne(context.Background(), a))
	}
	svc := NewArticleService(store, nil, nil)

	list, err := svc.Breaking(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 20)
	assert.True(t, strings.Contains(list[0].Title, "24"))

	ticker, err := svc.Ticker(context.Background())
	require.NoError(t, err)
	require.Len(t, ticker, 10)
	assert.Equal(t, list[0].ID, ticker[0].ID)
	assert.Equal(t, list[0].Title, ticker[0].Title)
}

func TestArticleStats(t *testing.T) {
	store := storage.NewMemoryRepository()
	seedArticles(t, store)
	svc := NewArticleService(store, clockwork.NewFakeClockAt(testNow), nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalNews)
	assert.Equal(t, 1, stats.FeaturedNews)
	assert.Equal(t, 1, stats.BreakingNews)
	assert.Equal(t, 2, stats.CategoryStats["রাজনীতি"])
	assert.Equal(t, 0, stats.CategoryStats["শিক্ষা"])
	assert.Len(t, stats.CategoryStats, len(domain.Categories))
}

func TestArticleAdminStats(t *testing.T) {
	store := storage.NewMemoryRepository()
	seedArticles(t, store)
	yesterday := domain.NewArticle(domain.ArticleDraft{Title: strings.Repeat("দীর্ঘ", 20), Category: "শিক্ষা"}, testNow.Add(-24*time.Hour))
	require.NoError(t, store.InsertOne(context.Background(), yesterday))

	svc := NewArticleService(store, clockwork.NewFakeClockAt(testNow), nil)
	stats, err := svc.AdminStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalNews)
	assert.Equal(t, 4, stats.TodayNews)
	require.Len(t, stats.RecentActivities, 5)
	assert.Equal(t, "news_created", stats.RecentActivities[0].Type)
	assert.True(t, stats.RecentActivities[0].IsBreaking)
	assert.True(t, strings.HasSuffix(stats.RecentActivities[4].Title, "..."))
	assert.Equal(t, "healthy", stats.SystemHealth["database_status"])
	assert.Equal(t, 4, stats.SystemHealth["total_articles_today"])
}
