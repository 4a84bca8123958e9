package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

func seed(t *testing.T, repo *MemoryRepository, articles ...domain.Article) {
	t.Helper()
	for _, a := range articles {
		require.NoError(t, repo.InsertOne(context.Background(), a))
	}
}

func article(id, title string, breaking bool, at time.Time) domain.Article {
	return domain.Article{ID: id, Title: title, Category: domain.BreakingCategory, IsBreaking: breaking, PublishedAt: at}
}

func TestMemoryRepositoryContainsFoldWithAny(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, repo,
		article("1", "Dhaka Flood Warning Issued", true, base),
		article("2", "dhaka flood warning issued again", false, base),
	)

	filter := ports.Filter{
		All: []ports.Predicate{ports.Eq(ports.FieldIsBreaking, true)},
		Any: []ports.Predicate{
			ports.Eq(ports.FieldTitle, "no exact match"),
			ports.ContainsFold(ports.FieldTitle, "DHAKA FLOOD"),
		},
	}

	got, err := repo.FindOne(ctx, filter)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)

	n, err := repo.Count(ctx, ports.Filter{Any: filter.Any})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryRepositoryFindManySortAndPage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, repo,
		article("a", "first", true, base),
		article("b", "second", true, base.Add(time.Hour)),
		article("c", "third", true, base.Add(2*time.Hour)),
	)

	got, err := repo.FindMany(ctx, ports.Filter{}, ports.FindOptions{
		SortField: ports.FieldPublishedAt, SortDesc: true, Skip: 1, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	empty, err := repo.FindMany(ctx, ports.Filter{}, ports.FindOptions{Skip: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryRepositoryUpdateOne(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	seed(t, repo, article("a", "first", false, time.Now()))

	byID := ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldID, "a")}}
	ok, err := repo.UpdateOne(ctx, byID, ports.Patch{
		Set: map[string]any{ports.FieldIsFeatured: true},
		Inc: map[string]int{ports.FieldViews: 1},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindOne(ctx, byID)
	require.NoError(t, err)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, 1, got.Views)

	ok, err = repo.UpdateOne(ctx, ports.Filter{All: []ports.Predicate{ports.Eq(ports.FieldID, "zzz")}}, ports.Patch{Inc: map[string]int{ports.FieldViews: 1}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepositoryRejectsDuplicateIDAndBadFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	seed(t, repo, article("a", "first", false, time.Now()))

	assert.Error(t, repo.InsertOne(ctx, article("a", "again", false, time.Now())))

	_, err := repo.Count(ctx, ports.Filter{All: []ports.Predicate{ports.Eq("unknown", 1)}})
	assert.Error(t, err)
}

func TestMemoryRepositorySettings(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := domain.DefaultSettings("", time.Now())
	require.NoError(t, repo.Upsert(ctx, s))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.BreakingNewsInterval)
	assert.True(t, got.AutoBreakingNews)
}
