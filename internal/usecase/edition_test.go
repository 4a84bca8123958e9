package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/infrastructure/storage"
)

func TestRenderHTMLGroupsLatestByCategory(t *testing.T) {
	store := storage.NewMemoryRepository()
	for i := 0; i < 7; i++ {
		a := domain.NewArticle(domain.ArticleDraft{
			Title:    "রাজনীতি সংবাদ " + string(rune('A'+i)),
			Content:  strings.Repeat("ক", 600),
			Summary:  "সারাংশ",
			Category: "রাজনীতি",
		}, testNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.InsertOne(context.Background(), a))
	}
	require.NoError(t, store.InsertOne(context.Background(), domain.NewArticle(domain.ArticleDraft{
		Title:    "<script>alert(1)</script>",
		Category: "খেলাধুলা",
	}, testNow)))

	svc := NewEditionService(store, &stubRenderer{}, nil, 0, clockwork.NewFakeClockAt(testNow), nil)
	html, err := svc.RenderHTML(context.Background(), testNow)
	require.NoError(t, err)

	assert.Contains(t, html, "তারিখ: 22 August 2025")
	assert.Contains(t, html, "আজকের সংবাদ সংখ্যা: 6টি")
	assert.Contains(t, html, "বিভাগ: 2টি")
	assert.Contains(t, html, "রাজনীতি সংবাদ G")
	assert.NotContains(t, html, "রাজনীতি সংবাদ B")
	assert.Contains(t, html, strings.Repeat("ক", 500)+"...")
	assert.NotContains(t, html, strings.Repeat("ক", 501))
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.NotContains(t, html, "প্রযুক্তি")
}

func TestTodayRendersAndCaches(t *testing.T) {
	store := storage.NewMemoryRepository()
	renderer := &stubRenderer{}
	cache := newMapCache()
	svc := NewEditionService(store, renderer, cache, 15*time.Minute, clockwork.NewFakeClockAt(testNow), nil)

	edition, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bangla_news_2025_08_22.pdf", edition.Filename)
	assert.Equal(t, []byte("%PDF-1.4 test"), edition.PDF)
	assert.Equal(t, 15*time.Minute, cache.ttls["2025_08_22"])

	again, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, edition, again)
	assert.Equal(t, 1, renderer.calls)
}

func TestTodayRendererFailure(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("wkhtmltopdf exited 1")}
	svc := NewEditionService(storage.NewMemoryRepository(), renderer, nil, 0, nil, nil)

	_, err := svc.Today(context.Background())
	assert.Error(t, err)
}
