package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/infrastructure/storage"
	"NewsPortal/internal/ports"
)

var testNow = time.Date(2025, 8, 22, 9, 30, 0, 0, time.UTC)

type staticSource struct {
	mu         sync.Mutex
	candidates []domain.Candidate
	calls      int
}

func (s *staticSource) Collect(context.Context) []domain.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := make([]domain.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

func (s *staticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]domain.Article
	err     error
}

func (p *recordingPublisher) PublishBreaking(_ context.Context, articles []domain.Article) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, articles)
	return p.err
}

func (p *recordingPublisher) Batches() [][]domain.Article {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batches
}

// flakyStore wraps the in-memory repository and fails selected calls.
type flakyStore struct {
	*storage.MemoryRepository
	failInsertTitle string
	failFindAfter   int
	finds           int
	failSettings    bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryRepository: storage.NewMemoryRepository(), failFindAfter: -1}
}

func (s *flakyStore) InsertOne(ctx context.Context, a domain.Article) error {
	if s.failInsertTitle != "" && a.Title == s.failInsertTitle {
		return errors.New("disk full")
	}
	return s.MemoryRepository.InsertOne(ctx, a)
}

func (s *flakyStore) FindOne(ctx context.Context, f ports.Filter) (*domain.Article, error) {
	s.finds++
	if s.failFindAfter >= 0 && s.finds > s.failFindAfter {
		return nil, errors.New("connection reset")
	}
	return s.MemoryRepository.FindOne(ctx, f)
}

func (s *flakyStore) Get(ctx context.Context) (*domain.Settings, error) {
	if s.failSettings {
		return nil, errors.New("settings unavailable")
	}
	return s.MemoryRepository.Get(ctx)
}

type stubImages struct {
	err  error
	seen []string
}

func (s *stubImages) Process(_ context.Context, url string) (string, error) {
	s.seen = append(s.seen, url)
	if s.err != nil {
		return "", s.err
	}
	return "/api/images/processed_0123456789.jpg", nil
}

type scriptedGenerator struct {
	replies []string
	errs    []error
	prompts []ports.Prompt
}

func (g *scriptedGenerator) Complete(_ context.Context, p ports.Prompt) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, p)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if len(g.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	return g.replies[i%len(g.replies)], nil
}

type stubRenderer struct {
	calls int
	html  string
	err   error
}

func (r *stubRenderer) Render(_ context.Context, html string) ([]byte, error) {
	r.calls++
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 test"), nil
}

type mapCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func candidate(title string) domain.Candidate {
	return domain.Candidate{
		Title:       title,
		BodyText:    "সময় টিভি: " + title,
		SummaryText: title,
		SourceName:  "সময় টিভি",
		SourceURL:   "https://www.somoynews.tv/news/1",
	}
}

func storeBreaking(store ports.ArticleStore, title string) domain.Article {
	a := candidate(title).BreakingArticle(testNow.Add(-time.Hour))
	if err := store.InsertOne(context.Background(), a); err != nil {
		panic(err)
	}
	return a
}
