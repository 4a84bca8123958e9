package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// MemoryRepository keeps articles and settings in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	articles []domain.Article
	settings *domain.Settings
}

var (
	_ ports.ArticleStore  = (*MemoryRepository)(nil)
	_ ports.SettingsStore = (*MemoryRepository)(nil)
)

// NewMemoryRepository builds an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(context.Context) error { return nil }

// FindOne returns the first matching article in insertion order.
func (r *MemoryRepository) FindOne(_ context.Context, filter ports.Filter) (*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.articles {
		ok, err := matches(r.articles[i], filter)
		if err != nil {
			return nil, err
		}
		if ok {
			found := r.articles[i]
			return &found, nil
		}
	}
	return nil, nil
}

// FindMany returns a sorted, paged copy of matching articles.
func (r *MemoryRepository) FindMany(_ context.Context, filter ports.Filter, opts ports.FindOptions) ([]domain.Article, error) {
	r.mu.RLock()
	var found []domain.Article
	for _, a := range r.articles {
		ok, err := matches(a, filter)
		if err != nil {
			r.mu.RUnlock()
			return nil, err
		}
		if ok {
			found = append(found, a)
		}
	}
	r.mu.RUnlock()

	if opts.SortField != "" {
		if err := sortArticles(found, opts.SortField, opts.SortDesc); err != nil {
			return nil, err
		}
	}

	if opts.Skip > 0 {
		if opts.Skip >= len(found) {
			return []domain.Article{}, nil
		}
		found = found[opts.Skip:]
	}
	if opts.Limit > 0 && len(found) > opts.Limit {
		found = found[:opts.Limit]
	}
	if found == nil {
		found = []domain.Article{}
	}
	return found, nil
}

// InsertOne appends the article; duplicate IDs are rejected.
func (r *MemoryRepository) InsertOne(_ context.Context, article domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.articles {
		if a.ID == article.ID {
			return fmt.Errorf("article %s already exists", article.ID)
		}
	}
	r.articles = append(r.articles, article)
	return nil
}

// UpdateOne applies the patch to the first matching article.
func (r *MemoryRepository) UpdateOne(_ context.Context, filter ports.Filter, patch ports.Patch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.articles {
		ok, err := matches(r.articles[i], filter)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		updated := r.articles[i]
		if err := applyPatch(&updated, patch); err != nil {
			return false, err
		}
		r.articles[i] = updated
		return true, nil
	}
	return false, nil
}

// Count returns the number of matching articles.
func (r *MemoryRepository) Count(_ context.Context, filter ports.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.articles {
		ok, err := matches(a, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the settings document or nil.
func (r *MemoryRepository) Get(context.Context) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, nil
	}
	s := *r.settings
	return &s, nil
}

// Upsert replaces the settings document.
func (r *MemoryRepository) Upsert(_ context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = &settings
	return nil
}

func matches(a domain.Article, filter ports.Filter) (bool, error) {
	for _, p := range filter.All {
		ok, err := evaluate(a, p)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(filter.Any) == 0 {
		return true, nil
	}
	for _, p := range filter.Any {
		ok, err := evaluate(a, p)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func evaluate(a domain.Article, p ports.Predicate) (bool, error) {
	switch p.Field {
	case ports.FieldID:
		return compareString(a.ID, p)
	case ports.FieldTitle:
		return compareString(a.Title, p)
	case ports.FieldCategory:
		return compareString(a.Category, p)
	case ports.FieldIsFeatured:
		return compareBool(a.IsFeatured, p)
	case ports.FieldIsBreaking:
		return compareBool(a.IsBreaking, p)
	case ports.FieldPublishedAt:
		want, ok := p.Value.(time.Time)
		if !ok {
			return false, fmt.Errorf("field %s expects time.Time", p.Field)
		}
		switch p.Op {
		case ports.OpEq:
			return a.PublishedAt.Equal(want), nil
		case ports.OpGte:
			return !a.PublishedAt.Before(want), nil
		}
	case ports.FieldViews:
		want, ok := p.Value.(int)
		if !ok {
			return false, fmt.Errorf("field %s expects int", p.Field)
		}
		switch p.Op {
		case ports.OpEq:
			return a.Views == want, nil
		case ports.OpGte:
			return a.Views >= want, nil
		}
	default:
		return false, fmt.Errorf("unsupported filter field %q", p.Field)
	}
	return false, fmt.Errorf("unsupported operator %d on %s", p.Op, p.Field)
}

func compareString(have string, p ports.Predicate) (bool, error) {
	want, ok := p.Value.(string)
	if !ok {
		return false, fmt.Errorf("field %s expects string", p.Field)
	}
	switch p.Op {
	case ports.OpEq:
		return have == want, nil
	case ports.OpContainsFold:
		return strings.Contains(strings.ToLower(have), strings.ToLower(want)), nil
	}
	return false, fmt.Errorf("unsupported operator %d on %s", p.Op, p.Field)
}

func compareBool(have bool, p ports.Predicate) (bool, error) {
	want, ok := p.Value.(bool)
	if !ok || p.Op != ports.OpEq {
		return false, fmt.Errorf("field %s supports only boolean equality", p.Field)
	}
	return have == want, nil
}

func applyPatch(a *domain.Article, patch ports.Patch) error {
	for field, value := range patch.Set {
		switch field {
		case ports.FieldIsFeatured, ports.FieldIsBreaking:
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("field %s expects bool", field)
			}
			if field == ports.FieldIsFeatured {
				a.IsFeatured = v
			} else {
				a.IsBreaking = v
			}
		case ports.FieldImageURL:
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %s expects string", field)
			}
			a.ImageURL = &v
		default:
			return fmt.Errorf("field %s cannot be updated", field)
		}
	}
	for field, delta := range patch.Inc {
		if field != ports.FieldViews {
			return fmt.Errorf("field %s cannot be incremented", field)
		}
		a.Views += delta
	}
	return nil
}

func sortArticles(list []domain.Article, field string, desc bool) error {
	var less func(i, j int) bool
	switch field {
	case ports.FieldPublishedAt:
		less = func(i, j int) bool { return list[i].PublishedAt.Before(list[j].PublishedAt) }
	case ports.FieldViews:
		less = func(i, j int) bool { return list[i].Views < list[j].Views }
	case ports.FieldTitle:
		less = func(i, j int) bool { return list[i].Title < list[j].Title }
	default:
		return fmt.Errorf("unsupported sort field %q", field)
	}
	if desc {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(list, less)
	return nil
}
