package ports

import (
	"context"
	"time"

	"NewsPortal/internal/domain"
)

// Article field names understood by every ArticleStore.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldCategory    = "category"
	FieldPublishedAt = "published_at"
	FieldIsFeatured  = "is_featured"
	FieldIsBreaking  = "is_breaking"
	FieldViews       = "views"
	FieldImageURL    = "image_url"
)

// Op is a comparison operator understood by every ArticleStore.
type Op int

const (
	// OpEq matches field == value.
	OpEq Op = iota
	// OpContainsFold matches a case-insensitive substring of a string field.
	OpContainsFold
	// OpGte matches field >= value.
	OpGte
)

// Predicate is a single field comparison.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality predicate.
func Eq(field string, value any) Predicate { return Predicate{Field: field, Op: OpEq, Value: value} }

// ContainsFold builds a case-insensitive substring predicate.
func ContainsFold(field, value string) Predicate {
	return Predicate{Field: field, Op: OpContainsFold, Value: value}
}

// Gte builds a lower-bound predicate.
func Gte(field string, value any) Predicate { return Predicate{Field: field, Op: OpGte, Value: value} }

// Filter matches documents satisfying every All predicate and,
// when Any is non-empty, at least one Any predicate.
type Filter struct {
	All []Predicate
	Any []Predicate
}

// FindOptions controls ordering and paging of FindMany.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Skip      int
	Limit     int
}

// Patch describes an update: Set assigns fields, Inc adds to numeric fields.
type Patch struct {
	Set map[string]any
	Inc map[string]int
}

// ArticleStore is the document-store abstraction shared by every backend.
// Filters and patches address fields by the Field* names.
type ArticleStore interface {
	// FindOne returns nil, nil when nothing matches.
	FindOne(ctx context.Context, filter Filter) (*domain.Article, error)
	FindMany(ctx context.Context, filter Filter, opts FindOptions) ([]domain.Article, error)
	InsertOne(ctx context.Context, article domain.Article) error
	// UpdateOne reports whether a document matched.
	UpdateOne(ctx context.Context, filter Filter, patch Patch) (bool, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Ping(ctx context.Context) error
}

// SettingsStore persists the admin settings singleton.
type SettingsStore interface {
	// Get returns nil, nil when no document exists yet.
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, settings domain.Settings) error
}

// CandidateSource aggregates breaking-news candidates from upstream sites.
type CandidateSource interface {
	Collect(ctx context.Context) []domain.Candidate
}

// EventPublisher delivers freshly published breaking news to live subscribers.
type EventPublisher interface {
	PublishBreaking(ctx context.Context, articles []domain.Article) error
}

// Notifier streams digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Prompt is a single-turn request to a text generator.
type Prompt struct {
	System string
	User   string
	// APIKey overrides the generator's configured key when set.
	APIKey string
}

// TextGenerator produces completions from a language model.
type TextGenerator interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ImageProcessor enhances a remote image and returns the local path of the result.
type ImageProcessor interface {
	Process(ctx context.Context, imageURL string) (string, error)
}

// PDFRenderer converts an HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// EditionCache stores rendered daily editions.
type EditionCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Job is one scheduler step; it returns how long to wait before the next step.
type Job func(ctx context.Context) time.Duration

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job Job) error
	Stop(ctx context.Context) error
}
