package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// BreakingCategory tags articles produced by the breaking-news pipeline.
	BreakingCategory = "ব্রেকিং নিউজ"
	// DefaultAuthor is used when an article is created without a byline.
	DefaultAuthor = "সংবাদদাতা"
)

// Categories lists the editorial sections served by the portal.
var Categories = []string{
	"রাজনীতি",
	"খেলাধুলা",
	"প্রযুক্তি",
	"বিনোদন",
	"অর্থনীতি",
	"আন্তর্জাতিক",
	"স্বাস্থ্য",
	"শিক্ষা",
}

// IsKnownCategory reports whether name is one of the editorial sections.
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Article is the persisted news entity.
type Article struct {
	ID          string    `json:"id" bson:"id" db:"id"`
	Title       string    `json:"title" bson:"title" db:"title"`
	Content     string    `json:"content" bson:"content" db:"content"`
	Summary     string    `json:"summary" bson:"summary" db:"summary"`
	Category    string    `json:"category" bson:"category" db:"category"`
	Author      string    `json:"author" bson:"author" db:"author"`
	PublishedAt time.Time `json:"published_at" bson:"published_at" db:"published_at"`
	ImageURL    *string   `json:"image_url" bson:"image_url,omitempty" db:"image_url"`
	IsFeatured  bool      `json:"is_featured" bson:"is_featured" db:"is_featured"`
	IsBreaking  bool      `json:"is_breaking" bson:"is_breaking" db:"is_breaking"`
	Views       int       `json:"views" bson:"views" db:"views"`
	Source      *string   `json:"source" bson:"source,omitempty" db:"source"`
	SourceURL   *string   `json:"source_url" bson:"source_url,omitempty" db:"source_url"`
}

// ArticleDraft carries the caller-supplied fields of a new article.
type ArticleDraft struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Summary    string  `json:"summary"`
	Category   string  `json:"category"`
	Author     string  `json:"author"`
	ImageURL   *string `json:"image_url"`
	IsFeatured bool    `json:"is_featured"`
	IsBreaking bool    `json:"is_breaking"`
	Source     *string `json:"source"`
	SourceURL  *string `json:"source_url"`
}

// NewArticle assigns identity, byline and publication time to a draft.
func NewArticle(d ArticleDraft, now time.Time) Article {
	author := d.Author
	if author == "" {
		author = DefaultAuthor
	}
	return Article{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Content:     d.Content,
		Summary:     d.Summary,
		Category:    d.Category,
		Author:      author,
		PublishedAt: now.UTC(),
		ImageURL:    d.ImageURL,
		IsFeatured:  d.IsFeatured,
		IsBreaking:  d.IsBreaking,
		Source:      d.Source,
		SourceURL:   d.SourceURL,
	}
}

// Candidate is a scraped breaking-news item that has not been persisted yet.
type Candidate struct {
	Title       string
	BodyText    string
	SummaryText string
	SourceName  string
	SourceURL   string
	ImageURL    string
}

// BreakingArticle converts an accepted candidate into a breaking article.
func (c Candidate) BreakingArticle(now time.Time) Article {
	return NewArticle(ArticleDraft{
		Title:      c.Title,
		Content:    c.BodyText,
		Summary:    c.SummaryText,
		Category:   BreakingCategory,
		IsBreaking: true,
		Source:     optional(c.SourceName),
		SourceURL:  optional(c.SourceURL),
		ImageURL:   optional(c.ImageURL),
	}, now)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EventBreakingNews is the live-channel event type for freshly published breaking news.
const EventBreakingNews = "breaking_news"

// LiveEvent is the JSON envelope pushed to connected clients.
type LiveEvent struct {
	Type string    `json:"type"`
	Data []Article `json:"data"`
}
