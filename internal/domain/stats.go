package domain

import "time"

// NewsStats is the public overview of the article collection.
type NewsStats struct {
	TotalNews     int            `json:"total_news"`
	FeaturedNews  int            `json:"featured_news"`
	BreakingNews  int            `json:"breaking_news"`
	CategoryStats map[string]int `json:"category_stats"`
}

// Activity is one entry of the admin dashboard feed.
type Activity struct {
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Timestamp  time.Time `json:"timestamp"`
	IsBreaking bool      `json:"is_breaking"`
	IsFeatured bool      `json:"is_featured"`
}

// AdminStats extends NewsStats with dashboard details.
type AdminStats struct {
	NewsStats
	TodayNews        int            `json:"today_news"`
	RecentActivities []Activity     `json:"recent_activities"`
	SystemHealth     map[string]any `json:"system_health"`
}

// TickerItem is the compact breaking-news shape used by the headline ticker.
type TickerItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}
