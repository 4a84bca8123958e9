package domain

import "time"

// Defaults applied when the settings document does not exist yet.
const (
	DefaultBreakingIntervalMinutes = 10
)

// Settings is the singleton admin configuration document.
type Settings struct {
	LLMKey               string    `json:"llm_key" bson:"llm_key" db:"llm_key"`
	AutoNewsEnabled      bool      `json:"auto_news_enabled" bson:"auto_news_enabled" db:"auto_news_enabled"`
	BreakingNewsInterval int       `json:"breaking_news_interval" bson:"breaking_news_interval" db:"breaking_news_interval"`
	AutoBreakingNews     bool      `json:"auto_breaking_news" bson:"auto_breaking_news" db:"auto_breaking_news"`
	LastKeyUpdate        time.Time `json:"last_key_update" bson:"last_key_update" db:"last_key_update"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// DefaultSettings returns the document materialised on first access.
func DefaultSettings(llmKey string, now time.Time) Settings {
	return Settings{
		LLMKey:               llmKey,
		AutoNewsEnabled:      true,
		BreakingNewsInterval: DefaultBreakingIntervalMinutes,
		AutoBreakingNews:     true,
		LastKeyUpdate:        now.UTC(),
		CreatedAt:            now.UTC(),
	}
}

// Interval converts the configured cadence into a duration, never below one minute.
func (s Settings) Interval() time.Duration {
	minutes := s.BreakingNewsInterval
	if minutes < 1 {
		minutes = DefaultBreakingIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// SettingsPatch is a partial update; nil fields are left untouched.
type SettingsPatch struct {
	LLMKey               *string `json:"llm_key"`
	AutoNewsEnabled      *bool   `json:"auto_news_enabled"`
	BreakingNewsInterval *int    `json:"breaking_news_interval"`
	AutoBreakingNews     *bool   `json:"auto_breaking_news"`
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.LLMKey == nil && p.AutoNewsEnabled == nil && p.BreakingNewsInterval == nil && p.AutoBreakingNews == nil
}

// Apply returns s with the patch applied.
func (p SettingsPatch) Apply(s Settings, now time.Time) Settings {
	if p.LLMKey != nil {
		s.LLMKey = *p.LLMKey
		s.LastKeyUpdate = now.UTC()
	}
	if p.AutoNewsEnabled != nil {
		s.AutoNewsEnabled = *p.AutoNewsEnabled
	}
	if p.BreakingNewsInterval != nil {
		s.BreakingNewsInterval = *p.BreakingNewsInterval
	}
	if p.AutoBreakingNews != nil {
		s.AutoBreakingNews = *p.AutoBreakingNews
	}
	return s
}
