package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// SettingsService reads and updates the admin settings singleton.
type SettingsService struct {
	store      ports.SettingsStore
	defaultKey string
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewSettingsService uses defaultKey as the LLM key of a freshly materialised document.
func NewSettingsService(store ports.SettingsStore, defaultKey string, clock clockwork.Clock, logger *slog.Logger) *SettingsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsService{store: store, defaultKey: defaultKey, clock: clock, logger: logger}
}

// Current returns the stored settings, creating the default document on first access.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	stored, err := s.store.Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if stored != nil {
		return *stored, nil
	}

	defaults := domain.DefaultSettings(s.defaultKey, s.clock.Now())
	if err := s.store.Upsert(ctx, defaults); err != nil {
		return domain.Settings{}, fmt.Errorf("create default settings: %w", err)
	}
	s.logger.Info("default admin settings created")
	return defaults, nil
}

// Update applies a partial change. An empty patch returns the current document.
func (s *SettingsService) Update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	if patch.BreakingNewsInterval != nil && *patch.BreakingNewsInterval < 1 {
		return domain.Settings{}, apperrors.Validation("breaking_news_interval must be at least 1 minute")
	}

	current, err := s.Current(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated := patch.Apply(current, s.clock.Now())
	if err := s.store.Upsert(ctx, updated); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.logger.Info("admin settings updated",
		"auto_breaking_news", updated.AutoBreakingNews,
		"breaking_news_interval", updated.BreakingNewsInterval,
		"auto_news_enabled", updated.AutoNewsEnabled,
		"key_changed", patch.LLMKey != nil)
	return updated, nil
}

// APIKey returns the LLM key from settings, falling back to the configured one.
func (s *SettingsService) APIKey(ctx context.Context) (string, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	if current.LLMKey != "" {
		return current.LLMKey, nil
	}
	return s.defaultKey, nil
}
