package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/infrastructure/storage"
)

func TestSettingsCurrentCreatesDefaults(t *testing.T) {
	store := storage.NewMemoryRepository()
	svc := NewSettingsService(store, "env-key", clockwork.NewFakeClockAt(testNow), nil)

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings("env-key", testNow), got)

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, got, *stored)
}

func TestSettingsUpdateAppliesPatch(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	svc := NewSettingsService(storage.NewMemoryRepository(), "", clock, nil)
	_, err := svc.Current(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	key, interval, enabled := "sk-new", 3, false
	got, err := svc.Update(context.Background(), domain.SettingsPatch{
		LLMKey:               &key,
		BreakingNewsInterval: &interval,
		AutoBreakingNews:     &enabled,
	})
	require.NoError(t, err)

	assert.Equal(t, "sk-new", got.LLMKey)
	assert.Equal(t, 3, got.BreakingNewsInterval)
	assert.False(t, got.AutoBreakingNews)
	assert.True(t, got.AutoNewsEnabled)
	assert.True(t, testNow.Add(time.Hour).Equal(got.LastKeyUpdate))
	assert.True(t, testNow.Equal(got.CreatedAt))
}

func TestSettingsUpdateRejectsShortInterval(t *testing.T) {
	svc := NewSettingsService(storage.NewMemoryRepository(), "", nil, nil)
	zero := 0

	_, err := svc.Update(context.Background(), domain.SettingsPatch{BreakingNewsInterval: &zero})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
}

func TestSettingsEmptyPatchReturnsCurrent(t *testing.T) {
	svc := NewSettingsService(storage.NewMemoryRepository(), "", clockwork.NewFakeClockAt(testNow), nil)

	got, err := svc.Update(context.Background(), domain.SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings("", testNow), got)
}

func TestSettingsAPIKeyFallsBackToConfigured(t *testing.T) {
	store := storage.NewMemoryRepository()
	svc := NewSettingsService(store, "", nil, nil)
	require.NoError(t, store.Upsert(context.Background(), domain.Settings{BreakingNewsInterval: 10}))

	key, err := svc.APIKey(context.Background())
	require.NoError(t, err)
	assert.Empty(t, key)

	svc = NewSettingsService(store, "configured", nil, nil)
	key, err = svc.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "configured", key)

	stored := "from-settings"
	_, err = svc.Update(context.Background(), domain.SettingsPatch{LLMKey: &stored})
	require.NoError(t, err)
	key, err = svc.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-settings", key)
}
