package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/infrastructure/scheduler"
	"NewsPortal/internal/metrics"
)

type schedulerFixture struct {
	*pipelineFixture
	clock    *clockwork.FakeClock
	settings *SettingsService
	sched    *BreakingScheduler
}

func newSchedulerFixture(t *testing.T, s domain.Settings, titles ...string) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{pipelineFixture: newPipelineFixture(titles...), clock: clockwork.NewFakeClockAt(testNow)}
	require.NoError(t, f.store.Upsert(context.Background(), s))
	f.settings = NewSettingsService(f.store, "", f.clock, nil)
	f.sched = NewBreakingScheduler(scheduler.NewLoop(f.clock, 0, nil), f.pipeline, f.settings, f.metrics, nil)
	return f
}

func settingsWith(enabled bool, interval int) domain.Settings {
	s := domain.DefaultSettings("", testNow)
	s.AutoBreakingNews = enabled
	s.BreakingNewsInterval = interval
	return s
}

func TestStepDisabledWaitsWithoutCollecting(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(false, 10), "একটি ব্রেকিং নিউজ শিরোনাম এখানে")

	wait := f.sched.Step(context.Background())
	assert.Equal(t, DisabledBackoff, wait)
	assert.Zero(t, f.source.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Cycles.WithLabelValues(metrics.TriggerScheduled, metrics.OutcomeDisabled)))
}

func TestStepEnabledUsesConfiguredInterval(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(true, 3), "একটি ব্রেকিং নিউজ শিরোনাম এখানে")

	wait := f.sched.Step(context.Background())
	assert.Equal(t, 3*time.Minute, wait)
	assert.Equal(t, 1, f.source.Calls())
	assert.Len(t, f.publisher.Batches(), 1)
}

func TestStepFailedCycleBacksOff(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(true, 3), "একটি ব্রেকিং নিউজ শিরোনাম এখানে")
	f.store.failFindAfter = 0

	assert.Equal(t, ErrorBackoff, f.sched.Step(context.Background()))
}

func TestStepSettingsFailureBacksOff(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(true, 3))
	f.store.failSettings = true

	assert.Equal(t, ErrorBackoff, f.sched.Step(context.Background()))
	assert.Zero(t, f.source.Calls())
}

func TestStepMaterialisesMissingSettings(t *testing.T) {
	f := newPipelineFixture("একটি ব্রেকিং নিউজ শিরোনাম এখানে")
	settings := NewSettingsService(f.store, "", clockwork.NewFakeClockAt(testNow), nil)
	sched := NewBreakingScheduler(nil, f.pipeline, settings, f.metrics, nil)

	assert.Equal(t, 10*time.Minute, sched.Step(context.Background()))

	stored, err := f.store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.AutoBreakingNews)
}

func TestSchedulerLoopRechecksDisabledFlag(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(false, 10), "একটি ব্রেকিং নিউজ শিরোনাম এখানে")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, f.sched.Start(ctx))
	t.Cleanup(func() { _ = f.sched.Stop(context.Background()) })

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	assert.Zero(t, f.source.Calls())

	enabled := true
	_, err := f.settings.Update(ctx, domain.SettingsPatch{AutoBreakingNews: &enabled})
	require.NoError(t, err)

	f.clock.Advance(DisabledBackoff)
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 1, f.source.Calls())
	assert.Len(t, f.publisher.Batches(), 1)
}

func TestTriggerNowIgnoresFlagAndCancellation(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(false, 10), "হাতে চালানো ব্রেকিং নিউজ শিরোনাম")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := f.sched.TriggerNow(ctx)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Cycles.WithLabelValues(metrics.TriggerManual, metrics.OutcomePublished)))
}

func TestTriggerPublicProcessesImages(t *testing.T) {
	f := newSchedulerFixture(t, settingsWith(true, 10))
	c := candidate("ছবিসহ একটি ব্রেকিং নিউজ শিরোনাম")
	c.ImageURL = "https://cdn.example.com/c.jpg"
	f.source.candidates = []domain.Candidate{c}

	batch, err := f.sched.TriggerPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, []string{"https://cdn.example.com/c.jpg"}, f.images.seen)
}

func TestSchedulerWithoutDriverIsNoop(t *testing.T) {
	s := NewBreakingScheduler(nil, nil, nil, nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
