package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/metrics"
	"NewsPortal/internal/ports"
)

const (
	// DisabledBackoff is how long the loop waits before re-checking a disabled flag.
	DisabledBackoff = 5 * time.Minute
	// ErrorBackoff is how long the loop waits after a failed cycle.
	ErrorBackoff = 5 * time.Minute
)

// BreakingScheduler wires the loop driver with the breaking-news pipeline.
type BreakingScheduler struct {
	driver   ports.Scheduler
	pipeline *BreakingPipeline
	settings *SettingsService
	metrics  *metrics.PipelineMetrics
	logger   *slog.Logger
}

// NewBreakingScheduler returns a helper to start/stop the recurring cycle and
// to run it on demand.
func NewBreakingScheduler(driver ports.Scheduler, pipeline *BreakingPipeline, settings *SettingsService, m *metrics.PipelineMetrics, logger *slog.Logger) *BreakingScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakingScheduler{driver: driver, pipeline: pipeline, settings: settings, metrics: m, logger: logger}
}

// Start registers Step with the driver.
func (s *BreakingScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}
	return s.driver.Start(ctx, s.Step)
}

// Stop gracefully tears down the underlying driver.
func (s *BreakingScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

// Step runs one scheduled iteration and returns the pause before the next one.
func (s *BreakingScheduler) Step(ctx context.Context) time.Duration {
	settings, wait, enabled := s.checkSettings(ctx)
	if !enabled {
		return wait
	}
	return s.runCycle(ctx, settings)
}

func (s *BreakingScheduler) checkSettings(ctx context.Context) (domain.Settings, time.Duration, bool) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		s.logger.Error("read settings for breaking news cycle", "error", err, "backoff", ErrorBackoff)
		s.metrics.ObserveCycle(metrics.TriggerScheduled, metrics.OutcomeFailed)
		return domain.Settings{}, ErrorBackoff, false
	}
	if !settings.AutoBreakingNews {
		s.logger.Debug("automatic breaking news disabled", "recheck", DisabledBackoff)
		s.metrics.ObserveCycle(metrics.TriggerScheduled, metrics.OutcomeDisabled)
		return settings, DisabledBackoff, false
	}
	return settings, 0, true
}

func (s *BreakingScheduler) runCycle(ctx context.Context, settings domain.Settings) time.Duration {
	batch, err := s.pipeline.RunCycle(ctx, CycleOptions{Trigger: metrics.TriggerScheduled})
	if err != nil {
		s.logger.Error("breaking news cycle failed", "error", err, "published", len(batch), "backoff", ErrorBackoff)
		return ErrorBackoff
	}
	interval := settings.Interval()
	s.logger.Info("breaking news cycle finished", "published", len(batch), "next_in", interval)
	return interval
}

// TriggerNow runs one cycle regardless of the enable flag. The work is detached
// from ctx cancellation so a disconnecting caller does not abort publication.
func (s *BreakingScheduler) TriggerNow(ctx context.Context) ([]domain.Article, error) {
	return s.pipeline.RunCycle(context.WithoutCancel(ctx), CycleOptions{Trigger: metrics.TriggerManual})
}

// TriggerPublic is TriggerNow with image post-processing of every candidate.
func (s *BreakingScheduler) TriggerPublic(ctx context.Context) ([]domain.Article, error) {
	return s.pipeline.RunCycle(context.WithoutCancel(ctx), CycleOptions{Trigger: metrics.TriggerPublic, ProcessImages: true})
}
