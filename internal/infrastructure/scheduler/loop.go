package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"NewsPortal/internal/ports"
)

// DefaultPanicBackoff is the pause after a job step panics.
const DefaultPanicBackoff = 5 * time.Minute

// Loop runs a job forever, sleeping for whatever duration each step returns.
type Loop struct {
	clock        clockwork.Clock
	panicBackoff time.Duration
	logger       *slog.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*Loop)(nil)

// NewLoop builds a loop driven by clock; a nil clock uses the real one.
func NewLoop(clock clockwork.Clock, panicBackoff time.Duration, logger *slog.Logger) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if panicBackoff <= 0 {
		panicBackoff = DefaultPanicBackoff
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{clock: clock, panicBackoff: panicBackoff, logger: logger}
}

// Start launches the loop goroutine. The first step runs immediately.
func (l *Loop) Start(ctx context.Context, job ports.Job) error {
	if job == nil {
		return fmt.Errorf("scheduler job is nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return fmt.Errorf("scheduler already running")
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(ctx, job, l.stop, l.done)
	return nil
}

func (l *Loop) run(ctx context.Context, job ports.Job, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		wait := l.step(ctx, job)

		select {
		case <-l.clock.After(wait):
		case <-stop:
			l.logger.Info("scheduler stopped")
			return
		case <-ctx.Done():
			l.logger.Info("scheduler context cancelled")
			return
		}
	}
}

func (l *Loop) step(ctx context.Context, job ports.Job) (wait time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduler step panicked", "panic", r, "backoff", l.panicBackoff)
			wait = l.panicBackoff
		}
	}()
	return job(ctx)
}

// Stop halts the loop and waits for the current step to finish or ctx to expire.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.stop, l.done = nil, nil
	l.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}
