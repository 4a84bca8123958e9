package eventpublisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// DefaultMirrorTimeout caps the time spent on one mirror per event.
const DefaultMirrorTimeout = 10 * time.Second

// Fanout delivers each event to the primary publisher and best-effort mirrors.
// Only a primary failure is returned; mirror failures are logged.
type Fanout struct {
	primary       ports.EventPublisher
	mirrors       []ports.EventPublisher
	mirrorTimeout time.Duration
	logger        *slog.Logger
}

var _ ports.EventPublisher = (*Fanout)(nil)

// NewFanout wires the live channel with optional mirrors.
func NewFanout(primary ports.EventPublisher, logger *slog.Logger, mirrors ...ports.EventPublisher) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{primary: primary, mirrors: mirrors, mirrorTimeout: DefaultMirrorTimeout, logger: logger}
}

// PublishBreaking publishes to the primary first, then to every mirror.
func (f *Fanout) PublishBreaking(ctx context.Context, articles []domain.Article) error {
	var primaryErr error
	if f.primary != nil {
		primaryErr = f.primary.PublishBreaking(ctx, articles)
	}

	for _, m := range f.mirrors {
		if m == nil {
			continue
		}
		if err := f.mirror(ctx, m, articles); err != nil {
			f.logger.Warn("mirror publish failed", "error", err, "articles", len(articles))
		}
	}

	return primaryErr
}

// mirror waits for m at most mirrorTimeout; a mirror that ignores its
// context is abandoned and finishes in the background.
func (f *Fanout) mirror(ctx context.Context, m ports.EventPublisher, articles []domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, f.mirrorTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.PublishBreaking(ctx, articles) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("mirror abandoned: %w", ctx.Err())
	}
}
