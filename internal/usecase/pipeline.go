package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/metrics"
	"NewsPortal/internal/ports"
)

// PipelineDeps wires all driven adapters into the breaking-news pipeline.
type PipelineDeps struct {
	Source    ports.CandidateSource
	Store     ports.ArticleStore
	Publisher ports.EventPublisher
	// Images is optional; without it candidate images are kept as scraped.
	Images  ports.ImageProcessor
	Metrics *metrics.PipelineMetrics
	Clock   clockwork.Clock
	Logger  *slog.Logger
}

// CycleOptions describes one run of the pipeline.
type CycleOptions struct {
	Trigger       string
	ProcessImages bool
}

// BreakingPipeline aggregates candidates, drops duplicates, persists the rest
// and broadcasts the batch.
type BreakingPipeline struct {
	source    ports.CandidateSource
	store     ports.ArticleStore
	publisher ports.EventPublisher
	images    ports.ImageProcessor
	metrics   *metrics.PipelineMetrics
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewBreakingPipeline constructs the orchestration component.
func NewBreakingPipeline(deps PipelineDeps) *BreakingPipeline {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &BreakingPipeline{
		source:    deps.Source,
		store:     deps.Store,
		publisher: deps.Publisher,
		images:    deps.Images,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
}

// RunCycle collects candidates from every source and publishes the new ones.
func (p *BreakingPipeline) RunCycle(ctx context.Context, opts CycleOptions) ([]domain.Article, error) {
	if p.source == nil || p.store == nil {
		return nil, fmt.Errorf("breaking pipeline is not configured")
	}

	candidates := p.source.Collect(ctx)
	batch, err := p.Publish(ctx, candidates, opts)

	switch {
	case err != nil:
		p.metrics.ObserveCycle(opts.Trigger, metrics.OutcomeFailed)
	case len(batch) == 0:
		p.metrics.ObserveCycle(opts.Trigger, metrics.OutcomeEmpty)
		p.logger.Info("No new breaking news found in this cycle", "trigger", opts.Trigger, "candidates", len(candidates))
	default:
		p.metrics.ObserveCycle(opts.Trigger, metrics.OutcomePublished)
		p.logger.Info("published breaking news", "trigger", opts.Trigger, "candidates", len(candidates), "published", len(batch))
	}
	return batch, err
}

// Publish persists every non-duplicate candidate in order and broadcasts the
// persisted ones once. A failed insert is logged and skipped. A failed dedup
// lookup stops the run; articles persisted before it are still broadcast and
// returned together with the error.
func (p *BreakingPipeline) Publish(ctx context.Context, candidates []domain.Candidate, opts CycleOptions) ([]domain.Article, error) {
	batch := []domain.Article{}
	var runErr error

	for _, c := range candidates {
		dup, err := IsDuplicate(ctx, p.store, c)
		if err != nil {
			runErr = err
			break
		}
		if dup {
			p.metrics.ObserveDuplicate()
			p.logger.Debug("skip duplicate candidate", "title", c.Title)
			continue
		}

		if opts.ProcessImages {
			c.ImageURL = p.processImage(ctx, c.ImageURL)
		}

		article := c.BreakingArticle(p.clock.Now())
		if err := p.store.InsertOne(ctx, article); err != nil {
			p.metrics.ObservePersistFailure()
			p.logger.Error("persist breaking article", "title", article.Title, "error", err)
			continue
		}
		p.metrics.ObservePublished()
		batch = append(batch, article)
	}

	if len(batch) > 0 && p.publisher != nil {
		if err := p.publisher.PublishBreaking(ctx, batch); err != nil {
			p.logger.Error("broadcast breaking news", "count", len(batch), "error", err)
		}
	}
	return batch, runErr
}

func (p *BreakingPipeline) processImage(ctx context.Context, imageURL string) string {
	if imageURL == "" || p.images == nil {
		return imageURL
	}
	processed, err := p.images.Process(ctx, imageURL)
	if err != nil {
		p.logger.Warn("image processing failed, keeping original", "url", imageURL, "error", err)
		return imageURL
	}
	return processed
}
