package parser

import (
	"context"
	"fmt"
	"log/slog"

	"NewsPortal/internal/config"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/metrics"
	"NewsPortal/internal/ports"
	"NewsPortal/internal/scanner"
)

// DefaultMaxCandidates caps one aggregation run.
const DefaultMaxCandidates = 8

// StrategySource implements CandidateSource via registered scanner strategies.
type StrategySource struct {
	registry       *scanner.Registry
	sites          []config.SiteConfig
	maxCandidates  int
	minTitleLength int
	metrics        *metrics.PipelineMetrics
	logger         *slog.Logger
}

var _ ports.CandidateSource = (*StrategySource)(nil)

// StrategySourceOptions tunes aggregation limits.
type StrategySourceOptions struct {
	MaxCandidates  int
	MinTitleLength int
	Metrics        *metrics.PipelineMetrics
}

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, opts StrategySourceOptions, log *slog.Logger) *StrategySource {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	if log == nil {
		log = slog.Default()
	}
	return &StrategySource{
		registry:       reg,
		sites:          sites,
		maxCandidates:  opts.MaxCandidates,
		minTitleLength: opts.MinTitleLength,
		metrics:        opts.Metrics,
		logger:         log,
	}
}

// Collect runs every configured site once and concatenates results in
// configuration order, truncated to the candidate cap. A failing site is
// logged and contributes nothing.
func (s *StrategySource) Collect(ctx context.Context) []domain.Candidate {
	s.logger.Debug("collect breaking news", "sites", len(s.sites))

	var aggregated []domain.Candidate
	for _, site := range s.sites {
		results, err := s.scanSite(ctx, site)
		if err != nil {
			s.logger.Warn("source failed", "site", site.Name, "error", err)
			s.metrics.ObserveSourceFailure(site.Name)
			continue
		}
		s.logger.Debug("site produced candidates", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	if len(aggregated) > s.maxCandidates {
		aggregated = aggregated[:s.maxCandidates]
	}

	if len(aggregated) == 0 {
		s.logger.Warn("No breaking news data retrieved from sources")
	}
	s.metrics.ObserveCandidates(len(aggregated))
	return aggregated
}

func (s *StrategySource) scanSite(ctx context.Context, site config.SiteConfig) (results []domain.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, fmt.Errorf("scanner panic: %v", r)
		}
	}()

	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}
	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return nil, err
	}

	req := scanner.Request{
		SiteName:       site.Name,
		DisplayName:    site.DisplayName,
		BaseURL:        site.URL,
		Keywords:       site.Keywords,
		Limit:          site.Limit,
		MinTitleLength: s.minTitleLength,
		ContentPrefix:  site.ContentPrefix,
		Options:        site.Options,
	}

	results, err = strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
	}
	return results, nil
}
