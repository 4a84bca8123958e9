package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cycle triggers.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerPublic    = "public"
)

// Cycle outcomes.
const (
	OutcomePublished = "published"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
	OutcomeDisabled  = "disabled"
)

// PipelineMetrics holds Prometheus metrics for the breaking-news pipeline.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	Cycles            *prometheus.CounterVec
	CandidatesScraped prometheus.Counter
	ArticlesPublished prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	PersistFailures   prometheus.Counter
	SourceFailures    *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics on the given registry.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaking",
			Name:      "cycles_total",
			Help:      "Breaking-news cycles by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		CandidatesScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaking",
			Name:      "candidates_scraped_total",
			Help:      "Candidates returned by the aggregator.",
		}),
		ArticlesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaking",
			Name:      "articles_published_total",
			Help:      "Breaking articles persisted.",
		}),
		DuplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaking",
			Name:      "duplicates_skipped_total",
			Help:      "Candidates rejected as duplicates.",
		}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaking",
			Name:      "persist_failures_total",
			Help:      "Breaking articles that failed to persist.",
		}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaking",
			Name:      "source_failures_total",
			Help:      "Source adapter failures by source.",
		}, []string{"source"}),
	}

	reg.MustRegister(m.Cycles, m.CandidatesScraped, m.ArticlesPublished, m.DuplicatesSkipped, m.PersistFailures, m.SourceFailures)
	return m
}

// ObserveCycle counts one finished cycle.
func (m *PipelineMetrics) ObserveCycle(trigger, outcome string) {
	if m == nil {
		return
	}
	m.Cycles.WithLabelValues(trigger, outcome).Inc()
}

// ObserveCandidates adds n aggregated candidates.
func (m *PipelineMetrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.CandidatesScraped.Add(float64(n))
}

// ObservePublished counts one persisted article.
func (m *PipelineMetrics) ObservePublished() {
	if m == nil {
		return
	}
	m.ArticlesPublished.Inc()
}

// ObserveDuplicate counts one rejected candidate.
func (m *PipelineMetrics) ObserveDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesSkipped.Inc()
}

// ObservePersistFailure counts one failed insert.
func (m *PipelineMetrics) ObservePersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// ObserveSourceFailure counts one failed source adapter run.
func (m *PipelineMetrics) ObserveSourceFailure(source string) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(source).Inc()
}
