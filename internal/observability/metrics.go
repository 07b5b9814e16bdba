package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the evidence search service.
// Metrics are organized by subsystem: compound searches, term expansion,
// per-source searches, studies, source requests, and evidence grading. All
// counters and histograms are registered via promauto for automatic
// registration with the default Prometheus registry.
//
// The Record* helpers are safe to call on a nil *Metrics, so components
// accept an optional Metrics and record unconditionally.
type Metrics struct {
	// CompoundSearchesStarted counts the total number of compound searches initiated.
	CompoundSearchesStarted prometheus.Counter

	// CompoundSearchesCompleted counts the total number of compound searches that finished successfully.
	CompoundSearchesCompleted prometheus.Counter

	// CompoundSearchesFailed counts the total number of compound searches that ended in failure.
	CompoundSearchesFailed prometheus.Counter

	// CompoundSearchDuration observes the end-to-end pipeline duration in seconds.
	CompoundSearchDuration prometheus.Histogram

	// TermsExpanded counts the total number of search terms generated across all searches.
	TermsExpanded prometheus.Counter

	// TermsPerSearch observes the distribution of term counts per compound search.
	TermsPerSearch prometheus.Histogram

	// SearchesStarted counts searches initiated, labeled by study source.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful searches, labeled by study source.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed searches, labeled by study source.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes search duration in seconds, labeled by study source.
	SearchDuration *prometheus.HistogramVec

	// StudiesPerSearch observes the distribution of studies returned per search, labeled by source.
	StudiesPerSearch *prometheus.HistogramVec

	// SearchUnitsAbandoned counts concurrent search units discarded at the batch
	// deadline, labeled by study source.
	SearchUnitsAbandoned *prometheus.CounterVec

	// StudiesDiscovered counts the total number of study records discovered.
	StudiesDiscovered prometheus.Counter

	// StudiesDuplicate counts the total number of duplicate records dropped during deduplication.
	StudiesDuplicate prometheus.Counter

	// StudiesBySource counts study records discovered, labeled by study source.
	StudiesBySource *prometheus.CounterVec

	// SourceRequestsTotal counts HTTP requests to study source APIs, labeled by source and endpoint.
	SourceRequestsTotal *prometheus.CounterVec

	// SourceRequestsFailed counts failed HTTP requests to study source APIs, labeled by source, endpoint, and error type.
	SourceRequestsFailed *prometheus.CounterVec

	// SourceRequestDuration observes HTTP request duration to study source APIs in seconds.
	SourceRequestDuration *prometheus.HistogramVec

	// SourceRateLimited counts rate-limited responses from study source APIs, labeled by source.
	SourceRateLimited *prometheus.CounterVec

	// EvidenceGrades counts evidence grades computed, labeled by grade letter.
	EvidenceGrades *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Compound searches
		CompoundSearchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compound_searches_started_total",
			Help:      "Total number of compound searches started",
		}),
		CompoundSearchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compound_searches_completed_total",
			Help:      "Total number of compound searches completed successfully",
		}),
		CompoundSearchesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compound_searches_failed_total",
			Help:      "Total number of compound searches that failed",
		}),
		CompoundSearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compound_search_duration_seconds",
			Help:      "End-to-end duration of compound searches in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		// Term expansion
		TermsExpanded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terms_expanded_total",
			Help:      "Total number of search terms generated",
		}),
		TermsPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "terms_per_search",
			Help:      "Number of search terms generated per compound search",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}),

		// Searches
		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of study searches started by source",
		}, []string{"source"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of study searches completed by source",
		}, []string{"source"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of study searches that failed by source",
		}, []string{"source"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of study searches in seconds by source",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		StudiesPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "studies_per_search",
			Help:      "Number of studies returned per search by source",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200, 500},
		}, []string{"source"}),
		SearchUnitsAbandoned: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_units_abandoned_total",
			Help:      "Total number of concurrent search units abandoned at the batch deadline",
		}, []string{"source"}),

		// Studies
		StudiesDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "studies_discovered_total",
			Help:      "Total number of study records discovered",
		}),
		StudiesDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "studies_duplicate_total",
			Help:      "Total number of duplicate study records dropped",
		}),
		StudiesBySource: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "studies_by_source_total",
			Help:      "Total number of study records discovered by source",
		}, []string{"source"}),

		// Sources
		SourceRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Total number of requests to study sources",
		}, []string{"source", "endpoint"}),
		SourceRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_failed_total",
			Help:      "Total number of failed requests to study sources",
		}, []string{"source", "endpoint", "error_type"}),
		SourceRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_request_duration_seconds",
			Help:      "Duration of requests to study sources in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source", "endpoint"}),
		SourceRateLimited: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_rate_limited_total",
			Help:      "Total number of rate limit responses from study sources",
		}, []string{"source"}),

		// Evidence grading
		EvidenceGrades: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evidence_grades_total",
			Help:      "Total number of evidence grades computed by grade letter",
		}, []string{"grade"}),
	}
}

// RecordCompoundSearchStarted records that a compound search has started.
func (m *Metrics) RecordCompoundSearchStarted() {
	if m == nil {
		return
	}
	m.CompoundSearchesStarted.Inc()
}

// RecordCompoundSearchCompleted records that a compound search has completed.
func (m *Metrics) RecordCompoundSearchCompleted(durationSeconds float64) {
	if m == nil {
		return
	}
	m.CompoundSearchesCompleted.Inc()
	m.CompoundSearchDuration.Observe(durationSeconds)
}

// RecordCompoundSearchFailed records that a compound search has failed.
func (m *Metrics) RecordCompoundSearchFailed(durationSeconds float64) {
	if m == nil {
		return
	}
	m.CompoundSearchesFailed.Inc()
	m.CompoundSearchDuration.Observe(durationSeconds)
}

// RecordTermsExpanded records the outcome of a term expansion.
func (m *Metrics) RecordTermsExpanded(count int) {
	if m == nil {
		return
	}
	m.TermsExpanded.Add(float64(count))
	m.TermsPerSearch.Observe(float64(count))
}

// RecordSearchStarted records that a search has started.
func (m *Metrics) RecordSearchStarted(source string) {
	if m == nil {
		return
	}
	m.SearchesStarted.WithLabelValues(source).Inc()
}

// RecordSearchCompleted records that a search has completed.
func (m *Metrics) RecordSearchCompleted(source string, studyCount int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.SearchesCompleted.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
	m.StudiesPerSearch.WithLabelValues(source).Observe(float64(studyCount))
}

// RecordSearchFailed records that a search has failed.
func (m *Metrics) RecordSearchFailed(source string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.SearchesFailed.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordSearchUnitAbandoned records a concurrent search unit discarded at the
// batch deadline.
func (m *Metrics) RecordSearchUnitAbandoned(source string) {
	if m == nil {
		return
	}
	m.SearchUnitsAbandoned.WithLabelValues(source).Inc()
}

// RecordStudiesDiscovered records study records discovered from a source.
func (m *Metrics) RecordStudiesDiscovered(source string, count int) {
	if m == nil {
		return
	}
	m.StudiesDiscovered.Add(float64(count))
	m.StudiesBySource.WithLabelValues(source).Add(float64(count))
}

// RecordStudyDuplicates records duplicate records dropped in a single
// deduplication pass.
func (m *Metrics) RecordStudyDuplicates(count int) {
	if m == nil {
		return
	}
	m.StudiesDuplicate.Add(float64(count))
}

// RecordSourceRequest records a request to a study source.
func (m *Metrics) RecordSourceRequest(source, endpoint string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.SourceRequestsTotal.WithLabelValues(source, endpoint).Inc()
	m.SourceRequestDuration.WithLabelValues(source, endpoint).Observe(durationSeconds)
}

// RecordSourceRequestFailed records a failed request to a study source.
func (m *Metrics) RecordSourceRequestFailed(source, endpoint, errorType string) {
	if m == nil {
		return
	}
	m.SourceRequestsFailed.WithLabelValues(source, endpoint, errorType).Inc()
}

// RecordSourceRateLimited records a rate limit response from a source.
func (m *Metrics) RecordSourceRateLimited(source string) {
	if m == nil {
		return
	}
	m.SourceRateLimited.WithLabelValues(source).Inc()
}

// RecordEvidenceGrade records a computed evidence grade.
func (m *Metrics) RecordEvidenceGrade(grade string) {
	if m == nil {
		return
	}
	m.EvidenceGrades.WithLabelValues(grade).Inc()
}
