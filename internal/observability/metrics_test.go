package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	// Use unique namespace to avoid conflicts with other tests
	m := NewMetrics("test_evidence_new")

	assert.NotNil(t, m.CompoundSearchesStarted)
	assert.NotNil(t, m.CompoundSearchesCompleted)
	assert.NotNil(t, m.CompoundSearchesFailed)
	assert.NotNil(t, m.CompoundSearchDuration)
	assert.NotNil(t, m.TermsExpanded)
	assert.NotNil(t, m.TermsPerSearch)
	assert.NotNil(t, m.SearchesStarted)
	assert.NotNil(t, m.SearchesCompleted)
	assert.NotNil(t, m.SearchesFailed)
	assert.NotNil(t, m.SearchUnitsAbandoned)
	assert.NotNil(t, m.StudiesDiscovered)
	assert.NotNil(t, m.StudiesBySource)
	assert.NotNil(t, m.SourceRequestsTotal)
	assert.NotNil(t, m.SourceRequestsFailed)
	assert.NotNil(t, m.EvidenceGrades)
}

func TestRecordCompoundSearchStarted(t *testing.T) {
	m := NewMetrics("test_compound_search_started")

	initial := testutil.ToFloat64(m.CompoundSearchesStarted)
	m.RecordCompoundSearchStarted()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.CompoundSearchesStarted))
}

func TestRecordCompoundSearchCompleted(t *testing.T) {
	m := NewMetrics("test_compound_search_completed")

	initial := testutil.ToFloat64(m.CompoundSearchesCompleted)
	m.RecordCompoundSearchCompleted(5.5)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.CompoundSearchesCompleted))

	// Check histogram
	histCount, err := getHistogramSampleCount(m.CompoundSearchDuration)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordCompoundSearchFailed(t *testing.T) {
	m := NewMetrics("test_compound_search_failed")

	initial := testutil.ToFloat64(m.CompoundSearchesFailed)
	m.RecordCompoundSearchFailed(3.0)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.CompoundSearchesFailed))
}

func TestRecordTermsExpanded(t *testing.T) {
	m := NewMetrics("test_terms_expanded")

	initial := testutil.ToFloat64(m.TermsExpanded)
	m.RecordTermsExpanded(5)
	assert.Equal(t, initial+5, testutil.ToFloat64(m.TermsExpanded))

	histCount, err := getHistogramSampleCount(m.TermsPerSearch)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordSearchStarted(t *testing.T) {
	m := NewMetrics("test_search_started")

	m.RecordSearchStarted("pubmed")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesStarted.WithLabelValues("pubmed")))
}

func TestRecordSearchCompleted(t *testing.T) {
	m := NewMetrics("test_search_completed")

	m.RecordSearchCompleted("europepmc", 42, 2.5)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesCompleted.WithLabelValues("europepmc")))
}

func TestRecordSearchFailed(t *testing.T) {
	m := NewMetrics("test_search_failed")

	m.RecordSearchFailed("pubmed", 1.0)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesFailed.WithLabelValues("pubmed")))
}

func TestRecordSearchUnitAbandoned(t *testing.T) {
	m := NewMetrics("test_search_unit_abandoned")

	m.RecordSearchUnitAbandoned("crossref")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchUnitsAbandoned.WithLabelValues("crossref")))
}

func TestRecordStudiesDiscovered(t *testing.T) {
	m := NewMetrics("test_studies_discovered")

	initial := testutil.ToFloat64(m.StudiesDiscovered)
	m.RecordStudiesDiscovered("pubmed", 25)
	assert.Equal(t, initial+25, testutil.ToFloat64(m.StudiesDiscovered))
	assert.Equal(t, float64(25), testutil.ToFloat64(m.StudiesBySource.WithLabelValues("pubmed")))
}

func TestRecordStudyDuplicates(t *testing.T) {
	m := NewMetrics("test_study_duplicates")

	initial := testutil.ToFloat64(m.StudiesDuplicate)
	m.RecordStudyDuplicates(7)
	assert.Equal(t, initial+7, testutil.ToFloat64(m.StudiesDuplicate))
}

func TestRecordSourceRequest(t *testing.T) {
	m := NewMetrics("test_source_request")

	m.RecordSourceRequest("pubmed", "esearch", 0.5)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceRequestsTotal.WithLabelValues("pubmed", "esearch")))
}

func TestRecordSourceRequestFailed(t *testing.T) {
	m := NewMetrics("test_source_request_failed")

	m.RecordSourceRequestFailed("europepmc", "search", "timeout")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceRequestsFailed.WithLabelValues("europepmc", "search", "timeout")))
}

func TestRecordSourceRateLimited(t *testing.T) {
	m := NewMetrics("test_source_rate_limited")

	m.RecordSourceRateLimited("pubmed")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceRateLimited.WithLabelValues("pubmed")))
}

func TestRecordEvidenceGrade(t *testing.T) {
	m := NewMetrics("test_evidence_grade")

	m.RecordEvidenceGrade("A")
	m.RecordEvidenceGrade("A")
	m.RecordEvidenceGrade("D")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EvidenceGrades.WithLabelValues("A")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EvidenceGrades.WithLabelValues("D")))
}

// Helper to get histogram sample count
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
