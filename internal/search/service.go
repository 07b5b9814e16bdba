// Package search composes the compound evidence pipeline: synonym
// expansion, federated source querying, deduplication, and relevance
// ranking. The Orchestrator runs one of two federation strategies over
// the registered sources; the Service wraps it with expansion, dedup,
// ranking, and per-search observability.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/compoundintel/evidence-service/internal/dedup"
	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/evidence"
	"github.com/compoundintel/evidence-service/internal/observability"
	"github.com/compoundintel/evidence-service/internal/synonym"
)

// Orchestration strategies.
const (
	// StrategySequential queries sources one at a time in priority order.
	StrategySequential = "sequential"
	// StrategyConcurrent fans (source, term) units out across a worker pool.
	StrategyConcurrent = "concurrent"
)

// Default pipeline tuning. Zero-valued Config fields pick these up.
const (
	DefaultMaxResults     = 50
	DefaultMinPerSource   = 5
	DefaultWorkers        = 6
	DefaultTermsPerSource = 3
	DefaultUnitResults    = 10
	DefaultBatchTimeout   = 60 * time.Second
)

// Config tunes the search pipeline.
type Config struct {
	// MaxResults caps the final deduplicated, ranked result set.
	MaxResults int

	// MinPerSource is the per-term request size for the sequential
	// strategy; a source stops contributing once it has returned twice
	// this many records.
	MinPerSource int

	// Strategy selects the orchestration mode when a request does not.
	Strategy string

	// Workers sizes the concurrent strategy's worker pool.
	Workers int

	// TermsPerSource bounds concurrent fan-out to the first N terms of
	// every source.
	TermsPerSource int

	// UnitResults is the per-unit request size for the concurrent strategy.
	UnitResults int

	// BatchTimeout bounds one concurrent batch end to end; units still
	// running at the deadline are abandoned.
	BatchTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.MinPerSource <= 0 {
		c.MinPerSource = DefaultMinPerSource
	}
	if c.Strategy == "" {
		c.Strategy = StrategySequential
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.TermsPerSource <= 0 {
		c.TermsPerSource = DefaultTermsPerSource
	}
	if c.UnitResults <= 0 {
		c.UnitResults = DefaultUnitResults
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}
}

// Options adjusts a single Search call. Zero values fall back to the
// service configuration.
type Options struct {
	// MaxResults overrides the configured result cap.
	MaxResults int

	// Strategy overrides the configured orchestration strategy.
	Strategy string
}

// Stats summarizes one pipeline run.
type Stats struct {
	// RawCount is how many records the sources returned before dedup.
	RawCount int `json:"raw_count"`

	// UniqueCount is how many records survived deduplication.
	UniqueCount int `json:"unique_count"`

	// DuplicateCount is how many records dedup dropped.
	DuplicateCount int `json:"duplicate_count"`

	// BySource counts raw records per reporting source.
	BySource map[string]int `json:"by_source"`

	// Duration is the end-to-end pipeline time, formatted for display.
	Duration string `json:"duration"`
}

// Result is the outcome of one compound search: the deduplicated,
// relevance-ranked study records plus run statistics.
type Result struct {
	SearchID string                `json:"search_id"`
	Compound string                `json:"compound"`
	Terms    []string              `json:"terms"`
	Studies  []*domain.StudyRecord `json:"studies"`
	Stats    Stats                 `json:"stats"`
}

// Service runs compound evidence searches end to end.
type Service struct {
	config       Config
	expander     *synonym.Expander
	orchestrator *Orchestrator
	dedup        *dedup.Deduplicator
	logger       zerolog.Logger
	metrics      *observability.Metrics
}

// New creates a search service over the given sources. metrics may be
// nil when collection is disabled.
func New(cfg Config, expander *synonym.Expander, sources SourceProvider, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	cfg.applyDefaults()
	return &Service{
		config:       cfg,
		expander:     expander,
		orchestrator: NewOrchestrator(sources, cfg, logger, metrics),
		dedup:        dedup.New(logger),
		logger:       logger,
		metrics:      metrics,
	}
}

// Search runs the full pipeline for one compound: expand the name into
// search terms, query sources under the selected strategy, deduplicate,
// rank by relevance, and truncate to the result cap.
//
// Source failures are absorbed along the way; an empty Studies slice is a
// valid outcome. The only input error is an empty compound name.
func (s *Service) Search(ctx context.Context, compound string, opts Options) (*Result, error) {
	compound = strings.TrimSpace(compound)
	if compound == "" {
		return nil, domain.ErrEmptyQuery
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.config.MaxResults
	}
	strategy, err := s.resolveStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}

	searchID := uuid.NewString()
	logger := observability.WithSearchContext(s.logger, searchID, compound)
	ctx = observability.WithSearchScope(ctx, observability.SearchScope{
		SearchID: searchID,
		Compound: compound,
	})

	s.metrics.RecordCompoundSearchStarted()
	start := time.Now()

	terms := s.expander.Expand(compound)
	s.metrics.RecordTermsExpanded(len(terms))
	logger.Info().
		Strs("terms", terms).
		Str("strategy", strategy).
		Int("max_results", maxResults).
		Msg("compound search started")

	var raw []*domain.StudyRecord
	switch strategy {
	case StrategyConcurrent:
		raw, err = s.orchestrator.SearchConcurrent(ctx, terms)
		if err != nil {
			s.metrics.RecordCompoundSearchFailed(time.Since(start).Seconds())
			return nil, fmt.Errorf("concurrent search: %w", err)
		}
	default:
		raw = s.orchestrator.SearchSequential(ctx, terms, maxResults, s.config.MinPerSource)
	}

	unique := s.dedup.Deduplicate(raw)
	s.metrics.RecordStudyDuplicates(len(raw) - len(unique))

	ranked := evidence.Rank(unique, compound)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	elapsed := time.Since(start)
	s.metrics.RecordCompoundSearchCompleted(elapsed.Seconds())
	logger.Info().
		Int("raw", len(raw)).
		Int("unique", len(unique)).
		Int("returned", len(ranked)).
		Dur("duration", elapsed).
		Msg("compound search completed")

	return &Result{
		SearchID: searchID,
		Compound: compound,
		Terms:    terms,
		Studies:  ranked,
		Stats: Stats{
			RawCount:       len(raw),
			UniqueCount:    len(unique),
			DuplicateCount: len(raw) - len(unique),
			BySource:       tallyBySource(raw),
			Duration:       elapsed.String(),
		},
	}, nil
}

// Grade computes the evidence grade for a result set.
func (s *Service) Grade(records []*domain.StudyRecord) *domain.EvidenceGrade {
	grade := evidence.Grade(records)
	s.metrics.RecordEvidenceGrade(grade.Grade)
	return grade
}

// resolveStrategy picks the orchestration strategy for one call. An
// empty override falls back to the configured default.
func (s *Service) resolveStrategy(override string) (string, error) {
	strategy := override
	if strategy == "" {
		strategy = s.config.Strategy
	}
	switch strings.ToLower(strategy) {
	case StrategySequential:
		return StrategySequential, nil
	case StrategyConcurrent:
		return StrategyConcurrent, nil
	default:
		return "", fmt.Errorf("unknown search strategy %q", strategy)
	}
}

// tallyBySource counts raw records per reporting source.
func tallyBySource(records []*domain.StudyRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.SourceDatabase]++
	}
	return counts
}
