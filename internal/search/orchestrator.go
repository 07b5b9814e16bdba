package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/observability"
	"github.com/compoundintel/evidence-service/internal/studysources"
)

// SourceProvider yields the study sources to consult, in priority order.
type SourceProvider interface {
	EnabledSources() []studysources.StudySource
}

var _ SourceProvider = (*studysources.Registry)(nil)

// Orchestrator runs expanded search terms against the enabled study
// sources. It owns the two federation strategies: a priority-sequential
// walk and a bounded-concurrent fan-out. A failing source never fails a
// batch; failed units are logged, counted, and skipped so the pipeline
// degrades to whatever the remaining sources return.
type Orchestrator struct {
	sources SourceProvider
	config  Config
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewOrchestrator creates an orchestrator over the given sources.
// Zero-valued config fields fall back to the package defaults.
func NewOrchestrator(sources SourceProvider, cfg Config, logger zerolog.Logger, metrics *observability.Metrics) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{
		sources: sources,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// SearchSequential walks sources in priority order and, within each
// source, terms in expansion order. Each term asks the source for
// minPerSource records; a source stops contributing once it has returned
// at least twice that many, and the walk stops consulting further sources
// once maxResults records have been collected. A failed term is skipped.
//
// The returned slice is raw: duplicates across sources and terms are
// expected and are resolved downstream.
func (o *Orchestrator) SearchSequential(ctx context.Context, terms []string, maxResults, minPerSource int) []*domain.StudyRecord {
	var all []*domain.StudyRecord

	for _, source := range o.sources.EnabledSources() {
		if ctx.Err() != nil {
			break
		}

		var collected []*domain.StudyRecord
		for _, term := range terms {
			if ctx.Err() != nil {
				break
			}
			if len(collected) >= minPerSource*2 {
				break
			}

			result, err := o.searchOne(ctx, source, term, minPerSource)
			if err != nil {
				continue
			}
			collected = append(collected, result.Studies...)
		}

		all = append(all, collected...)
		if len(all) >= maxResults {
			break
		}
	}

	return all
}

// searchUnit is one (source, term) pair submitted to the worker pool.
type searchUnit struct {
	source studysources.StudySource
	term   string
}

// unitResult carries one unit's outcome back to the collector. idx is the
// unit's position in submission order.
type unitResult struct {
	idx    int
	result *studysources.SearchResult
	err    error
}

// SearchConcurrent fans (source, term) units out across a bounded worker
// pool and collects whatever finishes before the batch deadline. Fan-out
// is every enabled source crossed with the first TermsPerSource terms;
// each unit asks its source for UnitResults records. Units still running
// at the deadline are abandoned: their workers finish into a channel
// buffered to the unit count, so nothing blocks, and their results are
// discarded.
//
// Completed units are flattened in submission order, not completion
// order, so the output does not depend on scheduling.
func (o *Orchestrator) SearchConcurrent(ctx context.Context, terms []string) ([]*domain.StudyRecord, error) {
	if len(terms) > o.config.TermsPerSource {
		terms = terms[:o.config.TermsPerSource]
	}

	var units []searchUnit
	for _, source := range o.sources.EnabledSources() {
		for _, term := range terms {
			units = append(units, searchUnit{source: source, term: term})
		}
	}
	if len(units) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(o.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	batchCtx, cancel := context.WithTimeout(ctx, o.config.BatchTimeout)
	defer cancel()

	resultCh := make(chan unitResult, len(units))

	go func() {
		for i, unit := range units {
			submitErr := pool.Submit(func() {
				result, searchErr := o.searchOne(batchCtx, unit.source, unit.term, o.config.UnitResults)
				resultCh <- unitResult{idx: i, result: result, err: searchErr}
			})
			if submitErr != nil {
				logger := o.unitLogger(ctx, unit.source, unit.term)
				logger.Warn().
					Err(submitErr).
					Msg("search unit submission failed")
				resultCh <- unitResult{idx: i, err: submitErr}
			}
		}
	}()

	results := make([]*studysources.SearchResult, len(units))
	received := make([]bool, len(units))
	pending := len(units)

collect:
	for pending > 0 {
		select {
		case r := <-resultCh:
			pending--
			received[r.idx] = true
			if r.err == nil {
				results[r.idx] = r.result
			}
		case <-batchCtx.Done():
			break collect
		}
	}

	for i, unit := range units {
		if received[i] {
			continue
		}
		logger := o.unitLogger(ctx, unit.source, unit.term)
		logger.Warn().
			Dur("batch_timeout", o.config.BatchTimeout).
			Msg("search unit abandoned at batch deadline")
		o.metrics.RecordSearchUnitAbandoned(string(unit.source.SourceType()))
	}

	var all []*domain.StudyRecord
	for _, result := range results {
		if result == nil {
			continue
		}
		all = append(all, result.Studies...)
	}
	return all, nil
}

// searchOne runs a single (source, term) query with metrics and logging
// attached. Failures are recorded and returned; callers decide whether to
// skip the unit or abort the batch.
func (o *Orchestrator) searchOne(ctx context.Context, source studysources.StudySource, term string, maxResults int) (*studysources.SearchResult, error) {
	sourceType := string(source.SourceType())
	logger := o.unitLogger(ctx, source, term)

	o.metrics.RecordSearchStarted(sourceType)
	start := time.Now()

	result, err := source.Search(ctx, term, maxResults)
	elapsed := time.Since(start)

	if err != nil {
		o.metrics.RecordSearchFailed(sourceType, elapsed.Seconds())
		o.recordFailure(sourceType, err)
		logger.Warn().
			Err(err).
			Dur("duration", elapsed).
			Msg("source search failed")
		return nil, err
	}

	o.metrics.RecordSearchCompleted(sourceType, len(result.Studies), elapsed.Seconds())
	o.metrics.RecordStudiesDiscovered(sourceType, len(result.Studies))
	o.metrics.RecordSourceRequest(sourceType, "search", result.SearchDuration.Seconds())
	logger.Debug().
		Int("studies", len(result.Studies)).
		Int("total_results", result.TotalResults).
		Dur("duration", elapsed).
		Msg("source search completed")

	return result, nil
}

// recordFailure classifies a unit error into the request-failure metric
// family. Rate-limit responses get their own counter; nothing retries.
func (o *Orchestrator) recordFailure(sourceType string, err error) {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		o.metrics.RecordSourceRequestFailed(sourceType, netErr.Operation, "network")
		if netErr.IsRateLimited() {
			o.metrics.RecordSourceRateLimited(sourceType)
		}
		return
	}

	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		o.metrics.RecordSourceRequestFailed(sourceType, "search", "parse")
		return
	}

	o.metrics.RecordSourceRequestFailed(sourceType, "search", "other")
}

// unitLogger builds the logger for one (source, term) unit, carrying the
// compound-search correlation fields from the context.
func (o *Orchestrator) unitLogger(ctx context.Context, source studysources.StudySource, term string) zerolog.Logger {
	logger := o.logger
	if scope := observability.SearchScopeFromContext(ctx); scope.SearchID != "" {
		logger = observability.WithSearchContext(logger, scope.SearchID, scope.Compound)
	}
	return observability.WithSourceContext(logger, source.Name(), term)
}
