// Package observability provides logging and metrics support for the
// evidence search service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for compound searches, sources, and studies
//   - Context helpers for propagating search correlation data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("compound", compound).Msg("compound search started")
//
// Add search context to a logger:
//
//	logger = observability.WithSearchContext(logger, searchID, compound)
//	logger = observability.WithSourceContext(logger, "pubmed", term)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("evidence")
//
// Record metrics:
//
//	metrics.RecordCompoundSearchStarted()
//	metrics.RecordSearchCompleted("pubmed", len(studies), elapsed.Seconds())
//	metrics.RecordStudiesDiscovered("pubmed", len(studies))
//
// # Context Helpers
//
// Store and retrieve search correlation data:
//
//	ctx = observability.WithSearchID(ctx, searchID)
//	ctx = observability.WithCompound(ctx, compound)
//
//	searchID := observability.SearchIDFromContext(ctx)
//	compound := observability.CompoundFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - search_id: Compound search correlation identifier
//   - compound: Compound name under search
//   - source: Study source (pubmed, europepmc, etc.)
//   - term: Search term sent to a source
//   - canonical_id: Deduplication identity of a study record
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
