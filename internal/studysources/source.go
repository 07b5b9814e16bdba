// Package studysources provides interfaces and types for bibliographic study source clients.
//
// This package defines the foundational abstractions that all study source implementations
// must follow. Each database (PubMed, Europe PMC, Semantic Scholar, CrossRef,
// ClinicalTrials.gov, bioRxiv/medRxiv) implements the StudySource interface, allowing
// the federated search pipeline to query multiple sources with a unified API.
//
// Example usage:
//
//	source := pubmed.New(cfg)
//	result, err := source.Search(ctx, "berberine", 25)
package studysources

import (
	"context"
	"time"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// SearchResult contains the results from a study source search operation.
type SearchResult struct {
	// Studies contains the study records returned by the search.
	// May be empty if no studies match the search term.
	Studies []*domain.StudyRecord

	// TotalResults is the total number of records matching the query,
	// regardless of the requested limit. This value is provided by the
	// source API and may be an estimate for large result sets. Sources
	// that do not report a total set it to len(Studies).
	TotalResults int

	// Source identifies which study source provided these results.
	Source domain.SourceType

	// SearchDuration is the time taken to execute the search,
	// including network latency and response parsing.
	SearchDuration time.Duration
}

// StudySource defines the interface that all study source clients must implement.
// Each bibliographic database or API (PubMed, Europe PMC, CrossRef, etc.)
// provides its own implementation of this interface.
type StudySource interface {
	// Search queries the source for studies matching the given term.
	// maxResults bounds how many records the source is asked for; sources
	// apply their own caps on top. The context should be used for
	// cancellation and deadline propagation.
	//
	// Implementations should:
	//   - Respect context cancellation
	//   - Apply rate limiting before every outbound request
	//   - Transform source-specific responses to domain.StudyRecord
	//   - Surface transport failures as domain.NetworkError and schema
	//     surprises as domain.ParseError
	//   - Skip individual records that cannot be parsed rather than
	//     failing the whole response
	Search(ctx context.Context, term string, maxResults int) (*SearchResult, error)

	// SourceType returns the type identifier for this study source.
	// Used for attribution, priority ordering, and routing.
	SourceType() domain.SourceType

	// Name returns a human-readable name for this study source.
	// Used for logging, metrics, and display purposes.
	Name() string

	// IsEnabled returns whether this study source is currently enabled
	// and available for searches. A source may be disabled through
	// configuration or because a required credential is missing.
	IsEnabled() bool
}
