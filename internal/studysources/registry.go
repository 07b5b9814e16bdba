package studysources

import (
	"sort"
	"sync"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// sourcePriority fixes the order in which the federated pipeline consults
// sources. Lower values are consulted first. The sequential strategy
// walks sources in exactly this order; the concurrent strategy uses it
// only to make unit submission deterministic.
var sourcePriority = map[domain.SourceType]int{
	domain.SourceTypePubMed:          0,
	domain.SourceTypeEuropePMC:       1,
	domain.SourceTypeSemanticScholar: 2,
	domain.SourceTypeCrossRef:        3,
	domain.SourceTypeClinicalTrials:  4,
	domain.SourceTypeBioRxiv:         5,
}

// Priority returns the consultation rank for a source type. Types not in
// the priority table sort after all known types.
func Priority(st domain.SourceType) int {
	if p, ok := sourcePriority[st]; ok {
		return p
	}
	return len(sourcePriority)
}

// Registry manages study sources for the federated search pipeline.
// It provides thread-safe registration and retrieval, and returns source
// snapshots in fixed priority order.
type Registry struct {
	mu      sync.RWMutex
	sources map[domain.SourceType]StudySource
}

// NewRegistry creates a new source registry with an empty source map.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[domain.SourceType]StudySource),
	}
}

// Register adds a source to the registry.
// If a source with the same type already exists, it will be replaced.
// This method is thread-safe.
func (r *Registry) Register(source StudySource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.SourceType()] = source
}

// Get returns a source by type, or nil if not found.
// This method is thread-safe.
func (r *Registry) Get(sourceType domain.SourceType) StudySource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[sourceType]
}

// AllSources returns all registered sources in priority order.
// The returned slice is a snapshot and is safe to iterate even if
// sources are added or removed concurrently.
// This method is thread-safe.
func (r *Registry) AllSources() []StudySource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(false)
}

// EnabledSources returns only enabled sources, in priority order.
// Sources are considered enabled if their IsEnabled() method returns true.
// The returned slice is a snapshot and is safe to iterate even if
// sources are added or removed concurrently.
// This method is thread-safe.
func (r *Registry) EnabledSources() []StudySource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(true)
}

// snapshot collects sources under the caller's lock and orders them by
// priority, breaking ties on the type string so unknown types still come
// out deterministically.
func (r *Registry) snapshot(enabledOnly bool) []StudySource {
	sources := make([]StudySource, 0, len(r.sources))
	for _, source := range r.sources {
		if enabledOnly && !source.IsEnabled() {
			continue
		}
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		pi, pj := Priority(sources[i].SourceType()), Priority(sources[j].SourceType())
		if pi != pj {
			return pi < pj
		}
		return sources[i].SourceType() < sources[j].SourceType()
	})
	return sources
}
