// Package dedup removes duplicate study records from federated search
// results. The same study routinely arrives several times: once per
// synonym term that matched it, and once per database that indexes it.
package dedup

import (
	"github.com/rs/zerolog"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// Deduplicator collapses records that share a canonical identifier.
type Deduplicator struct {
	logger zerolog.Logger
}

// New creates a Deduplicator that logs dropped duplicates at debug level.
func New(logger zerolog.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Deduplicate returns the unique records from the input, preserving
// order. The first occurrence of each canonical id wins; because sources
// are searched in priority order, the kept copy comes from the
// highest-priority source that reported the study.
//
// Records whose canonical id falls back to a title hash are additionally
// checked against the titles of every record seen so far. That catches
// the same identifier-less study arriving under different synonym terms.
// The input slice is not modified.
func (d *Deduplicator) Deduplicate(records []*domain.StudyRecord) []*domain.StudyRecord {
	seenIDs := make(map[string]struct{}, len(records))
	seenTitles := make(map[string]struct{}, len(records))
	unique := make([]*domain.StudyRecord, 0, len(records))

	for _, r := range records {
		id := r.CanonicalID()
		if _, ok := seenIDs[id]; ok {
			d.logDrop(r, id)
			continue
		}

		titleHash := domain.TitleHash(r.Title)
		if domain.IsTitleDerived(id) {
			if _, ok := seenTitles[titleHash]; ok {
				d.logDrop(r, id)
				continue
			}
		}

		seenIDs[id] = struct{}{}
		seenTitles[titleHash] = struct{}{}
		unique = append(unique, r)
	}

	if dropped := len(records) - len(unique); dropped > 0 {
		d.logger.Debug().
			Int("input", len(records)).
			Int("unique", len(unique)).
			Int("dropped", dropped).
			Msg("deduplicated study records")
	}
	return unique
}

func (d *Deduplicator) logDrop(r *domain.StudyRecord, id string) {
	d.logger.Debug().
		Str("canonical_id", id).
		Str("source", r.SourceDatabase).
		Str("title", r.Title).
		Msg("dropping duplicate study record")
}
