package evidence

import (
	"math"
	"sort"
	"strings"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// studyTypeRelevance weights study designs for ordering search results.
// It is independent of the grading weights in grader.go. Designs absent
// from the table, and records with an unrecognized label, score
// defaultRelevance.
var studyTypeRelevance = map[domain.StudyType]float64{
	domain.StudyTypeRandomizedControlledTrial: 8.0,
	domain.StudyTypeMetaAnalysis:              7.0,
	domain.StudyTypeSystematicReview:          6.0,
	domain.StudyTypeClinicalTrial:             6.0,
	"Cohort Study":                            5.0,
	domain.StudyTypeCaseControl:               4.0,
	domain.StudyTypeReview:                    3.0,
	domain.StudyTypeObservational:             2.0,
	domain.StudyTypeAnimalStudy:               1.0,
	domain.StudyTypeInVitroStudy:              0.5,
}

// sourceRelevance weights the database that reported a record, keyed by
// the display names in domain. Unknown sources score defaultRelevance.
var sourceRelevance = map[string]float64{
	domain.SourceNamePubMed:          5.0,
	domain.SourceNameEuropePMC:       4.0,
	domain.SourceNameClinicalTrials:  4.0,
	domain.SourceNameSemanticScholar: 3.0,
	domain.SourceNameCrossRef:        2.0,
	domain.SourceNameBioRxiv:         1.0,
	domain.SourceNameMedRxiv:         1.0,
}

const defaultRelevance = 1.0

// Score computes the relevance of one record to the searched compound.
// The score sums a title-mention bonus (+10), an abstract-mention bonus
// (+5), the study-type and source weights, a citation bonus capped at 5,
// and a recency bonus (+2 for 2020 or later, +1 for 2015 or later).
// Mention checks are case-insensitive substring tests.
func Score(r *domain.StudyRecord, compound string) float64 {
	needle := strings.ToLower(compound)

	score := 0.0
	if strings.Contains(strings.ToLower(r.Title), needle) {
		score += 10.0
	}
	if strings.Contains(strings.ToLower(r.Abstract), needle) {
		score += 5.0
	}

	if w, ok := studyTypeRelevance[r.StudyType]; ok {
		score += w
	} else {
		score += defaultRelevance
	}

	if w, ok := sourceRelevance[r.SourceDatabase]; ok {
		score += w
	} else {
		score += defaultRelevance
	}

	if r.CitationCount > 0 {
		score += math.Min(float64(r.CitationCount)*0.1, 5.0)
	}

	switch {
	case r.PublicationYear >= 2020:
		score += 2.0
	case r.PublicationYear >= 2015:
		score += 1.0
	}

	return score
}

// Rank returns the records ordered by descending Score against the
// compound. The sort is stable, so records with equal scores keep their
// input order. The input slice is not modified.
func Rank(records []*domain.StudyRecord, compound string) []*domain.StudyRecord {
	type scored struct {
		record *domain.StudyRecord
		score  float64
	}

	entries := make([]scored, len(records))
	for i, r := range records {
		entries[i] = scored{record: r, score: Score(r, compound)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ranked := make([]*domain.StudyRecord, len(entries))
	for i, e := range entries {
		ranked[i] = e.record
	}
	return ranked
}
