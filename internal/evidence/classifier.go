// Package evidence turns raw study records into judgments: a per-record
// study-type classification, a per-record relevance score against the
// searched compound, and a compound-level evidence grade aggregated over
// the whole record set.
package evidence

import (
	"strings"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// ClassifyStudyType labels a study's design from its title and abstract.
// Matching is an ordered waterfall of case-insensitive substring checks
// and the first matching rule wins. Earlier rules deliberately shadow
// later ones (a meta-analysis of RCTs classifies as a meta-analysis), so
// the rule order is part of the contract: reordering changes how grading
// counts study designs.
func ClassifyStudyType(title, abstract string) domain.StudyType {
	text := strings.ToLower(title + " " + abstract)

	switch {
	case containsAny(text, "meta-analysis", "meta analysis", "metanalysis"):
		if strings.Contains(text, "systematic") {
			return domain.StudyTypeSystematicReviewWithMA
		}
		return domain.StudyTypeMetaAnalysis

	case strings.Contains(text, "systematic review"):
		return domain.StudyTypeSystematicReview

	case containsAny(text, "randomized controlled trial", "randomised controlled trial"):
		if containsAny(text, "double-blind", "double blind") {
			return domain.StudyTypeDoubleBlindRCT
		}
		if strings.Contains(text, "placebo") {
			return domain.StudyTypePlaceboControlledRCT
		}
		return domain.StudyTypeRandomizedControlledTrial

	// The bare abbreviation only counts alongside a corroborating term.
	case strings.Contains(text, "rct") && containsAny(text, "random", "trial"):
		return domain.StudyTypeRandomizedControlledTrial

	case containsAny(text, "clinical trial", "phase i", "phase ii", "phase iii"):
		return domain.StudyTypeClinicalTrial

	case strings.Contains(text, "prospective") && strings.Contains(text, "cohort"):
		return domain.StudyTypeProspectiveCohort

	case strings.Contains(text, "cohort"):
		return domain.StudyTypeRetrospectiveCohort

	case containsAny(text, "case-control", "case control"):
		return domain.StudyTypeCaseControl

	case containsAny(text, "cross-sectional", "cross sectional"):
		return domain.StudyTypeCrossSectional

	case strings.Contains(text, "case series"):
		return domain.StudyTypeCaseSeries

	case strings.Contains(text, "case report"):
		return domain.StudyTypeCaseReport

	case containsAny(text, "animal", "rat", "mouse", "rodent", "mice"):
		return domain.StudyTypeAnimalStudy

	case containsAny(text, "in vitro", "cell culture", "cell line"):
		return domain.StudyTypeInVitroStudy

	case strings.Contains(text, "review"):
		return domain.StudyTypeReview

	default:
		return domain.StudyTypeObservational
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
