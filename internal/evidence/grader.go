package evidence

import (
	"math"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// maxGradingWeight anchors the quality-score denominator: a record set
// composed entirely of meta-analyses earns a perfect base score.
const maxGradingWeight = 15.0

// gradingWeight scores the methodological strength of each study design
// for the quality score. It is independent of the ranking weights in
// ranker.go. Unrecognized labels weigh 1.
var gradingWeight = map[domain.StudyType]float64{
	domain.StudyTypeMetaAnalysis:              15,
	domain.StudyTypeSystematicReviewWithMA:    14,
	domain.StudyTypeSystematicReview:          12,
	domain.StudyTypeRandomizedControlledTrial: 10,
	domain.StudyTypeDoubleBlindRCT:            11,
	domain.StudyTypePlaceboControlledRCT:      11,
	domain.StudyTypeClinicalTrial:             8,
	domain.StudyTypeProspectiveCohort:         7,
	domain.StudyTypeRetrospectiveCohort:       6,
	domain.StudyTypeCaseControl:               5,
	domain.StudyTypeCrossSectional:            4,
	domain.StudyTypeCaseSeries:                3,
	domain.StudyTypeCaseReport:                2,
	domain.StudyTypeReview:                    4,
	domain.StudyTypeAnimalStudy:               3,
	domain.StudyTypeInVitroStudy:              2,
	domain.StudyTypeObservational:             4,
}

// Grade aggregates a classified, deduplicated record set into a
// compound-level evidence grade.
//
// The quality score combines the weighted study-design mix with bonuses
// for corpus size, recency, and high-impact journals, clamped to [0,10].
// The letter grade and confidence come from an ordered rule set over the
// meta-analysis, RCT, and systematic-review counts plus the quality
// score; the first matching rule wins.
//
// Records carrying an empty StudyType are classified from their text
// first. An empty input grades D with zero confidence.
func Grade(records []*domain.StudyRecord) *domain.EvidenceGrade {
	if len(records) == 0 {
		return &domain.EvidenceGrade{
			Grade:                 "D",
			Confidence:            0.0,
			StudyTypeDistribution: map[domain.StudyType]int{},
		}
	}

	distribution := make(map[domain.StudyType]int)
	recent := 0
	highImpact := 0
	for _, r := range records {
		distribution[recordStudyType(r)]++
		if r.PublicationYear >= domain.RecentStudyYear {
			recent++
		}
		if isHighImpactJournal(r.Journal) {
			highImpact++
		}
	}

	score := qualityScore(len(records), distribution, recent, highImpact)
	grade, confidence := determineGrade(distribution, score, len(records))

	return &domain.EvidenceGrade{
		Grade:      grade,
		Confidence: confidence,
		StudyCount: len(records),
		RCTCount: distribution[domain.StudyTypeRandomizedControlledTrial] +
			distribution[domain.StudyTypeDoubleBlindRCT] +
			distribution[domain.StudyTypePlaceboControlledRCT],
		MetaAnalysisCount:     distribution[domain.StudyTypeMetaAnalysis],
		ReviewCount:           distribution[domain.StudyTypeReview],
		SystematicReviewCount: distribution[domain.StudyTypeSystematicReview],
		CohortStudyCount: distribution[domain.StudyTypeProspectiveCohort] +
			distribution[domain.StudyTypeRetrospectiveCohort],
		CaseControlCount:      distribution[domain.StudyTypeCaseControl],
		AnimalStudyCount:      distribution[domain.StudyTypeAnimalStudy],
		InVitroCount:          distribution[domain.StudyTypeInVitroStudy],
		QualityScore:          score,
		StudyTypeDistribution: distribution,
		RecentStudiesCount:    recent,
		HighImpactJournals:    highImpact,
	}
}

// recordStudyType returns the record's label, classifying from its text
// when the source left the field empty.
func recordStudyType(r *domain.StudyRecord) domain.StudyType {
	if r.StudyType != "" {
		return r.StudyType
	}
	return ClassifyStudyType(r.Title, r.Abstract)
}

// qualityScore computes the [0,10] quality score for n records with the
// given design distribution, recent-study count, and high-impact count.
func qualityScore(n int, distribution map[domain.StudyType]int, recent, highImpact int) float64 {
	total := 0.0
	for studyType, count := range distribution {
		weight, ok := gradingWeight[studyType]
		if !ok {
			weight = 1.0
		}
		total += weight * float64(count)
	}
	base := total / (float64(n) * maxGradingWeight) * 10.0

	bonus := 0.0
	switch {
	case n >= 20:
		bonus += 1.5
	case n >= 10:
		bonus += 1.0
	case n >= 5:
		bonus += 0.5
	}
	bonus += float64(recent) / float64(n) * 0.5
	bonus += math.Min(float64(highImpact)/float64(n)*2.0, 1.0)

	return math.Min(base+bonus, 10.0)
}

// determineGrade maps the study-design mix and quality score to a letter
// grade with confidence. Rules are evaluated in order, strongest
// evidence first, and the first matching rule wins.
func determineGrade(distribution map[domain.StudyType]int, score float64, n int) (string, float64) {
	rcts := distribution[domain.StudyTypeRandomizedControlledTrial] +
		distribution[domain.StudyTypeDoubleBlindRCT] +
		distribution[domain.StudyTypePlaceboControlledRCT]
	metas := distribution[domain.StudyTypeMetaAnalysis] +
		distribution[domain.StudyTypeSystematicReviewWithMA]
	sysReviews := distribution[domain.StudyTypeSystematicReview]

	switch {
	case metas >= 3 || (metas >= 2 && score >= 8.5):
		return "A", 0.95
	case metas >= 2 || (rcts >= 8 && score >= 8):
		return "A", 0.90
	case metas >= 1 && rcts >= 5 && score >= 7.5:
		return "A", 0.85
	case metas >= 1 || (rcts >= 5 && score >= 7):
		return "B", 0.80
	case rcts >= 3 && sysReviews >= 1 && score >= 6.5:
		return "B", 0.75
	case rcts >= 3 && score >= 6:
		return "B", 0.70
	case rcts >= 2 || (rcts >= 1 && n >= 15 && score >= 5):
		return "C", 0.60
	case rcts >= 1 && score >= 4.5:
		return "C", 0.55
	case n >= 20 && score >= 4:
		return "C", 0.50
	case n >= 10 && score >= 3:
		return "D", 0.40
	case n >= 5:
		return "D", 0.35
	default:
		return "D", 0.30
	}
}
