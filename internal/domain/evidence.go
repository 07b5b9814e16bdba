package domain

// StudyType labels the design of a study. The vocabulary is closed:
// adapters and the classifier only ever emit the constants below, and
// the grading tables key on them.
type StudyType string

const (
	StudyTypeMetaAnalysis              StudyType = "Meta-Analysis"
	StudyTypeSystematicReviewWithMA    StudyType = "Systematic Review with Meta-Analysis"
	StudyTypeSystematicReview          StudyType = "Systematic Review"
	StudyTypeDoubleBlindRCT            StudyType = "Double-Blind RCT"
	StudyTypePlaceboControlledRCT      StudyType = "Placebo-Controlled RCT"
	StudyTypeRandomizedControlledTrial StudyType = "Randomized Controlled Trial"
	StudyTypeClinicalTrial             StudyType = "Clinical Trial"
	StudyTypeProspectiveCohort         StudyType = "Prospective Cohort Study"
	StudyTypeRetrospectiveCohort       StudyType = "Retrospective Cohort Study"
	StudyTypeCaseControl               StudyType = "Case-Control Study"
	StudyTypeCrossSectional            StudyType = "Cross-Sectional Study"
	StudyTypeCaseSeries                StudyType = "Case Series"
	StudyTypeCaseReport                StudyType = "Case Report"
	StudyTypeAnimalStudy               StudyType = "Animal Study"
	StudyTypeInVitroStudy              StudyType = "In Vitro Study"
	StudyTypeReview                    StudyType = "Review"
	StudyTypeObservational             StudyType = "Observational Study"
)

// RecentStudyYear is the publication-year floor for the "recent studies"
// counters in grading.
const RecentStudyYear = 2019

// EvidenceGrade summarizes the aggregate strength of published evidence
// for one compound. It is computed on demand from a classified,
// deduplicated record set and is never persisted.
type EvidenceGrade struct {
	// Grade is the letter summary, A (strongest) through D (weakest).
	Grade string `json:"grade"`

	// Confidence expresses how firmly the grade rule matched, in [0,1].
	Confidence float64 `json:"confidence"`

	StudyCount int `json:"study_count"`

	// RCTCount totals plain, double-blind, and placebo-controlled RCTs.
	RCTCount int `json:"rct_count"`

	// MetaAnalysisCount counts pure meta-analyses only; systematic
	// reviews with meta-analysis appear in the distribution map.
	MetaAnalysisCount     int `json:"meta_analysis_count"`
	ReviewCount           int `json:"review_count"`
	SystematicReviewCount int `json:"systematic_review_count"`

	// CohortStudyCount totals prospective and retrospective cohorts.
	CohortStudyCount int `json:"cohort_study_count"`
	CaseControlCount int `json:"case_control_count"`
	AnimalStudyCount int `json:"animal_study_count"`
	InVitroCount     int `json:"in_vitro_count"`

	// QualityScore is the weighted study-mix score in [0,10].
	QualityScore float64 `json:"quality_score"`

	StudyTypeDistribution map[StudyType]int `json:"study_type_distribution"`

	// RecentStudiesCount counts studies published in RecentStudyYear
	// or later.
	RecentStudiesCount int `json:"recent_studies_count"`

	// HighImpactJournals counts studies whose journal name matches a
	// known impact-tier keyword.
	HighImpactJournals int `json:"high_impact_journals"`
}
