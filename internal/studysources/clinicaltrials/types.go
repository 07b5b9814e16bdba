// Package clinicaltrials provides a client for the ClinicalTrials.gov API.
//
// ClinicalTrials.gov is the NIH registry of clinical studies. This package
// implements the studysources.StudySource interface against version 2 of
// its public API. Registry entries are interventional or observational
// trials rather than publications, so records carry no authors, journal,
// or publication year; the study type is always "Clinical Trial".
//
// API Documentation: https://clinicaltrials.gov/data-api/api
package clinicaltrials

// SearchResponse represents the response from the studies endpoint.
type SearchResponse struct {
	// TotalCount is the total number of matching studies. The API only
	// includes it when explicitly requested, so it may be zero.
	TotalCount int `json:"totalCount"`

	// Studies contains the studies returned for this page.
	Studies []Study `json:"studies"`

	// NextPageToken is the pagination token for the next page.
	NextPageToken string `json:"nextPageToken"`
}

// Study represents a single registry entry.
type Study struct {
	// ProtocolSection holds the registered protocol metadata.
	ProtocolSection ProtocolSection `json:"protocolSection"`
}

// ProtocolSection holds the protocol modules the adapter reads.
type ProtocolSection struct {
	// IdentificationModule identifies the study.
	IdentificationModule IdentificationModule `json:"identificationModule"`

	// DescriptionModule carries the study's free-text description.
	DescriptionModule DescriptionModule `json:"descriptionModule"`
}

// IdentificationModule identifies a registered study.
type IdentificationModule struct {
	// NCTID is the registry identifier (e.g. "NCT04480450").
	NCTID string `json:"nctId"`

	// BriefTitle is the short public title.
	BriefTitle string `json:"briefTitle"`

	// OfficialTitle is the full protocol title.
	OfficialTitle string `json:"officialTitle"`
}

// DescriptionModule carries the study's free-text description.
type DescriptionModule struct {
	// BriefSummary is a short markdown description of the study.
	BriefSummary string `json:"briefSummary"`
}
