// Package europepmc provides a client for the Europe PMC REST API.
//
// Europe PMC aggregates MEDLINE and PubMed Central records and exposes
// them through a JSON search endpoint. This package implements the
// studysources.StudySource interface to search published literature
// (SRC:MED and SRC:PMC sources).
//
// API documentation: https://europepmc.org/RestfulWebService
package europepmc

// SearchResponse is the top-level response from the Europe PMC search endpoint.
type SearchResponse struct {
	// Version is the API version string.
	Version string `json:"version"`

	// HitCount is the total number of results matching the query.
	HitCount int `json:"hitCount"`

	// NextCursorMark is the cursor for fetching the next page of results.
	NextCursorMark string `json:"nextCursorMark"`

	// ResultList contains the search results.
	ResultList ResultList `json:"resultList"`
}

// ResultList wraps the array of article results.
type ResultList struct {
	// Result is the array of articles.
	Result []Article `json:"result"`
}

// Article represents a single article from Europe PMC.
// Every field is optional in the payload; absent fields decode to zero
// values.
type Article struct {
	// ID is the Europe PMC internal identifier.
	ID string `json:"id"`

	// Source is the data source (MED, PMC, PPR, etc.).
	Source string `json:"source"`

	// PMID is the PubMed identifier.
	PMID string `json:"pmid"`

	// PMCID is the PubMed Central identifier.
	PMCID string `json:"pmcid"`

	// DOI is the Digital Object Identifier.
	DOI string `json:"doi"`

	// Title is the article title.
	Title string `json:"title"`

	// AuthorString is the full author list as a single string,
	// e.g. "Smith J, Jones A, Brown K.".
	AuthorString string `json:"authorString"`

	// JournalTitle is the name of the journal.
	JournalTitle string `json:"journalTitle"`

	// PubYear is the publication year as a string.
	PubYear string `json:"pubYear"`

	// AbstractText is the article abstract.
	AbstractText string `json:"abstractText"`

	// CitedByCount is the number of citations.
	CitedByCount int `json:"citedByCount"`

	// FirstPublicationDate is the date of first publication (YYYY-MM-DD).
	FirstPublicationDate string `json:"firstPublicationDate"`
}
