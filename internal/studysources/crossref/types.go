// Package crossref provides a client for the CrossRef REST API.
//
// CrossRef is the DOI registration agency for scholarly publishing and
// exposes bibliographic metadata for over 150 million works. This package
// implements the studysources.StudySource interface for searching the
// works endpoint.
//
// API Documentation: https://api.crossref.org/swagger-ui/index.html
package crossref

// SearchResponse represents the envelope returned by the works endpoint.
type SearchResponse struct {
	// Status is "ok" for successful requests.
	Status string `json:"status"`

	// Message contains the search results.
	Message Message `json:"message"`
}

// Message holds the result payload of a works search.
type Message struct {
	// TotalResults is the total number of works matching the query.
	TotalResults int `json:"total-results"`

	// Items contains the works returned for this page.
	Items []Work `json:"items"`
}

// Work represents a single work in the CrossRef API response.
// CrossRef models most free-text fields as arrays even when they hold a
// single value.
type Work struct {
	// DOI is the Digital Object Identifier.
	DOI string `json:"DOI"`

	// Title holds the work's title, split across array elements.
	Title []string `json:"title"`

	// Author is the list of contributing authors.
	Author []Author `json:"author"`

	// Published holds the earliest known publication date.
	Published *DateField `json:"published,omitempty"`

	// ContainerTitle holds the journal or venue title.
	ContainerTitle []string `json:"container-title"`

	// Abstract is the work's abstract as JATS XML.
	Abstract string `json:"abstract"`

	// Subject lists subject classifications for the work.
	Subject []string `json:"subject"`
}

// Author represents a work author.
type Author struct {
	// Given is the author's given name(s).
	Given string `json:"given"`

	// Family is the author's family name.
	Family string `json:"family"`
}

// DateField represents a CrossRef date as nested date parts:
// [[year, month, day]], with month and day optional.
type DateField struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the year component of the date, or 0 when absent.
func (d *DateField) Year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
