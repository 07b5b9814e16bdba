// Package biorxiv provides a client for the bioRxiv and medRxiv preprint
// servers.
//
// The details API has no search endpoint, so the client pulls recent
// preprints for a date window from both servers and filters them locally
// against the search term. This package implements the
// studysources.StudySource interface.
//
// API Documentation: https://api.biorxiv.org
package biorxiv

// DetailsResponse represents the response from the details endpoint.
type DetailsResponse struct {
	// Messages carries request status metadata.
	Messages []Message `json:"messages"`

	// Collection contains the preprints for the requested window.
	Collection []Paper `json:"collection"`
}

// Message holds status metadata for a details request.
type Message struct {
	// Status is "ok" for successful requests.
	Status string `json:"status"`

	// Count is the number of preprints in this page.
	Count int `json:"count"`
}

// Paper represents a single preprint in the details API response.
type Paper struct {
	// DOI is the preprint's Digital Object Identifier.
	DOI string `json:"doi"`

	// Title is the preprint title.
	Title string `json:"title"`

	// Authors is a semicolon-separated author list.
	Authors string `json:"authors"`

	// Date is the posting date in YYYY-MM-DD format.
	Date string `json:"date"`

	// Category is the subject category (e.g. "neuroscience").
	Category string `json:"category"`

	// Abstract is the preprint abstract.
	Abstract string `json:"abstract"`

	// Server identifies the hosting server ("biorxiv" or "medrxiv").
	Server string `json:"server"`
}
