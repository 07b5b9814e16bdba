// Package domain contains the core types shared across the evidence
// search pipeline: study records, identifiers, study-type vocabulary,
// evidence grades, and the error taxonomy.
package domain

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

// SourceType identifies a bibliographic source.
type SourceType string

const (
	SourceTypePubMed          SourceType = "pubmed"
	SourceTypeEuropePMC       SourceType = "europepmc"
	SourceTypeSemanticScholar SourceType = "semantic_scholar"
	SourceTypeCrossRef        SourceType = "crossref"
	SourceTypeClinicalTrials  SourceType = "clinical_trials"
	SourceTypeBioRxiv         SourceType = "biorxiv"
)

// Display names adapters write into StudyRecord.SourceDatabase. The
// relevance ranker's source weighting keys on these exact strings.
const (
	SourceNamePubMed          = "PubMed"
	SourceNameEuropePMC       = "Europe PMC"
	SourceNameSemanticScholar = "Semantic Scholar"
	SourceNameCrossRef        = "CrossRef"
	SourceNameClinicalTrials  = "ClinicalTrials.gov"
	SourceNameBioRxiv         = "bioRxiv"
	SourceNameMedRxiv         = "medRxiv"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips HTML tags and collapses runs of whitespace into a
// single space. Provider payloads mix plain text, JATS XML, and markdown;
// every free-text field passes through here before leaving an adapter.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// TitleHash returns the full hex md5 digest of the lowercased, trimmed
// title. The deduplicator keys its same-title check on this value;
// CanonicalID embeds its first 12 characters.
func TitleHash(title string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// StudyRecord is one literature item as reported by one source.
//
// Optional fields default to their zero values: an empty PMID, DOI, or
// URL means the provider did not report one, and a zero PublicationYear
// or CitationCount means unknown. Records are never mutated after an
// adapter hands them off; downstream stages build new slices.
type StudyRecord struct {
	Title           string    `json:"title"`
	Abstract        string    `json:"abstract"`
	Authors         []string  `json:"authors"`
	Journal         string    `json:"journal"`
	PublicationYear int       `json:"publication_year,omitempty"`
	PMID            string    `json:"pmid,omitempty"`
	DOI             string    `json:"doi,omitempty"`
	SourceDatabase  string    `json:"source_database"`
	StudyType       StudyType `json:"study_type"`
	URL             string    `json:"url,omitempty"`
	CitationCount   int       `json:"citation_count,omitempty"`
}

// Normalize cleans the record's free-text fields in place. Adapters call
// it once, immediately after parsing a provider payload.
func (r *StudyRecord) Normalize() {
	r.Title = CleanText(r.Title)
	r.Abstract = CleanText(r.Abstract)
	r.Journal = CleanText(r.Journal)
}

// HasIdentifier reports whether the record carries at least one of a
// PMID, a DOI, or a non-empty title. Records failing this check cannot
// be deduplicated and are dropped at the parse boundary.
func (r *StudyRecord) HasIdentifier() bool {
	return r.PMID != "" || r.DOI != "" || strings.TrimSpace(r.Title) != ""
}

// CanonicalID derives the deduplication key from the highest-priority
// identifier present: PMID, then DOI, then a 12-character title hash.
// Two records refer to the same study iff their canonical ids match.
func (r *StudyRecord) CanonicalID() string {
	if r.PMID != "" {
		return "pmid:" + r.PMID
	}
	if r.DOI != "" {
		return "doi:" + r.DOI
	}
	return "title:" + TitleHash(r.Title)[:12]
}

// IsTitleDerived reports whether a canonical id was produced from the
// title-hash fallback rather than a real identifier.
func IsTitleDerived(canonicalID string) bool {
	return strings.HasPrefix(canonicalID, "title:")
}
