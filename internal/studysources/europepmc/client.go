package europepmc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/evidence"
	"github.com/compoundintel/evidence-service/internal/studysources"
)

const (
	// DefaultBaseURL is the default Europe PMC API base URL.
	DefaultBaseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest"

	// DefaultRateLimit is the default rate limit (2 requests per second).
	DefaultRateLimit = 2.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 2

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 100

	// MaxPageSize is the largest pageSize the search endpoint accepts.
	MaxPageSize = 100

	// sourceName is the human-readable name for this source.
	sourceName = "Europe PMC"
)

// Config holds configuration for the Europe PMC client.
type Config struct {
	// BaseURL is the Europe PMC API base URL.
	BaseURL string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// MaxResults is the maximum results to return per search request.
	MaxResults int

	// Enabled indicates whether this source is enabled for searches.
	Enabled bool
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client implements the studysources.StudySource interface for Europe PMC.
type Client struct {
	config     Config
	httpClient *studysources.HTTPClient
}

// Ensure Client implements StudySource interface.
var _ studysources.StudySource = (*Client)(nil)

// New creates a new Europe PMC client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpClient := studysources.NewHTTPClient(studysources.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: "CompoundIntel-EvidenceService/1.0",
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new Europe PMC client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *studysources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries Europe PMC for studies matching the given term.
// Results come back citation-sorted; the query restricts hits to the
// MEDLINE and PubMed Central sources so preprints stay with the
// dedicated bioRxiv client.
func (c *Client) Search(ctx context.Context, term string, maxResults int) (*studysources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, domain.ErrSourceDisabled
	}

	startTime := time.Now()

	searchURL, err := c.buildSearchURL(term, maxResults)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(sourceName, "search", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewNetworkError(sourceName, "search", resp.StatusCode, nil)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&searchResp); err != nil {
		return nil, domain.NewParseError(sourceName, "search response", err)
	}

	studies := make([]*domain.StudyRecord, 0, len(searchResp.ResultList.Result))
	for i := range searchResp.ResultList.Result {
		record := articleToStudy(&searchResp.ResultList.Result[i])
		if record == nil {
			continue
		}
		studies = append(studies, record)
	}

	return &studysources.SearchResult{
		Studies:        studies,
		TotalResults:   searchResp.HitCount,
		Source:         domain.SourceTypeEuropePMC,
		SearchDuration: time.Since(startTime),
	}, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeEuropePMC
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// buildSearchURL constructs the Europe PMC search API URL.
func (c *Client) buildSearchURL(term string, maxResults int) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/search"

	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}
	if maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}

	query := url.Values{}
	query.Set("query", fmt.Sprintf(`"%s" AND (SRC:MED OR SRC:PMC)`, term))
	query.Set("format", "json")
	query.Set("resultType", "core")
	query.Set("synonym", "true")
	query.Set("sort", "CITED desc")
	query.Set("pageSize", strconv.Itoa(maxResults))

	baseURL.RawQuery = query.Encode()
	return baseURL.String(), nil
}

// articleToStudy converts a Europe PMC article to a domain.StudyRecord.
// Returns nil when the article carries no usable identifier.
func articleToStudy(article *Article) *domain.StudyRecord {
	record := &domain.StudyRecord{
		Title:          article.Title,
		Abstract:       article.AbstractText,
		Authors:        parseAuthorString(article.AuthorString),
		Journal:        article.JournalTitle,
		PMID:           strings.TrimSpace(article.PMID),
		DOI:            strings.TrimSpace(article.DOI),
		SourceDatabase: domain.SourceNameEuropePMC,
		CitationCount:  article.CitedByCount,
	}

	if article.PubYear != "" {
		record.PublicationYear, _ = strconv.Atoi(article.PubYear)
	}
	if record.PMID != "" {
		record.URL = "https://europepmc.org/article/MED/" + record.PMID
	}

	if !record.HasIdentifier() {
		return nil
	}

	record.Normalize()
	record.StudyType = evidence.ClassifyStudyType(record.Title, record.Abstract)
	return record
}

// parseAuthorString splits the Europe PMC authorString field.
// The format is "Given Surname, Given Surname, Given Surname." with a
// trailing period; entries are separated by ", ".
func parseAuthorString(authorString string) []string {
	authorString = strings.TrimSpace(authorString)
	authorString = strings.TrimSuffix(authorString, ".")
	if authorString == "" {
		return nil
	}

	parts := strings.Split(authorString, ", ")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		authors = append(authors, name)
	}

	return authors
}
