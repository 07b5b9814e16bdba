package clinicaltrials

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
	"github.com/compoundintel/evidence-service/internal/studysources"
)

const (
	// DefaultBaseURL is the default ClinicalTrials.gov API v2 base URL.
	DefaultBaseURL = "https://clinicaltrials.gov/api/v2"

	// DefaultRateLimit is the default rate limit (2 requests per second).
	DefaultRateLimit = 2.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 2

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 100

	// MaxPageSize is the largest pageSize the studies endpoint accepts.
	MaxPageSize = 100

	// sourceName is the human-readable name for this source.
	sourceName = domain.SourceNameClinicalTrials
)

// Config holds configuration for the ClinicalTrials.gov client.
type Config struct {
	// BaseURL is the ClinicalTrials.gov API base URL.
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

// Client implements the studysources.StudySource interface for
// ClinicalTrials.gov.
type Client struct {
	config     Config
	httpClient *studysources.HTTPClient
}

// Ensure Client implements StudySource interface.
var _ studysources.StudySource = (*Client)(nil)

// New creates a new ClinicalTrials.gov client with the given configuration.
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

// NewWithHTTPClient creates a new ClinicalTrials.gov client with a custom
// HTTP client. This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *studysources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries the registry for studies matching the given term.
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

	studies := make([]*domain.StudyRecord, 0, len(searchResp.Studies))
	for i := range searchResp.Studies {
		record := studyToRecord(&searchResp.Studies[i])
		if record == nil {
			continue
		}
		studies = append(studies, record)
	}

	// The API omits totalCount unless asked to count; fall back to the
	// page size so callers still see a non-zero result count.
	total := searchResp.TotalCount
	if total == 0 {
		total = len(searchResp.Studies)
	}

	return &studysources.SearchResult{
		Studies:        studies,
		TotalResults:   total,
		Source:         domain.SourceTypeClinicalTrials,
		SearchDuration: time.Since(startTime),
	}, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeClinicalTrials
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// buildSearchURL constructs the studies search API URL.
func (c *Client) buildSearchURL(term string, maxResults int) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/studies"

	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}
	if maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}

	query := url.Values{}
	query.Set("query.term", term)
	query.Set("pageSize", strconv.Itoa(maxResults))
	query.Set("format", "json")

	baseURL.RawQuery = query.Encode()
	return baseURL.String(), nil
}

// studyToRecord converts a registry entry to a domain.StudyRecord.
// Returns nil when the entry has no title to identify it by; registry
// entries carry no PMID or DOI, so deduplication keys on the title hash.
func studyToRecord(study *Study) *domain.StudyRecord {
	ident := study.ProtocolSection.IdentificationModule

	title := ident.OfficialTitle
	if title == "" {
		title = ident.BriefTitle
	}

	record := &domain.StudyRecord{
		Title:          title,
		Abstract:       study.ProtocolSection.DescriptionModule.BriefSummary,
		Journal:        sourceName,
		SourceDatabase: sourceName,
	}

	if ident.NCTID != "" {
		record.URL = "https://clinicaltrials.gov/study/" + ident.NCTID
	}

	if !record.HasIdentifier() {
		return nil
	}

	record.Normalize()
	// Registry entries are trials by definition; the shared classifier
	// is not consulted.
	record.StudyType = domain.StudyTypeClinicalTrial
	return record
}
