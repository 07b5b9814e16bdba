package semanticscholar

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
	// DefaultBaseURL is the default Semantic Scholar Graph API base URL.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultRateLimit is the default rate limit (1 request per second).
	// The shared unauthenticated pool throttles aggressively, so the
	// default stays conservative even when an API key is configured.
	DefaultRateLimit = 1.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 1

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 100

	// MaxLimit is the largest limit the paper search endpoint accepts.
	MaxLimit = 100

	// apiKeyHeader is the header name for API key authentication.
	apiKeyHeader = "x-api-key"

	// paperFields lists the fields requested for each paper.
	paperFields = "title,abstract,authors,journal,year,citationCount,url,externalIds"

	// sourceName is the human-readable name for this source.
	sourceName = "Semantic Scholar"
)

// Config holds configuration for the Semantic Scholar client.
type Config struct {
	// BaseURL is the Semantic Scholar Graph API base URL.
	BaseURL string

	// APIKey is an optional API key sent in the x-api-key header.
	APIKey string

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

// Client implements the studysources.StudySource interface for Semantic Scholar.
type Client struct {
	config     Config
	httpClient *studysources.HTTPClient
}

// Ensure Client implements StudySource interface.
var _ studysources.StudySource = (*Client)(nil)

// New creates a new Semantic Scholar client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpClient := studysources.NewHTTPClient(studysources.HTTPClientConfig{
		Timeout:      cfg.Timeout,
		RateLimit:    cfg.RateLimit,
		BurstSize:    cfg.BurstSize,
		UserAgent:    "CompoundIntel-EvidenceService/1.0",
		APIKey:       cfg.APIKey,
		APIKeyHeader: apiKeyHeader,
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new Semantic Scholar client with a custom
// HTTP client. This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *studysources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries Semantic Scholar for papers matching the given term.
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
		return nil, domain.NewNetworkError(sourceName, "search", resp.StatusCode, errorFromBody(resp.Body))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&searchResp); err != nil {
		return nil, domain.NewParseError(sourceName, "search response", err)
	}

	studies := make([]*domain.StudyRecord, 0, len(searchResp.Data))
	for i := range searchResp.Data {
		record := paperToStudy(&searchResp.Data[i])
		if record == nil {
			continue
		}
		studies = append(studies, record)
	}

	return &studysources.SearchResult{
		Studies:        studies,
		TotalResults:   searchResp.Total,
		Source:         domain.SourceTypeSemanticScholar,
		SearchDuration: time.Since(startTime),
	}, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeSemanticScholar
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// buildSearchURL constructs the paper search API URL.
func (c *Client) buildSearchURL(term string, maxResults int) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/paper/search"

	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}
	if maxResults > MaxLimit {
		maxResults = MaxLimit
	}

	query := url.Values{}
	query.Set("query", term)
	query.Set("fields", paperFields)
	query.Set("limit", strconv.Itoa(maxResults))

	baseURL.RawQuery = query.Encode()
	return baseURL.String(), nil
}

// errorFromBody extracts an API error message from a non-200 response body.
// Semantic Scholar reports errors as JSON with either an "error" or a
// "message" field; anything else falls back to the raw body text.
func errorFromBody(body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil {
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		if errResp.Message != "" {
			return fmt.Errorf("%s", errResp.Message)
		}
	}
	return fmt.Errorf("%s", strings.TrimSpace(string(raw)))
}

// paperToStudy converts a Semantic Scholar paper to a domain.StudyRecord.
// Returns nil when the paper carries no usable identifier.
func paperToStudy(paper *PaperResult) *domain.StudyRecord {
	record := &domain.StudyRecord{
		Title:           paper.Title,
		Abstract:        paper.Abstract,
		PublicationYear: paper.Year,
		SourceDatabase:  domain.SourceNameSemanticScholar,
		URL:             paper.URL,
		CitationCount:   paper.CitationCount,
	}

	if paper.Journal != nil {
		record.Journal = paper.Journal.Name
	}
	for _, author := range paper.Authors {
		if author.Name != "" {
			record.Authors = append(record.Authors, author.Name)
		}
	}
	if paper.ExternalIDs != nil {
		record.PMID = strings.TrimSpace(paper.ExternalIDs.PubMed)
		record.DOI = strings.TrimSpace(paper.ExternalIDs.DOI)
	}

	if !record.HasIdentifier() {
		return nil
	}

	record.Normalize()
	record.StudyType = evidence.ClassifyStudyType(record.Title, record.Abstract)
	return record
}
