package crossref

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
	// DefaultBaseURL is the default CrossRef REST API base URL.
	DefaultBaseURL = "https://api.crossref.org"

	// DefaultRateLimit is the default rate limit (1 request per second).
	DefaultRateLimit = 1.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 1

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 100

	// MaxRows is the largest rows value the works endpoint accepts.
	MaxRows = 100

	// workSelectFields trims responses to the fields the adapter maps.
	workSelectFields = "DOI,title,author,published,container-title,abstract,subject"

	// sourceName is the human-readable name for this source.
	sourceName = "CrossRef"
)

// Config holds configuration for the CrossRef client.
type Config struct {
	// BaseURL is the CrossRef REST API base URL.
	BaseURL string

	// Email is the contact email for the polite pool. CrossRef routes
	// requests carrying a mailto to better-provisioned servers.
	Email string

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

// Client implements the studysources.StudySource interface for CrossRef.
type Client struct {
	config     Config
	httpClient *studysources.HTTPClient
}

// Ensure Client implements StudySource interface.
var _ studysources.StudySource = (*Client)(nil)

// New creates a new CrossRef client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	userAgent := "CompoundIntel-EvidenceService/1.0"
	if cfg.Email != "" {
		userAgent = "CompoundIntel-EvidenceService/1.0 (mailto:" + cfg.Email + ")"
	}

	httpClient := studysources.NewHTTPClient(studysources.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: userAgent,
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new CrossRef client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *studysources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries CrossRef for works matching the given term.
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

	studies := make([]*domain.StudyRecord, 0, len(searchResp.Message.Items))
	for i := range searchResp.Message.Items {
		record := workToStudy(&searchResp.Message.Items[i])
		if record == nil {
			continue
		}
		studies = append(studies, record)
	}

	return &studysources.SearchResult{
		Studies:        studies,
		TotalResults:   searchResp.Message.TotalResults,
		Source:         domain.SourceTypeCrossRef,
		SearchDuration: time.Since(startTime),
	}, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeCrossRef
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// buildSearchURL constructs the works search API URL.
func (c *Client) buildSearchURL(term string, maxResults int) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/works"

	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}
	if maxResults > MaxRows {
		maxResults = MaxRows
	}

	query := url.Values{}
	query.Set("query", term)
	query.Set("rows", strconv.Itoa(maxResults))
	query.Set("select", workSelectFields)

	baseURL.RawQuery = query.Encode()
	return baseURL.String(), nil
}

// workToStudy converts a CrossRef work to a domain.StudyRecord.
// Returns nil when the work carries no usable identifier.
func workToStudy(work *Work) *domain.StudyRecord {
	record := &domain.StudyRecord{
		Title:          strings.Join(work.Title, " "),
		Abstract:       work.Abstract,
		Authors:        formatAuthors(work.Author),
		Journal:        strings.Join(work.ContainerTitle, " "),
		DOI:            strings.TrimSpace(work.DOI),
		SourceDatabase: domain.SourceNameCrossRef,
	}

	record.PublicationYear = work.Published.Year()
	if record.DOI != "" {
		record.URL = "https://doi.org/" + record.DOI
	}

	if !record.HasIdentifier() {
		return nil
	}

	// The abstract arrives as JATS XML; Normalize strips the markup.
	record.Normalize()
	record.StudyType = evidence.ClassifyStudyType(record.Title, record.Abstract)
	return record
}

// formatAuthors renders CrossRef authors as "Given Family". Entries
// missing either name part are dropped; CrossRef records organizations
// and partial attributions with only one of the two fields.
func formatAuthors(authors []Author) []string {
	var formatted []string
	for _, author := range authors {
		if author.Given == "" || author.Family == "" {
			continue
		}
		formatted = append(formatted, author.Given+" "+author.Family)
	}
	return formatted
}
