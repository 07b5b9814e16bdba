package biorxiv

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
	// DefaultBaseURL is the default details API base URL.
	DefaultBaseURL = "https://api.biorxiv.org/details"

	// DefaultRateLimit is the default rate limit (2 requests per second).
	DefaultRateLimit = 2.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 2

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResults is the default maximum results per search. The
	// details API returns whole recent-window pages, so this bounds the
	// locally filtered matches rather than a request parameter.
	DefaultMaxResults = 25

	// DefaultWindowDays is the default recency window for preprints.
	DefaultWindowDays = 365

	// serverBioRxiv and serverMedRxiv are the details API server names.
	serverBioRxiv = "biorxiv"
	serverMedRxiv = "medrxiv"

	// sourceName is the human-readable name for this source.
	sourceName = "bioRxiv/medRxiv"
)

// preprintServers lists the servers queried for every search, in order.
var preprintServers = []string{serverBioRxiv, serverMedRxiv}

// Config holds configuration for the bioRxiv/medRxiv client.
type Config struct {
	// BaseURL is the details API base URL.
	BaseURL string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// MaxResults is the maximum matches to return per search.
	MaxResults int

	// WindowDays is how many days back the recency window reaches.
	WindowDays int

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
	if c.WindowDays == 0 {
		c.WindowDays = DefaultWindowDays
	}
}

// Client implements the studysources.StudySource interface for the
// bioRxiv and medRxiv preprint servers.
type Client struct {
	config     Config
	httpClient *studysources.HTTPClient
}

// Ensure Client implements StudySource interface.
var _ studysources.StudySource = (*Client)(nil)

// New creates a new bioRxiv/medRxiv client with the given configuration.
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

// NewWithHTTPClient creates a new bioRxiv/medRxiv client with a custom
// HTTP client. This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *studysources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search pulls recent preprints from both servers and keeps the ones
// mentioning the term in their title or abstract. A server that fails is
// skipped; the error only surfaces when every server failed and nothing
// was collected.
func (c *Client) Search(ctx context.Context, term string, maxResults int) (*studysources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, domain.ErrSourceDisabled
	}

	startTime := time.Now()

	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}

	to := time.Now()
	from := to.AddDate(0, 0, -c.config.WindowDays)
	needle := strings.ToLower(term)

	var studies []*domain.StudyRecord
	var lastErr error

	for _, server := range preprintServers {
		collection, err := c.fetchRecent(ctx, server, from, to)
		if err != nil {
			lastErr = err
			continue
		}

		for i := range collection {
			paper := &collection[i]
			if !matchesTerm(paper, needle) {
				continue
			}
			record := paperToStudy(paper, server)
			if record == nil {
				continue
			}
			studies = append(studies, record)
			if len(studies) >= maxResults {
				break
			}
		}

		if len(studies) >= maxResults {
			break
		}
	}

	if len(studies) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return &studysources.SearchResult{
		Studies:        studies,
		TotalResults:   len(studies),
		Source:         domain.SourceTypeBioRxiv,
		SearchDuration: time.Since(startTime),
	}, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeBioRxiv
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// fetchRecent retrieves one server's preprints for the date window.
func (c *Client) fetchRecent(ctx context.Context, server string, from, to time.Time) ([]Paper, error) {
	detailsURL, err := c.buildDetailsURL(server, from, to)
	if err != nil {
		return nil, fmt.Errorf("building details URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(sourceName, "details "+server, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewNetworkError(sourceName, "details "+server, resp.StatusCode, nil)
	}

	var detailsResp DetailsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&detailsResp); err != nil {
		return nil, domain.NewParseError(sourceName, server+" details response", err)
	}

	return detailsResp.Collection, nil
}

// buildDetailsURL constructs the details API URL for one server:
// {base}/{server}/{from}/{to}/0, with the trailing cursor fixed at 0.
func (c *Client) buildDetailsURL(server string, from, to time.Time) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + fmt.Sprintf(
		"/%s/%s/%s/0", server, from.Format("2006-01-02"), to.Format("2006-01-02"))

	return baseURL.String(), nil
}

// matchesTerm reports whether the preprint mentions the casefolded term
// in its title or abstract.
func matchesTerm(paper *Paper, needle string) bool {
	return strings.Contains(strings.ToLower(paper.Title), needle) ||
		strings.Contains(strings.ToLower(paper.Abstract), needle)
}

// paperToStudy converts a preprint to a domain.StudyRecord.
// Returns nil when the preprint carries no usable identifier.
func paperToStudy(paper *Paper, server string) *domain.StudyRecord {
	displayName := domain.SourceNameBioRxiv
	if server == serverMedRxiv {
		displayName = domain.SourceNameMedRxiv
	}

	record := &domain.StudyRecord{
		Title:          paper.Title,
		Abstract:       paper.Abstract,
		Authors:        splitAuthors(paper.Authors),
		Journal:        displayName + " Preprint",
		DOI:            strings.TrimSpace(paper.DOI),
		SourceDatabase: displayName,
	}

	if paper.Date != "" {
		record.PublicationYear, _ = strconv.Atoi(strings.SplitN(paper.Date, "-", 2)[0])
	}
	if record.DOI != "" {
		record.URL = "https://doi.org/" + record.DOI
	}

	if !record.HasIdentifier() {
		return nil
	}

	record.Normalize()
	record.StudyType = evidence.ClassifyStudyType(record.Title, record.Abstract)
	return record
}

// splitAuthors splits the semicolon-separated author list.
func splitAuthors(authors string) []string {
	if strings.TrimSpace(authors) == "" {
		return nil
	}

	var names []string
	for _, name := range strings.Split(authors, ";") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
