package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/evidence"
	"github.com/compoundintel/evidence-service/internal/studysources"
)

const (
	// DefaultBaseURL is the base URL for NCBI E-utilities API.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultRateLimit is the rate limit without an API key (3 requests/second).
	// With an API key, NCBI allows up to 10 requests/second.
	DefaultRateLimit = 3.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 3

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResults is the default maximum results per search.
	DefaultMaxResults = 100

	// MaxResultsLimit is the maximum retmax the E-utilities API accepts.
	MaxResultsLimit = 10000

	// fetchBatchSize is how many PMIDs one efetch call retrieves.
	fetchBatchSize = 50

	// toolName identifies this client in E-utilities requests.
	toolName = "evidence-search"

	// sourceName is the human-readable name for this source.
	sourceName = "PubMed"
)

// Config holds the configuration for the PubMed client.
type Config struct {
	// BaseURL is the base URL for the E-utilities API.
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is the NCBI API key for higher rate limits.
	// Optional but recommended for production use.
	APIKey string

	// Email identifies the caller per NCBI usage policy.
	// Sent as the email query parameter when set.
	Email string

	// Timeout is the request timeout.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to DefaultRateLimit (3 req/sec) if zero.
	// With an API key, you can increase this to 10 req/sec.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to DefaultBurstSize if zero.
	BurstSize int

	// MaxResults is the default maximum results per search.
	// Defaults to DefaultMaxResults if zero.
	MaxResults int

	// Enabled indicates whether this source is enabled.
	// When false, Search returns domain.ErrSourceDisabled.
	Enabled bool
}

// applyDefaults applies default values to the config.
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

// Client implements the studysources.StudySource interface for PubMed.
type Client struct {
	config     Config
	httpClient *studysources.HTTPClient
}

// Compile-time check that Client implements StudySource.
var _ studysources.StudySource = (*Client)(nil)

// New creates a new PubMed client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpCfg := studysources.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: "CompoundIntel-EvidenceService/1.0",
	}

	return &Client{
		config:     cfg,
		httpClient: studysources.NewHTTPClient(httpCfg),
	}
}

// NewWithHTTPClient creates a new PubMed client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *studysources.HTTPClient) *Client {
	cfg.applyDefaults()
	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// searchStrategy pairs an esearch query with its own result budget.
type searchStrategy struct {
	query  string
	retmax int
}

// searchStrategies builds the three-pass query plan for a term.
// The first pass targets high-value publication types, the second MeSH
// and substance indexing, the third is a broad sweep at reduced budget.
func searchStrategies(term string, maxResults int) []searchStrategy {
	return []searchStrategy{
		{
			query: fmt.Sprintf(`"%s"[Title/Abstract] AND (clinical trial[pt] OR randomized controlled trial[pt] OR systematic review[pt] OR meta analysis[pt] OR controlled clinical trial[pt] OR review[pt])`, term),
			retmax: maxResults,
		},
		{
			query:  fmt.Sprintf(`"%s"[MeSH Terms] OR "%s"[Substance Name]`, term, term),
			retmax: maxResults / 2,
		},
		{
			query:  fmt.Sprintf(`"%s"[All Fields]`, term),
			retmax: maxResults / 3,
		},
	}
}

// Search queries PubMed for studies matching the given term.
// It performs a two-step search:
//  1. esearch.fcgi - runs the three query strategies and unions PMIDs
//  2. efetch.fcgi - retrieves full article metadata in batches
func (c *Client) Search(ctx context.Context, term string, maxResults int) (*studysources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, domain.ErrSourceDisabled
	}

	startTime := time.Now()

	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}

	pmids, total, err := c.collectPMIDs(ctx, term, maxResults)
	if err != nil {
		return nil, err
	}

	if len(pmids) == 0 {
		return &studysources.SearchResult{
			Studies:        []*domain.StudyRecord{},
			TotalResults:   total,
			Source:         domain.SourceTypePubMed,
			SearchDuration: time.Since(startTime),
		}, nil
	}

	studies, err := c.fetchStudies(ctx, pmids)
	if err != nil {
		return nil, err
	}

	return &studysources.SearchResult{
		Studies:        studies,
		TotalResults:   total,
		Source:         domain.SourceTypePubMed,
		SearchDuration: time.Since(startTime),
	}, nil
}

// collectPMIDs runs the query strategies in order, unioning PMIDs in
// first-seen order. The strategy loop stops early once the union reaches
// maxResults. A failing strategy is skipped so the remaining passes can
// still contribute; the last error surfaces only if nothing was found.
func (c *Client) collectPMIDs(ctx context.Context, term string, maxResults int) ([]string, int, error) {
	seen := make(map[string]struct{})
	pmids := make([]string, 0, maxResults)
	total := 0

	var lastErr error
	for _, strat := range searchStrategies(term, maxResults) {
		result, err := c.esearch(ctx, strat.query, strat.retmax)
		if err != nil {
			lastErr = err
			continue
		}
		// Count of the broadest successful pass stands in for the total.
		if result.Count > total {
			total = result.Count
		}
		for _, id := range result.IDList.IDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			pmids = append(pmids, id)
		}
		if len(pmids) >= maxResults {
			pmids = pmids[:maxResults]
			break
		}
	}

	if len(pmids) == 0 && lastErr != nil {
		return nil, 0, lastErr
	}
	return pmids, total, nil
}

// fetchStudies retrieves article metadata for the PMIDs in batches and
// converts it to study records. A failing batch is skipped; the last
// error surfaces only if no batch produced records.
func (c *Client) fetchStudies(ctx context.Context, pmids []string) ([]*domain.StudyRecord, error) {
	studies := make([]*domain.StudyRecord, 0, len(pmids))

	var lastErr error
	for start := 0; start < len(pmids); start += fetchBatchSize {
		end := start + fetchBatchSize
		if end > len(pmids) {
			end = len(pmids)
		}

		set, err := c.efetch(ctx, pmids[start:end])
		if err != nil {
			lastErr = err
			continue
		}

		for _, article := range set.Articles {
			record := c.articleToStudy(article)
			if !record.HasIdentifier() {
				continue
			}
			studies = append(studies, record)
		}
	}

	if len(studies) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return studies, nil
}

// esearch performs one search query and returns matching PMIDs.
func (c *Client) esearch(ctx context.Context, query string, retmax int) (*ESearchResult, error) {
	u, err := url.Parse(c.config.BaseURL + "/esearch.fcgi")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("db", "pubmed")
	q.Set("term", query)
	q.Set("retmode", "xml")
	q.Set("retmax", strconv.Itoa(retmax))
	q.Set("sort", "relevance")
	q.Set("tool", toolName)
	if c.config.Email != "" {
		q.Set("email", c.config.Email)
	}
	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String(), "esearch")
	if err != nil {
		return nil, err
	}

	var result ESearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, domain.NewParseError(sourceName, "esearch response", err)
	}

	return &result, nil
}

// efetch retrieves full article metadata for the given PMIDs.
func (c *Client) efetch(ctx context.Context, pmids []string) (*PubmedArticleSet, error) {
	if len(pmids) == 0 {
		return &PubmedArticleSet{}, nil
	}

	u, err := url.Parse(c.config.BaseURL + "/efetch.fcgi")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(pmids, ","))
	q.Set("retmode", "xml")
	q.Set("rettype", "abstract")
	q.Set("tool", toolName)
	if c.config.Email != "" {
		q.Set("email", c.config.Email)
	}
	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String(), "efetch")
	if err != nil {
		return nil, err
	}

	var result PubmedArticleSet
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, domain.NewParseError(sourceName, "efetch response", err)
	}

	return &result, nil
}

// get executes one GET request and returns the response body.
// Transport failures and non-200 statuses map to domain.NetworkError.
func (c *Client) get(ctx context.Context, rawURL, operation string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(sourceName, operation, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewNetworkError(sourceName, operation, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, domain.NewNetworkError(sourceName, operation, 0, err)
	}

	return body, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypePubMed
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether the source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// articleToStudy converts a PubmedArticle to a domain.StudyRecord.
func (c *Client) articleToStudy(article PubmedArticle) *domain.StudyRecord {
	citation := article.MedlineCitation

	record := &domain.StudyRecord{
		Title:           citation.Article.ArticleTitle,
		Abstract:        extractAbstract(citation.Article.Abstract),
		Authors:         extractAuthors(citation.Article.AuthorList),
		Journal:         journalTitle(citation.Article.Journal),
		PublicationYear: extractYear(citation.Article.Journal.JournalIssue.PubDate),
		PMID:            citation.PMID.Value,
		DOI:             extractDOI(citation.Article, article.PubmedData),
		SourceDatabase:  domain.SourceNamePubMed,
	}
	if record.PMID != "" {
		record.URL = "https://pubmed.ncbi.nlm.nih.gov/" + record.PMID + "/"
	}

	record.Normalize()
	record.StudyType = evidence.ClassifyStudyType(record.Title, record.Abstract)
	return record
}

// journalTitle prefers the full journal title over the ISO abbreviation.
func journalTitle(journal Journal) string {
	if journal.Title != "" {
		return journal.Title
	}
	return journal.ISOAbbreviation
}

// extractDOI extracts the DOI from article metadata.
// It checks ArticleIdList first, then ELocationID.
func extractDOI(article Article, pubmedData PubmedData) string {
	for _, aid := range pubmedData.ArticleIdList.ArticleIds {
		if aid.IdType == "doi" {
			return aid.Value
		}
	}

	for _, eloc := range article.ELocationID {
		if eloc.EIdType == "doi" && (eloc.Valid == "" || eloc.Valid == "Y") {
			return eloc.Value
		}
	}

	return ""
}

// yearPattern matches the first four-digit run in a MedlineDate string.
var yearPattern = regexp.MustCompile(`\d{4}`)

// extractYear extracts the publication year from a PubDate. Standard
// issues carry Year; irregular ones only a MedlineDate like
// "2020 Jan-Feb" or "1999-2000 Winter".
func extractYear(pubDate PubDate) int {
	if pubDate.Year != "" {
		if year, err := strconv.Atoi(pubDate.Year); err == nil {
			return year
		}
	}

	if pubDate.MedlineDate != "" {
		if match := yearPattern.FindString(pubDate.MedlineDate); match != "" {
			year, _ := strconv.Atoi(match)
			return year
		}
	}

	return 0
}

// extractAbstract concatenates multiple abstract sections into a single string.
func extractAbstract(abstract *Abstract) string {
	if abstract == nil || len(abstract.AbstractTexts) == 0 {
		return ""
	}

	// If only one section without label, return it directly
	if len(abstract.AbstractTexts) == 1 && abstract.AbstractTexts[0].Label == "" {
		return strings.TrimSpace(abstract.AbstractTexts[0].Value)
	}

	// Concatenate multiple sections with labels
	var parts []string
	for _, at := range abstract.AbstractTexts {
		text := strings.TrimSpace(at.Value)
		if text == "" {
			continue
		}
		if at.Label != "" {
			parts = append(parts, at.Label+": "+text)
		} else {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

// extractAuthors converts PubMed authors to name strings.
func extractAuthors(authorList *AuthorList) []string {
	if authorList == nil || len(authorList.Authors) == 0 {
		return nil
	}

	authors := make([]string, 0, len(authorList.Authors))
	for _, a := range authorList.Authors {
		// Skip invalid authors
		if a.ValidYN == "N" {
			continue
		}

		var name string
		if a.CollectiveName != "" {
			name = a.CollectiveName
		} else {
			// Combine ForeName and LastName
			nameParts := make([]string, 0, 2)
			if a.ForeName != "" {
				nameParts = append(nameParts, a.ForeName)
			}
			if a.LastName != "" {
				nameParts = append(nameParts, a.LastName)
			}
			name = strings.Join(nameParts, " ")
		}

		if name == "" {
			continue
		}

		authors = append(authors, name)
	}

	return authors
}
