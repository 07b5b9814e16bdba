package crossref

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/studysources"
)

const searchResponseJSON = `{
	"status": "ok",
	"message-type": "work-list",
	"message": {
		"total-results": 3821,
		"items": [
			{
				"DOI": "10.1123/ijsnem.21.5.428",
				"title": ["Quercetin and exercise performance:", "a systematic review and meta-analysis"],
				"author": [
					{"given": "Javier", "family": "Pelletier"},
					{"family": "Kressler"},
					{"name": "The QUEST Study Group"}
				],
				"published": {"date-parts": [[2011, 6, 15]]},
				"container-title": ["International Journal of Sport Nutrition and Exercise Metabolism"],
				"abstract": "<jats:p>Quercetin supplementation improved endurance performance across pooled randomized trials.</jats:p>",
				"subject": ["Nutrition and Dietetics"]
			},
			{
				"DOI": "10.1016/j.jand.2023.05.012",
				"title": [],
				"author": [],
				"container-title": []
			},
			{
				"title": [],
				"author": []
			}
		]
	}
}`

const emptyResponseJSON = `{
	"status": "ok",
	"message-type": "work-list",
	"message": {
		"total-results": 0,
		"items": []
	}
}`

func createTestClient(baseURL string, enabled bool) *Client {
	cfg := Config{
		BaseURL: baseURL,
		Enabled: enabled,
	}
	httpClient := studysources.NewHTTPClient(studysources.HTTPClientConfig{
		Timeout:   5 * time.Second,
		RateLimit: 1000,
		BurstSize: 1000,
	})
	return NewWithHTTPClient(cfg, httpClient)
}

func TestNew(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		client := New(Config{Enabled: true})

		assert.Equal(t, DefaultBaseURL, client.config.BaseURL)
		assert.Equal(t, DefaultTimeout, client.config.Timeout)
		assert.Equal(t, DefaultRateLimit, client.config.RateLimit)
		assert.Equal(t, DefaultBurstSize, client.config.BurstSize)
		assert.Equal(t, DefaultMaxResults, client.config.MaxResults)
	})

	t.Run("keeps explicit configuration", func(t *testing.T) {
		client := New(Config{
			BaseURL:    "https://example.org",
			Email:      "research@compoundintel.example",
			Timeout:    5 * time.Second,
			RateLimit:  10,
			BurstSize:  10,
			MaxResults: 50,
			Enabled:    true,
		})

		assert.Equal(t, "https://example.org", client.config.BaseURL)
		assert.Equal(t, 50, client.config.MaxResults)
	})
}

func TestClient_SourceType(t *testing.T) {
	client := createTestClient("http://localhost", true)
	assert.Equal(t, domain.SourceTypeCrossRef, client.SourceType())
}

func TestClient_Name(t *testing.T) {
	client := createTestClient("http://localhost", true)
	assert.Equal(t, "CrossRef", client.Name())
}

func TestClient_IsEnabled(t *testing.T) {
	assert.True(t, createTestClient("http://localhost", true).IsEnabled())
	assert.False(t, createTestClient("http://localhost", false).IsEnabled())
}

func TestClient_Search(t *testing.T) {
	t.Run("sends expected query parameters", func(t *testing.T) {
		var gotPath string
		var gotQuery map[string][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, emptyResponseJSON)
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		_, err := client.Search(context.Background(), "quercetin", 25)
		require.NoError(t, err)

		assert.Equal(t, "/works", gotPath)
		require.NotNil(t, gotQuery)
		assert.Equal(t, "quercetin", gotQuery["query"][0])
		assert.Equal(t, "25", gotQuery["rows"][0])
		assert.Equal(t, "DOI,title,author,published,container-title,abstract,subject", gotQuery["select"][0])
	})

	t.Run("identifies via the polite pool when an email is configured", func(t *testing.T) {
		var gotUserAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, emptyResponseJSON)
		}))
		defer server.Close()

		client := New(Config{
			BaseURL:   server.URL,
			Email:     "research@compoundintel.example",
			RateLimit: 1000,
			BurstSize: 1000,
			Enabled:   true,
		})

		_, err := client.Search(context.Background(), "quercetin", 10)
		require.NoError(t, err)
		assert.Equal(t, "CompoundIntel-EvidenceService/1.0 (mailto:research@compoundintel.example)", gotUserAgent)
	})

	t.Run("omits the mailto without an email", func(t *testing.T) {
		var gotUserAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, emptyResponseJSON)
		}))
		defer server.Close()

		client := New(Config{
			BaseURL:   server.URL,
			RateLimit: 1000,
			BurstSize: 1000,
			Enabled:   true,
		})

		_, err := client.Search(context.Background(), "quercetin", 10)
		require.NoError(t, err)
		assert.Equal(t, "CompoundIntel-EvidenceService/1.0", gotUserAgent)
	})

	t.Run("parses results into study records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, searchResponseJSON)
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		result, err := client.Search(context.Background(), "quercetin", 25)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, domain.SourceTypeCrossRef, result.Source)
		assert.Equal(t, 3821, result.TotalResults)
		assert.Greater(t, result.SearchDuration, time.Duration(0))

		// The identifier-less third entry is dropped.
		require.Len(t, result.Studies, 2)

		first := result.Studies[0]
		assert.Equal(t, "Quercetin and exercise performance: a systematic review and meta-analysis", first.Title)
		assert.Equal(t, "Quercetin supplementation improved endurance performance across pooled randomized trials.", first.Abstract)
		assert.Equal(t, []string{"Javier Pelletier"}, first.Authors,
			"authors missing a given or family name are dropped")
		assert.Equal(t, "International Journal of Sport Nutrition and Exercise Metabolism", first.Journal)
		assert.Equal(t, 2011, first.PublicationYear)
		assert.Empty(t, first.PMID)
		assert.Equal(t, "10.1123/ijsnem.21.5.428", first.DOI)
		assert.Equal(t, domain.SourceNameCrossRef, first.SourceDatabase)
		assert.Equal(t, domain.StudyTypeSystematicReviewWithMA, first.StudyType)
		assert.Equal(t, "https://doi.org/10.1123/ijsnem.21.5.428", first.URL)

		second := result.Studies[1]
		assert.Empty(t, second.Title)
		assert.Equal(t, "10.1016/j.jand.2023.05.012", second.DOI)
		assert.Equal(t, "https://doi.org/10.1016/j.jand.2023.05.012", second.URL)
		assert.Zero(t, second.PublicationYear)
		assert.Empty(t, second.Authors)
	})

	t.Run("clamps rows to the API maximum", func(t *testing.T) {
		var gotRows string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRows = r.URL.Query().Get("rows")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, emptyResponseJSON)
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		_, err := client.Search(context.Background(), "quercetin", 500)
		require.NoError(t, err)
		assert.Equal(t, "100", gotRows)
	})

	t.Run("uses config default when maxResults is zero", func(t *testing.T) {
		var gotRows string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRows = r.URL.Query().Get("rows")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, emptyResponseJSON)
		}))
		defer server.Close()

		cfg := Config{BaseURL: server.URL, MaxResults: 40, Enabled: true}
		httpClient := studysources.NewHTTPClient(studysources.HTTPClientConfig{RateLimit: 1000, BurstSize: 1000})
		client := NewWithHTTPClient(cfg, httpClient)

		_, err := client.Search(context.Background(), "quercetin", 0)
		require.NoError(t, err)
		assert.Equal(t, "40", gotRows)
	})

	t.Run("returns empty result when nothing matches", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, emptyResponseJSON)
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		result, err := client.Search(context.Background(), "nosuchcompound", 10)
		require.NoError(t, err)
		assert.Empty(t, result.Studies)
		assert.Equal(t, 0, result.TotalResults)
	})

	t.Run("returns network error on server failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		_, err := client.Search(context.Background(), "quercetin", 10)
		require.Error(t, err)
		require.True(t, domain.IsNetworkError(err))

		var netErr *domain.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	})

	t.Run("maps 429 to a rate-limited network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		_, err := client.Search(context.Background(), "quercetin", 10)
		require.Error(t, err)

		var netErr *domain.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.True(t, netErr.IsRateLimited())
	})

	t.Run("returns parse error on malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "{not valid json")
		}))
		defer server.Close()

		client := createTestClient(server.URL, true)

		_, err := client.Search(context.Background(), "quercetin", 10)
		require.Error(t, err)
		assert.True(t, domain.IsParseError(err))
	})

	t.Run("returns error when source is disabled", func(t *testing.T) {
		client := createTestClient("http://localhost", false)

		_, err := client.Search(context.Background(), "quercetin", 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSourceDisabled)
	})
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []Author
		want    []string
	}{
		{
			"complete names",
			[]Author{{Given: "Ana", Family: "Costa"}, {Given: "Wei", Family: "Zhang"}},
			[]string{"Ana Costa", "Wei Zhang"},
		},
		{
			"missing given name dropped",
			[]Author{{Family: "Costa"}, {Given: "Wei", Family: "Zhang"}},
			[]string{"Wei Zhang"},
		},
		{
			"missing family name dropped",
			[]Author{{Given: "Ana"}},
			nil,
		},
		{"no authors", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAuthors(tt.authors))
		})
	}
}

func TestDateFieldYear(t *testing.T) {
	tests := []struct {
		name string
		date *DateField
		want int
	}{
		{"full date", &DateField{DateParts: [][]int{{2011, 6, 15}}}, 2011},
		{"year only", &DateField{DateParts: [][]int{{2023}}}, 2023},
		{"empty date parts", &DateField{}, 0},
		{"empty inner parts", &DateField{DateParts: [][]int{{}}}, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.Year())
		})
	}
}
