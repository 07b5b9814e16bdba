package studysources

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compoundintel/evidence-service/internal/domain"
)

// fakeSource is a minimal StudySource for registry tests.
type fakeSource struct {
	sourceType domain.SourceType
	name       string
	enabled    bool
}

func (f *fakeSource) Search(ctx context.Context, term string, maxResults int) (*SearchResult, error) {
	return &SearchResult{Source: f.sourceType}, nil
}

func (f *fakeSource) SourceType() domain.SourceType { return f.sourceType }
func (f *fakeSource) Name() string                  { return f.name }
func (f *fakeSource) IsEnabled() bool               { return f.enabled }

func TestRegistry_Register(t *testing.T) {
	t.Run("registers and retrieves a source", func(t *testing.T) {
		r := NewRegistry()
		src := &fakeSource{sourceType: domain.SourceTypePubMed, name: "PubMed", enabled: true}

		r.Register(src)

		got := r.Get(domain.SourceTypePubMed)
		require.NotNil(t, got)
		assert.Equal(t, "PubMed", got.Name())
	})

	t.Run("replaces a source with the same type", func(t *testing.T) {
		r := NewRegistry()
		r.Register(&fakeSource{sourceType: domain.SourceTypePubMed, name: "first", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypePubMed, name: "second", enabled: true})

		got := r.Get(domain.SourceTypePubMed)
		require.NotNil(t, got)
		assert.Equal(t, "second", got.Name())
		assert.Len(t, r.AllSources(), 1)
	})

	t.Run("returns nil for unknown source", func(t *testing.T) {
		r := NewRegistry()
		assert.Nil(t, r.Get(domain.SourceTypeCrossRef))
	})
}

func TestRegistry_PriorityOrder(t *testing.T) {
	t.Run("all sources come back in priority order", func(t *testing.T) {
		r := NewRegistry()
		// Register out of order on purpose.
		r.Register(&fakeSource{sourceType: domain.SourceTypeBioRxiv, name: "bioRxiv/medRxiv", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypeCrossRef, name: "CrossRef", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypePubMed, name: "PubMed", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypeClinicalTrials, name: "ClinicalTrials.gov", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypeEuropePMC, name: "Europe PMC", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypeSemanticScholar, name: "Semantic Scholar", enabled: true})

		got := r.AllSources()
		require.Len(t, got, 6)

		want := []domain.SourceType{
			domain.SourceTypePubMed,
			domain.SourceTypeEuropePMC,
			domain.SourceTypeSemanticScholar,
			domain.SourceTypeCrossRef,
			domain.SourceTypeClinicalTrials,
			domain.SourceTypeBioRxiv,
		}
		for i, st := range want {
			assert.Equal(t, st, got[i].SourceType(), "position %d", i)
		}
	})

	t.Run("unknown source types sort last", func(t *testing.T) {
		r := NewRegistry()
		r.Register(&fakeSource{sourceType: domain.SourceType("zz_custom"), name: "custom", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypeBioRxiv, name: "bioRxiv/medRxiv", enabled: true})

		got := r.AllSources()
		require.Len(t, got, 2)
		assert.Equal(t, domain.SourceTypeBioRxiv, got[0].SourceType())
		assert.Equal(t, domain.SourceType("zz_custom"), got[1].SourceType())
	})
}

func TestRegistry_EnabledSources(t *testing.T) {
	t.Run("filters disabled sources", func(t *testing.T) {
		r := NewRegistry()
		r.Register(&fakeSource{sourceType: domain.SourceTypePubMed, name: "PubMed", enabled: true})
		r.Register(&fakeSource{sourceType: domain.SourceTypeEuropePMC, name: "Europe PMC", enabled: false})
		r.Register(&fakeSource{sourceType: domain.SourceTypeCrossRef, name: "CrossRef", enabled: true})

		got := r.EnabledSources()
		require.Len(t, got, 2)
		assert.Equal(t, domain.SourceTypePubMed, got[0].SourceType())
		assert.Equal(t, domain.SourceTypeCrossRef, got[1].SourceType())
	})

	t.Run("empty registry returns empty slice", func(t *testing.T) {
		r := NewRegistry()
		assert.Empty(t, r.EnabledSources())
		assert.Empty(t, r.AllSources())
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Run("concurrent register and read are safe", func(t *testing.T) {
		r := NewRegistry()
		var wg sync.WaitGroup

		types := []domain.SourceType{
			domain.SourceTypePubMed,
			domain.SourceTypeEuropePMC,
			domain.SourceTypeSemanticScholar,
			domain.SourceTypeCrossRef,
			domain.SourceTypeClinicalTrials,
			domain.SourceTypeBioRxiv,
		}

		for _, st := range types {
			wg.Add(1)
			go func(st domain.SourceType) {
				defer wg.Done()
				r.Register(&fakeSource{sourceType: st, name: string(st), enabled: true})
			}(st)
		}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = r.EnabledSources()
			}()
		}
		wg.Wait()

		assert.Len(t, r.AllSources(), len(types))
	})
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 0, Priority(domain.SourceTypePubMed))
	assert.Equal(t, 5, Priority(domain.SourceTypeBioRxiv))
	assert.Equal(t, 6, Priority(domain.SourceType("unknown")))
}
