package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchIDContext(t *testing.T) {
	t.Run("stores and retrieves search ID", func(t *testing.T) {
		ctx := context.Background()
		ctx = WithSearchID(ctx, "search-123")

		result := SearchIDFromContext(ctx)
		assert.Equal(t, "search-123", result)
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		ctx := context.Background()
		result := SearchIDFromContext(ctx)
		assert.Equal(t, "", result)
	})
}

func TestCompoundContext(t *testing.T) {
	t.Run("stores and retrieves compound", func(t *testing.T) {
		ctx := context.Background()
		ctx = WithCompound(ctx, "MK-2866")

		result := CompoundFromContext(ctx)
		assert.Equal(t, "MK-2866", result)
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		ctx := context.Background()
		result := CompoundFromContext(ctx)
		assert.Equal(t, "", result)
	})
}

func TestSearchScopeContext(t *testing.T) {
	t.Run("stores and retrieves full search scope", func(t *testing.T) {
		ctx := context.Background()
		scope := SearchScope{
			SearchID: "search-123",
			Compound: "Ashwagandha",
		}

		ctx = WithSearchScope(ctx, scope)
		result := SearchScopeFromContext(ctx)

		assert.Equal(t, scope.SearchID, result.SearchID)
		assert.Equal(t, scope.Compound, result.Compound)
	})

	t.Run("handles partial scope", func(t *testing.T) {
		ctx := context.Background()
		scope := SearchScope{
			SearchID: "search-only",
		}

		ctx = WithSearchScope(ctx, scope)
		result := SearchScopeFromContext(ctx)

		assert.Equal(t, "search-only", result.SearchID)
		assert.Equal(t, "", result.Compound)
	})

	t.Run("returns empty scope when nothing set", func(t *testing.T) {
		ctx := context.Background()
		result := SearchScopeFromContext(ctx)

		assert.Equal(t, SearchScope{}, result)
	})
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()

	// Chain multiple context additions
	ctx = WithSearchID(ctx, "search-1")
	ctx = WithCompound(ctx, "Creatine")

	// All values should be retrievable
	assert.Equal(t, "search-1", SearchIDFromContext(ctx))
	assert.Equal(t, "Creatine", CompoundFromContext(ctx))
}

func TestContextOverwrite(t *testing.T) {
	ctx := context.Background()

	// Set initial values
	ctx = WithSearchID(ctx, "search-1")

	// Overwrite with new values
	ctx = WithSearchID(ctx, "search-2")

	// Should have new value
	assert.Equal(t, "search-2", SearchIDFromContext(ctx))
}
