package observability

import (
	"context"
)

// Context keys for observability data.
type contextKey string

const (
	searchIDKey contextKey = "search_id"
	compoundKey contextKey = "compound"
)

// WithSearchID adds a compound-search correlation ID to the context.
func WithSearchID(ctx context.Context, searchID string) context.Context {
	return context.WithValue(ctx, searchIDKey, searchID)
}

// SearchIDFromContext retrieves the compound-search correlation ID from context.
// Returns empty string if not present.
func SearchIDFromContext(ctx context.Context) string {
	if v := ctx.Value(searchIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithCompound adds the compound under search to the context.
func WithCompound(ctx context.Context, compound string) context.Context {
	return context.WithValue(ctx, compoundKey, compound)
}

// CompoundFromContext retrieves the compound under search from context.
// Returns empty string if not present.
func CompoundFromContext(ctx context.Context) string {
	if v := ctx.Value(compoundKey); v != nil {
		if c, ok := v.(string); ok {
			return c
		}
	}
	return ""
}

// SearchScope contains the context data attached to one compound search.
type SearchScope struct {
	SearchID string
	Compound string
}

// WithSearchScope adds all compound-search fields to the context.
func WithSearchScope(ctx context.Context, scope SearchScope) context.Context {
	if scope.SearchID != "" {
		ctx = WithSearchID(ctx, scope.SearchID)
	}
	if scope.Compound != "" {
		ctx = WithCompound(ctx, scope.Compound)
	}
	return ctx
}

// SearchScopeFromContext extracts all compound-search fields from the context.
func SearchScopeFromContext(ctx context.Context) SearchScope {
	return SearchScope{
		SearchID: SearchIDFromContext(ctx),
		Compound: CompoundFromContext(ctx),
	}
}
