// Package synonym generates bounded sets of search-term variants for
// compound names. Bibliographic sources index the same compound under
// research codes, trade names, and chemical names; querying a handful of
// variants instead of the raw input substantially improves recall.
package synonym

import (
	"regexp"
	"sort"
	"strings"
)

// MaxTerms caps the number of variants produced per compound. Each term
// costs one or more upstream API calls per source, so the list stays small.
const MaxTerms = 8

var (
	codePattern   = regexp.MustCompile(`([A-Za-z]+)[- ]?(\d+)`)
	parensPattern = regexp.MustCompile(`\s*\([^)]*\)\s*`)
)

// Expander produces search-term variants from a fixed alias dictionary
// plus algorithmic transformations. It is immutable after construction
// and safe for concurrent use.
type Expander struct {
	aliases map[string][]string
}

// New creates an Expander over the given alias dictionary, mapping a
// canonical compound name to its known alternate names. The map is
// copied; later changes to the argument do not affect the Expander.
// A nil map is valid and yields purely algorithmic expansion.
func New(aliases map[string][]string) *Expander {
	copied := make(map[string][]string, len(aliases))
	for name, list := range aliases {
		copied[name] = append([]string(nil), list...)
	}
	return &Expander{aliases: copied}
}

// Expand returns the ordered search-term list for a compound name:
// the trimmed input, known aliases for an exact dictionary match, and
// algorithmic variants, deduplicated and sorted ascending by length,
// truncated to MaxTerms. The trimmed input always survives truncation.
// Output is deterministic for a given input and dictionary.
func (e *Expander) Expand(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	seen := make(map[string]struct{})
	variants := make([]string, 0, MaxTerms)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	add(trimmed)
	for _, alias := range e.aliases[name] {
		add(alias)
	}
	for _, v := range algorithmicVariants(name) {
		add(v)
	}

	sort.SliceStable(variants, func(i, j int) bool {
		return len(variants[i]) < len(variants[j])
	})

	if len(variants) > MaxTerms {
		variants = variants[:MaxTerms]
		if !contains(variants, trimmed) {
			// The input term itself outranks any generated variant.
			variants[len(variants)-1] = trimmed
		}
	}
	return variants
}

// algorithmicVariants derives spelling and format variants from the raw
// name: hyphen toggling, parenthetical removal, letter-digit code forms,
// and the leading word of long chemical names.
func algorithmicVariants(name string) []string {
	var variants []string

	if strings.Contains(name, "-") {
		variants = append(variants,
			strings.ReplaceAll(name, "-", " "),
			strings.ReplaceAll(name, "-", ""),
		)
	}

	if noParens := strings.TrimSpace(parensPattern.ReplaceAllString(name, " ")); noParens != name {
		variants = append(variants, noParens)
	}

	if m := codePattern.FindStringSubmatch(name); m != nil {
		letters, digits := m[1], m[2]
		variants = append(variants,
			letters+"-"+digits,
			letters+" "+digits,
			letters+digits,
		)
	}

	if words := strings.Fields(name); len(words) > 2 && len(words[0]) > 4 {
		variants = append(variants, words[0])
	}

	return variants
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
