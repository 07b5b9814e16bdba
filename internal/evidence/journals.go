package evidence

import "strings"

// journalImpactTiers holds journal-name keywords grouped by rough impact
// tier, highest first. Grading only asks whether a journal matches any
// tier at all; the tier index does not weight the answer.
var journalImpactTiers = [][]string{
	{"nature", "science", "cell", "lancet", "nejm", "jama"},
	{"plos", "cochrane", "bmj", "american journal"},
	{"journal", "international", "european"},
}

// isHighImpactJournal reports whether the journal name contains any
// impact-tier keyword, case-insensitively. Each study counts at most
// once regardless of how many keywords match.
func isHighImpactJournal(journal string) bool {
	if journal == "" {
		return false
	}
	name := strings.ToLower(journal)
	for _, tier := range journalImpactTiers {
		for _, keyword := range tier {
			if strings.Contains(name, keyword) {
				return true
			}
		}
	}
	return false
}
