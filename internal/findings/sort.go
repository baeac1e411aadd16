package findings

import (
	"sort"
	"strings"
)

// Less orders findings by category, severity rank and case-folded title.
// Remaining ties fall back to the exact title, source, impact, confidence and evidence
// so the order never depends on the order findings were produced in.
func Less(a, b Finding) bool {
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	if ra, rb := a.SeverityRank(), b.SeverityRank(); ra != rb {
		return ra < rb
	}
	if la, lb := strings.ToLower(a.Title), strings.ToLower(b.Title); la != lb {
		return la < lb
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	if a.Impact != b.Impact {
		return a.Impact < b.Impact
	}
	if a.Confidence != b.Confidence {
		return a.Confidence < b.Confidence
	}
	return evidenceKey(a) < evidenceKey(b)
}

// Sort returns a sorted copy of items; the input slice is left untouched.
func Sort(items []Finding) []Finding {
	sorted := make([]Finding, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j])
	})
	return sorted
}

// PriorityLess orders findings by severity rank first, then as Less does.
func PriorityLess(a, b Finding) bool {
	if ra, rb := a.SeverityRank(), b.SeverityRank(); ra != rb {
		return ra < rb
	}
	return Less(a, b)
}

// SortByPriority returns a copy of items ordered by PriorityLess.
func SortByPriority(items []Finding) []Finding {
	sorted := make([]Finding, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PriorityLess(sorted[i], sorted[j])
	})
	return sorted
}

// CountBySeverity tallies findings per severity key.
func CountBySeverity(items []Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range items {
		counts[f.Severity]++
	}
	return counts
}

func evidenceKey(f Finding) string {
	ids := make([]string, 0, len(f.Evidence))
	for _, e := range f.Evidence {
		ids = append(ids, e.ID())
	}
	return strings.Join(ids, ",")
}
