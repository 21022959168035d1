package sim

import (
	"sort"
	"strings"
)

// variantSeparator joins activity names into a variant key. Chosen to be
// unlikely in activity names; purely an internal grouping key.
const variantSeparator = " -> "

// Variant is one distinct activity path through the process together with
// how often it occurs.
type Variant struct {
	Activities []string `json:"activities"`
	Count      int      `json:"count"`
	Percent    float64  `json:"percent"`
	CaseIDs    []string `json:"case_ids"`
}

// Path renders the variant as a readable arrow-joined string.
func (v Variant) Path() string {
	return strings.Join(v.Activities, variantSeparator)
}

// Variants groups cases by their exact activity sequence and returns the
// distinct paths ordered by descending frequency (ties broken by path
// string for a deterministic order).
func Variants(log *EventLog) []Variant {
	type group struct {
		activities []string
		caseIDs    []string
	}
	groups := make(map[string]*group)

	for _, c := range log.Cases {
		key := strings.Join(c.Activities(), variantSeparator)
		g, ok := groups[key]
		if !ok {
			g = &group{activities: c.Activities()}
			groups[key] = g
		}
		g.caseIDs = append(g.caseIDs, c.ID)
	}

	total := len(log.Cases)
	variants := make([]Variant, 0, len(groups))
	for _, g := range groups {
		variants = append(variants, Variant{
			Activities: g.activities,
			Count:      len(g.caseIDs),
			Percent:    100 * float64(len(g.caseIDs)) / float64(total),
			CaseIDs:    g.caseIDs,
		})
	}
	sort.Slice(variants, func(i, j int) bool {
		if variants[i].Count != variants[j].Count {
			return variants[i].Count > variants[j].Count
		}
		return variants[i].Path() < variants[j].Path()
	})
	return variants
}

// TopKVariants returns the k most frequent variants (all of them when
// fewer than k exist).
func TopKVariants(log *EventLog, k int) []Variant {
	variants := Variants(log)
	if k < len(variants) {
		variants = variants[:k]
	}
	return variants
}

// CasesForVariants returns the IDs of all cases belonging to any of the
// given variants, preserving the variants' order.
func CasesForVariants(variants []Variant) []string {
	var ids []string
	for _, v := range variants {
		ids = append(ids, v.CaseIDs...)
	}
	return ids
}
