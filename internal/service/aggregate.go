package service

import (
	"sort"

	"github.com/atozofsigns/directory-api/internal/domain"
)

// groupByCity folds the full record set into one domain.CityGroup per
// distinct normalized city key. Records with an absent or empty city label
// are excluded from every group — businesses without a location are invisible
// to city browsing — but they still count toward the caller's record total.
//
// The returned groups are sorted member-count descending; ties keep
// first-created order, which is itself a function of the input record order.
// Within a group, variant order is first-encountered. Both orderings feed the
// canonical-name and slug-resolution tie-breaks, so the input must arrive in
// the repo's stable fetch order.
func groupByCity(businesses []domain.Business) []domain.CityGroup {
	var (
		groups []domain.CityGroup
		byKey  = map[string]int{} // normalized key → index into groups
	)

	for _, b := range businesses {
		label := b.CityLabel()
		key := normalizeCity(label)
		if key == "" {
			continue
		}

		i, ok := byKey[key]
		if !ok {
			i = len(groups)
			byKey[key] = i
			groups = append(groups, domain.CityGroup{NormalizedKey: key})
		}

		g := &groups[i]
		g.MemberCount++
		g.RatingSum += b.RatingOrZero()
		bumpVariant(g, label)
	}

	// Stable sort preserves first-created order among equal counts.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].MemberCount > groups[j].MemberCount
	})

	return groups
}

// bumpVariant increments the count for the raw label, appending it to the
// group's variant list on first sight.
func bumpVariant(g *domain.CityGroup, label string) {
	for i := range g.Variants {
		if g.Variants[i].Label == label {
			g.Variants[i].Count++
			return
		}
	}
	g.Variants = append(g.Variants, domain.CityVariant{Label: label, Count: 1})
}
