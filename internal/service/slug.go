package service

import (
	"strings"

	"github.com/atozofsigns/directory-api/internal/domain"
)

// citySlug derives the URL path segment for a canonical city name: trimmed,
// lower-cased, runs of whitespace collapsed to single hyphens.
//
// The mapping is not injective — "St. Albans" and "St Albans" are distinct
// canonical forms but can hyphenate identically. resolveCitySlug documents
// how such collisions are handled.
func citySlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// resolveCitySlug matches an inbound path segment back to a group by
// recomputing every group's slug and returning the first match in the
// member-count-descending group order. On a slug collision the larger group
// shadows the smaller — an explicit first-match policy, not an error.
// Returns false when no group's canonical name produces the slug.
func resolveCitySlug(slug string, groups []domain.CityGroup) (domain.CityGroup, bool) {
	want := strings.ToLower(strings.TrimSpace(slug))
	for _, g := range groups {
		if citySlug(g.CanonicalName()) == want {
			return g, true
		}
	}
	return domain.CityGroup{}, false
}
