package domain

import (
	"strings"
	"time"
)

// CityVariant is one distinct raw spelling observed for a city group, with
// the number of businesses carrying exactly that spelling.
type CityVariant struct {
	Label string
	Count int
}

// CityGroup is one aggregation bucket per distinct normalized city key.
// Groups are ephemeral: they are rebuilt from scratch on every request and
// carry no identity across calls beyond what is recomputed.
//
// Variants preserves first-encountered order, which is what makes canonical
// selection deterministic — see CanonicalName.
type CityGroup struct {
	NormalizedKey string
	Variants      []CityVariant
	MemberCount   int
	RatingSum     float64
}

// CanonicalName returns the majority-vote raw spelling for the group: the
// variant with the highest count, first-encountered winning ties. The result
// is trimmed because raw variants may carry surrounding whitespace.
//
// Only deterministic if the record fetch order feeding the aggregation is
// stable across calls — a contract the repo layer must uphold.
func (g CityGroup) CanonicalName() string {
	best := g.NormalizedKey
	max := 0
	for _, v := range g.Variants {
		if v.Count > max {
			max = v.Count
			best = v.Label
		}
	}
	return strings.TrimSpace(best)
}

// VariantLabels returns every distinct raw spelling observed for the group,
// in first-encountered order. The city detail fetch must filter on all of
// them, not just the canonical one, or it undercounts.
func (g CityGroup) VariantLabels() []string {
	labels := make([]string, 0, len(g.Variants))
	for _, v := range g.Variants {
		labels = append(labels, v.Label)
	}
	return labels
}

// AverageRating divides the rating sum by the full member count.
// Businesses without a rating contribute 0 to the sum but still count in the
// denominator, deflating averages for sparsely rated cities. That matches the
// production site's numbers; changing the denominator would change every
// displayed average, so it stays until a product decision says otherwise.
func (g CityGroup) AverageRating() float64 {
	if g.MemberCount == 0 {
		return 0
	}
	return g.RatingSum / float64(g.MemberCount)
}

// CitySummary is the per-city card shown on the home listing.
type CitySummary struct {
	Name          string  `json:"name"` // canonical display spelling
	Slug          string  `json:"slug"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// DirectoryOverview is the aggregate view behind the home listing.
type DirectoryOverview struct {
	Cities          []CitySummary `json:"cities"` // member-count descending
	TotalBusinesses int           `json:"total_businesses"`
	TotalCities     int           `json:"total_cities"`

	// AverageRating is the overall average across rated businesses only.
	// Note the asymmetry with CityGroup.AverageRating: the home page hero
	// divides by the count of businesses that actually have a rating.
	AverageRating float64 `json:"average_rating"`
}

// CityListing is the detail view for a single resolved city.
// Businesses can legitimately be shorter than City.Count when the storage
// collaborator and this engine disagree on text comparison; the service logs
// that case and serves what it has.
type CityListing struct {
	City       CitySummary `json:"city"`
	Businesses []Business  `json:"businesses"`
}

// SitemapCity is one city page entry for the sitemap.
// LastModified is the most recent updated_at across the group's members.
type SitemapCity struct {
	Name         string
	Slug         string
	LastModified time.Time
}

// SitemapBusiness is one business page entry for the sitemap.
// Only businesses with a non-empty slug are listed.
type SitemapBusiness struct {
	Slug         string
	LastModified time.Time
}

// SitemapIndex is everything the sitemap generator derives from storage.
type SitemapIndex struct {
	Cities     []SitemapCity
	Businesses []SitemapBusiness
}
