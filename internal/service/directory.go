// Package service contains the business logic for the directory API.
// Its centerpiece is the directory aggregation pipeline: paged fetch →
// normalize → group → canonical name → slug. The production site this API
// replaces re-implemented that pipeline separately in the home page, the city
// page, and the sitemap generator, and the three copies drifted; here every
// consumer goes through the same DirectoryService, so the counts a user sees
// on a home-page city link and on the city page it leads to agree by
// construction.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atozofsigns/directory-api/internal/domain"
	"github.com/atozofsigns/directory-api/internal/repo"
)

// DirectoryService implements every consumer of the aggregation pipeline:
// the home overview, the city listing, the sitemap, and the business detail
// lookup. It holds no state between calls — each request re-fetches and
// re-aggregates from scratch, so concurrent requests never interfere.
type DirectoryService struct {
	repo      repo.BusinessRepo
	log       *slog.Logger
	batchSize int
}

// NewDirectoryService constructs a DirectoryService backed by the provided
// repo. The batch size is fixed at the storage collaborator's per-request cap.
func NewDirectoryService(r repo.BusinessRepo, log *slog.Logger) *DirectoryService {
	return &DirectoryService{repo: r, log: log, batchSize: domain.MaxBatchSize}
}

// Overview builds the home listing: per-city summaries in member-count
// descending order plus directory-wide totals.
//
// The overall average rating divides by the count of businesses that actually
// carry a rating; the per-city averages divide by full member count. The
// asymmetry is inherited from the production site and preserved deliberately.
func (s *DirectoryService) Overview(ctx context.Context) (domain.DirectoryOverview, error) {
	businesses, _, err := s.fetchAll(ctx, repo.ProjectionCityRating, repo.Filter{}, repo.SortByID)
	if err != nil {
		return domain.DirectoryOverview{}, fmt.Errorf("service.DirectoryService.Overview: %w", err)
	}

	groups := groupByCity(businesses)

	cities := make([]domain.CitySummary, 0, len(groups))
	for _, g := range groups {
		cities = append(cities, citySummary(g))
	}

	var ratingSum float64
	var rated int
	for _, b := range businesses {
		if b.HasRating() {
			ratingSum += *b.Rating
			rated++
		}
	}
	var overall float64
	if rated > 0 {
		overall = ratingSum / float64(rated)
	}

	return domain.DirectoryOverview{
		Cities:          cities,
		TotalBusinesses: len(businesses),
		TotalCities:     len(groups),
		AverageRating:   overall,
	}, nil
}

// CityListing resolves an inbound city slug and returns the businesses in
// that city. Returns domain.ErrNotFound when the slug matches no group.
//
// The second, filtered fetch matches the raw city column against every
// observed spelling variant of the group, not just the canonical one —
// filtering on the canonical spelling alone would undercount. Each returned
// row is then re-checked against the group's normalized key locally, because
// the storage engine's text comparison and this engine's normalization can
// disagree on edge cases.
func (s *DirectoryService) CityListing(ctx context.Context, slug string) (domain.CityListing, error) {
	businesses, _, err := s.fetchAll(ctx, repo.ProjectionCityRating, repo.Filter{}, repo.SortByID)
	if err != nil {
		return domain.CityListing{}, fmt.Errorf("service.DirectoryService.CityListing: %w", err)
	}

	groups := groupByCity(businesses)
	group, ok := resolveCitySlug(slug, groups)
	if !ok {
		return domain.CityListing{}, fmt.Errorf("service.DirectoryService.CityListing: %w", domain.ErrNotFound)
	}

	filter := repo.Filter{CityIn: group.VariantLabels()}
	if len(filter.CityIn) == 0 {
		// A group cannot exist without at least one variant; if one does,
		// fall back to a substring match on the normalized key.
		filter = repo.Filter{CityLike: group.NormalizedKey}
	}

	matched, _, err := s.fetchAll(ctx, repo.ProjectionListing, filter, repo.SortByRatingDesc)
	if err != nil {
		return domain.CityListing{}, fmt.Errorf("service.DirectoryService.CityListing: %w", err)
	}

	listed := make([]domain.Business, 0, len(matched))
	for _, b := range matched {
		if normalizeCity(b.CityLabel()) == group.NormalizedKey {
			listed = append(listed, b)
		}
	}

	if len(listed) == 0 && group.MemberCount > 0 {
		// First-pass aggregation and second-pass filter disagree — worth a
		// warning, but the page still renders empty rather than erroring.
		s.log.WarnContext(ctx, "city listing empty despite grouped members",
			"city", group.CanonicalName(),
			"expected", group.MemberCount,
			"variants", group.VariantLabels(),
		)
	}

	return domain.CityListing{
		City:       citySummary(group),
		Businesses: listed,
	}, nil
}

// BusinessBySlug returns the single business with the given slug.
// Returns domain.ErrNotFound when no such business exists.
func (s *DirectoryService) BusinessBySlug(ctx context.Context, slug string) (domain.Business, error) {
	b, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Business{}, fmt.Errorf("service.DirectoryService.BusinessBySlug: %w", err)
	}
	return b, nil
}

// Sitemap derives the sitemap inventory: one entry per city (canonical name,
// last touched when any member was) and one per business with a slug.
// City entries come out in the same member-count-descending order as the
// home listing, keeping slugs consistent under collisions.
func (s *DirectoryService) Sitemap(ctx context.Context) (domain.SitemapIndex, error) {
	businesses, _, err := s.fetchAll(ctx, repo.ProjectionSitemap, repo.Filter{}, repo.SortByID)
	if err != nil {
		return domain.SitemapIndex{}, fmt.Errorf("service.DirectoryService.Sitemap: %w", err)
	}

	groups := groupByCity(businesses)

	// Latest updated_at per normalized key.
	lastMod := make(map[string]time.Time, len(groups))
	for _, b := range businesses {
		key := normalizeCity(b.CityLabel())
		if key == "" {
			continue
		}
		if b.UpdatedAt.After(lastMod[key]) {
			lastMod[key] = b.UpdatedAt
		}
	}

	idx := domain.SitemapIndex{
		Cities: make([]domain.SitemapCity, 0, len(groups)),
	}
	for _, g := range groups {
		name := g.CanonicalName()
		idx.Cities = append(idx.Cities, domain.SitemapCity{
			Name:         name,
			Slug:         citySlug(name),
			LastModified: lastMod[g.NormalizedKey],
		})
	}
	for _, b := range businesses {
		if b.Slug == "" {
			continue
		}
		idx.Businesses = append(idx.Businesses, domain.SitemapBusiness{
			Slug:         b.Slug,
			LastModified: b.UpdatedAt,
		})
	}

	return idx, nil
}

// citySummary converts a group into its display form.
func citySummary(g domain.CityGroup) domain.CitySummary {
	name := g.CanonicalName()
	return domain.CitySummary{
		Name:          name,
		Slug:          citySlug(name),
		Count:         g.MemberCount,
		AverageRating: g.AverageRating(),
	}
}
