package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atozofsigns/directory-api/internal/domain"
	"github.com/atozofsigns/directory-api/internal/repo"
	"github.com/atozofsigns/directory-api/internal/service"
)

// fakeRepo is an in-memory BusinessRepo. It applies filters and sorts the
// way the Postgres implementation contracts to (stable order, primary-key
// tie-break via slice index) and records every call so tests can assert on
// the pagination behavior.
type fakeRepo struct {
	businesses []domain.Business

	countCalls  int
	fetchRanges []domain.BatchRange

	// failOn, when set, makes FetchRange fail for the matching range.
	failOn *domain.BatchRange

	// substringCityMatch makes CityIn behave like a sloppy collation that
	// also matches labels merely containing a variant. Simulates the storage
	// engine disagreeing with the service's normalization.
	substringCityMatch bool

	// emptySecondPass makes any filtered fetch return nothing, simulating a
	// first-pass/second-pass disagreement.
	emptySecondPass bool
}

var _ repo.BusinessRepo = (*fakeRepo)(nil)

func (f *fakeRepo) Count(_ context.Context, filter repo.Filter) (int, error) {
	f.countCalls++
	return len(f.matching(filter)), nil
}

func (f *fakeRepo) FetchRange(_ context.Context, _ repo.Projection, filter repo.Filter, s repo.Sort, br domain.BatchRange) ([]domain.Business, error) {
	f.fetchRanges = append(f.fetchRanges, br)
	if f.failOn != nil && *f.failOn == br {
		return nil, fmt.Errorf("boom")
	}

	rows := f.matching(filter)
	if s == repo.SortByRatingDesc {
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := rows[i].Rating, rows[j].Rating
			switch {
			case ri == nil:
				return false
			case rj == nil:
				return true
			default:
				return *ri > *rj
			}
		})
	}

	if br.Start >= len(rows) {
		return nil, nil
	}
	end := br.End + 1
	if end > len(rows) {
		end = len(rows)
	}
	return rows[br.Start:end], nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (domain.Business, error) {
	for _, b := range f.businesses {
		if b.Slug == slug {
			return b, nil
		}
	}
	return domain.Business{}, domain.ErrNotFound
}

func (f *fakeRepo) matching(filter repo.Filter) []domain.Business {
	filtered := len(filter.CityIn) > 0 || filter.CityLike != ""
	if filtered && f.emptySecondPass {
		return nil
	}

	out := make([]domain.Business, 0, len(f.businesses))
	for _, b := range f.businesses {
		if f.matches(b, filter) {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeRepo) matches(b domain.Business, filter repo.Filter) bool {
	switch {
	case len(filter.CityIn) > 0:
		for _, want := range filter.CityIn {
			if b.CityLabel() == want {
				return true
			}
			if f.substringCityMatch && strings.Contains(b.CityLabel(), want) {
				return true
			}
		}
		return false
	case filter.CityLike != "":
		return strings.Contains(strings.ToLower(b.CityLabel()), strings.ToLower(filter.CityLike))
	default:
		return true
	}
}

// ---- helpers ---------------------------------------------------------------

func cityBiz(city string, rating float64) domain.Business {
	b := domain.Business{}
	if city != "" {
		b.City = &city
	}
	if rating >= 0 {
		b.Rating = &rating
	}
	return b
}

func newService(r repo.BusinessRepo) *service.DirectoryService {
	return service.NewDirectoryService(r, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- Overview --------------------------------------------------------------

func TestOverview_GroupsVariantsIntoOneCity(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Leeds", 4),
		cityBiz(" leeds ", 5),
		cityBiz("LEEDS", 5),
	}}

	got, err := newService(f).Overview(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Cities, 1)
	c := got.Cities[0]
	assert.Equal(t, "Leeds", c.Name)
	assert.Equal(t, "leeds", c.Slug)
	assert.Equal(t, 3, c.Count)
	assert.InDelta(t, 14.0/3.0, c.AverageRating, 1e-9)
	assert.Equal(t, 3, got.TotalBusinesses)
	assert.Equal(t, 1, got.TotalCities)
}

func TestOverview_MissingCityCountsTowardTotalOnly(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Hull", 4),
		cityBiz("", 5), // no city: invisible to city browsing
	}}

	got, err := newService(f).Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalBusinesses)
	assert.Equal(t, 1, got.TotalCities)
	assert.Equal(t, 1, got.Cities[0].Count)
}

// The overall average only counts businesses that actually have a rating;
// per-city averages divide by the full member count. Both behaviors are
// inherited from the production site.
func TestOverview_OverallAverageUsesRatedDenominator(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Hull", 4),
		cityBiz("Hull", -1), // unrated
	}}

	got, err := newService(f).Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating, "overall average divides by rated count")
	assert.Equal(t, 2.0, got.Cities[0].AverageRating, "city average divides by member count")
}

func TestOverview_CitiesOrderedByCountDescending(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Small", -1),
		cityBiz("Big", -1), cityBiz("Big", -1), cityBiz("Big", -1),
		cityBiz("Mid", -1), cityBiz("Mid", -1),
	}}

	got, err := newService(f).Overview(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Cities, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{got.Cities[0].Count, got.Cities[1].Count, got.Cities[2].Count})
	assert.Equal(t, "Big", got.Cities[0].Name)
}

// ---- pagination ------------------------------------------------------------

func TestOverview_PaginatesInBatchSizedRanges(t *testing.T) {
	rows := make([]domain.Business, 2500)
	for i := range rows {
		rows[i] = cityBiz("Leeds", -1)
	}
	f := &fakeRepo{businesses: rows}

	got, err := newService(f).Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2500, got.TotalBusinesses)
	assert.Equal(t, []domain.BatchRange{
		{Start: 0, End: 999},
		{Start: 1000, End: 1999},
		{Start: 2000, End: 2499},
	}, f.fetchRanges)
}

func TestOverview_EmptyStoreFetchesNothing(t *testing.T) {
	f := &fakeRepo{}

	got, err := newService(f).Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, f.countCalls)
	assert.Empty(t, f.fetchRanges, "a zero count must not issue any range request")
	assert.Equal(t, 0, got.TotalBusinesses)
	assert.Empty(t, got.Cities)
}

func TestOverview_FailedBatchAbortsWholeFetch(t *testing.T) {
	rows := make([]domain.Business, 1500)
	for i := range rows {
		rows[i] = cityBiz("Leeds", -1)
	}
	f := &fakeRepo{
		businesses: rows,
		failOn:     &domain.BatchRange{Start: 1000, End: 1499},
	}

	_, err := newService(f).Overview(context.Background())

	require.Error(t, err)
	var fetchErr *domain.FetchRangeError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.BatchRange{Start: 1000, End: 1499}, fetchErr.Range)
}

// ---- CityListing -----------------------------------------------------------

func TestCityListing_CountMatchesOverview(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Leeds", 4), cityBiz(" leeds ", 5), cityBiz("LEEDS", 5),
		cityBiz("York", 3),
	}}
	svc := newService(f)
	ctx := context.Background()

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)

	// Following every home-page link must land on a page reporting the
	// identical count, even though each call re-runs the whole pipeline.
	for _, c := range overview.Cities {
		listing, err := svc.CityListing(ctx, c.Slug)
		require.NoError(t, err)
		assert.Equal(t, c.Count, listing.City.Count, "count mismatch for %q", c.Slug)
		assert.Equal(t, c.Count, len(listing.Businesses))
		assert.Equal(t, c.Name, listing.City.Name)
	}
}

func TestCityListing_MatchesAllSpellingVariants(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Leeds", 4), cityBiz(" leeds ", 5), cityBiz("LEEDS", 5),
	}}

	listing, err := newService(f).CityListing(context.Background(), "leeds")

	require.NoError(t, err)
	assert.Len(t, listing.Businesses, 3, "filter must cover every raw spelling, not just the canonical one")
}

func TestCityListing_OrderedByRatingDescending(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{
		cityBiz("Leeds", 3), cityBiz("Leeds", -1), cityBiz("Leeds", 5),
	}}

	listing, err := newService(f).CityListing(context.Background(), "leeds")

	require.NoError(t, err)
	require.Len(t, listing.Businesses, 3)
	assert.Equal(t, 5.0, *listing.Businesses[0].Rating)
	assert.Equal(t, 3.0, *listing.Businesses[1].Rating)
	assert.Nil(t, listing.Businesses[2].Rating, "unrated businesses sort last")
}

func TestCityListing_NotFound(t *testing.T) {
	f := &fakeRepo{businesses: []domain.Business{cityBiz("Leeds", -1)}}

	_, err := newService(f).CityListing(context.Background(), "atlantis")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// A storage collation that over-matches must be corrected locally: every
// returned row is re-checked against the group's normalized key.
func TestCityListing_LocalRefilterDropsOverMatches(t *testing.T) {
	f := &fakeRepo{
		businesses: []domain.Business{
			cityBiz("Leeds", 4),
			cityBiz("Greater Leeds", 5), // matched by the sloppy store, different key
		},
		substringCityMatch: true,
	}

	listing, err := newService(f).CityListing(context.Background(), "leeds")

	require.NoError(t, err)
	require.Len(t, listing.Businesses, 1)
	assert.Equal(t, "Leeds", listing.Businesses[0].CityLabel())
}

// A second pass that finds nothing for a group with members is an anomaly:
// logged as a warning, rendered as an empty 200, never an error.
func TestCityListing_EmptySecondPassRendersEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := &fakeRepo{
		businesses:      []domain.Business{cityBiz("Leeds", 4), cityBiz("Leeds", 5)},
		emptySecondPass: true,
	}
	svc := service.NewDirectoryService(f, slog.New(slog.NewJSONHandler(&buf, nil)))

	listing, err := svc.CityListing(context.Background(), "leeds")

	require.NoError(t, err)
	assert.Empty(t, listing.Businesses)
	assert.Equal(t, 2, listing.City.Count, "expected count still comes from the first-pass aggregation")
	assert.Contains(t, buf.String(), "city listing empty despite grouped members")
}

// ---- BusinessBySlug --------------------------------------------------------

func TestBusinessBySlug(t *testing.T) {
	b := cityBiz("Leeds", 4)
	b.Name = "Apex Signs"
	b.Slug = "apex-signs"
	f := &fakeRepo{businesses: []domain.Business{b}}

	got, err := newService(f).BusinessBySlug(context.Background(), "apex-signs")

	require.NoError(t, err)
	assert.Equal(t, "Apex Signs", got.Name)
}

func TestBusinessBySlug_NotFound(t *testing.T) {
	f := &fakeRepo{}

	_, err := newService(f).BusinessBySlug(context.Background(), "nope")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
