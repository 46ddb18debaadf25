// Package repo contains all database access logic for the directory API.
// No business logic lives here — only SQL and type mapping. The aggregation
// engine in internal/service depends on the BusinessRepo interface, never on
// the Postgres implementation directly.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atozofsigns/directory-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Projection selects which columns a range fetch retrieves. The aggregation
// passes over the full table pull only the columns they need; unselected
// fields of the returned Business values are left at their zero value.
type Projection int

const (
	// ProjectionCityRating retrieves city label and rating only — the
	// grouping passes behind the home listing and city resolution.
	ProjectionCityRating Projection = iota

	// ProjectionSitemap retrieves city label, business slug, and updated_at.
	ProjectionSitemap

	// ProjectionListing retrieves the fields shown on a city listing card.
	ProjectionListing

	// ProjectionDetail retrieves every column.
	ProjectionDetail
)

// Filter narrows a count or range fetch by city label.
// Zero value means no filter. CityIn and CityLike are mutually exclusive;
// CityIn wins when both are set.
type Filter struct {
	// CityIn matches rows whose raw city label equals any element exactly.
	CityIn []string

	// CityLike matches rows whose city label contains the given text,
	// case-insensitively. Defensive fallback only — exact variant matching
	// via CityIn is the normal path.
	CityLike string
}

// Sort selects the total order for a range fetch. Every sort ends with the
// primary key so the order is stable and repeatable across independent
// calls — the aggregation engine's first-encountered tie-breaks depend on it.
type Sort int

const (
	// SortByID orders by primary key ascending. The default for full-table
	// aggregation passes.
	SortByID Sort = iota

	// SortByRatingDesc orders by rating descending with NULL ratings last,
	// then primary key. Used for city listing pages.
	SortByRatingDesc
)

// BusinessRepo defines the read operations the directory engine depends on.
// The storage collaborator caps any single range request at
// domain.MaxBatchSize rows; callers retrieve larger sets by issuing
// sequential ranges (see service.fetchAll).
type BusinessRepo interface {
	// Count returns the exact number of rows matching the filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// FetchRange returns the rows in the inclusive range [r.Start, r.End]
	// of the filtered, sorted row set. The range must not span more than
	// domain.MaxBatchSize rows.
	FetchRange(ctx context.Context, proj Projection, filter Filter, sort Sort, r domain.BatchRange) ([]domain.Business, error)

	// GetBySlug returns the single business with the given slug.
	// Returns domain.ErrNotFound if no such row exists.
	GetBySlug(ctx context.Context, slug string) (domain.Business, error)
}

// pgBusinessRepo is the Postgres implementation of BusinessRepo.
type pgBusinessRepo struct {
	db db
}

// NewBusinessRepo constructs a BusinessRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewBusinessRepo(db db) BusinessRepo {
	return &pgBusinessRepo{db: db}
}

// Count returns the exact row count for the filter.
func (r *pgBusinessRepo) Count(ctx context.Context, filter Filter) (int, error) {
	q := `SELECT count(*) FROM signage_businesses` + filterClause(filter)

	var count int
	if err := r.db.QueryRow(ctx, q, filterArgs(filter)).Scan(&count); err != nil {
		return 0, fmt.Errorf("repo.BusinessRepo.Count: %w", err)
	}
	return count, nil
}

// FetchRange returns one batch of the filtered, sorted row set.
func (r *pgBusinessRepo) FetchRange(ctx context.Context, proj Projection, filter Filter, sort Sort, br domain.BatchRange) ([]domain.Business, error) {
	if br.Len() > domain.MaxBatchSize {
		return nil, fmt.Errorf("repo.BusinessRepo.FetchRange: range %s exceeds batch cap %d", br, domain.MaxBatchSize)
	}

	q := `SELECT ` + proj.columns() + ` FROM signage_businesses` +
		filterClause(filter) + sort.orderBy() + ` OFFSET @offset LIMIT @limit`

	args := filterArgs(filter)
	args["offset"] = br.Start
	args["limit"] = br.Len()

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BusinessRepo.FetchRange: %w", err)
	}
	defer rows.Close()

	var businesses []domain.Business
	for rows.Next() {
		b, err := scanBusiness(rows, proj)
		if err != nil {
			return nil, fmt.Errorf("repo.BusinessRepo.FetchRange: scan: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BusinessRepo.FetchRange: rows: %w", err)
	}

	return businesses, nil
}

// GetBySlug retrieves one business by its unique slug.
func (r *pgBusinessRepo) GetBySlug(ctx context.Context, slug string) (domain.Business, error) {
	q := `SELECT ` + ProjectionDetail.columns() + ` FROM signage_businesses WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	b, err := scanBusiness(row, ProjectionDetail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Business{}, fmt.Errorf("repo.BusinessRepo.GetBySlug: %w", domain.ErrNotFound)
		}
		return domain.Business{}, fmt.Errorf("repo.BusinessRepo.GetBySlug: %w", err)
	}
	return b, nil
}

// columns returns the SELECT column list for the projection.
func (p Projection) columns() string {
	switch p {
	case ProjectionCityRating:
		return `address_info_city, rating`
	case ProjectionSitemap:
		return `address_info_city, slug, updated_at`
	case ProjectionListing:
		return `id, place_id, business_name, slug, rating, votes_count, about, address_info_city`
	default:
		return `id, place_id, business_name, slug, category, description, phone, url,
			address, address_info_city, rating, votes_count, about, logo, main_image,
			created_at, updated_at`
	}
}

// orderBy returns the ORDER BY clause for the sort. Both orders end with the
// primary key — see the Sort doc for why that matters.
func (s Sort) orderBy() string {
	switch s {
	case SortByRatingDesc:
		return ` ORDER BY rating DESC NULLS LAST, id`
	default:
		return ` ORDER BY id`
	}
}

// filterClause returns the WHERE clause for the filter, or "" for no filter.
func filterClause(f Filter) string {
	switch {
	case len(f.CityIn) > 0:
		return ` WHERE address_info_city = ANY(@cities)`
	case f.CityLike != "":
		return ` WHERE address_info_city ILIKE @city_pattern`
	default:
		return ``
	}
}

// filterArgs returns the named args matching filterClause.
func filterArgs(f Filter) pgx.NamedArgs {
	args := pgx.NamedArgs{}
	switch {
	case len(f.CityIn) > 0:
		args["cities"] = f.CityIn
	case f.CityLike != "":
		args["city_pattern"] = "%" + f.CityLike + "%"
	}
	return args
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanBusiness to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanBusiness maps a single database row into a domain.Business.
// The scan target list must match the projection's column list exactly.
func scanBusiness(s scanner, proj Projection) (domain.Business, error) {
	var (
		b          domain.Business
		id         pgtype.UUID
		city       pgtype.Text
		slug       pgtype.Text
		rating     pgtype.Float8
		votesCount pgtype.Int4
		updatedAt  pgtype.Timestamptz
	)

	var err error
	switch proj {
	case ProjectionCityRating:
		err = s.Scan(&city, &rating)
	case ProjectionSitemap:
		err = s.Scan(&city, &slug, &updatedAt)
	case ProjectionListing:
		err = s.Scan(&id, &b.PlaceID, &b.Name, &slug, &rating, &votesCount, &b.About, &city)
	default:
		err = s.Scan(&id, &b.PlaceID, &b.Name, &slug, &b.Category, &b.Description,
			&b.Phone, &b.URL, &b.Address, &city, &rating, &votesCount, &b.About,
			&b.Logo, &b.MainImage, &b.CreatedAt, &b.UpdatedAt)
	}
	if err != nil {
		return domain.Business{}, err
	}

	if id.Valid {
		b.ID = uuid.UUID(id.Bytes)
	}
	if city.Valid {
		c := city.String
		b.City = &c
	}
	if slug.Valid {
		b.Slug = slug.String
	}
	if rating.Valid {
		v := rating.Float64
		b.Rating = &v
	}
	if votesCount.Valid {
		n := int(votesCount.Int32)
		b.VotesCount = &n
	}
	if updatedAt.Valid {
		b.UpdatedAt = updatedAt.Time
	}

	return b, nil
}
