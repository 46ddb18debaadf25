// Package domain contains the core data types for the signage directory.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Business is an immutable snapshot of one directory entry as read from
// storage. Rows are fetched fresh on every request; nothing in this process
// owns their lifecycle.
//
// City and Rating are pointers because the underlying columns are nullable:
// a business scraped without an address has no city at all, which is
// different from a city of "". Aggregation must treat the two the same way
// (both are excluded from city groups) but the distinction is preserved here.
type Business struct {
	ID          uuid.UUID `json:"id"`
	PlaceID     string    `json:"place_id,omitempty"`
	Name        string    `json:"business_name"`
	Slug        string    `json:"slug,omitempty"` // business-level slug, distinct from city slugs
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	URL         string    `json:"url,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        *string   `json:"address_info_city,omitempty"` // free text, trusted for nothing until normalized
	Rating      *float64  `json:"rating,omitempty"`
	VotesCount  *int      `json:"votes_count,omitempty"`
	About       string    `json:"about,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	MainImage   string    `json:"main_image,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// CityLabel returns the raw city text, or "" when the column was NULL.
func (b Business) CityLabel() string {
	if b.City == nil {
		return ""
	}
	return *b.City
}

// RatingOrZero returns the rating, or 0 when the column was NULL.
// Group rating sums use this — a missing rating contributes nothing.
func (b Business) RatingOrZero() float64 {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// HasRating reports whether the business carries an actual rating value.
func (b Business) HasRating() bool {
	return b.Rating != nil
}
