package service

import "strings"

// normalizeCity maps a raw free-text city label to the comparison key used
// for grouping: surrounding whitespace trimmed, lower-cased. Labels differing
// only by case or leading/trailing whitespace collapse to the same key;
// internal whitespace and punctuation differences do not — no fuzzy matching
// beyond trim and case fold.
//
// Returns "" for absent or whitespace-only input. Idempotent.
// ASCII-safe lower-casing only; non-ASCII city names with locale-sensitive
// casing rules are a known limitation.
func normalizeCity(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
