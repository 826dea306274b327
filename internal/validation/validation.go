// Package validation validates user-supplied request fields.
package validation

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxProductNameLength = 200

// ValidateProductName checks that a product name is usable as a search query.
// Returns an empty string when valid, otherwise a human-readable reason.
func ValidateProductName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Product name is required"
	}
	if utf8.RuneCountInString(trimmed) > maxProductNameLength {
		return "Product name is too long"
	}
	return ""
}

// NormalizeProductName trims surrounding whitespace and collapses internal
// runs of spaces so the same product never gets two catalog rows.
func NormalizeProductName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateWatchEndDate parses an optional YYYY-MM-DD watch end date. A nil
// result with empty reason means no end date was given.
func ValidateWatchEndDate(value string) (*time.Time, string) {
	if value == "" {
		return nil, ""
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, "Watch end date must be in YYYY-MM-DD format"
	}
	return &parsed, ""
}
