// ABOUTME: Query normalization for search identity
// ABOUTME: Canonicalizes search text used as the cache and job coalescing key

package domain

import (
	"strings"
	"unicode/utf8"

	"precios-api/core/errors"
)

// MinQueryLength is the minimum length of a normalized query, in characters.
const MinQueryLength = 3

// MaxQueryLength is the maximum accepted query length, in characters.
const MaxQueryLength = 100

// NormalizeQuery canonicalizes a search query so that queries differing only
// by case or whitespace map to the same cache and job key. Length limits
// count characters, not bytes, so accented queries are measured correctly.
func NormalizeQuery(query string) (string, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))

	if utf8.RuneCountInString(normalized) < MinQueryLength {
		return "", &errors.InvalidQueryError{
			Query:   query,
			Message: "query must be at least 3 characters",
		}
	}

	if utf8.RuneCountInString(normalized) > MaxQueryLength {
		return "", &errors.InvalidQueryError{
			Query:   query,
			Message: "query cannot exceed 100 characters",
		}
	}

	return normalized, nil
}
