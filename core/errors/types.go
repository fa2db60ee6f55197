// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
)

// InvalidQueryError represents a caller error: the search query failed
// validation. It carries no job or cache side effects.
type InvalidQueryError struct {
	Query   string
	Message string
}

// Error implements the error interface
func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Message)
}

// FetchError represents a failure to retrieve a page from one source. It is
// adapter-local and never fails the whole request.
type FetchError struct {
	Source string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s (%s): %v", e.Source, e.URL, e.Err)
}

// Unwrap returns the underlying transport error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError represents a structural mismatch while extracting results from a
// fetched page. Adapter-local, like FetchError.
type ParseError struct {
	Source  string
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed for %s: %s", e.Source, e.Message)
}

// AllSourcesFailedError represents a job where every adapter failed. The
// cache is left untouched and the caller may retry.
type AllSourcesFailedError struct {
	Query   string
	Sources int
}

// Error implements the error interface
func (e *AllSourcesFailedError) Error() string {
	return fmt.Sprintf("all %d sources failed for query %q", e.Sources, e.Query)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// IsInvalidQuery checks if an error is an InvalidQueryError
func IsInvalidQuery(err error) bool {
	var invalidErr *InvalidQueryError
	return errors.As(err, &invalidErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsParse checks if an error is a ParseError
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsAllSourcesFailed checks if an error is an AllSourcesFailedError
func IsAllSourcesFailed(err error) bool {
	var allFailedErr *AllSourcesFailedError
	return errors.As(err, &allFailedErr)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
