package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalidQueryError_Error(t *testing.T) {
	err := &InvalidQueryError{Query: "ab", Message: "query must be at least 3 characters"}

	expected := `invalid query "ab": query must be at least 3 characters`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestFetchError_Error(t *testing.T) {
	underlying := errors.New("connection refused")
	err := &FetchError{Source: "mercadolibre", URL: "https://listado.mercadolibre.cl/laptop", Err: underlying}

	if err.Error() == "" {
		t.Error("Error() returned empty string")
	}
	if !errors.Is(err, underlying) {
		t.Error("FetchError should unwrap to the underlying error")
	}
}

func TestIsInvalidQuery(t *testing.T) {
	err := &InvalidQueryError{Query: "x", Message: "too short"}

	if !IsInvalidQuery(err) {
		t.Error("IsInvalidQuery should return true for InvalidQueryError")
	}
	if IsInvalidQuery(errors.New("other error")) {
		t.Error("IsInvalidQuery should return false for other errors")
	}
}

func TestIsInvalidQuery_Wrapped(t *testing.T) {
	err := fmt.Errorf("search: %w", &InvalidQueryError{Query: "x", Message: "too short"})

	if !IsInvalidQuery(err) {
		t.Error("IsInvalidQuery should detect a wrapped InvalidQueryError")
	}
}

func TestIsFetch(t *testing.T) {
	err := &FetchError{Source: "falabella", URL: "https://example.com", Err: errors.New("timeout")}

	if !IsFetch(err) {
		t.Error("IsFetch should return true for FetchError")
	}
	if IsFetch(&ParseError{Source: "falabella"}) {
		t.Error("IsFetch should return false for ParseError")
	}
}

func TestIsParse(t *testing.T) {
	err := &ParseError{Source: "mercadolibre", Message: "no product cards found"}

	if !IsParse(err) {
		t.Error("IsParse should return true for ParseError")
	}
	if IsParse(errors.New("other")) {
		t.Error("IsParse should return false for other errors")
	}
}

func TestIsAllSourcesFailed(t *testing.T) {
	err := &AllSourcesFailedError{Query: "laptop gamer", Sources: 2}

	if !IsAllSourcesFailed(err) {
		t.Error("IsAllSourcesFailed should return true for AllSourcesFailedError")
	}
	if IsAllSourcesFailed(errors.New("other")) {
		t.Error("IsAllSourcesFailed should return false for other errors")
	}
}

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{Resource: "job", ID: "abc-123"}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("base error")
	wrapped := WrapError(base, "context")

	if wrapped == nil {
		t.Fatal("WrapError returned nil for non-nil error")
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match the base error")
	}
	if WrapError(nil, "context") != nil {
		t.Error("WrapError should return nil for nil error")
	}
}
