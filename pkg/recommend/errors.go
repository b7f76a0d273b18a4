package recommend

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the engine requires mood text and the
	// input is empty or only whitespace.
	ErrEmptyInput = errors.New("mood text is empty")

	// ErrNoResults is returned when the catalog has no tracks for a genre.
	ErrNoResults = errors.New("catalog returned no tracks")

	// ErrInsufficientResults is returned when fewer candidates exist than
	// the requested sample size. Use errors.As with
	// *InsufficientResultsError to read the counts.
	ErrInsufficientResults = errors.New("not enough tracks to sample")

	// ErrInvalidSampleSize is returned for sample sizes below one.
	ErrInvalidSampleSize = errors.New("sample size must be positive")

	// ErrEmptyCatalog is returned when the engine has no genres to check.
	ErrEmptyCatalog = errors.New("genre catalog is empty")
)

// InsufficientResultsError reports how many tracks were wanted and how many
// the catalog produced.
type InsufficientResultsError struct {
	Want int
	Have int
}

func (e *InsufficientResultsError) Error() string {
	return fmt.Sprintf("%s: want %d, have %d", ErrInsufficientResults, e.Want, e.Have)
}

func (e *InsufficientResultsError) Unwrap() error { return ErrInsufficientResults }

// failureReason maps an error to a short label for metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrInsufficientResults):
		return "insufficient_results"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "catalog_error"
	}
}
