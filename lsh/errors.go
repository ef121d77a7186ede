package lsh

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for invalid or degenerate index parameters
	ErrConfiguration = errors.New("lsh: invalid configuration")
	// ErrNotInitialized is returned by operations called before Init
	ErrNotInitialized = errors.New("lsh: index is not initialized")
	// ErrDimensionMismatch is matched by every DimensionMismatchError
	ErrDimensionMismatch = errors.New("lsh: dimension mismatch")
	// ErrNumericOverflow is returned when a projection can't be hashed without wrapping
	ErrNumericOverflow = errors.New("lsh: numeric overflow")
	// ErrInvalidRadius is returned for negative or NaN radius
	ErrInvalidRadius = errors.New("lsh: radius must be a non-negative number")
)

// DimensionMismatchError indicates a vector of the wrong length
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("lsh: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

func configErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
