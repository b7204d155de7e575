package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Statistical preconditions
	ErrEmptySegment       = errors.New("segment has no observations")
	ErrInsufficientSample = errors.New("insufficient sample for variance estimate")
	ErrDegenerateVariance = errors.New("zero pooled variance with unequal means")
	ErrInvalidParameter   = errors.New("invalid parameter")

	// Lookup errors
	ErrNotFound        = errors.New("resource not found")
	ErrSegmentNotFound = fmt.Errorf("%w: segment", ErrNotFound)
	ErrAxisNotFound    = fmt.Errorf("%w: axis", ErrNotFound)
)

// Error constructors with context

func NewEmptySegmentError(segment string) error {
	return fmt.Errorf("%w: %s", ErrEmptySegment, segment)
}

func NewInsufficientSampleError(segment string, n int) error {
	return fmt.Errorf("%w: %s has n=%d, need at least 2", ErrInsufficientSample, segment, n)
}

func NewDegenerateVarianceError(meanA, meanB float64) error {
	return fmt.Errorf("%w: means %.4f and %.4f", ErrDegenerateVariance, meanA, meanB)
}

func NewInvalidParameterError(param, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, param, reason)
}

// Error checking helpers

func IsEmptySegment(err error) bool {
	return errors.Is(err, ErrEmptySegment)
}

func IsInsufficientSample(err error) bool {
	return errors.Is(err, ErrInsufficientSample)
}

func IsDegenerateVariance(err error) bool {
	return errors.Is(err, ErrDegenerateVariance)
}

func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
