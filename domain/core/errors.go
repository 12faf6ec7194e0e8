package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrFetch = errors.New("data fetch failed")

	// Shape and value errors
	ErrMalformedInput      = errors.New("malformed input")
	ErrParse               = errors.New("parse failed")
	ErrInvalidNumericValue = errors.New("invalid numeric value")

	// Selection errors
	ErrUnknownDataset = errors.New("unknown dataset")
)

// FetchError reports a source that could not be loaded. Fatal to initialization.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrFetch, e.Source, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{ErrFetch, e.Err} }

// MalformedInputError reports a row whose columns do not match the header.
type MalformedInputError struct {
	Dataset string
	Row     int
	Column  string
	Reason  string
}

func (e *MalformedInputError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%v: dataset %q: %s", ErrMalformedInput, e.Dataset, e.Reason)
	}
	return fmt.Sprintf("%v: dataset %q row %d column %q: %s", ErrMalformedInput, e.Dataset, e.Row, e.Column, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

// ParseError reports a configured parser rejecting a raw value.
type ParseError struct {
	Dataset string
	Row     int
	Column  string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: dataset %q row %d column %q value %q: %v", ErrParse, e.Dataset, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// InvalidNumericValueError reports a sub-group value that cannot be coerced to a number.
type InvalidNumericValueError struct {
	Row    int
	Column string
	Value  string
}

func (e *InvalidNumericValueError) Error() string {
	return fmt.Sprintf("%v: row %d column %q value %q", ErrInvalidNumericValue, e.Row, e.Column, e.Value)
}

func (e *InvalidNumericValueError) Unwrap() error { return ErrInvalidNumericValue }

// UnknownDatasetError is returned when a key is not in the registry.
type UnknownDatasetError struct {
	Key string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownDataset, e.Key)
}

func (e *UnknownDatasetError) Unwrap() error { return ErrUnknownDataset }

// Error checking helpers
func IsLoadError(err error) bool {
	return errors.Is(err, ErrFetch) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrInvalidNumericValue)
}

func IsUnknownDataset(err error) bool {
	return errors.Is(err, ErrUnknownDataset)
}
