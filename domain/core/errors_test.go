package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	cause := errors.New("boom")

	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"fetch", &FetchError{Source: "raises1.csv", Err: cause}, ErrFetch},
		{"malformed", &MalformedInputError{Dataset: "Top staff", Row: 2, Column: "raise", Reason: "missing column"}, ErrMalformedInput},
		{"parse", &ParseError{Dataset: "Top staff", Row: 0, Column: "pay", Value: "x", Err: cause}, ErrParse},
		{"numeric", &InvalidNumericValueError{Row: 1, Column: "pay", Value: "abc"}, ErrInvalidNumericValue},
		{"unknown", &UnknownDatasetError{Key: "nope"}, ErrUnknownDataset},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.sentinel)
			wrapped := fmt.Errorf("loading: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestFetchErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &FetchError{Source: "http://example.test/a.csv", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "http://example.test/a.csv")
}

func TestErrorMessagesIdentifyLocation(t *testing.T) {
	err := &ParseError{Dataset: "Top staff", Row: 3, Column: "pay", Value: "12x", Err: errors.New("bad")}
	assert.Contains(t, err.Error(), `row 3`)
	assert.Contains(t, err.Error(), `"pay"`)
	assert.Contains(t, err.Error(), `"12x"`)

	malformed := &MalformedInputError{Dataset: "d", Reason: "no header row"}
	assert.NotContains(t, malformed.Error(), "row 0")
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsLoadError(&FetchError{Source: "a", Err: errors.New("x")}))
	assert.True(t, IsLoadError(&InvalidNumericValueError{}))
	assert.False(t, IsLoadError(&UnknownDatasetError{Key: "k"}))
	assert.True(t, IsUnknownDataset(&UnknownDatasetError{Key: "k"}))
}
