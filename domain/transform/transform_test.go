package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber.ParseValue(" 30 ")
	require.NoError(t, err)
	assert.True(t, v.Numeric)
	assert.Equal(t, 30.0, v.Number)
	assert.Equal(t, " 30 ", v.Raw)

	blank, err := ParseNumber.ParseValue("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, blank.Number)

	_, err = ParseNumber.ParseValue("12abc")
	assert.Error(t, err)
}

func TestParseIdentityKeepsRaw(t *testing.T) {
	for _, k := range []ParserKind{"", ParseIdentity} {
		v, err := k.ParseValue("abc")
		require.NoError(t, err)
		assert.False(t, v.Numeric)
		assert.Equal(t, "abc", v.Raw)
	}
}

func TestParseYear(t *testing.T) {
	v, err := ParseYear.ParseCategory("2001")
	require.NoError(t, err)
	assert.Equal(t, 2001, v.Time.Year())
	assert.Equal(t, time.January, v.Time.Month())

	_, err = ParseYear.ParseCategory("two thousand")
	assert.Error(t, err)

	n, err := ParseYear.ParseValue("1999")
	require.NoError(t, err)
	assert.Equal(t, 1999.0, n.Number)
}

func TestParserKindValid(t *testing.T) {
	assert.True(t, ParserKind("").Valid())
	assert.True(t, ParseNumber.Valid())
	assert.False(t, ParserKind("moment").Valid())
}

func TestFormatKinds(t *testing.T) {
	cases := []struct {
		kind FormatKind
		in   float64
		want string
	}{
		{FormatCurrency, 100000, "$100,000"},
		{FormatCurrency, 1234.6, "$1,235"},
		{FormatCurrencySI, 100000, "$100k"},
		{FormatCurrencySI, 1500000, "$1.5M"},
		{FormatSI, 42, "42"},
		{FormatSI, 0.5, "500m"},
		{FormatSI, 123456, "123.456k"},
		{FormatSI, 0, "0"},
		{FormatNumber, 0, "0"},
		{FormatNumber, -0.2, "0"},
		{FormatPercent, 0.256, "26%"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.kind.FormatFloat(tc.in), "%s(%v)", tc.kind, tc.in)
	}
}

func TestFormatFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "n/a", FormatCurrency.Format(Value{Raw: "n/a"}))
	assert.Equal(t, "10", FormatIdentity.Format(Value{Raw: "10", Number: 10, Numeric: true}))
	assert.Equal(t, "$10", FormatCurrency.Format(Value{Raw: "10"}))
	assert.Equal(t, "7.5", FormatKind("").FormatFloat(7.5))
}

func TestFormatYear(t *testing.T) {
	v, err := ParseYear.ParseCategory("2002")
	require.NoError(t, err)
	assert.Equal(t, "2002", FormatYear.Format(v))
	assert.Equal(t, "2003", FormatYear.Format(Value{Raw: " 2003"}))
	assert.Equal(t, "Q1", FormatYear.Format(Value{Raw: "Q1"}))
}

func TestParseSortSpec(t *testing.T) {
	spec, err := ParseSortSpec("field_desc:raise")
	require.NoError(t, err)
	assert.Equal(t, SortSpec{Kind: SortFieldDesc, Field: "raise"}, spec)
	assert.Equal(t, "field_desc:raise", spec.String())

	none, err := ParseSortSpec("")
	require.NoError(t, err)
	assert.True(t, none.IsNone())

	total, err := ParseSortSpec("total_desc")
	require.NoError(t, err)
	assert.Equal(t, SortTotalDesc, total.Kind)

	_, err = ParseSortSpec("field_asc")
	assert.Error(t, err)
	_, err = ParseSortSpec("total_desc:pay")
	assert.Error(t, err)
	_, err = ParseSortSpec("random")
	assert.Error(t, err)
}
