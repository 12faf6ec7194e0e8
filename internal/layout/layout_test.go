package layout

import (
	"testing"

	"barstack/domain/dataset"
	"barstack/domain/transform"
	internaldataset "barstack/internal/dataset"
	"barstack/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raisesData(t *testing.T) (*dataset.ParsedDataset, dataset.Metadata) {
	t.Helper()
	meta := testkit.RaisesMetadata("Top staff", "")
	data, err := internaldataset.Parse(testkit.RaisesTable(), meta)
	require.NoError(t, err)
	return data, meta
}

func TestComputeWorkedExample(t *testing.T) {
	data, meta := raisesData(t)

	l, err := Compute(data, meta, 600, DefaultProps())
	require.NoError(t, err)

	assert.Equal(t, 600.0, l.Width)
	assert.InDelta(t, 372.0, l.Height, 1e-9)
	assert.Equal(t, Margins{Top: 20, Right: 50, Bottom: 50, Left: 150}, l.Margins)
	assert.Equal(t, 400.0, l.GraphWidth)
	assert.InDelta(t, 302.0, l.GraphHeight, 1e-9)

	assert.Equal(t, [2]float64{0, 70}, l.X.Domain)
	assert.Equal(t, [2]float64{0, 400}, l.X.Range)
	assert.Equal(t, []float64{30, 70}, l.Totals)
	assert.Equal(t, []string{"a", "b"}, l.Y.Domain)
	assert.Equal(t, []string{"#E6842A", "#F6B656"}, l.Colors.Colors())

	require.NotNil(t, l.XAxisLabelPosition)
	assert.Equal(t, Point{X: 200, Y: l.GraphHeight + 25}, *l.XAxisLabelPosition)
	assert.Equal(t, transform.FormatCurrencySI, l.TickFormat)
}

func TestComputeSegmentsStackInSubGroupOrder(t *testing.T) {
	data, meta := raisesData(t)
	l, err := Compute(data, meta, 600, DefaultProps())
	require.NoError(t, err)

	require.Len(t, l.Segments, 4)
	pay, raise := l.Segments[0], l.Segments[2]
	assert.Equal(t, "pay", pay.SubGroup)
	assert.Equal(t, 0.0, pay.Y0)
	assert.Equal(t, 10.0, pay.Y1)
	assert.Equal(t, "raise", raise.SubGroup)
	assert.Equal(t, 10.0, raise.Y0)
	assert.Equal(t, 30.0, raise.Y1)
	assert.InDelta(t, pay.X+pay.Width, raise.X, 1e-9)
	assert.Equal(t, "#F6B656", raise.Color)

	last := l.Segments[3]
	assert.InDelta(t, l.GraphWidth, last.X+last.Width, 1e-9, "largest total reaches the end of the axis")
	assert.InDelta(t, l.Y.Bandwidth, last.Height, 1e-9)
}

func TestComputeSmallScreen(t *testing.T) {
	data, meta := raisesData(t)
	meta.XAxisLabel = ""
	meta.XAxisTickFormatMobile = transform.FormatSI

	l, err := Compute(data, meta, 399, DefaultProps())
	require.NoError(t, err)
	assert.True(t, l.SmallScreen)
	assert.Equal(t, Margins{Top: 20, Right: 30, Bottom: 30, Left: 150}, l.Margins)
	assert.Equal(t, transform.FormatSI, l.TickFormat)
	assert.Nil(t, l.XAxisLabelPosition)

	wide, err := Compute(data, meta, 400, DefaultProps())
	require.NoError(t, err)
	assert.False(t, wide.SmallScreen)
	assert.Equal(t, 50.0, wide.Margins.Right)
	assert.Equal(t, transform.FormatCurrencySI, wide.TickFormat)
}

func TestComputeEmptyDataset(t *testing.T) {
	data := &dataset.ParsedDataset{SubGroups: []string{}}
	l, err := Compute(data, dataset.Metadata{Label: "empty"}, 600, DefaultProps())
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 0}, l.X.Domain)
	assert.Empty(t, l.Segments)
	assert.Equal(t, 200.0, l.X.Scale(0), "collapsed domain maps to the middle of the range")
}

func TestComputeClampsTinyViewports(t *testing.T) {
	data, meta := raisesData(t)
	l, err := Compute(data, meta, 100, DefaultProps())
	require.NoError(t, err)
	assert.Equal(t, 0.0, l.GraphWidth)
	assert.Equal(t, 0.0, l.GraphHeight)
}

func TestComputeIsIdempotent(t *testing.T) {
	data, meta := raisesData(t)
	first, err := Compute(data, meta, 720, DefaultProps())
	require.NoError(t, err)
	second, err := Compute(data, meta, 720, DefaultProps())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeColorsStableAcrossDatasets(t *testing.T) {
	props := DefaultProps()
	props.Palette = []string{"red", "green"}
	table := testkit.Table([]string{"name", "pay", "raise", "bonus"}, []string{"a", "1", "2", "3"})
	data, err := internaldataset.Parse(table, dataset.Metadata{Label: "x"})
	require.NoError(t, err)

	l, err := Compute(data, dataset.Metadata{Label: "x"}, 600, props)
	require.NoError(t, err)
	assert.Equal(t, "red", l.Colors.Color("pay"))
	assert.Equal(t, "green", l.Colors.Color("raise"))
	assert.Equal(t, "red", l.Colors.Color("bonus"))
	assert.Equal(t, "", l.Colors.Color("missing"))
}

func TestComputeTicks(t *testing.T) {
	data, meta := raisesData(t)
	l, err := Compute(data, meta, 600, DefaultProps())
	require.NoError(t, err)

	require.Len(t, l.XTicks, 4)
	assert.Equal(t, []float64{0, 20, 40, 60}, tickValues(l.XTicks))
	assert.Equal(t, "$20", l.XTicks[1].Label)
	assert.Equal(t, []string{"a", "b"}, tickLabels(l.YTicks))
}

func TestMarginsFor(t *testing.T) {
	assert.Equal(t, Margins{20, 30, 30, 150}, MarginsFor(300, 400, false))
	assert.Equal(t, Margins{20, 50, 30, 150}, MarginsFor(800, 400, false))
	assert.Equal(t, Margins{20, 50, 50, 150}, MarginsFor(800, 400, true))
}

func TestTooltip(t *testing.T) {
	data, meta := raisesData(t)
	entry := dataset.Entry{Metadata: meta, Data: data}

	text, err := Tooltip(entry, 1, "raise")
	require.NoError(t, err)
	assert.Equal(t, "raise: $40", text)

	entry.Metadata.XValDisplayFormat = ""
	text, err = Tooltip(entry, 0, "pay")
	require.NoError(t, err)
	assert.Equal(t, "pay: 10", text)

	_, err = Tooltip(entry, 5, "pay")
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = Tooltip(entry, 0, "bonus")
	assert.ErrorIs(t, err, ErrUnknownSubGroup)
}

func TestPlaceTooltip(t *testing.T) {
	assert.Equal(t, TooltipPosition{Left: 110, Top: 72}, PlaceTooltip(100, 100, 80, 500))

	flipped := PlaceTooltip(450, 100, 80, 500)
	assert.True(t, flipped.Flipped)
	assert.Equal(t, 360.0, flipped.Left)
	assert.Equal(t, 72.0, flipped.Top)
}

func tickValues(ticks []Tick) []float64 {
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = t.Value
	}
	return out
}

func tickLabels(ticks []Tick) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = t.Label
	}
	return out
}
