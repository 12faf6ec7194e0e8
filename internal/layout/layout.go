// Package layout computes everything a renderer needs to draw the stacked bar chart:
// dimensions, margins, scales, colors, stacked segments and axis ticks.
package layout

import (
	"errors"
	"fmt"
	"math"

	"barstack/domain/dataset"
	"barstack/domain/transform"
	internaldataset "barstack/internal/dataset"
)

const (
	paddingInner = 0.2
	paddingOuter = 0.2
	bandAlign    = 0.5

	// pixels of plot width per x axis tick
	tickSpacing = 130
	minTicks    = 2

	axisLabelGap   = 20
	axisLabelDrop  = 25
	tooltipOffsetX = 10
	tooltipOffsetY = 28
)

var (
	ErrRowOutOfRange   = errors.New("row index out of range")
	ErrUnknownSubGroup = errors.New("unknown sub-group")
)

// DefaultPalette is the orange two-tone scheme used for the stacked segments.
var DefaultPalette = []string{"#E6842A", "#F6B656"}

// Props are the responsive settings shared by every render.
type Props struct {
	HeightRelativeToWidth float64
	BreakpointSmallScreen float64
	Palette               []string
}

// DefaultProps returns the stock chart settings.
func DefaultProps() Props {
	return Props{
		HeightRelativeToWidth: 0.62,
		BreakpointSmallScreen: 400,
		Palette:               append([]string(nil), DefaultPalette...),
	}
}

// Margins surround the plot area.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// MarginsFor returns the margins for a viewport width. Narrow screens get a smaller right
// margin and an x axis label needs room underneath.
func MarginsFor(width, breakpoint float64, hasXAxisLabel bool) Margins {
	m := Margins{Top: 20, Right: 50, Bottom: 30, Left: 150}
	if width < breakpoint {
		m.Right = 30
	}
	if hasXAxisLabel {
		m.Bottom += axisLabelGap
	}
	return m
}

// Point is a position in plot coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one stacked rectangle: sub-group SubGroup of row Row.
type Segment struct {
	SubGroup string  `json:"subGroup"`
	Row      int     `json:"row"`
	YVal     string  `json:"yVal"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Y0       float64 `json:"y0"`
	Y1       float64 `json:"y1"`
	Color    string  `json:"color"`
}

// Tick is a labelled axis position.
type Tick struct {
	Value    float64 `json:"value"`
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// Layout is the computed chart geometry for one dataset at one width.
type Layout struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	SmallScreen bool    `json:"smallScreen"`
	Margins     Margins `json:"margin"`
	GraphWidth  float64 `json:"graphWidth"`
	GraphHeight float64 `json:"graphHeight"`

	X      LinearScale  `json:"x"`
	Y      BandScale    `json:"y"`
	Colors OrdinalScale `json:"colors"`

	Totals     []float64            `json:"totals"`
	Segments   []Segment            `json:"segments"`
	TickFormat transform.FormatKind `json:"tickFormat"`
	XTicks     []Tick               `json:"xTicks"`
	YTicks     []Tick               `json:"yTicks"`

	XAxisLabel         string `json:"xAxisLabel,omitempty"`
	XAxisLabelPosition *Point `json:"xAxisLabelPosition,omitempty"`
	YAxisLabel         string `json:"yAxisLabel,omitempty"`
}

// Compute lays out data at width. It has no side effects: equal inputs give equal layouts.
func Compute(data *dataset.ParsedDataset, meta dataset.Metadata, width float64, props Props) (Layout, error) {
	if data == nil {
		return Layout{}, fmt.Errorf("layout: nil dataset")
	}
	width = math.Max(0, width)
	totals, err := internaldataset.Aggregate(data)
	if err != nil {
		return Layout{}, err
	}
	domainMax := 0.0
	for i, t := range totals {
		if i == 0 || t > domainMax {
			domainMax = t
		}
	}

	small := width < props.BreakpointSmallScreen
	l := Layout{
		Width:       width,
		Height:      width * props.HeightRelativeToWidth,
		SmallScreen: small,
		Margins:     MarginsFor(width, props.BreakpointSmallScreen, meta.XAxisLabel != ""),
		Totals:      totals,
		TickFormat:  meta.TickFormat(small),
		XAxisLabel:  meta.XAxisLabel,
		YAxisLabel:  meta.YAxisLabel,
	}
	l.GraphWidth = math.Max(0, l.Width-l.Margins.Left-l.Margins.Right)
	l.GraphHeight = math.Max(0, l.Height-l.Margins.Top-l.Margins.Bottom)

	l.X = NewLinearScale([2]float64{0, domainMax}, [2]float64{0, l.GraphWidth})
	l.Y = NewBandScale(data.Labels(), [2]float64{0, l.GraphHeight}, paddingInner, paddingOuter, bandAlign)
	l.Colors = NewOrdinalScale(data.SubGroups, props.Palette)

	if l.Segments, err = stack(data, l.X, l.Y, l.Colors); err != nil {
		return Layout{}, err
	}
	l.XTicks = xTicks(l.X, l.GraphWidth, l.TickFormat)
	l.YTicks = yTicks(data, l.Y, meta.YAxisTickFormat)

	if meta.XAxisLabel != "" {
		l.XAxisLabelPosition = &Point{X: l.GraphWidth / 2, Y: l.GraphHeight + axisLabelDrop}
	}
	return l, nil
}

// ContentHeight is the pixel height an embedding frame needs for this layout.
func (l Layout) ContentHeight() float64 { return l.Height }

// stack lays sub-groups end to end along x, series by series in sub-group order.
func stack(data *dataset.ParsedDataset, x LinearScale, y BandScale, colors OrdinalScale) ([]Segment, error) {
	segments := make([]Segment, 0, len(data.Rows)*len(data.SubGroups))
	baselines := make([]float64, len(data.Rows))
	for _, key := range data.SubGroups {
		color := colors.Color(key)
		for j, row := range data.Rows {
			v, err := internaldataset.CellNumber(j, key, row.Values[key])
			if err != nil {
				return nil, err
			}
			y0 := baselines[j]
			y1 := y0 + v
			baselines[j] = y1
			pos, _ := y.Position(row.YVal.Label)
			segments = append(segments, Segment{
				SubGroup: key,
				Row:      j,
				YVal:     row.YVal.Label,
				X:        x.Scale(y0),
				Y:        pos,
				Width:    x.Scale(y1) - x.Scale(y0),
				Height:   y.Bandwidth,
				Y0:       y0,
				Y1:       y1,
				Color:    color,
			})
		}
	}
	return segments, nil
}

func xTicks(x LinearScale, graphWidth float64, format transform.FormatKind) []Tick {
	values := x.Ticks(math.Max(graphWidth/tickSpacing, minTicks))
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Position: x.Scale(v), Label: format.FormatFloat(v)}
	}
	return ticks
}

func yTicks(data *dataset.ParsedDataset, y BandScale, format transform.FormatKind) []Tick {
	ticks := make([]Tick, 0, len(y.Domain))
	seen := make(map[string]bool, len(y.Domain))
	for _, row := range data.Rows {
		if seen[row.YVal.Label] {
			continue
		}
		seen[row.YVal.Label] = true
		pos, _ := y.Position(row.YVal.Label)
		ticks = append(ticks, Tick{Position: pos + y.Bandwidth/2, Label: format.Format(row.YVal.Value())})
	}
	return ticks
}

// Tooltip returns "<subGroup>: <value>" for one segment, formatted with the dataset's
// display format and falling back to the raw value.
func Tooltip(entry dataset.Entry, row int, subGroup string) (string, error) {
	if entry.Data == nil || row < 0 || row >= len(entry.Data.Rows) {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	cell, ok := entry.Data.Rows[row].Values[subGroup]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubGroup, subGroup)
	}
	return subGroup + ": " + entry.Metadata.XValDisplayFormat.Format(cell.Value()), nil
}

// TooltipPosition is where a tooltip's top-left corner goes.
type TooltipPosition struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Flipped bool    `json:"flipped"`
}

// PlaceTooltip positions a tooltip beside the pointer, flipping it to the left of the
// pointer when it would run past the viewport's right edge.
func PlaceTooltip(mouseX, mouseY, tooltipWidth, viewportWidth float64) TooltipPosition {
	top := mouseY - tooltipOffsetY
	if mouseX+tooltipOffsetX+tooltipWidth > viewportWidth {
		return TooltipPosition{Left: mouseX - tooltipWidth - tooltipOffsetX, Top: top, Flipped: true}
	}
	return TooltipPosition{Left: mouseX + tooltipOffsetX, Top: top}
}
