package render

import (
	"math"
	"strings"

	"barstack/domain/dataset"
	"barstack/internal/layout"

	"github.com/charmbracelet/lipgloss"
)

const barGlyph = "█"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Align(lipgloss.Right)
	totalStyle = lipgloss.NewStyle().Faint(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	notesStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Terminal draws the layout as text bars; the largest total spans cols characters.
func Terminal(entry dataset.Entry, l layout.Layout, cols int) string {
	if cols < 1 {
		cols = 1
	}
	rows := make([][]layout.Segment, len(l.Totals))
	for _, seg := range l.Segments {
		rows[seg.Row] = append(rows[seg.Row], seg)
	}
	labels := make([]string, len(l.Totals))
	labelWidth := 0
	for i := range labels {
		if entry.Data != nil && i < len(entry.Data.Rows) {
			labels[i] = entry.Metadata.YAxisTickFormat.Format(entry.Data.Rows[i].YVal.Value())
		}
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
	}

	unit := 0.0
	if l.X.Domain[1] > 0 {
		unit = float64(cols) / l.X.Domain[1]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(entry.Metadata.Label))
	b.WriteString("\n")
	b.WriteString(legend(l))
	b.WriteString("\n\n")

	for i, segs := range rows {
		var bar strings.Builder
		for _, seg := range segs {
			start := int(math.Round(seg.Y0 * unit))
			end := int(math.Round(seg.Y1 * unit))
			if end <= start {
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Color))
			bar.WriteString(style.Render(strings.Repeat(barGlyph, end-start)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Width(labelWidth).Render(labels[i]),
			" ",
			bar.String(),
			" ",
			totalStyle.Render(entry.Metadata.XValDisplayFormat.FormatFloat(l.Totals[i])),
		))
		b.WriteString("\n")
	}

	b.WriteString(axis(l, labelWidth, cols))
	if entry.Metadata.Notes != "" {
		b.WriteString("\n")
		b.WriteString(notesStyle.Render(entry.Metadata.Notes))
		b.WriteString("\n")
	}
	return b.String()
}

func legend(l layout.Layout) string {
	parts := make([]string, 0, len(l.Colors.Domain))
	for _, key := range l.Colors.Domain {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Colors.Color(key))).Render(barGlyph)
		parts = append(parts, swatch+" "+key)
	}
	return strings.Join(parts, "  ")
}

// axis prints the first and last tick under the bars, and the axis label below them.
func axis(l layout.Layout, labelWidth, cols int) string {
	if len(l.XTicks) == 0 {
		return ""
	}
	indent := strings.Repeat(" ", labelWidth+1)
	first, last := l.XTicks[0], l.XTicks[len(l.XTicks)-1]
	gap := max(1, cols-lipgloss.Width(first.Label)-lipgloss.Width(last.Label))
	line := indent + first.Label + strings.Repeat(" ", gap) + last.Label
	if l.XAxisLabel != "" {
		line += "\n" + indent + lipgloss.PlaceHorizontal(cols, lipgloss.Center, l.XAxisLabel)
	}
	return axisStyle.Render(line) + "\n"
}
