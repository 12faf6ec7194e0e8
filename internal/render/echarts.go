// Package render draws a computed layout: an embeddable go-echarts page and a terminal
// preview.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"barstack/domain/core"
	"barstack/domain/dataset"
	"barstack/internal/layout"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const stackName = "total"

// PageOptions wires the page back to the server. Empty URLs leave that feature off.
type PageOptions struct {
	SessionID   core.SessionID
	ViewportURL string
	EventsURL   string
	AssetsHost  string
}

// NewBarChart builds the horizontal stacked bar chart for a layout. echarts draws the
// first category at the bottom, so rows are added in reverse to keep the first row on top.
func NewBarChart(entry dataset.Entry, l layout.Layout, chartID core.ChartID) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: entry.Metadata.Label,
			Width:     px(l.Width),
			Height:    px(l.Height),
			ChartID:   chartID.String(),
		}),
		charts.WithGridOpts(opts.Grid{
			Top:    px(l.Margins.Top),
			Right:  px(l.Margins.Right),
			Bottom: px(l.Margins.Bottom),
			Left:   px(l.Margins.Left),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: l.XAxisLabel,
			Min:  l.X.Domain[0],
			Max:  l.X.Domain[1],
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Name: l.YAxisLabel,
		}),
	)

	labels := make([]string, len(l.Y.Domain))
	for i, tick := range l.YTicks {
		labels[len(labels)-1-i] = tick.Label
	}
	bar.SetXAxis(labels)

	for _, key := range l.Colors.Domain {
		values := make([]opts.BarData, len(l.Y.Domain))
		for _, seg := range l.Segments {
			if seg.SubGroup != key {
				continue
			}
			i := bandIndex(l.Y, seg.YVal)
			if i < 0 {
				continue
			}
			values[len(values)-1-i] = opts.BarData{Name: seg.YVal, Value: seg.Y1 - seg.Y0}
		}
		bar.AddSeries(key, values,
			charts.WithBarChartOpts(opts.BarChart{Stack: stackName, BarCategoryGap: "20%"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: l.Colors.Color(key)}),
		)
	}
	bar.XYReversal()
	return bar
}

// RenderPage writes the standalone chart page for entry.
func RenderPage(w io.Writer, entry dataset.Entry, l layout.Layout, o PageOptions) error {
	chartID := core.NewChartID()
	bar := NewBarChart(entry, l, chartID)
	if o.AssetsHost != "" {
		bar.AssetsHost = o.AssetsHost
	}
	tooltips, err := tooltipTable(entry, l)
	if err != nil {
		return err
	}
	page := chartPage{
		Chart:         bar,
		ChartID:       chartID.String(),
		Width:         px(l.Width),
		Height:        px(l.Height),
		Title:         entry.Metadata.Label,
		Notes:         NotesHTML(entry.Metadata.Notes),
		ContentHeight: l.ContentHeight(),
		Tooltips:      tooltips,
		TickLabels:    tickTable(l.XTicks),
		TickStep:      tickStep(l.XTicks),
		SessionID:     o.SessionID.String(),
		ViewportURL:   o.ViewportURL,
		EventsURL:     o.EventsURL,
	}
	// Validate fills in the option defaults JSONNotEscaped reads.
	bar.Validate()
	return pageTemplate.Execute(w, page)
}

type chartPage struct {
	Chart         *charts.Bar
	ChartID       string
	Width         string
	Height        string
	Title         string
	Notes         template.HTML
	ContentHeight float64
	Tooltips      map[string][]string
	TickLabels    map[string]string
	TickStep      float64
	SessionID     string
	ViewportURL   string
	EventsURL     string
}

// tooltipTable holds the tooltip text for every (series, category) in chart order.
func tooltipTable(entry dataset.Entry, l layout.Layout) (map[string][]string, error) {
	out := make(map[string][]string, len(l.Colors.Domain))
	n := len(l.Y.Domain)
	for _, key := range l.Colors.Domain {
		out[key] = make([]string, n)
	}
	for _, seg := range l.Segments {
		i := bandIndex(l.Y, seg.YVal)
		if i < 0 {
			continue
		}
		text, err := layout.Tooltip(entry, seg.Row, seg.SubGroup)
		if err != nil {
			return nil, err
		}
		out[seg.SubGroup][n-1-i] = text
	}
	return out, nil
}

func tickTable(ticks []layout.Tick) map[string]string {
	out := make(map[string]string, len(ticks))
	for _, t := range ticks {
		out[strconv.FormatFloat(t.Value, 'f', -1, 64)] = t.Label
	}
	return out
}

func tickStep(ticks []layout.Tick) float64 {
	if len(ticks) < 2 {
		return 0
	}
	return ticks[1].Value - ticks[0].Value
}

func bandIndex(b layout.BandScale, label string) int {
	for i, v := range b.Domain {
		if v == label {
			return i
		}
	}
	return -1
}

func px(v float64) string { return fmt.Sprintf("%.0fpx", v) }

var pageTemplate = template.Must(template.New("chart").Funcs(template.FuncMap{
	"safeJS": func(s interface{}) template.JS { return template.JS(fmt.Sprint(s)) },
	"json": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		return template.JS(b), err
	},
}).Parse(chartPageHTML))

const chartPageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<script src="{{ .Chart.AssetsHost }}echarts.min.js"></script>
<style>
body { margin: 0; font-family: sans-serif; }
.chart__notes { font-size: 12px; color: #555; margin: 8px 150px 0 16px; }
</style>
</head>
<body>
<div class="chart" id="{{ .ChartID }}" style="width:{{ .Width }};height:{{ .Height }};"></div>
{{ if .Notes }}<div class="chart__notes">{{ .Notes }}</div>{{ end }}
<script type="text/javascript">
"use strict";
(function () {
  var el = document.getElementById("{{ .ChartID | safeJS }}");
  var chart = echarts.init(el);
  var option = {{ .Chart.JSONNotEscaped | safeJS }};
  var tooltips = {{ json .Tooltips }};
  var ticks = {{ json .TickLabels }};
  option.tooltip = option.tooltip || {};
  option.tooltip.formatter = function (p) {
    var rows = tooltips[p.seriesName] || [];
    return rows[p.dataIndex] || (p.seriesName + ": " + p.value);
  };
  if (option.xAxis && option.xAxis[0]) {
    {{ if .TickStep }}option.xAxis[0].interval = {{ .TickStep }};{{ end }}
    option.xAxis[0].axisLabel = option.xAxis[0].axisLabel || {};
    option.xAxis[0].axisLabel.formatter = function (v) {
      var label = ticks[String(v)];
      return label === undefined ? v : label;
    };
  }
  chart.setOption(option);

  var session = {{ .SessionID }};
  function postHeight(h) {
    if (window.parent && window.parent !== window) {
      window.parent.postMessage("pymxPYMx" + session + "xPYMxheightxPYMx" + Math.ceil(h), "*");
    }
  }
  postHeight(document.body.scrollHeight || {{ .ContentHeight }});

  {{ if .EventsURL }}
  if (window.EventSource && session) {
    var events = new EventSource({{ .EventsURL }} + "?session_id=" + encodeURIComponent(session));
    events.addEventListener("height", function (e) {
      var msg = JSON.parse(e.data);
      postHeight(msg.height);
    });
  }
  {{ end }}
  {{ if .ViewportURL }}
  window.addEventListener("resize", function () {
    fetch({{ .ViewportURL }}, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ session_id: session, width: document.body.clientWidth })
    });
    chart.resize({ width: document.body.clientWidth });
  });
  {{ end }}
})();
</script>
</body>
</html>
`
