package layout

import "math"

// LinearScale maps a numeric domain onto a pixel range.
type LinearScale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// NewLinearScale builds a scale from domain onto rng.
func NewLinearScale(domain, rng [2]float64) LinearScale {
	return LinearScale{Domain: domain, Range: rng}
}

// Scale maps v into the range. A collapsed domain maps everything to the range midpoint.
func (s LinearScale) Scale(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	t := 0.5
	if span := d1 - d0; span != 0 {
		t = (v - d0) / span
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Ticks returns roughly count round values inside the domain.
func (s LinearScale) Ticks(count float64) []float64 {
	return Ticks(s.Domain[0], s.Domain[1], count)
}

// BandScale splits a range into evenly spaced bands, one per domain value.
type BandScale struct {
	Domain       []string   `json:"domain"`
	Range        [2]float64 `json:"range"`
	PaddingInner float64    `json:"paddingInner"`
	PaddingOuter float64    `json:"paddingOuter"`
	Align        float64    `json:"align"`
	Step         float64    `json:"step"`
	Bandwidth    float64    `json:"bandwidth"`
	Start        float64    `json:"start"`

	index map[string]int
}

// NewBandScale builds a band scale. Repeated domain values keep their first position.
func NewBandScale(domain []string, rng [2]float64, paddingInner, paddingOuter, align float64) BandScale {
	b := BandScale{
		Range:        rng,
		PaddingInner: paddingInner,
		PaddingOuter: paddingOuter,
		Align:        align,
		index:        make(map[string]int, len(domain)),
	}
	for _, v := range domain {
		if _, seen := b.index[v]; seen {
			continue
		}
		b.index[v] = len(b.Domain)
		b.Domain = append(b.Domain, v)
	}

	n := float64(len(b.Domain))
	start, stop := rng[0], rng[1]
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	b.Step = (stop - start) / math.Max(1, n-paddingInner+paddingOuter*2)
	start += (stop - start - b.Step*(n-paddingInner)) * align
	b.Bandwidth = b.Step * (1 - paddingInner)
	b.Start = start
	if reverse {
		// positions run from the far end
		b.Start = start + b.Step*(n-1)
		b.Step = -b.Step
	}
	return b
}

// Position returns the band's leading edge for v.
func (b BandScale) Position(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.Start + b.Step*float64(i), true
}

// OrdinalScale assigns palette colors to keys by position, cycling when keys outnumber colors.
type OrdinalScale struct {
	Domain []string `json:"domain"`
	Range  []string `json:"range"`
}

// NewOrdinalScale pairs keys with palette.
func NewOrdinalScale(keys, palette []string) OrdinalScale {
	return OrdinalScale{Domain: append([]string(nil), keys...), Range: append([]string(nil), palette...)}
}

// Color returns the color for key. Unknown keys get "".
func (o OrdinalScale) Color(key string) string {
	if len(o.Range) == 0 {
		return ""
	}
	for i, k := range o.Domain {
		if k == key {
			return o.Range[i%len(o.Range)]
		}
	}
	return ""
}

// Colors lists the color of every key in domain order.
func (o OrdinalScale) Colors() []string {
	out := make([]string, len(o.Domain))
	for i, k := range o.Domain {
		out[i] = o.Color(k)
	}
	return out
}
