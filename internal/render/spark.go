// Package render draws dashboard views: an SVG sparkline for the live
// page and plain-text frames for the terminal.
package render

import (
	"fmt"
	"math"
	"strings"
)

// Point is a polyline vertex in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Spark is the geometry of a sparkline.
type Spark struct {
	Width     float64
	Height    float64
	Gridlines []float64 // y positions of the horizontal guides
	Points    []Point   // empty when there are no values
}

// Layout places values on a w×h canvas. Points are spaced for capacity
// samples, so a partially filled history hugs the left edge.
func Layout(values []float64, capacity int, w, h float64) Spark {
	s := Spark{Width: w, Height: h, Gridlines: make([]float64, 0, 5)}
	for i := 1; i < 6; i++ {
		s.Gridlines = append(s.Gridlines, h/6*float64(i))
	}
	if len(values) == 0 {
		return s
	}

	hi, lo := bounds(values)
	rng := math.Max(hi-lo, 1)
	slots := float64(capacity - 1)
	if slots < 1 {
		slots = 1
	}

	s.Points = make([]Point, len(values))
	for i, v := range values {
		s.Points[i] = Point{
			X: float64(i)/slots*(w-2) + 1,
			Y: h - 1 - ((v-lo)/rng)*(h-2),
		}
	}
	return s
}

// bounds returns max(values ∪ {1}) and min(values ∪ {0}).
func bounds(values []float64) (hi, lo float64) {
	hi, lo = 1, 0
	for _, v := range values {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return hi, lo
}

// SVG renders the sparkline as a standalone SVG document.
func (s Spark) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	b.WriteString(`<g stroke="#1f2a3a" stroke-opacity="0.25">`)
	for _, y := range s.Gridlines {
		fmt.Fprintf(&b, `<line x1="0" y1="%s" x2="%s" y2="%s"/>`, num(y), num(s.Width), num(y))
	}
	b.WriteString(`</g>`)
	if len(s.Points) > 0 {
		pts := make([]string, len(s.Points))
		for i, p := range s.Points {
			pts[i] = num(p.X) + "," + num(p.Y)
		}
		fmt.Fprintf(&b, `<polyline fill="none" stroke="#7dd3fc" stroke-width="2" points="%s"/>`, strings.Join(pts, " "))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

var blocks = []rune("▁▂▃▄▅▆▇█")

// Glyphs renders values as a line of block characters with the same
// normalization as Layout.
func Glyphs(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	hi, lo := bounds(values)
	rng := math.Max(hi-lo, 1)
	out := make([]rune, len(values))
	for i, v := range values {
		idx := int(math.Round((v - lo) / rng * float64(len(blocks)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		out[i] = blocks[idx]
	}
	return string(out)
}
