// Package chart renders report figures to PNG files with gonum/plot.
package chart

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind selects how a Figure is drawn.
type Kind string

const (
	Histogram Kind = "hist"
	Box       Kind = "box"
	Bar       Kind = "bar"
	Scatter   Kind = "scatter"
	Heatmap   Kind = "heatmap"
	Line      Kind = "line"
)

// Figure describes one chart independently of how it is drawn. Which data
// fields are read depends on Kind:
//
//	Histogram: Values, Bins
//	Box:       Values
//	Bar:       Labels, Values
//	Scatter:   X, Y, Alpha
//	Line:      X, Y
//	Heatmap:   Labels, Matrix, ColorBarLabel
//
// NaN entries are skipped when drawing.
type Figure struct {
	Section string
	Column  string
	Kind    Kind
	Title   string
	XLabel  string
	YLabel  string
	// Size in inches.
	Width  float64
	Height float64

	Values        []float64
	Bins          int
	Labels        []string
	X, Y          []float64
	Alpha         float64
	Matrix        [][]float64
	ColorBarLabel string

	// File is the base name assigned by RenderAll.
	File string
}

// FileName returns the PNG name for the figure at position index of a report,
// e.g. "07-target-runtime.png".
func (f *Figure) FileName(index int) string {
	name := fmt.Sprintf("%02d-%s", index+1, slug(f.Section))
	if f.Column != "" {
		name += "-" + slug(f.Column)
	}
	if f.Kind == Box {
		name += "-box"
	}
	return name + ".png"
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "figure"
	}
	return out
}
