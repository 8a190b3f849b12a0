package chart

import (
	"image/color"
	"os"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// colorBarWidth is the share of the canvas given to the colour bar.
const colorBarWidth = 0.16

// matrixGrid adapts a square matrix to plotter.GridXYZ with row 0 drawn at the
// top, as an image would be.
type matrixGrid [][]float64

func (g matrixGrid) Dims() (c, r int) { return len(g), len(g) }
func (g matrixGrid) Z(c, r int) float64 {
	return g[len(g)-1-r][c]
}
func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

func renderHeatmap(f *Figure, w, h vg.Length, path string) error {
	n := len(f.Matrix)
	if n == 0 {
		return eris.Errorf("chart: heatmap %q has no data", f.Title)
	}
	for _, row := range f.Matrix {
		if len(row) != n {
			return eris.Errorf("chart: heatmap %q is not square", f.Title)
		}
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	hm := plotter.NewHeatMap(matrixGrid(f.Matrix), cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	p := newPlot(f)
	p.Add(hm)
	if len(f.Labels) == n {
		p.NominalX(f.Labels...)
		rev := make([]string, n)
		for i, l := range f.Labels {
			rev[n-1-i] = l
		}
		p.NominalY(rev...)
		rotateXLabels(p)
	}

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = f.ColorBarLabel
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.Title.Text = " "

	img := vgimg.New(w, h)
	dc := draw.New(img)
	split := w * colorBarWidth
	p.Draw(draw.Crop(dc, 0, -split, 0, 0))
	bar.Draw(draw.Crop(dc, w-split, 0, 0, 0))

	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "chart: create %s", path)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(out); err != nil {
		out.Close()
		return eris.Wrapf(err, "chart: write %s", path)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "chart: close %s", path)
	}
	return nil
}
