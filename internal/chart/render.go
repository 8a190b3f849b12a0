package chart

import (
	"context"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultBins is the histogram bin count when a figure does not set one.
const DefaultBins = 30

var (
	barColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	lineColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	edgeColor  = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	fallbackWH = [2]float64{8, 4}
)

// RenderAll assigns each figure its file name and draws the figures into dir
// using at most workers goroutines. The first error cancels the remaining work.
func RenderAll(ctx context.Context, figs []*Figure, dir string, workers int) error {
	if len(figs) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "chart: create output dir")
	}
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range figs {
		f.File = f.FileName(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Render(f, filepath.Join(dir, f.File)); err != nil {
				return err
			}
			zap.L().Debug("figure written", zap.String("file", f.File), zap.String("kind", string(f.Kind)))
			return nil
		})
	}
	return g.Wait()
}

// Render draws f and saves it as a PNG at path.
func Render(f *Figure, path string) error {
	w, h := size(f)
	if f.Kind == Heatmap {
		return renderHeatmap(f, w, h, path)
	}
	p, err := build(f)
	if err != nil {
		return eris.Wrapf(err, "chart: %s %q", f.Kind, f.Title)
	}
	if err := p.Save(w, h, path); err != nil {
		return eris.Wrapf(err, "chart: save %s", path)
	}
	return nil
}

func size(f *Figure) (vg.Length, vg.Length) {
	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 {
		w, h = fallbackWH[0], fallbackWH[1]
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

func newPlot(f *Figure) *plot.Plot {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	return p
}

func build(f *Figure) (*plot.Plot, error) {
	p := newPlot(f)
	switch f.Kind {
	case Histogram:
		vals := finite(f.Values)
		if len(vals) == 0 {
			return p, nil
		}
		bins := f.Bins
		if bins <= 0 {
			bins = DefaultBins
		}
		hist, err := plotter.NewHist(plotter.Values(vals), bins)
		if err != nil {
			return nil, err
		}
		hist.FillColor = barColor
		hist.LineStyle.Color = edgeColor
		hist.LineStyle.Width = vg.Points(0.5)
		p.Add(hist)

	case Box:
		vals := finite(f.Values)
		p.HideY()
		if len(vals) == 0 {
			return p, nil
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
		if err != nil {
			return nil, err
		}
		box.Horizontal = true
		p.Add(box)

	case Bar:
		vals := make(plotter.Values, len(f.Values))
		for i, v := range f.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				vals[i] = v
			}
		}
		if len(vals) == 0 {
			return p, nil
		}
		bars, err := plotter.NewBarChart(vals, barWidth(len(vals), f.Width))
		if err != nil {
			return nil, err
		}
		bars.Color = barColor
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(f.Labels...)
		rotateXLabels(p)

	case Scatter:
		pts := points(f.X, f.Y)
		if len(pts) == 0 {
			return p, nil
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Color = withAlpha(barColor, f.Alpha)
		p.Add(sc)

	case Line:
		pts := points(f.X, f.Y)
		if len(pts) == 0 {
			return p, nil
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = lineColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Add(plotter.NewGrid())

	default:
		return nil, eris.Errorf("unknown figure kind %q", f.Kind)
	}
	return p, nil
}

func barWidth(n int, widthIn float64) vg.Length {
	if widthIn <= 0 {
		widthIn = fallbackWH[0]
	}
	w := vg.Length(widthIn) * vg.Inch * 0.7 / vg.Length(n)
	if w > vg.Points(40) {
		w = vg.Points(40)
	}
	return w
}

func rotateXLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func points(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	return pts
}
