package chart

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, pngMagic), "%s is not a PNG", path)
}

func sampleFigures() []*Figure {
	nan := math.NaN()
	return []*Figure{
		{Section: "distributions", Column: "gross", Kind: Histogram, Title: "gross distribution",
			Width: 8, Height: 4, Values: []float64{1, 2, 2, 3, nan, 8}, Bins: 30},
		{Section: "distributions", Column: "gross", Kind: Box, Title: "gross boxplot",
			Width: 6, Height: 3, Values: []float64{1, 2, 2, 3, 8}},
		{Section: "categories", Column: "genre", Kind: Bar, Title: "genre top 15",
			Width: 10, Height: 4, Labels: []string{"Drama", "Comedy"}, Values: []float64{3, 2}},
		{Section: "target", Column: "runtime", Kind: Scatter, Title: "runtime vs gross",
			Width: 8, Height: 4, X: []float64{90, 120, nan}, Y: []float64{1, 3, 2}, Alpha: 0.3},
		{Section: "target", Column: "genre", Kind: Bar, Title: "mean gross by genre",
			Width: 10, Height: 4, Labels: []string{"Action", "Drama"}, Values: []float64{900, nan}},
		{Section: "correlation", Column: "matrix", Kind: Heatmap, Title: "correlation matrix",
			Width: 8, Height: 6, Labels: []string{"a", "b"}, ColorBarLabel: "correlation",
			Matrix: [][]float64{{1, -0.5}, {-0.5, nan}}},
		{Section: "trends", Column: "gross", Kind: Line, Title: "mean gross per year",
			Width: 10, Height: 5, X: []float64{2001, 2002, 2003}, Y: []float64{150, nan, 700}},
	}
}

func TestRenderAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	figs := sampleFigures()
	require.NoError(t, RenderAll(context.Background(), figs, dir, 3))

	want := []string{
		"01-distributions-gross.png",
		"02-distributions-gross-box.png",
		"03-categories-genre.png",
		"04-target-runtime.png",
		"05-target-genre.png",
		"06-correlation-matrix.png",
		"07-trends-gross.png",
	}
	for i, f := range figs {
		assert.Equal(t, want[i], f.File)
		assertPNG(t, filepath.Join(dir, f.File))
	}
}

func TestRenderAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RenderAll(ctx, sampleFigures(), t.TempDir(), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderEmptyData(t *testing.T) {
	dir := t.TempDir()
	for _, k := range []Kind{Histogram, Box, Scatter, Line} {
		path := filepath.Join(dir, string(k)+".png")
		require.NoError(t, Render(&Figure{Kind: k, Title: "empty"}, path))
		assertPNG(t, path)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	err := Render(&Figure{Kind: "pie"}, filepath.Join(dir, "x.png"))
	require.Error(t, err)

	err = Render(&Figure{Kind: Heatmap, Matrix: [][]float64{{1, 2}}}, filepath.Join(dir, "h.png"))
	require.Error(t, err)
}

func TestFileName(t *testing.T) {
	f := &Figure{Section: "target", Column: "Budget (USD)"}
	assert.Equal(t, "12-target-budget-usd.png", f.FileName(11))
	assert.Equal(t, "01-trends.png", (&Figure{Section: "trends"}).FileName(0))
	assert.Equal(t, "figure", slug("???"))
}
