package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleSkew is the adjusted Fisher-Pearson coefficient written out in moments.
func sampleSkew(x []float64) float64 {
	n := float64(len(x))
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= n
	var m2, m3 float64
	for _, v := range x {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	return math.Sqrt(n*(n-1)) / (n - 2) * m3 / math.Pow(m2, 1.5)
}

// sampleKurt is the bias-corrected excess kurtosis written out in moments.
func sampleKurt(x []float64) float64 {
	n := float64(len(x))
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= n
	var m2, m4 float64
	for _, v := range x {
		d := v - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n
	g2 := m4/(m2*m2) - 3
	return (n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6)
}

func TestSummarize(t *testing.T) {
	vals := []float64{4, 1, math.NaN(), 3, 2, 100}
	s := Summarize("runtime", vals, 3.5)

	assert.Equal(t, "runtime", s.Column)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 22, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1902.5), s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 2.0, s.Q25)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q75)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 1.0, s.Mode)

	clean := []float64{4, 1, 3, 2, 100}
	assert.InDelta(t, sampleSkew(clean), s.Skew, 1e-9)
	assert.InDelta(t, sampleKurt(clean), s.Kurt, 1e-9)
	assert.False(t, s.OutliersChecked, "too few values for MAD outliers")
}

func TestSummarizeSmallAndConstant(t *testing.T) {
	empty := Summarize("x", []float64{math.NaN()}, 3.5)
	assert.Zero(t, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Mode))

	one := Summarize("x", []float64{7}, 3.5)
	assert.Equal(t, 7.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))
	assert.True(t, math.IsNaN(one.Skew))
	assert.True(t, math.IsNaN(one.Kurt))

	three := Summarize("x", []float64{1, 2, 9}, 3.5)
	assert.False(t, math.IsNaN(three.Skew))
	assert.True(t, math.IsNaN(three.Kurt))

	flat := Summarize("x", []float64{5, 5, 5, 5, 5}, 3.5)
	assert.Equal(t, 0.0, flat.Std)
	assert.Equal(t, 0.0, flat.Skew)
	assert.Equal(t, 0.0, flat.Kurt)
}

func TestSummarizeOutliers(t *testing.T) {
	vals := []float64{10, 11, 12, 10, 11, 12, 10, 11, 500}
	s := Summarize("gross", vals, 3.5)
	require.True(t, s.OutliersChecked)
	assert.Equal(t, 1, s.Outliers)
	assert.InDelta(t, 0.6745*489, s.OutliersMaxAbsZ, 1e-9)

	off := Summarize("gross", vals, 0)
	assert.False(t, off.OutliersChecked)
	assert.Zero(t, off.Outliers)
}

func TestMode(t *testing.T) {
	assert.Equal(t, 1.0, mode([]float64{1, 1, 2, 2, 3}))
	assert.Equal(t, 2.0, mode([]float64{1, 2, 2, 3}))
	assert.Equal(t, 3.0, mode([]float64{3}))
	assert.True(t, math.IsNaN(mode(nil)))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 1.75, quantile(sorted, 0.25))
	assert.Equal(t, 2.5, quantile(sorted, 0.5))
	assert.Equal(t, 3.25, quantile(sorted, 0.75))
	assert.Equal(t, 4.0, quantile(sorted, 1))
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestMedianMAD(t *testing.T) {
	med, mad := medianMAD([]float64{1, 1, 2, 2, 4, 6, 9})
	assert.Equal(t, 2.0, med)
	assert.Equal(t, 1.0, mad)
}
