package analysis

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

// GroupMean is the mean of a value column within one group.
type GroupMean struct {
	Key   string
	Size  int
	Count int // non-missing values that contributed to Mean
	Mean  float64
}

// MeanByCategory groups value by the key column and returns the group means
// sorted from highest to lowest, NaN means last. Rows with a missing key are
// dropped. Equal means keep ascending key order. top <= 0 keeps every group.
func MeanByCategory(t *dataset.Table, key, value string, top int) ([]GroupMean, error) {
	keys, missing, err := t.Strings(key)
	if err != nil {
		return nil, eris.Wrapf(err, "group by %q", key)
	}
	vals, err := t.Floats(value)
	if err != nil {
		return nil, eris.Wrapf(err, "mean of %q", value)
	}
	groups := map[string]*GroupMean{}
	sums := map[string]float64{}
	for i, k := range keys {
		if missing[i] {
			continue
		}
		g, ok := groups[k]
		if !ok {
			g = &GroupMean{Key: k}
			groups[k] = g
		}
		g.Size++
		if !math.IsNaN(vals[i]) {
			g.Count++
			sums[k] += vals[i]
		}
	}
	out := make([]GroupMean, 0, len(groups))
	for k, g := range groups {
		g.Mean = math.NaN()
		if g.Count > 0 {
			g.Mean = sums[k] / float64(g.Count)
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Mean, out[j].Mean
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out, nil
}

// YearMean is the mean of a value column within one year.
type YearMean struct {
	Year  float64
	Count int
	Mean  float64
}

// MeanByYear groups value by the numeric year column and returns the means in
// ascending year order. Rows with a missing year are dropped.
func MeanByYear(t *dataset.Table, year, value string) ([]YearMean, error) {
	years, err := t.Floats(year)
	if err != nil {
		return nil, eris.Wrapf(err, "group by %q", year)
	}
	vals, err := t.Floats(value)
	if err != nil {
		return nil, eris.Wrapf(err, "mean of %q", value)
	}
	type acc struct {
		sum float64
		n   int
	}
	byYear := map[float64]*acc{}
	for i, y := range years {
		if math.IsNaN(y) {
			continue
		}
		a, ok := byYear[y]
		if !ok {
			a = &acc{}
			byYear[y] = a
		}
		if !math.IsNaN(vals[i]) {
			a.sum += vals[i]
			a.n++
		}
	}
	out := make([]YearMean, 0, len(byYear))
	for y, a := range byYear {
		m := math.NaN()
		if a.n > 0 {
			m = a.sum / float64(a.n)
		}
		out = append(out, YearMean{Year: y, Count: a.n, Mean: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// PeakYear returns the year with the highest mean, ignoring NaN means.
func PeakYear(ym []YearMean) (YearMean, bool) {
	var best YearMean
	found := false
	for _, y := range ym {
		if math.IsNaN(y.Mean) {
			continue
		}
		if !found || y.Mean > best.Mean {
			best, found = y, true
		}
	}
	return best, found
}
