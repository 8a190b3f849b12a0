package analysis

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

// Pearson returns the correlation of x and y over the rows where both are
// present. The result is NaN with fewer than two such rows or when either side
// has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	// Rounding can push |r| a hair past 1.
	return math.Max(-1, math.Min(1, r))
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// TargetCorr is the correlation of one column with the target.
type TargetCorr struct {
	Column string
	R      float64
}

// TargetCorrelations correlates every numeric column other than target with
// target, in table order.
func TargetCorrelations(t *dataset.Table, target string) ([]TargetCorr, error) {
	y, err := t.Floats(target)
	if err != nil {
		return nil, eris.Wrapf(err, "target %q", target)
	}
	var out []TargetCorr
	for _, c := range t.NumericColumns() {
		if c == target {
			continue
		}
		x, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		out = append(out, TargetCorr{Column: c, R: Pearson(x, y)})
	}
	return out, nil
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  *mat.SymDense
}

// At returns the coefficient for columns i and j.
func (m *CorrMatrix) At(i, j int) float64 { return m.Values.At(i, j) }

// Rows returns the matrix as row-major slices.
func (m *CorrMatrix) Rows() [][]float64 {
	n := len(m.Columns)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.Values.At(i, j)
		}
	}
	return out
}

// Correlations builds the pairwise-complete correlation matrix of the numeric
// columns of t. It returns nil when t has no numeric columns.
func Correlations(t *dataset.Table) (*CorrMatrix, error) {
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return nil, nil
	}
	data := make([][]float64, len(cols))
	for i, c := range cols {
		v, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		data[i] = v
	}
	n := len(cols)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := Pearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			sym.SetSym(i, j, r)
		}
	}
	return &CorrMatrix{Columns: cols, Values: sym}, nil
}
