package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ColumnInfo is one line of a dtypes listing.
type ColumnInfo struct {
	Name    string
	Unit    string
	NonNull int
	Dtype   Dtype
}

// ColumnCount pairs a column with a count, such as its number of missing cells.
type ColumnCount struct {
	Name  string
	Count int
}

// Head returns the first n rows as display strings. Float cells are rendered
// with the given precision; missing cells read "NaN".
func (t *Table) Head(n, precision int) [][]string {
	rows, _ := t.Shape()
	if n > rows {
		n = rows
	}
	if n <= 0 {
		return nil
	}
	out := make([][]string, n)
	for i := range out {
		out[i] = make([]string, t.df.Ncol())
	}
	for j, name := range t.df.Names() {
		s := t.df.Col(name)
		missing := s.IsNaN()
		var fs []float64
		if s.Type() == series.Float {
			fs = s.Float()
		}
		recs := s.Records()
		for i := 0; i < n; i++ {
			switch {
			case missing[i]:
				out[i][j] = nanToken
			case fs != nil:
				out[i][j] = FormatFloat(fs[i], precision)
			default:
				out[i][j] = recs[i]
			}
		}
	}
	return out
}

// Info lists every column with its non-null count and dtype.
func (t *Table) Info() []ColumnInfo {
	cols := t.Columns()
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		nonNull := 0
		for _, m := range t.df.Col(c.Name).IsNaN() {
			if !m {
				nonNull++
			}
		}
		out[i] = ColumnInfo{Name: c.Name, Unit: c.Unit, NonNull: nonNull, Dtype: c.Dtype}
	}
	return out
}

// MissingCounts returns the number of missing cells per column in table order.
func (t *Table) MissingCounts() []ColumnCount {
	info := t.Info()
	rows, _ := t.Shape()
	out := make([]ColumnCount, len(info))
	for i, c := range info {
		out[i] = ColumnCount{Name: c.Name, Count: rows - c.NonNull}
	}
	return out
}

// DuplicateCount returns the number of rows that repeat an earlier row.
// Missing cells compare equal to each other.
func (t *Table) DuplicateCount() (int, error) {
	dups, err := t.duplicateRows()
	if err != nil {
		return 0, err
	}
	return len(dups), nil
}

// DropDuplicates removes rows that repeat an earlier row, keeping the first
// occurrence, and returns how many were removed.
func (t *Table) DropDuplicates() (int, error) {
	dups, err := t.duplicateRows()
	if err != nil {
		return 0, err
	}
	if len(dups) == 0 {
		return 0, nil
	}
	rows, _ := t.Shape()
	skip := make(map[int]struct{}, len(dups))
	for _, i := range dups {
		skip[i] = struct{}{}
	}
	keep := make([]int, 0, rows-len(dups))
	for i := 0; i < rows; i++ {
		if _, ok := skip[i]; !ok {
			keep = append(keep, i)
		}
	}
	df := t.df.Subset(keep)
	if df.Err != nil {
		return 0, eris.Wrap(df.Err, "dataset: drop duplicates")
	}
	t.df = df
	zap.L().Debug("dropped duplicate rows", zap.String("dataset", t.name), zap.Int("count", len(dups)))
	return len(dups), nil
}

func (t *Table) duplicateRows() ([]int, error) {
	rows, _ := t.Shape()
	names := t.df.Names()
	cols := make([][]string, len(names))
	for j, n := range names {
		vals, missing, err := t.Strings(n)
		if err != nil {
			return nil, err
		}
		for i, m := range missing {
			if m {
				vals[i] = nanToken
			}
		}
		cols[j] = vals
	}
	seen := make(map[string]struct{}, rows)
	var dups []int
	var b strings.Builder
	for i := 0; i < rows; i++ {
		b.Reset()
		for j := range cols {
			b.WriteString(strconv.Quote(cols[j][i]))
			b.WriteByte(0)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups = append(dups, i)
			continue
		}
		seen[key] = struct{}{}
	}
	return dups, nil
}

// CastInt converts the named column to int64. Fractional values are truncated
// toward zero. A missing or non-numeric cell fails the cast with ErrNotIntegral
// and leaves the table unchanged.
func (t *Table) CastInt(name string) error {
	s, err := t.col(name)
	if err != nil {
		return err
	}
	vals, missing, err := t.Strings(name)
	if err != nil {
		return err
	}
	var fs []float64
	if s.Type() != series.String {
		fs = s.Float()
	}
	ints := make([]int, len(vals))
	for i := range vals {
		if missing[i] {
			return eris.Wrapf(ErrNotIntegral, "dataset: %q row %d is missing", name, i)
		}
		var f float64
		if fs != nil {
			f = fs[i]
		} else {
			f, err = strconv.ParseFloat(strings.TrimSpace(vals[i]), 64)
			if err != nil {
				return eris.Wrapf(ErrNotIntegral, "dataset: %q row %d has value %q", name, i, vals[i])
			}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return eris.Wrapf(ErrNotIntegral, "dataset: %q row %d has value %q", name, i, vals[i])
		}
		ints[i] = int(math.Trunc(f))
	}
	df := t.df.Mutate(series.New(ints, series.Int, name))
	if df.Err != nil {
		return eris.Wrapf(df.Err, "dataset: cast %q", name)
	}
	t.df = df
	return nil
}
