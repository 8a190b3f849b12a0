package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
)

// Dtype names a column's storage type using the names analysts expect to see
// in a dtypes listing.
type Dtype string

const (
	Int64   Dtype = "int64"
	Float64 Dtype = "float64"
	Bool    Dtype = "bool"
	Object  Dtype = "object"
)

// Numeric reports whether the dtype takes part in numeric statistics.
func (d Dtype) Numeric() bool { return d == Int64 || d == Float64 }

var (
	// ErrColumnNotFound is returned when a named column is absent from the table.
	ErrColumnNotFound = eris.New("column not found")
	// ErrNotNumeric is returned when numeric values are requested from a non-numeric column.
	ErrNotNumeric = eris.New("column is not numeric")
	// ErrNotIntegral is returned when a column cannot be cast to a whole-number type.
	ErrNotIntegral = eris.New("column cannot be cast to int64")
	// ErrNoRows is returned when a table would have no data rows.
	ErrNoRows = eris.New("table has no data rows")
)

// nanToken is the cell value gota reads as a missing element.
const nanToken = "NaN"

// Options controls how raw records become a typed table.
type Options struct {
	// NAValues are cell values (after trimming) treated as missing.
	NAValues []string
	// NormalizeNumbers rewrites columns of locale-formatted numbers such as
	// "1.234,5", "12%" or "$1,200" into plain decimals before type detection.
	NormalizeNumbers bool
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
}

// DefaultOptions returns the loading defaults.
func DefaultOptions() Options {
	return Options{
		NAValues:         []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"},
		NormalizeNumbers: true,
	}
}

// Column describes one column of a Table.
type Column struct {
	Name  string
	Unit  string
	Dtype Dtype
}

// Table is an in-memory dataset with typed columns. Missing cells are NaN.
type Table struct {
	name  string
	df    dataframe.DataFrame
	units map[string]string
}

// New builds a Table from a header and string rows. Column types are inferred
// from the values; rows shorter than the header are padded with missing cells.
func New(name string, header []string, rows [][]string, opt Options) (*Table, error) {
	if len(header) == 0 {
		return nil, eris.New("dataset: empty header")
	}
	if len(rows) == 0 {
		return nil, eris.Wrapf(ErrNoRows, "dataset: %s", name)
	}
	na := make(map[string]struct{}, len(opt.NAValues))
	for _, v := range opt.NAValues {
		na[strings.TrimSpace(v)] = struct{}{}
	}

	ncol := len(header)
	names, units := cleanHeader(header)

	// Column-major copy so each column can be normalized independently.
	cols := make([][]string, ncol)
	for j := range cols {
		cols[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			if _, missing := na[v]; missing {
				v = nanToken
			}
			cols[j][i] = v
		}
	}
	if opt.NormalizeNumbers {
		for j := range cols {
			out, unit, ok := normalizeColumn(cols[j], opt)
			if !ok {
				continue
			}
			cols[j] = out
			if units[names[j]] == "" && unit != "" {
				units[names[j]] = unit
			}
		}
	}

	// Bool columns are detected here rather than by gota, which turns any
	// column holding a "true"/"false" cell into bool and drops other values.
	types := make(map[string]series.Type)
	for j := range cols {
		switch lowered, kind := boolKind(cols[j]); kind {
		case allBool:
			cols[j] = lowered
			types[names[j]] = series.Bool
		case mixedBool:
			types[names[j]] = series.String
		}
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, names)
	for i := range rows {
		rec := make([]string, ncol)
		for j := range cols {
			rec[j] = cols[j][i]
		}
		records = append(records, rec)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, eris.Wrapf(df.Err, "dataset: load %s", name)
	}
	return &Table{name: name, df: df, units: units}, nil
}

type boolClass int

const (
	noBool boolClass = iota
	allBool
	mixedBool
)

// boolKind classifies a column by its true/false cells, ignoring case. An
// allBool column is returned with those cells lowercased.
func boolKind(vals []string) ([]string, boolClass) {
	bools, others := 0, 0
	for _, v := range vals {
		switch {
		case v == nanToken:
		case strings.EqualFold(v, "true"), strings.EqualFold(v, "false"):
			bools++
		default:
			others++
		}
	}
	switch {
	case bools == 0:
		return vals, noBool
	case others > 0:
		return vals, mixedBool
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if v == nanToken {
			out[i] = v
			continue
		}
		out[i] = strings.ToLower(v)
	}
	return out, allBool
}

// Name returns the dataset name, usually the source file's base name.
func (t *Table) Name() string { return t.name }

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) { return t.df.Nrow(), t.df.Ncol() }

// Columns lists the columns in table order.
func (t *Table) Columns() []Column {
	names := t.df.Names()
	types := t.df.Types()
	out := make([]Column, len(names))
	for i, n := range names {
		out[i] = Column{Name: n, Unit: t.units[n], Dtype: dtypeOf(types[i])}
	}
	return out
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Dtype returns the dtype of the named column.
func (t *Table) Dtype(name string) (Dtype, error) {
	s, err := t.col(name)
	if err != nil {
		return "", err
	}
	return dtypeOf(s.Type()), nil
}

// NumericColumns lists int64 and float64 columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns() {
		if c.Dtype.Numeric() {
			out = append(out, c.Name)
		}
	}
	return out
}

// CategoricalColumns lists object columns in table order.
func (t *Table) CategoricalColumns() []string {
	var out []string
	for _, c := range t.Columns() {
		if c.Dtype == Object {
			out = append(out, c.Name)
		}
	}
	return out
}

// Floats returns the values of a numeric or bool column; missing cells are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	s, err := t.col(name)
	if err != nil {
		return nil, err
	}
	if s.Type() == series.String {
		return nil, eris.Wrapf(ErrNotNumeric, "dataset: %q", name)
	}
	return s.Float(), nil
}

// Strings returns the raw cell values of a column with a parallel missing mask.
func (t *Table) Strings(name string) ([]string, []bool, error) {
	s, err := t.col(name)
	if err != nil {
		return nil, nil, err
	}
	vals := s.Records()
	missing := s.IsNaN()
	if s.Type() == series.Float {
		fs := s.Float()
		for i, f := range fs {
			if !missing[i] {
				vals[i] = strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
	}
	return vals, missing, nil
}

func (t *Table) col(name string) (series.Series, error) {
	if !t.Has(name) {
		return series.Series{}, eris.Wrapf(ErrColumnNotFound, "dataset: %q", name)
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return series.Series{}, eris.Wrapf(s.Err, "dataset: column %q", name)
	}
	return s, nil
}

func dtypeOf(t series.Type) Dtype {
	switch t {
	case series.Int:
		return Int64
	case series.Float:
		return Float64
	case series.Bool:
		return Bool
	default:
		return Object
	}
}

// FormatFloat renders a float the way report tables show it: fixed precision,
// "NaN" for missing values.
func FormatFloat(v float64, precision int) string {
	if math.IsNaN(v) {
		return nanToken
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return "inf"
		}
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// cleanHeader strips units from header names and makes names unique and non-empty.
func cleanHeader(header []string) ([]string, map[string]string) {
	names := make([]string, len(header))
	units := make(map[string]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		clean, unit := splitUnits(h)
		if clean == "" {
			clean = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := seen[clean]; n > 0 {
			seen[clean] = n + 1
			clean = fmt.Sprintf("%s.%d", clean, n)
		} else {
			seen[clean] = 1
		}
		names[i] = clean
		if unit != "" {
			units[clean] = unit
		}
	}
	return names, units
}
