package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movies(t *testing.T) *Table {
	t.Helper()
	header := []string{"title", "genre", "year_released", "budget (USD)", "gross", "movie_rating"}
	rows := [][]string{
		{"Alien", "Horror", "1979.0", "11000000", "104931801", "8.5"},
		{"Heat", "Crime", "1995.0", "60000000", "187436818", "8.3"},
		{"Jaws", "Thriller", "1975.0", "9000000", "NA", "8.1"},
		{"Heat", "Crime", "1995.0", "60000000", "187436818", "8.3"},
		{"Big", "", "1988.0", "18000000", "151668774", ""},
	}
	tbl, err := New("movies.csv", header, rows, DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func TestNewInfersTypesAndUnits(t *testing.T) {
	tbl := movies(t)

	r, c := tbl.Shape()
	assert.Equal(t, 5, r)
	assert.Equal(t, 6, c)

	cols := tbl.Columns()
	require.Len(t, cols, 6)
	assert.Equal(t, "budget", cols[3].Name)
	assert.Equal(t, "USD", cols[3].Unit)
	assert.Equal(t, Object, cols[0].Dtype)
	assert.Equal(t, Float64, cols[2].Dtype)
	assert.Equal(t, Int64, cols[3].Dtype)
	assert.Equal(t, Float64, cols[5].Dtype)

	assert.Equal(t, []string{"year_released", "budget", "gross", "movie_rating"}, tbl.NumericColumns())
	assert.Equal(t, []string{"title", "genre"}, tbl.CategoricalColumns())
	assert.True(t, tbl.Has("gross"))
	assert.False(t, tbl.Has("budget (USD)"))
}

func TestNewKeepsMixedBoolColumnsAsText(t *testing.T) {
	tbl, err := New("x", []string{"flag", "color"}, [][]string{
		{"true", "True"},
		{"5", "False"},
		{"false", "True"},
		{"1", ""},
	}, DefaultOptions())
	require.NoError(t, err)

	dt, err := tbl.Dtype("flag")
	require.NoError(t, err)
	assert.Equal(t, Object, dt)
	vals, missing, err := tbl.Strings("flag")
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "5", "false", "1"}, vals)
	assert.Equal(t, []bool{false, false, false, false}, missing)

	// Capitalized booleans are bool, so neither numeric nor categorical.
	dt, err = tbl.Dtype("color")
	require.NoError(t, err)
	assert.Equal(t, Bool, dt)
	assert.Equal(t, []string{"flag"}, tbl.CategoricalColumns())
	assert.Empty(t, tbl.NumericColumns())

	counts := tbl.MissingCounts()
	assert.Equal(t, []ColumnCount{{Name: "flag", Count: 0}, {Name: "color", Count: 1}}, counts)
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New("x", []string{"a"}, nil, DefaultOptions())
	require.ErrorIs(t, err, ErrNoRows)

	_, err = New("x", nil, [][]string{{"1"}}, DefaultOptions())
	require.Error(t, err)
}

func TestNewNormalizesLocaleNumbers(t *testing.T) {
	header := []string{"title", "gross", "share", "runtime"}
	rows := [][]string{
		{"A", "$1,200", "12%", "1.234,5"},
		{"B", "$950", "7,5%", "98,25"},
		{"C", "NA", "3%", "100"},
	}
	tbl, err := New("x", header, rows, DefaultOptions())
	require.NoError(t, err)

	gross, err := tbl.Floats("gross")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, gross[0])
	assert.Equal(t, 950.0, gross[1])
	assert.True(t, math.IsNaN(gross[2]))

	share, err := tbl.Floats("share")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{12, 7.5, 3}, share, 1e-9)

	runtime, err := tbl.Floats("runtime")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1234.5, 98.25, 100}, runtime, 1e-9)

	units := map[string]string{}
	for _, c := range tbl.Columns() {
		units[c.Name] = c.Unit
	}
	assert.Equal(t, "$", units["gross"])
	assert.Equal(t, "%", units["share"])
}

func TestNewLeavesTextColumnsAlone(t *testing.T) {
	tbl, err := New("x", []string{"code"}, [][]string{{"1,5"}, {"abc"}}, DefaultOptions())
	require.NoError(t, err)
	dt, err := tbl.Dtype("code")
	require.NoError(t, err)
	assert.Equal(t, Object, dt)
	vals, _, err := tbl.Strings("code")
	require.NoError(t, err)
	assert.Equal(t, []string{"1,5", "abc"}, vals)
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		unit string
	}{
		{"1,234", 1234, ""},
		{"1.234.567", 1234567, ""},
		{"1.234,5", 1234.5, ""},
		{"1,234.5", 1234.5, ""},
		{"0,5", 0.5, ""},
		{"12,5", 12.5, ""},
		{"-3,75", -3.75, ""},
		{"45%", 45, "%"},
		{"€ 9,99", 9.99, "€"},
	}
	for _, tc := range cases {
		got, unit, ok := parseNumeric(tc.in, Options{})
		require.True(t, ok, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		assert.Equal(t, tc.unit, unit, tc.in)
	}

	_, _, ok := parseNumeric("n/a", Options{})
	assert.False(t, ok)
	_, _, ok = parseNumeric("inf", Options{})
	assert.False(t, ok)

	got, _, ok := parseNumeric("1.234", Options{DecimalSeparator: ',', ThousandsSeparator: '.'})
	require.True(t, ok)
	assert.Equal(t, 1234.0, got)
}

func TestCleanHeader(t *testing.T) {
	names, units := cleanHeader([]string{"gross", "", "gross", "runtime [min]"})
	assert.Equal(t, []string{"gross", "Unnamed: 1", "gross.1", "runtime"}, names)
	assert.Equal(t, map[string]string{"runtime": "min"}, units)
}

func TestHeadAndInfo(t *testing.T) {
	tbl := movies(t)

	head := tbl.Head(2, 2)
	require.Len(t, head, 2)
	assert.Equal(t, []string{"Alien", "Horror", "1979.00", "11000000", "104931801", "8.50"}, head[0])

	assert.Len(t, tbl.Head(50, 2), 5)
	assert.Nil(t, tbl.Head(0, 2))

	info := tbl.Info()
	require.Len(t, info, 6)
	assert.Equal(t, ColumnInfo{Name: "gross", NonNull: 4, Dtype: Int64}, info[4])
	assert.Equal(t, "USD", info[3].Unit)
}

func TestMissingCounts(t *testing.T) {
	tbl := movies(t)
	got := map[string]int{}
	for _, c := range tbl.MissingCounts() {
		got[c.Name] = c.Count
	}
	assert.Equal(t, 0, got["title"])
	assert.Equal(t, 1, got["genre"])
	assert.Equal(t, 1, got["gross"])
	assert.Equal(t, 1, got["movie_rating"])
}

func TestDuplicates(t *testing.T) {
	tbl := movies(t)
	n, err := tbl.DuplicateCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err := tbl.DropDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	r, _ := tbl.Shape()
	assert.Equal(t, 4, r)
	n, err = tbl.DuplicateCount()
	require.NoError(t, err)
	assert.Zero(t, n)

	removed, err = tbl.DropDuplicates()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestDuplicatesTreatMissingAsEqual(t *testing.T) {
	tbl, err := New("x", []string{"a", "b"}, [][]string{{"1", ""}, {"1", "NA"}, {"2", ""}}, DefaultOptions())
	require.NoError(t, err)
	n, err := tbl.DuplicateCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDuplicatesKeepMixedBoolValuesDistinct(t *testing.T) {
	// "1" and "true" would both read as true in a bool column.
	tbl, err := New("x", []string{"flag"}, [][]string{{"true"}, {"1"}, {"true"}}, DefaultOptions())
	require.NoError(t, err)
	n, err := tbl.DuplicateCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCastInt(t *testing.T) {
	tbl := movies(t)
	require.NoError(t, tbl.CastInt("year_released"))

	dt, err := tbl.Dtype("year_released")
	require.NoError(t, err)
	assert.Equal(t, Int64, dt)
	years, err := tbl.Floats("year_released")
	require.NoError(t, err)
	assert.Equal(t, []float64{1979, 1995, 1975, 1995, 1988}, years)

	require.NoError(t, tbl.CastInt("budget"))
	dt, err = tbl.Dtype("budget")
	require.NoError(t, err)
	assert.Equal(t, Int64, dt)
}

func TestCastIntTruncatesAndParsesStrings(t *testing.T) {
	tbl, err := New("x", []string{"y"}, [][]string{{"2001.9"}, {"-3.7"}}, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, tbl.CastInt("y"))
	ys, _ := tbl.Floats("y")
	assert.Equal(t, []float64{2001, -3}, ys)
}

func TestCastIntFailures(t *testing.T) {
	tbl := movies(t)

	err := tbl.CastInt("gross")
	require.ErrorIs(t, err, ErrNotIntegral)

	err = tbl.CastInt("title")
	require.ErrorIs(t, err, ErrNotIntegral)
	dt, _ := tbl.Dtype("title")
	assert.Equal(t, Object, dt)

	err = tbl.CastInt("missing")
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFloatsRejectsText(t *testing.T) {
	tbl := movies(t)
	_, err := tbl.Floats("title")
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "NaN", FormatFloat(math.NaN(), 2))
	assert.Equal(t, "inf", FormatFloat(math.Inf(1), 2))
	assert.Equal(t, "-inf", FormatFloat(math.Inf(-1), 2))
	assert.Equal(t, "3.14", FormatFloat(math.Pi, 2))
}
