package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

func newTable(t *testing.T, header []string, rows [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New("fixture", header, rows, dataset.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func movieTable(t *testing.T) *dataset.Table {
	return newTable(t,
		[]string{"title", "genre", "year_released", "gross", "movie_rating", "runtime"},
		[][]string{
			{"A", "Drama", "2001", "100", "7.0", "120"},
			{"B", "Comedy", "2001", "300", "6.0", "95"},
			{"C", "Drama", "2002", "200", "8.0", "130"},
			{"D", "Action", "2003", "900", "5.5", ""},
			{"E", "Comedy", "2002", "", "6.5", "101"},
			{"F", "", "2003", "500", "7.5", "110"},
			{"G", "Drama", "2001", "50", "", "140"},
		})
}

func TestDescribe(t *testing.T) {
	tbl := movieTable(t)
	sums, err := Describe(tbl, 3.5)
	require.NoError(t, err)

	cols := make([]string, len(sums))
	for i, s := range sums {
		cols[i] = s.Column
	}
	assert.Equal(t, []string{"year_released", "gross", "movie_rating", "runtime"}, cols)

	gross := sums[1]
	assert.Equal(t, 6, gross.Count)
	assert.InDelta(t, 2050.0/6, gross.Mean, 1e-9)
	assert.Equal(t, 50.0, gross.Min)
	assert.Equal(t, 900.0, gross.Max)
	assert.Equal(t, 50.0, gross.Mode)
}

func TestValueCounts(t *testing.T) {
	tbl := movieTable(t)
	cc, err := ValueCounts(tbl, "genre", 10)
	require.NoError(t, err)

	assert.Equal(t, 6, cc.NonNull)
	assert.Equal(t, 3, cc.Unique)
	require.Len(t, cc.Values, 3)
	assert.Equal(t, ValueCount{Value: "Drama", Count: 3, Proportion: 0.5}, cc.Values[0])
	assert.Equal(t, "Comedy", cc.Values[1].Value)
	assert.InDelta(t, 2.0/6, cc.Values[1].Proportion, 1e-12)
	assert.Equal(t, "Action", cc.Values[2].Value)

	top, err := ValueCounts(tbl, "genre", 1)
	require.NoError(t, err)
	assert.Len(t, top.Values, 1)
	assert.Equal(t, 3, top.Unique)
}

func TestValueCountsTiesKeepFirstAppearance(t *testing.T) {
	tbl := newTable(t, []string{"c"}, [][]string{{"b"}, {"a"}, {"a"}, {"b"}, {"c"}})
	cc, err := ValueCounts(tbl, "c", 0)
	require.NoError(t, err)
	got := []string{cc.Values[0].Value, cc.Values[1].Value, cc.Values[2].Value}
	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestCategoricalCounts(t *testing.T) {
	all, err := CategoricalCounts(movieTable(t), 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "title", all[0].Column)
	assert.Equal(t, "genre", all[1].Column)
}

func TestPearson(t *testing.T) {
	nan := math.NaN()
	assert.InDelta(t, 1.0, Pearson([]float64{1, 2, 3, nan}, []float64{2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.0, Pearson([]float64{1, 2, 3}, []float64{6, 4, 2}), 1e-12)
	assert.True(t, math.IsNaN(Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})))
	assert.True(t, math.IsNaN(Pearson([]float64{1, nan}, []float64{nan, 2})))
}

func TestTargetCorrelations(t *testing.T) {
	tbl := movieTable(t)
	tc, err := TargetCorrelations(tbl, "gross")
	require.NoError(t, err)

	cols := []string{}
	for _, c := range tc {
		cols = append(cols, c.Column)
		assert.False(t, math.IsNaN(c.R), c.Column)
		assert.LessOrEqual(t, math.Abs(c.R), 1.0)
	}
	assert.Equal(t, []string{"year_released", "movie_rating", "runtime"}, cols)

	_, err = TargetCorrelations(tbl, "revenue")
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestCorrelations(t *testing.T) {
	tbl := newTable(t, []string{"a", "b", "c", "k"}, [][]string{
		{"1", "2", "9", "4"},
		{"2", "4", "7", "4"},
		{"3", "6", "8", "4"},
		{"4", "", "1", "4"},
	})
	m, err := Correlations(tbl)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "k"}, m.Columns)

	rows := m.Rows()
	for i := range rows {
		for j := range rows {
			a, b := rows[i][j], rows[j][i]
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b)
		}
	}
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12, "pairwise deletion drops the row missing b")
	assert.True(t, math.IsNaN(m.At(3, 3)), "constant column has no correlation")
	assert.True(t, math.IsNaN(m.At(0, 3)))

	empty, err := Correlations(newTable(t, []string{"s"}, [][]string{{"x"}}))
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestMeanByCategory(t *testing.T) {
	tbl := movieTable(t)
	gm, err := MeanByCategory(tbl, "genre", "gross", 15)
	require.NoError(t, err)
	require.Len(t, gm, 3)

	assert.Equal(t, "Action", gm[0].Key)
	assert.Equal(t, 900.0, gm[0].Mean)
	assert.Equal(t, "Comedy", gm[1].Key)
	assert.Equal(t, 300.0, gm[1].Mean)
	assert.Equal(t, 2, gm[1].Size)
	assert.Equal(t, 1, gm[1].Count)
	assert.Equal(t, "Drama", gm[2].Key)
	assert.Equal(t, 350.0/3, gm[2].Mean)

	top, err := MeanByCategory(tbl, "genre", "gross", 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	_, err = MeanByCategory(tbl, "genre", "budget", 15)
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestMeanByCategoryNaNLast(t *testing.T) {
	tbl := newTable(t, []string{"k", "v"}, [][]string{{"x", ""}, {"y", "1"}, {"z", "5"}})
	gm, err := MeanByCategory(tbl, "k", "v", 0)
	require.NoError(t, err)
	require.Len(t, gm, 3)
	assert.Equal(t, "z", gm[0].Key)
	assert.Equal(t, "y", gm[1].Key)
	assert.Equal(t, "x", gm[2].Key)
	assert.True(t, math.IsNaN(gm[2].Mean))
}

func TestMeanByYear(t *testing.T) {
	tbl := movieTable(t)
	ym, err := MeanByYear(tbl, "year_released", "gross")
	require.NoError(t, err)
	require.Len(t, ym, 3)
	assert.Equal(t, YearMean{Year: 2001, Count: 3, Mean: 150}, ym[0])
	assert.Equal(t, YearMean{Year: 2002, Count: 1, Mean: 200}, ym[1])
	assert.Equal(t, YearMean{Year: 2003, Count: 2, Mean: 700}, ym[2])

	peak, ok := PeakYear(ym)
	require.True(t, ok)
	assert.Equal(t, 2003.0, peak.Year)

	rating, err := MeanByYear(tbl, "year_released", "movie_rating")
	require.NoError(t, err)
	assert.InDelta(t, 6.5, rating[0].Mean, 1e-12)

	_, ok = PeakYear(nil)
	assert.False(t, ok)
}
