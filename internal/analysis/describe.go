package analysis

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

// Describe summarizes every numeric column of t in table order.
func Describe(t *dataset.Table, outlierThreshold float64) ([]NumericSummary, error) {
	cols := t.NumericColumns()
	out := make([]NumericSummary, 0, len(cols))
	for _, c := range cols {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, eris.Wrapf(err, "describe %q", c)
		}
		out = append(out, Summarize(c, vals, outlierThreshold))
	}
	return out, nil
}

// ValueCount is one category with its absolute and relative frequency.
type ValueCount struct {
	Value      string
	Count      int
	Proportion float64
}

// CategoryCounts is the value_counts listing of one column.
type CategoryCounts struct {
	Column  string
	NonNull int
	Unique  int
	Values  []ValueCount
}

// ValueCounts counts the non-missing values of column, most frequent first.
// Equal counts keep the order in which values first appear. Proportions are
// relative to the non-missing count. top <= 0 keeps every value.
func ValueCounts(t *dataset.Table, column string, top int) (CategoryCounts, error) {
	vals, missing, err := t.Strings(column)
	if err != nil {
		return CategoryCounts{}, err
	}
	cc := CategoryCounts{Column: column}
	idx := make(map[string]int)
	for i, v := range vals {
		if missing[i] {
			continue
		}
		cc.NonNull++
		if k, ok := idx[v]; ok {
			cc.Values[k].Count++
			continue
		}
		idx[v] = len(cc.Values)
		cc.Values = append(cc.Values, ValueCount{Value: v, Count: 1})
	}
	cc.Unique = len(cc.Values)
	sort.SliceStable(cc.Values, func(i, j int) bool { return cc.Values[i].Count > cc.Values[j].Count })
	for i := range cc.Values {
		cc.Values[i].Proportion = float64(cc.Values[i].Count) / float64(cc.NonNull)
	}
	if top > 0 && len(cc.Values) > top {
		cc.Values = cc.Values[:top]
	}
	return cc, nil
}

// CategoricalCounts runs ValueCounts over every categorical column.
func CategoricalCounts(t *dataset.Table, top int) ([]CategoryCounts, error) {
	cols := t.CategoricalColumns()
	out := make([]CategoryCounts, 0, len(cols))
	for _, c := range cols {
		cc, err := ValueCounts(t, c, top)
		if err != nil {
			return nil, eris.Wrapf(err, "value counts %q", c)
		}
		out = append(out, cc)
	}
	return out, nil
}
