package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
)

func TestSummaryNotes(t *testing.T) {
	res := &Result{
		Numeric: []analysis.NumericSummary{
			{Column: "gross", Skew: 3.1, OutliersChecked: true, Outliers: 2, OutlierThreshold: 3.5},
			{Column: "runtime", Skew: -0.4, OutliersChecked: true},
			{Column: "votes", Skew: math.NaN()},
		},
		TargetCorr: []analysis.TargetCorr{
			{Column: "runtime", R: 0.2},
			{Column: "votes", R: -0.71},
			{Column: "budget", R: math.NaN()},
		},
		YearlyGross:  []analysis.YearMean{{Year: 1990, Mean: 10}, {Year: 1991, Mean: 30}, {Year: 1992, Mean: math.NaN()}},
		YearlyRating: []analysis.YearMean{{Year: 1990, Mean: 7.5}, {Year: 1991, Mean: 6}},
	}
	notes := SummaryNotes(res, DefaultConfig())

	assert.Equal(t, []string{
		"Most skewed numeric columns: gross (3.10), runtime (-0.40)",
		"Extreme outliers: gross (2 above |z|>3.5)",
		"Strongest correlation with gross: votes (r=-0.710), runtime (r=0.200)",
		"Highest mean gross: 1991 (30.00)",
		"Highest mean movie_rating: 1990 (7.50)",
	}, notes)
}

func TestSummaryNotesNoOutliers(t *testing.T) {
	res := &Result{Numeric: []analysis.NumericSummary{{Column: "x", Skew: 0}}}
	assert.Equal(t, []string{"No extreme outliers detected"}, SummaryNotes(res, DefaultConfig()))
	assert.Empty(t, SummaryNotes(&Result{}, DefaultConfig()))
}
