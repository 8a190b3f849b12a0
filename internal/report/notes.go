package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
)

const notesTopN = 3

// SummaryNotes answers the closing questions of a report from its results:
// which columns are most skewed, which have extreme outliers, which correlate
// most with the target and which years peak in mean gross and rating.
func SummaryNotes(res *Result, cfg Config) []string {
	var notes []string

	if skewed := mostSkewed(res.Numeric); len(skewed) > 0 {
		parts := make([]string, len(skewed))
		for i, s := range skewed {
			parts[i] = fmt.Sprintf("%s (%.2f)", s.Column, s.Skew)
		}
		notes = append(notes, "Most skewed numeric columns: "+strings.Join(parts, ", "))
	}

	var outl []string
	for _, s := range res.Numeric {
		if s.OutliersChecked && s.Outliers > 0 {
			outl = append(outl, fmt.Sprintf("%s (%d above |z|>%.1f)", s.Column, s.Outliers, s.OutlierThreshold))
		}
	}
	if len(outl) > 0 {
		notes = append(notes, "Extreme outliers: "+strings.Join(outl, ", "))
	} else if len(res.Numeric) > 0 {
		notes = append(notes, "No extreme outliers detected")
	}

	if strong := strongestCorr(res.TargetCorr); len(strong) > 0 {
		parts := make([]string, len(strong))
		for i, tc := range strong {
			parts[i] = fmt.Sprintf("%s (r=%.3f)", tc.Column, tc.R)
		}
		notes = append(notes, fmt.Sprintf("Strongest correlation with %s: %s", cfg.Target, strings.Join(parts, ", ")))
	}

	if y, ok := analysis.PeakYear(res.YearlyGross); ok {
		notes = append(notes, fmt.Sprintf("Highest mean %s: %d (%.2f)", cfg.GrossColumn, int(y.Year), y.Mean))
	}
	if y, ok := analysis.PeakYear(res.YearlyRating); ok {
		notes = append(notes, fmt.Sprintf("Highest mean %s: %d (%.2f)", cfg.RatingColumn, int(y.Year), y.Mean))
	}
	return notes
}

func mostSkewed(num []analysis.NumericSummary) []analysis.NumericSummary {
	var out []analysis.NumericSummary
	for _, s := range num {
		if !math.IsNaN(s.Skew) && s.Skew != 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].Skew) > math.Abs(out[j].Skew) })
	if len(out) > notesTopN {
		out = out[:notesTopN]
	}
	return out
}

func strongestCorr(tc []analysis.TargetCorr) []analysis.TargetCorr {
	var out []analysis.TargetCorr
	for _, c := range tc {
		if !math.IsNaN(c.R) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].R) > math.Abs(out[j].R) })
	if len(out) > notesTopN {
		out = out[:notesTopN]
	}
	return out
}
