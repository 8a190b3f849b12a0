package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

// Markdown renders a compact summary of the report suitable for notes or
// standalone docs.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	if r.DroppedDuplicates > 0 {
		b.WriteString(fmt.Sprintf("Duplicates removed: %d\n", r.DroppedDuplicates))
	} else if r.Duplicates > 0 {
		b.WriteString(fmt.Sprintf("Duplicate rows: %d\n", r.Duplicates))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Cols))

	if len(r.Info) > 0 {
		missing := map[string]int{}
		for _, m := range r.Missing {
			missing[m.Name] = m.Count
		}
		stats := map[string]int{}
		for i, s := range r.Numeric {
			stats[s.Column] = i
		}
		cats := map[string]int{}
		for i, c := range r.Categories {
			cats[c.Column] = i
		}
		b.WriteString("\n[SCHEMA]\n")
		for _, c := range r.Info {
			name := safeName(c.Name)
			if c.Unit != "" {
				name = fmt.Sprintf("%s [%s]", name, c.Unit)
			}
			total := c.NonNull + missing[c.Name]
			missPct := 0.0
			if total > 0 {
				missPct = float64(missing[c.Name]) * 100.0 / float64(total)
			}
			b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Dtype, c.NonNull, missPct))
			if i, ok := stats[c.Name]; ok {
				s := r.Numeric[i]
				b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g, skew %.2f", s.Min, s.Max, s.Mean, s.Std, s.Skew))
				if s.OutliersChecked {
					b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", s.Outliers, s.OutlierThreshold))
					if s.OutliersMaxAbsZ > 0 {
						b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", s.OutliersMaxAbsZ))
					}
				}
			}
			if i, ok := cats[c.Name]; ok && len(r.Categories[i].Values) > 0 {
				cc := r.Categories[i]
				b.WriteString("; top: ")
				for j, kv := range cc.Values {
					if j > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(truncate(kv.Value, 80)), kv.Count))
				}
				if cc.Unique > len(cc.Values) {
					b.WriteString(fmt.Sprintf("; unique=%d", cc.Unique))
				}
			}
			b.WriteString("\n")
		}
	}

	if len(r.TargetCorr) > 0 {
		b.WriteString("\n[TARGET CORRELATIONS]\n")
		for _, tc := range r.TargetCorr {
			b.WriteString(fmt.Sprintf("- %s: r=%s\n", tc.Column, dataset.FormatFloat(tc.R, 3)))
		}
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		// list top pairs by |r|
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if v := r.Corr.At(i, j); !math.IsNaN(v) {
					pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: v})
				}
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		maxp := min(10, len(pairs))
		for i := 0; i < maxp; i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
		}
	}

	if len(r.YearlyGross) > 0 || len(r.YearlyRating) > 0 {
		b.WriteString("\n[YEARLY TRENDS]\n")
		rating := map[float64]float64{}
		for _, y := range r.YearlyRating {
			rating[y.Year] = y.Mean
		}
		years := r.YearlyGross
		if len(years) == 0 {
			years = r.YearlyRating
		}
		for _, y := range years {
			b.WriteString(fmt.Sprintf("- %d: gross %s, rating %s\n", int(y.Year),
				dataset.FormatFloat(meanOf(r.YearlyGross, y.Year), 2), dataset.FormatFloat(lookup(rating, y.Year), 2)))
		}
	}

	if len(r.Head) > 0 && len(r.Info) > 0 {
		b.WriteString("\n[HEAD ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Info {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n")
		b.WriteString("| ")
		for i := range r.Info {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Head {
			b.WriteString("| ")
			for i := range r.Info {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Figures) > 0 {
		b.WriteString("\n[FIGURES]\n")
		for _, f := range r.Figures {
			if f.File == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", f.File, f.Title))
		}
	}

	if len(r.Notes) > 0 || len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range append(append([]string(nil), r.Warnings...), r.Notes...) {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func meanOf(ym []analysis.YearMean, year float64) float64 {
	for _, y := range ym {
		if y.Year == year {
			return y.Mean
		}
	}
	return math.NaN()
}

func lookup(m map[float64]float64, k float64) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return math.NaN()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

// truncate shortens s to at most n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
