// Package report runs the EDA sections over a table, prints their console
// output and collects the figures they request.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/chart"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

// Config controls which sections run and how they present results.
type Config struct {
	Target       string
	YearColumn   string
	GrossColumn  string
	RatingColumn string

	Sections []Section
	// Silent sections run without console output.
	Silent map[Section]bool

	HistBins         int
	TopValues        int
	TopCategories    int
	HeadRows         int
	ScatterAlpha     float64
	FloatPrecision   int
	OutlierThreshold float64
	DropDuplicates   bool
	SummaryNotes     bool
}

// DefaultConfig returns the settings of a full movie report.
func DefaultConfig() Config {
	return Config{
		Target:           "gross",
		YearColumn:       "year_released",
		GrossColumn:      "gross",
		RatingColumn:     "movie_rating",
		Sections:         append([]Section(nil), AllSections...),
		HistBins:         chart.DefaultBins,
		TopValues:        10,
		TopCategories:    15,
		HeadRows:         5,
		ScatterAlpha:     0.3,
		FloatPrecision:   2,
		OutlierThreshold: 3.5,
	}
}

// Result holds everything the sections computed. Fields of sections that did
// not run are left empty.
type Result struct {
	Name       string
	Rows, Cols int
	Info       []dataset.ColumnInfo
	Head       [][]string

	Missing           []dataset.ColumnCount
	Duplicates        int
	DroppedDuplicates int

	Numeric    []analysis.NumericSummary
	Categories []analysis.CategoryCounts

	TargetCorr  []analysis.TargetCorr
	TargetMeans map[string][]analysis.GroupMean
	Corr        *analysis.CorrMatrix

	YearlyGross  []analysis.YearMean
	YearlyRating []analysis.YearMean

	Figures  []*chart.Figure
	Notes    []string
	Warnings []string
}

// Runner executes report sections against a table.
type Runner struct {
	cfg Config
	out io.Writer
}

// NewRunner creates a Runner printing to out. A nil out discards console text.
func NewRunner(cfg Config, out io.Writer) *Runner {
	if len(cfg.Sections) == 0 {
		cfg.Sections = append([]Section(nil), AllSections...)
	}
	return &Runner{cfg: cfg, out: out}
}

type sectionFunc func(r *Runner, c *console, t *dataset.Table, res *Result) error

var sectionFuncs = map[Section]sectionFunc{
	Overview:      (*Runner).overview,
	Quality:       (*Runner).quality,
	Coerce:        (*Runner).coerce,
	Describe:      (*Runner).describe,
	Distributions: (*Runner).distributions,
	Categories:    (*Runner).categories,
	Target:        (*Runner).target,
	Correlation:   (*Runner).correlation,
	Trends:        (*Runner).trends,
}

// Run executes the configured sections in report order. The first failing
// section stops the run; the partial Result is returned with the error so
// figures requested by earlier sections can still be rendered.
func (r *Runner) Run(ctx context.Context, t *dataset.Table) (*Result, error) {
	res := &Result{Name: t.Name(), TargetMeans: map[string][]analysis.GroupMean{}}
	res.Rows, res.Cols = t.Shape()
	n := 0
	for _, s := range AllSections {
		if !r.enabled(s) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c := newConsole(r.out)
		if r.cfg.Silent[s] {
			c = newConsole(nil)
		} else {
			n++
			c.heading(n, s)
		}
		zap.L().Debug("running section", zap.String("section", string(s)), zap.String("dataset", res.Name))
		if err := sectionFuncs[s](r, c, t, res); err != nil {
			return res, eris.Wrapf(err, "%s section", s)
		}
	}
	res.Rows, res.Cols = t.Shape()
	// Schema after coercion and duplicate removal.
	res.Info = t.Info()
	res.Notes = SummaryNotes(res, r.cfg)
	if r.cfg.SummaryNotes && len(res.Notes) > 0 {
		c := newConsole(r.out)
		c.sub("Summary")
		for _, note := range res.Notes {
			c.line("- %s", note)
		}
	}
	return res, nil
}

func (r *Runner) enabled(s Section) bool {
	for _, x := range r.cfg.Sections {
		if x == s {
			return true
		}
	}
	return false
}

func (r *Runner) f(v float64) string { return dataset.FormatFloat(v, r.cfg.FloatPrecision) }

func (r *Runner) overview(c *console, t *dataset.Table, res *Result) error {
	rows, cols := t.Shape()
	c.line("Shape (rows, columns): (%d, %d)", rows, cols)

	res.Info = t.Info()
	c.sub("Dtypes:")
	dt := make([][]string, len(res.Info))
	for i, ci := range res.Info {
		dt[i] = []string{ci.Name, string(ci.Dtype)}
	}
	c.table([]string{"column", "dtype"}, dt)

	res.Head = t.Head(r.cfg.HeadRows, r.cfg.FloatPrecision)
	c.sub("First %d rows:", len(res.Head))
	names := make([]string, len(res.Info))
	for i, ci := range res.Info {
		names[i] = ci.Name
	}
	c.table(names, res.Head)

	c.sub("Info:")
	info := make([][]string, len(res.Info))
	for i, ci := range res.Info {
		info[i] = []string{strconv.Itoa(i), ci.Name, ci.Unit, fmt.Sprintf("%d non-null", ci.NonNull), string(ci.Dtype)}
	}
	c.table([]string{"#", "column", "unit", "non-null count", "dtype"}, info)
	return nil
}

func (r *Runner) quality(c *console, t *dataset.Table, res *Result) error {
	res.Missing = t.MissingCounts()
	c.sub("Missing values per column:")
	rows := make([][]string, len(res.Missing))
	for i, m := range res.Missing {
		rows[i] = []string{m.Name, strconv.Itoa(m.Count)}
	}
	c.table([]string{"column", "missing"}, rows)

	dups, err := t.DuplicateCount()
	if err != nil {
		return err
	}
	res.Duplicates = dups
	c.line("\nDuplicate rows: %d", res.Duplicates)
	if r.cfg.DropDuplicates && res.Duplicates > 0 {
		n, err := t.DropDuplicates()
		if err != nil {
			return err
		}
		res.DroppedDuplicates = n
		res.Rows, res.Cols = t.Shape()
		c.ok("Dropped %d duplicate rows", n)
	}
	return nil
}

func (r *Runner) coerce(c *console, t *dataset.Table, _ *Result) error {
	if err := t.CastInt(r.cfg.YearColumn); err != nil {
		return err
	}
	c.ok("%s cast to %s", r.cfg.YearColumn, dataset.Int64)
	return nil
}

// describeRows are the row labels of the numeric describe table.
var describeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max", "mode", "skew", "kurt", "outliers"}

func (r *Runner) describe(c *console, t *dataset.Table, res *Result) error {
	num, err := analysis.Describe(t, r.cfg.OutlierThreshold)
	if err != nil {
		return err
	}
	res.Numeric = num
	if len(num) > 0 {
		c.sub("Numeric summary statistics:")
		header := []string{""}
		for _, s := range num {
			header = append(header, s.Column)
		}
		c.table(header, r.describeTable(num))
	} else {
		c.warn("No numeric columns")
	}

	cats, err := analysis.CategoricalCounts(t, r.cfg.TopValues)
	if err != nil {
		return err
	}
	res.Categories = cats
	for _, cc := range cats {
		c.sub("Value counts - %s:", cc.Column)
		rows := make([][]string, len(cc.Values))
		for i, v := range cc.Values {
			rows[i] = []string{v.Value, strconv.Itoa(v.Count), dataset.FormatFloat(v.Proportion, r.cfg.FloatPrecision)}
		}
		c.table([]string{cc.Column, "count", "proportion"}, rows)
	}
	return nil
}

func (r *Runner) describeTable(num []analysis.NumericSummary) [][]string {
	rows := make([][]string, len(describeRows))
	for i, label := range describeRows {
		rows[i] = []string{label}
	}
	for _, s := range num {
		outliers := "-"
		if s.OutliersChecked {
			outliers = strconv.Itoa(s.Outliers)
		}
		vals := []string{
			strconv.Itoa(s.Count), r.f(s.Mean), r.f(s.Std), r.f(s.Min), r.f(s.Q25),
			r.f(s.Median), r.f(s.Q75), r.f(s.Max), r.f(s.Mode), r.f(s.Skew), r.f(s.Kurt), outliers,
		}
		for i := range rows {
			rows[i] = append(rows[i], vals[i])
		}
	}
	return rows
}

func (r *Runner) distributions(_ *console, t *dataset.Table, res *Result) error {
	for _, col := range t.NumericColumns() {
		vals, err := t.Floats(col)
		if err != nil {
			return err
		}
		res.Figures = append(res.Figures,
			&chart.Figure{
				Section: string(Distributions), Column: col, Kind: chart.Histogram,
				Title: col + " distribution", XLabel: col, YLabel: "Frequency",
				Width: 8, Height: 4, Values: vals, Bins: r.cfg.HistBins,
			},
			&chart.Figure{
				Section: string(Distributions), Column: col, Kind: chart.Box,
				Title: col + " boxplot", XLabel: col,
				Width: 6, Height: 3, Values: vals,
			})
	}
	return nil
}

func (r *Runner) categories(_ *console, t *dataset.Table, res *Result) error {
	for _, col := range t.CategoricalColumns() {
		cc, err := analysis.ValueCounts(t, col, r.cfg.TopCategories)
		if err != nil {
			return err
		}
		labels, vals := make([]string, len(cc.Values)), make([]float64, len(cc.Values))
		for i, v := range cc.Values {
			labels[i], vals[i] = v.Value, float64(v.Count)
		}
		res.Figures = append(res.Figures, &chart.Figure{
			Section: string(Categories), Column: col, Kind: chart.Bar,
			Title: fmt.Sprintf("%s top %d categories", col, r.cfg.TopCategories), XLabel: col, YLabel: "Count",
			Width: 10, Height: 4, Labels: labels, Values: vals,
		})
	}
	return nil
}

func (r *Runner) target(c *console, t *dataset.Table, res *Result) error {
	target := r.cfg.Target
	y, err := t.Floats(target)
	if err != nil {
		return err
	}
	corr, err := analysis.TargetCorrelations(t, target)
	if err != nil {
		return err
	}
	res.TargetCorr = corr
	for _, tc := range corr {
		c.line("Correlation between %s and %s: %s", tc.Column, target, dataset.FormatFloat(tc.R, 3))
		x, err := t.Floats(tc.Column)
		if err != nil {
			return err
		}
		res.Figures = append(res.Figures, &chart.Figure{
			Section: string(Target), Column: tc.Column, Kind: chart.Scatter,
			Title:  fmt.Sprintf("%s vs %s (corr=%s)", tc.Column, target, dataset.FormatFloat(tc.R, 2)),
			XLabel: tc.Column, YLabel: target,
			Width: 8, Height: 4, X: x, Y: y, Alpha: r.cfg.ScatterAlpha,
		})
	}

	for _, col := range t.CategoricalColumns() {
		gm, err := analysis.MeanByCategory(t, col, target, r.cfg.TopCategories)
		if err != nil {
			return err
		}
		res.TargetMeans[col] = gm
		labels, vals := make([]string, len(gm)), make([]float64, len(gm))
		for i, g := range gm {
			labels[i], vals[i] = g.Key, g.Mean
		}
		res.Figures = append(res.Figures, &chart.Figure{
			Section: string(Target), Column: col, Kind: chart.Bar,
			Title:  fmt.Sprintf("Mean %s by %s (top %d)", target, col, r.cfg.TopCategories),
			XLabel: col, YLabel: "Mean " + target,
			Width: 10, Height: 4, Labels: labels, Values: vals,
		})
	}
	return nil
}

func (r *Runner) correlation(c *console, t *dataset.Table, res *Result) error {
	m, err := analysis.Correlations(t)
	if err != nil {
		return err
	}
	if m == nil {
		c.warn("No numeric columns to correlate")
		return nil
	}
	res.Corr = m
	header := append([]string{""}, m.Columns...)
	rows := make([][]string, len(m.Columns))
	for i, row := range m.Rows() {
		rows[i] = []string{m.Columns[i]}
		for _, v := range row {
			rows[i] = append(rows[i], r.f(v))
		}
	}
	c.table(header, rows)
	res.Figures = append(res.Figures, &chart.Figure{
		Section: string(Correlation), Column: "matrix", Kind: chart.Heatmap,
		Title: "Correlation matrix (numeric columns)",
		Width: 8, Height: 6, Labels: m.Columns, Matrix: m.Rows(), ColorBarLabel: "Correlation",
	})
	return nil
}

func (r *Runner) trends(_ *console, t *dataset.Table, res *Result) error {
	gross, err := analysis.MeanByYear(t, r.cfg.YearColumn, r.cfg.GrossColumn)
	if err != nil {
		return err
	}
	rating, err := analysis.MeanByYear(t, r.cfg.YearColumn, r.cfg.RatingColumn)
	if err != nil {
		return err
	}
	res.YearlyGross, res.YearlyRating = gross, rating
	res.Figures = append(res.Figures,
		yearlyFigure(r.cfg.GrossColumn, "Mean gross per year", "Mean gross ("+r.cfg.GrossColumn+")", gross),
		yearlyFigure(r.cfg.RatingColumn, "Mean rating per year", "Mean rating", rating),
	)
	return nil
}

func yearlyFigure(column, title, ylabel string, ym []analysis.YearMean) *chart.Figure {
	x, y := make([]float64, len(ym)), make([]float64, len(ym))
	for i, p := range ym {
		x[i], y[i] = p.Year, p.Mean
	}
	return &chart.Figure{
		Section: string(Trends), Column: column, Kind: chart.Line,
		Title: title, XLabel: "Release year", YLabel: ylabel,
		Width: 10, Height: 5, X: x, Y: y,
	}
}
