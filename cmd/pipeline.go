package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/eda-cli/internal/config"
	"github.com/KaramelBytes/eda-cli/internal/chart"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/run"
	"github.com/KaramelBytes/eda-cli/internal/source"
	"github.com/KaramelBytes/eda-cli/internal/utils"
)

// reportFlags are the input and report options shared by the report commands.
type reportFlags struct {
	target    string
	yearCol   string
	grossCol  string
	ratingCol string
	sections  string

	dropDuplicates bool
	summaryNotes   bool
	head           int

	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
	sqlite     string
	postgres   string
	query      string

	out      string
	noPlots  bool
	xlsx     string
	markdown string
	workers  int
}

func (f *reportFlags) register(cmd *cobra.Command, withSections bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.target, "target", "", "target column for the bivariate section (default from config: gross)")
	fl.StringVar(&f.yearCol, "year-col", "", "release year column cast to int64 (default from config: year_released)")
	fl.StringVar(&f.grossCol, "gross-col", "", "gross column for yearly trends (default from config: gross)")
	fl.StringVar(&f.ratingCol, "rating-col", "", "rating column for yearly trends (default from config: movie_rating)")
	if withSections {
		fl.StringVar(&f.sections, "sections", "", "comma-separated sections to run (default all): "+strings.Join(sectionNames(), ","))
	}
	fl.BoolVar(&f.dropDuplicates, "drop-duplicates", false, "remove duplicate rows after counting them")
	fl.BoolVar(&f.summaryNotes, "summary-notes", false, "print an automatic summary at the end of the report")
	fl.IntVar(&f.head, "head", 0, "rows shown by the overview (default from config: 5)")

	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto by extension if omitted)")
	fl.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fl.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fl.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fl.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fl.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to load (0 = config value, unlimited by default)")
	fl.StringVar(&f.sqlite, "sqlite", "", "SQLite database file to query instead of reading a file")
	fl.StringVar(&f.postgres, "postgres", "", "PostgreSQL connection string to query instead of reading a file")
	fl.StringVar(&f.query, "query", "", "SQL query selecting the table (with --sqlite or --postgres)")

	fl.StringVarP(&f.out, "out", "o", "", "directory for figures and manifest (default <output_dir>/<run-id>)")
	fl.BoolVar(&f.noPlots, "no-plots", false, "skip rendering figures")
	fl.StringVar(&f.xlsx, "xlsx", "", "optional path to write the statistics workbook (XLSX)")
	fl.StringVar(&f.markdown, "markdown", "", "optional path to write a Markdown summary")
	fl.IntVar(&f.workers, "workers", 0, "concurrent figure renderers (default from config: 4)")
}

func sectionNames() []string {
	names := make([]string, len(report.AllSections))
	for i, s := range report.AllSections {
		names[i] = string(s)
	}
	return names
}

// input describes where the table comes from.
type input struct {
	path  string
	label string
}

func (f *reportFlags) input(args []string) (input, error) {
	n := 0
	if len(args) > 0 {
		n++
	}
	if f.sqlite != "" {
		n++
	}
	if f.postgres != "" {
		n++
	}
	if n != 1 {
		return input{}, eris.New("provide exactly one input: a file argument, --sqlite or --postgres")
	}
	if (f.sqlite != "" || f.postgres != "") && strings.TrimSpace(f.query) == "" {
		return input{}, eris.New("--query is required with --sqlite or --postgres")
	}
	switch {
	case f.sqlite != "":
		return input{label: "sqlite:" + f.sqlite}, nil
	case f.postgres != "":
		return input{label: "postgres:" + redactDSN(f.postgres)}, nil
	default:
		return input{path: args[0], label: args[0]}, nil
	}
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "(dsn)"
	}
	return u.Redacted()
}

func (f *reportFlags) sourceOptions(c *cfgpkg.Global) (source.Options, error) {
	opt := source.Options{MaxRows: c.MaxRows, SheetName: f.sheetName, SheetIndex: f.sheetIndex}
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	d, err := source.ParseDelimiter(f.delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	return opt, nil
}

func (f *reportFlags) datasetOptions(c *cfgpkg.Global) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	if c.NAValues != nil {
		opt.NAValues = c.NAValues
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, eris.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, eris.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	return opt, nil
}

func (f *reportFlags) reportConfig(c *cfgpkg.Global) report.Config {
	rc := report.Config{
		Target:           c.Target,
		YearColumn:       c.YearColumn,
		GrossColumn:      c.GrossColumn,
		RatingColumn:     c.RatingColumn,
		HistBins:         c.HistBins,
		TopValues:        c.TopValues,
		TopCategories:    c.TopCategories,
		HeadRows:         c.HeadRows,
		ScatterAlpha:     c.ScatterAlpha,
		FloatPrecision:   c.FloatPrecision,
		OutlierThreshold: c.OutlierThreshold,
		DropDuplicates:   f.dropDuplicates,
		SummaryNotes:     f.summaryNotes,
	}
	if f.target != "" {
		rc.Target = f.target
	}
	if f.yearCol != "" {
		rc.YearColumn = f.yearCol
	}
	if f.grossCol != "" {
		rc.GrossColumn = f.grossCol
	}
	if f.ratingCol != "" {
		rc.RatingColumn = f.ratingCol
	}
	if f.head > 0 {
		rc.HeadRows = f.head
	}
	return rc
}

// loadTable reads the input and builds the typed table.
func (f *reportFlags) loadTable(ctx context.Context, in input, c *cfgpkg.Global) (*dataset.Table, *source.Records, error) {
	sopt, err := f.sourceOptions(c)
	if err != nil {
		return nil, nil, err
	}
	dopt, err := f.datasetOptions(c)
	if err != nil {
		return nil, nil, err
	}
	var recs *source.Records
	switch {
	case f.sqlite != "":
		recs, err = source.LoadSQLite(ctx, f.sqlite, f.query, sopt)
	case f.postgres != "":
		pool, perr := source.ConnectPostgres(ctx, f.postgres)
		if perr != nil {
			return nil, nil, perr
		}
		defer pool.Close()
		recs, err = source.LoadPostgres(ctx, pool, "postgres", f.query, sopt)
	default:
		recs, err = source.LoadFile(ctx, in.path, sopt)
	}
	if err != nil {
		return nil, nil, err
	}
	tbl, err := dataset.New(recs.Name, recs.Header, recs.Rows, dopt)
	if err != nil {
		return nil, nil, err
	}
	return tbl, recs, nil
}

// runOptions selects the sections of a command and where its run lives.
type runOptions struct {
	sections []report.Section
	silent   map[report.Section]bool
	// dir overrides the run directory; empty uses --out or <output_dir>/<id>.
	dir string
	// quiet discards the console report.
	quiet bool
}

// executeReport loads the input, runs the sections and writes figures,
// manifest, Markdown and workbook outputs.
func executeReport(cmd *cobra.Command, f *reportFlags, args []string, ro runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c := currentConfig()
	in, err := f.input(args)
	if err != nil {
		return err
	}
	tbl, recs, err := f.loadTable(ctx, in, c)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if ro.quiet {
		out = nil
	}
	rc := f.reportConfig(c)
	rc.Sections, rc.Silent = ro.sections, ro.silent

	var warnings []string
	if recs.Truncated() {
		warnings = append(warnings, fmt.Sprintf("loaded %d of %d rows (--max-rows)", len(recs.Rows), recs.Total))
	}
	for _, w := range warnings {
		if !ro.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", w)
		}
	}

	zap.L().Info("running report", zap.String("source", in.label), zap.Int("rows", len(recs.Rows)))
	res, runErr := report.NewRunner(rc, out).Run(ctx, tbl)
	res.Warnings = append(res.Warnings, warnings...)

	dir := ro.dir
	if dir == "" {
		dir = f.out
	}
	r := run.New(tbl.Name(), in.label, c.OutputDir, dir)
	sections := rc.Sections
	if len(sections) == 0 {
		sections = report.AllSections
	}
	for _, s := range sections {
		r.Sections = append(r.Sections, string(s))
	}
	r.Rows, r.Columns = res.Rows, res.Cols
	r.Warnings = res.Warnings

	render := !f.noPlots && len(res.Figures) > 0
	if render {
		workers := c.RenderWorkers
		if f.workers > 0 {
			workers = f.workers
		}
		if err := chart.RenderAll(ctx, res.Figures, r.Dir(), workers); err != nil {
			return eris.Wrap(err, "render figures")
		}
		for _, fig := range res.Figures {
			r.AddFigure(run.Figure{Section: fig.Section, Column: fig.Column, Kind: string(fig.Kind), Title: fig.Title, File: fig.File})
		}
		if !ro.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Wrote %d figures to %s\n", len(res.Figures), r.Dir())
		}
	}
	if runErr != nil {
		if render {
			r.Error = runErr.Error()
			if err := r.Save(); err != nil {
				zap.L().Warn("save run manifest", zap.Error(err))
			}
		}
		return runErr
	}

	if f.markdown != "" {
		if err := writeFile(f.markdown, []byte(res.Markdown())); err != nil {
			return err
		}
		r.Markdown = f.markdown
		if !ro.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", f.markdown)
		}
	}
	if f.xlsx != "" {
		if err := res.WriteWorkbook(f.xlsx); err != nil {
			return err
		}
		r.Workbook = f.xlsx
		if !ro.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", f.xlsx)
		}
	}
	if render {
		return r.Save()
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return eris.Wrap(err, "create output dir")
		}
	}
	return utils.SafeWriteFile(path, data)
}
