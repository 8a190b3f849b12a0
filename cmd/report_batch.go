package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/utils"
)

var (
	batchOpts  reportFlags
	batchQuiet bool
)

var reportBatchCmd = &cobra.Command{
	Use:   "report-batch <files...>",
	Short: "Run the report on multiple CSV/TSV/XLSX files with progress",
	Long: `Run the report on every file matched by the given paths or glob patterns. Each file
gets its own output directory <out>/<basename>; repeated basenames get a __2, __3 suffix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		sections, err := report.ParseSections(batchOpts.sections)
		if err != nil {
			return err
		}
		if batchOpts.sqlite != "" || batchOpts.postgres != "" {
			return eris.New("report-batch reads files only; use report with --sqlite or --postgres")
		}

		base := batchOpts.out
		if base == "" {
			base = currentConfig().OutputDir
		}
		used := map[string]bool{}
		total := len(files)
		for i, path := range files {
			if !batchQuiet {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			dir := uniqueDir(base, utils.BaseName(path), used)
			f := batchOpts
			// Per-file Markdown and workbook land in the run directory.
			if batchOpts.markdown != "" {
				f.markdown = filepath.Join(dir, "summary.md")
			}
			if batchOpts.xlsx != "" {
				f.xlsx = filepath.Join(dir, "stats.xlsx")
			}
			ro := runOptions{sections: sections, dir: dir, quiet: batchQuiet}
			if err := executeReport(cmd, &f, []string{path}, ro); err != nil {
				zap.L().Error("report failed", zap.String("file", path), zap.Error(err))
				return eris.Wrapf(err, "%s", path)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, drops duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, eris.New("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// uniqueDir picks base/name, or base/name__N when that name was already used
// in this batch or exists on disk.
func uniqueDir(base, name string, used map[string]bool) string {
	cand := filepath.Join(base, name)
	for idx := 2; used[cand] || exists(cand); idx++ {
		cand = filepath.Join(base, fmt.Sprintf("%s__%d", name, idx))
	}
	used[cand] = true
	return cand
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	rootCmd.AddCommand(reportBatchCmd)
	batchOpts.register(reportBatchCmd, true)
	reportBatchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress progress and report output")
}
