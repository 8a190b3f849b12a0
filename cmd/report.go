package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/report"
)

var reportOpts reportFlags

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Run the full exploratory report on a CSV/TSV/XLSX file or SQL query",
	Long: `Run the exploratory report: overview, data quality, type coercion, descriptive
statistics, distributions, categorical counts, target analysis, the correlation matrix
and yearly trends. Figures are written as PNG files next to a manifest.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := report.ParseSections(reportOpts.sections)
		if err != nil {
			return err
		}
		return executeReport(cmd, &reportOpts, args, runOptions{sections: sections})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportOpts.register(reportCmd, true)
}
