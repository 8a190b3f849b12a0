package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/report"
)

var corrOpts reportFlags

var corrCmd = &cobra.Command{
	Use:   "corr <file>",
	Short: "Print correlations with the target and render the correlation heatmap",
	Long: `Correlate every numeric column with the target, plot scatter and group-mean charts
and render the correlation matrix heatmap. Data quality and type coercion run silently first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ro := runOptions{
			sections: []report.Section{report.Quality, report.Coerce, report.Target, report.Correlation},
			silent:   map[report.Section]bool{report.Quality: true, report.Coerce: true},
		}
		return executeReport(cmd, &corrOpts, args, ro)
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrOpts.register(corrCmd, false)
}
