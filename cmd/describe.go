package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/report"
)

var describeOpts reportFlags

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print the overview, data quality and descriptive statistics only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections := []report.Section{report.Overview, report.Quality, report.Coerce, report.Describe}
		return executeReport(cmd, &describeOpts, args, runOptions{sections: sections})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeOpts.register(describeCmd, false)
}
