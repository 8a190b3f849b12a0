package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/report"
)

var trendsOpts reportFlags

var trendsCmd = &cobra.Command{
	Use:   "trends <file>",
	Short: "Render yearly mean gross and mean rating line charts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ro := runOptions{
			sections: []report.Section{report.Coerce, report.Trends},
			silent:   map[report.Section]bool{report.Coerce: true},
		}
		return executeReport(cmd, &trendsOpts, args, ro)
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsOpts.register(trendsCmd, false)
}
