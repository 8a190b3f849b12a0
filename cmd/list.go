package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/run"
)

var (
	listDir     string
	listFigures string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List report runs or the figures of one run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFigures != "" {
			r, err := run.Load(listFigures)
			if err != nil {
				return err
			}
			if len(r.Figures) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no figures)")
				return nil
			}
			for _, f := range r.Figures {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s: %s (%s)\n", f.File, f.Title, f.Kind)
			}
			return nil
		}
		root := listDir
		if root == "" {
			root = currentConfig().OutputDir
		}
		return listRuns(cmd, root)
	},
}

func listRuns(cmd *cobra.Command, root string) error {
	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "(no runs)")
			return nil
		}
		return eris.Wrap(err, "read output dir")
	}
	var runs []*run.Run
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		r, err := run.Load(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, r)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no runs)")
		return nil
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })

	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"dir", "dataset", "shape", "figures", "created", "status"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "failed"
		}
		tw.Append([]string{
			filepath.Base(r.Dir()),
			r.Name,
			fmt.Sprintf("%d x %d", r.Rows, r.Columns),
			strconv.Itoa(len(r.Figures)),
			r.CreatedAt.Format("2006-01-02 15:04"),
			status,
		})
	}
	tw.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDir, "dir", "", "directory holding report runs (default from config: output_dir)")
	listCmd.Flags().StringVar(&listFigures, "figures", "", "run directory whose figures to list")
}
