package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/eda-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set eda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "target: %s\n", c.Target)
		fmt.Fprintf(out, "year_column: %s\n", c.YearColumn)
		fmt.Fprintf(out, "gross_column: %s\n", c.GrossColumn)
		fmt.Fprintf(out, "rating_column: %s\n", c.RatingColumn)
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "hist_bins: %d\n", c.HistBins)
		fmt.Fprintf(out, "top_values: %d\n", c.TopValues)
		fmt.Fprintf(out, "top_categories: %d\n", c.TopCategories)
		fmt.Fprintf(out, "head_rows: %d\n", c.HeadRows)
		fmt.Fprintf(out, "scatter_alpha: %.2f\n", c.ScatterAlpha)
		fmt.Fprintf(out, "float_precision: %d\n", c.FloatPrecision)
		fmt.Fprintf(out, "render_workers: %d\n", c.RenderWorkers)
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "outlier_threshold: %.2f\n", c.OutlierThreshold)
		fmt.Fprintf(out, "na_values: %s\n", strings.Join(c.NAValues, ","))
		fmt.Fprintf(out, "log.level: %s\n", c.Log.Level)
		fmt.Fprintf(out, "log.format: %s\n", c.Log.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the saved file so env and flag overrides are not persisted.
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "target":
		c.Target = val
	case "year_column":
		c.YearColumn = val
	case "gross_column":
		c.GrossColumn = val
	case "rating_column":
		c.RatingColumn = val
	case "output_dir":
		c.OutputDir = val
	case "hist_bins":
		return setPositiveInt(&c.HistBins, key, val)
	case "top_values":
		return setPositiveInt(&c.TopValues, key, val)
	case "top_categories":
		return setPositiveInt(&c.TopCategories, key, val)
	case "head_rows":
		return setPositiveInt(&c.HeadRows, key, val)
	case "render_workers":
		return setPositiveInt(&c.RenderWorkers, key, val)
	case "float_precision":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return eris.Errorf("invalid int for float_precision: %v", val)
		}
		c.FloatPrecision = i
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return eris.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "scatter_alpha":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 || f > 1 {
			return eris.Errorf("invalid float for scatter_alpha: %v (use 0 < alpha <= 1)", val)
		}
		c.ScatterAlpha = f
	case "outlier_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return eris.Errorf("invalid float for outlier_threshold: %v", val)
		}
		c.OutlierThreshold = f
	case "na_values":
		var vals []string
		for _, v := range strings.Split(val, ",") {
			vals = append(vals, strings.TrimSpace(v))
		}
		c.NAValues = vals
	case "log.level":
		switch val {
		case "debug", "info", "warn", "error":
			c.Log.Level = val
		default:
			return eris.Errorf("invalid log.level: %s (use debug|info|warn|error)", val)
		}
	case "log.format":
		switch val {
		case "console", "json":
			c.Log.Format = val
		default:
			return eris.Errorf("invalid log.format: %s (use console|json)", val)
		}
	default:
		return eris.Errorf("unknown key: %s", key)
	}
	return nil
}

func setPositiveInt(dst *int, key, val string) error {
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return eris.Errorf("invalid int for %s: %v", key, val)
	}
	*dst = i
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
