package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/reportgen-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set reportgen configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "category_detection: %t\n", c.CategoryDetection)
		fmt.Fprintf(out, "structured_text_detection: %t\n", c.StructuredTextDetection)
		fmt.Fprintf(out, "datetime_to_category: %t\n", c.DatetimeToCategory)
		fmt.Fprintf(out, "max_bins: %d\n", c.MaxBins)
		fmt.Fprintf(out, "grid_size: %d\n", c.GridSize)
		fmt.Fprintf(out, "norm_hist: %t\n", c.NormHist)
		if c.FontPath != "" {
			fmt.Fprintf(out, "font_path: %s\n", c.FontPath)
		}
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		parseBool := func() (bool, error) {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return false, fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			return b, nil
		}
		parsePositive := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			return i, nil
		}
		var err error
		switch key {
		case "category_detection":
			cfg.CategoryDetection, err = parseBool()
		case "structured_text_detection":
			cfg.StructuredTextDetection, err = parseBool()
		case "datetime_to_category":
			cfg.DatetimeToCategory, err = parseBool()
		case "norm_hist":
			cfg.NormHist, err = parseBool()
		case "max_bins":
			cfg.MaxBins, err = parsePositive()
		case "grid_size":
			cfg.GridSize, err = parsePositive()
		case "font_path":
			cfg.FontPath = val
		case "output_dir":
			cfg.OutputDir = val
		case "log_level":
			if _, perr := zap.ParseAtomicLevel(val); perr != nil {
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
			cfg.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
