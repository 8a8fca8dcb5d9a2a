package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportgen-cli/internal/report"
)

var (
	repInput    inputFlags
	repOutput   string
	repTitle    string
	repAssetDir string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Build a report deck (JSON, YAML or Markdown) from a dataset",
	Long: `report classifies every column, merges numbered runs into groups and writes
one slide per variable after a field summary. The output format follows the
extension of --output (.json, .yaml/.yml, .md); without --output the deck is
written as <output_dir>/<title>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := repInput.load(args[0])
		if err != nil {
			return err
		}
		c := currentConfig()
		b := report.NewBuilder(logger)
		b.Dist = c.DistOptions()
		b.Dist.KDE = false
		b.Style = report.Style{FontPath: c.FontPath}
		b.AssetDir = repAssetDir
		if b.AssetDir == "" {
			b.AssetDir = c.OutputDir
		}

		d, err := report.Generate(tbl, newClassifier(), b, repTitle)
		if err != nil {
			return err
		}
		out := repOutput
		if out == "" {
			out = filepath.Join(c.OutputDir, d.Title+".json")
		}
		if err := d.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report '%s' (%d slides) to %s\n", d.Title, len(d.Slides), out)
		if len(d.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ Skipped %d unrecognized column(s)\n", len(d.Skipped))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repInput.register(reportCmd)
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "output path (.json, .yaml, .md)")
	reportCmd.Flags().StringVarP(&repTitle, "title", "t", "", "report title (default AnalysisReport_<timestamp>)")
	reportCmd.Flags().StringVar(&repAssetDir, "asset-dir", "", "directory for rendered figures (default output_dir)")
}
