package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
	"github.com/KaramelBytes/reportgen-cli/internal/utils"
)

var (
	distInput     inputFlags
	distColumn    string
	distBins      int
	distNoHist    bool
	distNoKDE     bool
	distCounts    bool
	distBandwidth string
	distBWFactor  float64
	distGridSize  int
	distClip      string
	distJSON      bool
)

var distCmd = &cobra.Command{
	Use:   "dist <file>",
	Short: "Estimate the histogram and kernel density of a numeric column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if distColumn == "" {
			return fmt.Errorf("--column is required")
		}
		tbl, err := distInput.load(args[0])
		if err != nil {
			return err
		}
		col, err := tbl.Column(distColumn)
		if err != nil {
			return err
		}
		if !col.Kind.IsNumeric() {
			// percent strings and the like become numeric once classified
			if _, col, err = newClassifier().ClassifyCopy(tbl, distColumn); err != nil {
				return err
			}
			if !col.Kind.IsNumeric() {
				return fmt.Errorf("column %q holds %s values, not numbers", distColumn, col.Kind)
			}
		}

		opt := currentConfig().DistOptions()
		opt.Hist, opt.KDE = !distNoHist, !distNoKDE
		opt.Bins = distBins
		if distCounts {
			opt.NormHist = false
		}
		if distBandwidth != "" {
			opt.Bandwidth = analysis.BandwidthMethod(strings.ToLower(distBandwidth))
		}
		opt.BandwidthFactor = distBWFactor
		if distGridSize > 0 {
			opt.GridSize = distGridSize
		}
		if distClip != "" {
			r, err := parseClip(distClip)
			if err != nil {
				return err
			}
			opt.Clip = r
		}

		d, err := analysis.Distributions(col.Numbers(), opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if d == nil {
			fmt.Fprintln(out, "nothing to estimate (both --no-hist and --no-kde set)")
			return nil
		}
		if distJSON {
			b, err := utils.PrettyJSON(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if d.Hist != nil {
			tw := tablewriter.NewWriter(out)
			tw.SetHeader([]string{"from", "to", distColumn})
			tw.SetAutoFormatHeaders(false)
			tw.SetBorder(false)
			for i, c := range d.Hist.Counts {
				tw.Append([]string{fmtNum(d.Hist.Edges[i]), fmtNum(d.Hist.Edges[i+1]), fmtNum(c)})
			}
			tw.Render()
		}
		if d.KDE != nil {
			mode, peak := 0, 0.0
			for i, v := range d.KDE.Values {
				if v > peak {
					mode, peak = i, v
				}
			}
			fmt.Fprintf(out, "kde: bandwidth %s, %d points over [%s, %s], mode %s (density %s)\n",
				fmtNum(d.KDE.Bandwidth), len(d.KDE.Grid),
				fmtNum(d.KDE.Grid[0]), fmtNum(d.KDE.Grid[len(d.KDE.Grid)-1]),
				fmtNum(d.KDE.Grid[mode]), fmtNum(peak))
		}
		return nil
	},
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// parseClip reads "lo,hi"; either side may be empty for an open bound.
func parseClip(s string) (*analysis.Range, error) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid --clip %q (use lo,hi)", s)
	}
	r := &analysis.Range{Lo: math.Inf(-1), Hi: math.Inf(1)}
	if v := strings.TrimSpace(lo); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --clip lower bound: %w", err)
		}
		r.Lo = f
	}
	if v := strings.TrimSpace(hi); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --clip upper bound: %w", err)
		}
		r.Hi = f
	}
	if r.Lo >= r.Hi {
		return nil, fmt.Errorf("invalid --clip %q: lower bound must be below upper bound", s)
	}
	return r, nil
}

func init() {
	rootCmd.AddCommand(distCmd)
	distInput.register(distCmd)
	distCmd.Flags().StringVarP(&distColumn, "column", "c", "", "numeric column to estimate")
	distCmd.Flags().IntVar(&distBins, "bins", 0, "histogram bins (0 = Freedman-Diaconis, capped by max_bins)")
	distCmd.Flags().BoolVar(&distNoHist, "no-hist", false, "skip the histogram")
	distCmd.Flags().BoolVar(&distNoKDE, "no-kde", false, "skip the kernel density estimate")
	distCmd.Flags().BoolVar(&distCounts, "counts", false, "report raw bin counts instead of fractions")
	distCmd.Flags().StringVar(&distBandwidth, "bandwidth", "scott", "kernel bandwidth rule: scott | silverman")
	distCmd.Flags().Float64Var(&distBWFactor, "bw-factor", 0, "fixed bandwidth factor (overrides --bandwidth)")
	distCmd.Flags().IntVar(&distGridSize, "grid-size", 0, "density evaluation points (default from config)")
	distCmd.Flags().StringVar(&distClip, "clip", "", "bound the density grid: lo,hi (either side may be empty)")
	distCmd.Flags().BoolVar(&distJSON, "json", false, "print the estimate as JSON")
}
