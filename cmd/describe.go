package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
)

var (
	descInput inputFlags
	descRaw   bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print descriptive statistics of every column",
	Long: `describe normalizes every column the way detect does (unless --raw) and prints
count, mean, std, min, quartiles and max for numbers, and count, unique, top and
freq for everything else.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := descInput.load(args[0])
		if err != nil {
			return err
		}
		if !descRaw {
			if _, err := newClassifier().Detect(tbl, false); err != nil {
				return err
			}
		}
		s := analysis.Describe(tbl)
		tw := tablewriter.NewWriter(cmd.OutOrStdout())
		tw.SetHeader(s.Header())
		tw.SetAutoFormatHeaders(false)
		tw.SetBorder(false)
		tw.AppendBulk(s.Rows())
		tw.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descInput.register(describeCmd)
	describeCmd.Flags().BoolVar(&descRaw, "raw", false, "describe columns as loaded, without type normalization")
}
