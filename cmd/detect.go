package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportgen-cli/internal/utils"
)

var (
	detInput     inputFlags
	detNoCombine bool
	detJSON      bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Classify columns and merge consecutively numbered runs into groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := detInput.load(args[0])
		if err != nil {
			return err
		}
		det, err := newClassifier().Detect(tbl, !detNoCombine)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if detJSON {
			b, err := utils.PrettyJSON(det)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		tw := tablewriter.NewWriter(out)
		tw.SetHeader([]string{"variable", "type", "ordered", "members"})
		tw.SetAutoFormatHeaders(false)
		tw.SetBorder(false)
		for _, v := range det.Variables {
			tw.Append([]string{v.Name, string(v.VType), strconv.FormatBool(v.Ordered), strings.Join(v.Members, ", ")})
		}
		tw.Render()
		if len(det.Skipped) > 0 {
			fmt.Fprintf(out, "skipped: %s\n", strings.Join(det.Skipped, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detInput.register(detectCmd)
	detectCmd.Flags().BoolVar(&detNoCombine, "no-combine", false, "do not merge numbered runs into group_number variables")
	detectCmd.Flags().BoolVar(&detJSON, "json", false, "print the detection as JSON")
}
