package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var typesInput inputFlags

var typesCmd = &cobra.Command{
	Use:   "types <file>",
	Short: "Print the inferred type of every column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := typesInput.load(args[0])
		if err != nil {
			return err
		}
		types, err := newClassifier().TypeOfVar(tbl)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range tbl.Names() {
			if vt, ok := types[name]; ok {
				fmt.Fprintf(out, "%s: %s\n", name, vt)
			} else {
				fmt.Fprintf(out, "%s: (skipped)\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesInput.register(typesCmd)
}
