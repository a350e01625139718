package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stlex/internal/token"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [--table keywords|types|functions]",
	Short: "List the words the classifier recognizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("table")
		tables := token.Tables()
		if name != "" {
			t, ok := token.LookupTable(name)
			if !ok {
				return fmt.Errorf("unknown table %q (expected keywords|types|functions)", name)
			}
			tables = []*token.Table{t}
		}

		out := cmd.OutOrStdout()
		header := color.New(color.Bold)
		for i, t := range tables {
			if len(tables) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				header.Fprintf(out, "%s (%d)\n", t.Name(), t.Len())
			}
			fmt.Fprintln(out, strings.Join(t.Words(), "\n"))
		}
		return nil
	},
}

func init() {
	keywordsCmd.Flags().String("table", "", "print only one table (keywords|types|functions)")
}
