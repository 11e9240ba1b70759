package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <table>",
	Short: "Scan every live record in a table",
	Long: `Scan every live record in a table, one JSON object per line prefixed
with its record id. Records that no longer decode against the schema are
reported and skipped.

Example:
  valkyr scan Employee`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat, ok := catalogFromContext(cmd)
		if !ok {
			cmd.Println("Error: catalog not found in context")
			return
		}

		tbl, err := cat.Table(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		sc := tbl.Scan()
		defer sc.Close()
		for sc.Next() {
			item := sc.Item()
			if item.Err != nil {
				cmd.Printf("%s\t<skipped: %v>\n", item.RID, item.Err)
				continue
			}
			out, err := json.Marshal(item.Record.Native())
			if err != nil {
				cmd.Printf("%s\t<skipped: %v>\n", item.RID, err)
				continue
			}
			cmd.Printf("%s\t%s\n", item.RID, out)
		}
		if err := sc.Err(); err != nil {
			cmd.Printf("Error scanning table: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
