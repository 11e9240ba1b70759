package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyrdb/pkg/codec"
)

// insertCmd represents the insert command
var insertCmd = &cobra.Command{
	Use:   "insert <table> <json>",
	Short: "Insert a record into a table",
	Long: `Insert a record into a table. The record is a JSON object whose keys
must match the table's fields exactly.

Example:
  valkyr insert Employee '{"id": 7, "name": "Bob", "salary": 5000.5}'`,
	Args: cobra.ExactArgs(2),
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

		var values map[string]any
		if err := json.Unmarshal([]byte(args[1]), &values); err != nil {
			cmd.Printf("Error parsing record JSON: %v\n", err)
			return
		}

		rec, err := codec.FromNative(tbl.Schema(), values)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		rid, err := tbl.Insert(rec)
		if err != nil {
			cmd.Printf("Error inserting record: %v\n", err)
			return
		}

		cmd.Printf("%s\n", rid)
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
}
