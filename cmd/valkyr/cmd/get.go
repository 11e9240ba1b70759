package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyrdb/pkg/heap"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <table> <rid>",
	Short: "Get a record by its record id",
	Long: `Get a record by its record id, printed as "page.slot".

Example:
  valkyr get Employee 0.2`,
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

		rid, err := heap.ParseRID(args[1])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		rec, err := tbl.Get(rid)
		if err != nil {
			cmd.Printf("Error getting record: %v\n", err)
			return
		}

		out, err := json.Marshal(rec.Native())
		if err != nil {
			cmd.Printf("Error encoding record: %v\n", err)
			return
		}
		cmd.Printf("%s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
