package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/valkyrdb/pkg/heap"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <table> <rid>",
	Short: "Delete a record by its record id",
	Long: `Delete a record by its record id. The slot becomes free space for
later inserts.

Example:
  valkyr delete Employee 0.2`,
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

		if err := tbl.Delete(rid); err != nil {
			cmd.Printf("Error deleting record: %v\n", err)
			return
		}

		cmd.Printf("deleted %s\n", rid)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
