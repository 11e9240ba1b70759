package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyrdb/pkg/query"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <statement>",
	Short: "Run a SELECT or INSERT statement",
	Long: `Run a SELECT or INSERT statement against the open tables.

Examples:
  valkyr query "SELECT * FROM Employee"
  valkyr query "SELECT name, salary FROM Employee WHERE id = 7"
  valkyr query "INSERT INTO Employee (id, name, salary) VALUES (7, 'Bob', 5000.5)"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat, ok := catalogFromContext(cmd)
		if !ok {
			cmd.Println("Error: catalog not found in context")
			return
		}

		engine := query.NewEngine(cat, nil)
		result, err := engine.Execute(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		if result.RID != nil {
			cmd.Printf("%s\n", result.RID)
			return
		}
		for _, row := range result.Rows {
			out, err := json.Marshal(row.Values)
			if err != nil {
				cmd.Printf("%s\t<skipped: %v>\n", row.RID, err)
				continue
			}
			cmd.Printf("%s\t%s\n", row.RID, out)
		}
		cmd.Printf("(%d rows)\n", len(result.Rows))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
