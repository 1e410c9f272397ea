package tables

import (
	"fmt"

	"github.com/imcbsglobal/rrc-sync/tablespec"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var showQueries bool
	cmd := &cobra.Command{
		Use:  "tables",
		Long: `Lists the tables this tool knows how to extract and their targets on the API server.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range tablespec.Names() {
				t, _ := tablespec.Lookup(name)
				if _, err := fmt.Fprintln(out, t.SafeString()); err != nil {
					return err
				}
				if showQueries {
					if _, err := fmt.Fprintln(out, t.Query); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(
		&showQueries,
		"queries",
		false,
		"also print each table's extraction query",
	)
	return cmd
}
