package cmd

import (
	"fmt"
	"os"

	"github.com/imcbsglobal/rrc-sync/cmd/sync"
	"github.com/imcbsglobal/rrc-sync/cmd/tables"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rrcsync",
	Short: "Pushes tables from the legacy RRC database to the RRC API server",
	Long:  `rrcsync extracts the configured tables from the on-premise RRC database and fully replaces their counterparts on the remote API server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sync.Command())
	rootCmd.AddCommand(tables.Command())
}
