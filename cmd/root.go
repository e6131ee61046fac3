package cmd

import (
	"fmt"
	"os"

	"vidarc/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vidarc",
	Short: "Vidarc is a personal video gallery service.",
	Run: func(cmd *cobra.Command, args []string) {
		// server.Start handles its own configuration and logging setup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
