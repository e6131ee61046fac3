package cmd

import (
	"vidarc/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gallery server",
	Long:  `Start the HTTP server serving the gallery API, the player socket, and uploaded media.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
