package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mojtabanasehzadeh/music-distribution-service/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  "Start the music distribution HTTP server, serving the API and the websocket event feed",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
