// Package cmd holds the CLI entry points.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mojtabanasehzadeh/music-distribution-service/server"
)

var rootCmd = &cobra.Command{
	Use:   "music-distribution",
	Short: "Music distribution service for artists and labels",
	Run: func(cmd *cobra.Command, args []string) {
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
