package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/canvas"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of canvas",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "canvas version %s\n", canvas.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
