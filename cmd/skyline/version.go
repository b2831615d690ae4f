package main

import (
	"fmt"

	"github.com/sandevgo/skyline/internal/core"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Skyline version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n%s\n", core.SkylineName, core.SkylineVersion, core.SkylineRepositoryURL)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
