package main

import (
	"context"
	"os"

	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "skyline",
	Short: "Skyline — a travel and weather assistant",
	Long:  `Skyline answers travel and weather questions over an HTTP API, grounding its replies in live forecast data.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
