package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"points/internal/config"
	"points/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute before any command runs.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "points",
	Short: "Points CLI - score marksheets and certificates from OCR text",
	Long: `Points CLI turns OCR text from academic marksheets and
extracurricular certificates into a points score between 0 and 5.

Text can be scored directly, extracted from an image with one of the
supported OCR engines, or submitted over HTTP with the serve command.`,
	Version:      version,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Points CLI executed")

		fmt.Println("Welcome to Points CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with cfg. A nil cfg keeps the defaults.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if cfg != nil {
		appConfig = cfg
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
