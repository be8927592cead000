package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"points/internal/logger"
	"points/internal/scoring"
	"points/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Long: `Start an HTTP server exposing:

  GET  /         health check
  POST /extract  {"imageBase64": "...", "docType": "marksheet|certificate", "stream": "..."}

The OCR engine and timeout come from OCR_ENGINE and OCR_TIMEOUT_SECONDS.`,
	Example: `  # Listen on the configured SERVER_ADDR
  points serve

  # Listen on a custom port
  points serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: SERVER_ADDR)")
	serveCmd.Flags().StringP("engine", "e", "", "OCR engine: vision, documentai or tesseract (default: OCR_ENGINE)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	addr, _ := cmd.Flags().GetString("addr")
	engineName, _ := cmd.Flags().GetString("engine")
	if addr == "" {
		addr = appConfig.ServerAddr
	}

	ctx, cancel := createContextWithTimeout(cmd.Context(), 0, log)
	defer cancel()

	engine, err := createEngine(ctx, engineName, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	timeout := time.Duration(appConfig.OCRTimeoutSeconds) * time.Second
	srv := server.New(scoring.NewService(engine, appConfig.DefaultStream), timeout)

	log.Info().
		Str("addr", addr).
		Str("engine", engine.Name()).
		Dur("timeout", timeout).
		Msg("Starting HTTP server")

	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	log.Info().Msg("HTTP server stopped")
	return nil
}
