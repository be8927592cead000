package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"points/internal/logger"
	"points/internal/ocr"
	"points/internal/scoring"
	"points/pkg/models"
	"points/pkg/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file]",
	Short: "Extract text from a document image and score it",
	Long: `Run OCR on a marksheet or certificate image and score the extracted text.

Supported image formats are PNG, JPEG, GIF, BMP, TIFF and WebP up to 20MB.
The OCR engine is chosen with --engine or OCR_ENGINE:

  vision      Google Cloud Vision document text detection
  documentai  Google Document AI OCR processor
              (needs GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID)
  tesseract   local Tesseract installation

Google engines need credentials:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Score a marksheet scan with Google Cloud Vision
  points extract marksheet.png --type marksheet

  # Score a certificate with local Tesseract and save the result
  points extract certificate.jpg --type certificate --engine tesseract -o result.json

  # Process with a custom timeout
  points extract scan.tiff --type marksheet --stream Humanities --timeout 120`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// errFileMissing signals that the missing-file result was already written.
var errFileMissing = errors.New("input file missing")

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("type", "t", "", "Document type: marksheet or certificate (required)")
	extractCmd.Flags().StringP("stream", "s", "", "Academic stream (default: DEFAULT_STREAM)")
	extractCmd.Flags().StringP("engine", "e", "", "OCR engine: vision, documentai or tesseract (default: OCR_ENGINE)")
	extractCmd.Flags().Int("timeout", 0, "Processing timeout in seconds (default: OCR_TIMEOUT_SECONDS)")
	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	_ = extractCmd.MarkFlagRequired("type")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	docType, _ := cmd.Flags().GetString("type")
	stream, _ := cmd.Flags().GetString("stream")
	engineName, _ := cmd.Flags().GetString("engine")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	outputPath, _ := cmd.Flags().GetString("output")

	if timeoutSecs <= 0 {
		timeoutSecs = appConfig.OCRTimeoutSeconds
	}
	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("type", docType).
		Str("engine", engineName).
		Int("timeout", timeoutSecs).
		Msg("Starting extraction")

	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		log.Error().Str("file", imagePath).Msg("Image file not found")
		missing := &models.ScoreResult{Error: "File missing at runtime: " + imagePath}
		if err := writeResult(cmd.OutOrStdout(), missing, outputPath, true, log); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", errFileMissing, imagePath)
	}

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second, log)
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

	imageFile, err := os.Open(imagePath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", imagePath).
			Msg("Failed to open image file")
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer func() {
		if closeErr := imageFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close image file")
		}
	}()

	svc := scoring.NewService(engine, appConfig.DefaultStream)
	result, err := svc.ScoreImage(ctx, imageFile, services.ScoreOptions{DocType: docType, Stream: stream})
	if err != nil {
		return handleOCRError(err, log)
	}

	if err := writeResult(cmd.OutOrStdout(), result, outputPath, true, log); err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("scoring failed: %s", result.Error)
	}
	return nil
}

// validateImageFile checks that the file is a readable, non-empty regular
// file within the size limit.
func validateImageFile(imagePath string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsPermission(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Permission denied accessing image file")
			return fmt.Errorf("permission denied accessing image file: %s", imagePath)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", imagePath).
			Msg("Path is not a regular file")
		return fmt.Errorf("path is not a regular file: %s", imagePath)
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", imagePath).
			Msg("Image file is empty")
		return fmt.Errorf("image file is empty: %s", imagePath)
	}

	if fileInfo.Size() > ocr.MaxImageSizeBytes {
		log.Error().
			Str("file", imagePath).
			Int64("size", fileInfo.Size()).
			Int64("max_size", ocr.MaxImageSizeBytes).
			Msg("Image file exceeds maximum size limit")
		return fmt.Errorf("image file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), ocr.MaxImageSizeBytes)
	}

	return nil
}

// createContextWithTimeout derives a context that is canceled on timeout or
// on SIGINT/SIGTERM. A zero timeout disables the deadline.
func createContextWithTimeout(parent context.Context, timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// createEngine builds the configured OCR engine, overriding its name with
// engineName when set.
func createEngine(ctx context.Context, engineName string, log zerolog.Logger) (ocr.Engine, error) {
	cfg := appConfig.GetEngineConfig(engineName)

	engine, err := ocr.NewEngine(ctx, cfg)
	if err != nil {
		switch {
		case errors.Is(err, ocr.ErrMissingCredentials):
			log.Error().
				Err(err).
				Msg("Google Cloud credentials validation failed")
			return nil, fmt.Errorf("Google Cloud credentials validation failed. Please verify:\n\n" +
				"1. GOOGLE_APPLICATION_CREDENTIALS points to a readable service account JSON file, OR\n" +
				"2. GOOGLE_CREDENTIALS contains valid inline JSON, OR\n" +
				"3. Application Default Credentials are configured (gcloud auth application-default login)\n\n" +
				"Original error: %w", err)
		case errors.Is(err, ocr.ErrInvalidConfiguration):
			log.Error().Err(err).Str("engine", cfg.Name).Msg("Invalid OCR engine configuration")
			return nil, fmt.Errorf("invalid OCR engine configuration. Document AI needs GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID: %w", err)
		case errors.Is(err, ocr.ErrUnknownEngine):
			return nil, fmt.Errorf("unknown OCR engine %q. Use vision, documentai or tesseract", cfg.Name)
		}
		log.Error().
			Err(err).
			Msg("Failed to create OCR engine")
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	log.Debug().Str("engine", engine.Name()).Msg("OCR engine created successfully")
	return engine, nil
}

// handleOCRError provides user-friendly error messages for OCR failures
func handleOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR processing timed out. Try increasing --timeout or using a smaller image")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR processing was canceled")
	case errors.Is(err, ocr.ErrImageTooLarge):
		return fmt.Errorf("image is too large (maximum 20MB). Try compressing or resizing it")
	case errors.Is(err, ocr.ErrUnsupportedFormat):
		return fmt.Errorf("unsupported image format. Use PNG, JPEG, GIF, BMP, TIFF or WebP: %w", err)
	case errors.Is(err, ocr.ErrEmptyImage):
		return fmt.Errorf("image file is empty")
	case errors.Is(err, ocr.ErrEmptyDocument):
		return fmt.Errorf("no readable text found in the image. The scan may be blank or too low quality")
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "auth:") ||
		strings.Contains(errStr, "transport: per-RPC creds failed"):
		return fmt.Errorf("Google Cloud authentication failed. Please check GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS.\n\n"+
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED") ||
		strings.Contains(errStr, "forbidden"):
		return fmt.Errorf("permission denied. Please ensure your service account can use the selected OCR API")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("OCR API quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, ocr.ErrOCRFailed):
		return fmt.Errorf("OCR processing failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("OCR processing failed: %w", err)
	}
}
