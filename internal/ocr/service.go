// Package ocr turns document images into plain text for scoring.
//
// Three engines are available:
//   - vision: Google Cloud Vision document text detection
//   - documentai: a Google Document AI OCR processor
//   - tesseract: a local Tesseract installation through gosseract
//
// Google engines read credentials from the environment:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Engines only extract text. They do not enhance or preprocess images; the
// scoring pipeline repairs common recognition artifacts afterwards.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSizeBytes is the largest image accepted by any engine (20MB).
const MaxImageSizeBytes = 20 * 1024 * 1024

// Engine names accepted by NewEngine.
const (
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
	EngineTesseract  = "tesseract"
)

// Engine extracts text from a single document image.
type Engine interface {
	// Name identifies the engine in logs and results.
	Name() string

	// ExtractText runs OCR on the image and returns the recognized text.
	ExtractText(ctx context.Context, image io.Reader) (*Result, error)

	// Close releases backend clients.
	Close() error
}

// Result contains the text extracted from one image.
type Result struct {
	// Text is the raw recognized text in reading order.
	Text string `json:"text"`

	// Engine is the name of the engine that produced the text.
	Engine string `json:"engine"`

	// MimeType is the detected type of the input image.
	MimeType string `json:"mime_type"`

	// Confidence is the average confidence reported by the engine (0.0 to 1.0).
	// Zero when the engine reports none.
	Confidence float32 `json:"confidence"`

	// LanguageCodes contains the detected languages.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is when OCR completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long OCR took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// EngineConfig selects and configures an engine.
type EngineConfig struct {
	Name string

	// Languages are Tesseract language codes, or Vision language hints.
	Languages []string

	// Document AI settings
	ProjectID   string
	Location    string
	ProcessorID string
}

// NewEngine constructs the engine named in cfg.
func NewEngine(ctx context.Context, cfg EngineConfig) (Engine, error) {
	const op = "NewEngine"

	switch strings.ToLower(cfg.Name) {
	case EngineVision, "":
		return NewGoogleVisionEngine(ctx, cfg.Languages)
	case EngineDocumentAI:
		return NewDocumentAIEngine(ctx, cfg)
	case EngineTesseract:
		return NewTesseractEngine(cfg.Languages), nil
	default:
		return nil, WrapOCRError(op, ErrUnknownEngine, fmt.Sprintf("engine: %q", cfg.Name))
	}
}

// supportedTypes are the image formats every engine can read.
var supportedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/tiff",
	"image/webp",
}

// readImage buffers the image and checks its size and format.
func readImage(op string, image io.Reader) ([]byte, *mimetype.MIME, error) {
	data, err := io.ReadAll(io.LimitReader(image, MaxImageSizeBytes+1))
	if err != nil {
		return nil, nil, WrapOCRError(op, err, "failed to read image data")
	}
	if len(data) == 0 {
		return nil, nil, WrapOCRError(op, ErrEmptyImage, "")
	}
	if len(data) > MaxImageSizeBytes {
		return nil, nil, WrapOCRError(op, ErrImageTooLarge, fmt.Sprintf("more than %d bytes", MaxImageSizeBytes))
	}

	mime := mimetype.Detect(data)
	if !isSupported(mime) {
		return nil, nil, WrapOCRError(op, ErrUnsupportedFormat, fmt.Sprintf("detected %s", mime.String()))
	}
	return data, mime, nil
}

func isSupported(mime *mimetype.MIME) bool {
	for _, t := range supportedTypes {
		if mime.Is(t) {
			return true
		}
	}
	return false
}

// finish validates extracted text and stamps timing information.
func finish(op string, result *Result, started time.Time) (*Result, error) {
	if strings.TrimSpace(result.Text) == "" {
		return nil, WrapOCRError(op, ErrEmptyDocument, result.Engine)
	}
	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(started)
	return result, nil
}

// ctxErr reports whether a backend error was caused by cancellation or a
// deadline. gRPC status errors do not always unwrap to the context errors.
func ctxErr(err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "DeadlineExceeded"),
		strings.Contains(msg, "context deadline exceeded"):
		return context.DeadlineExceeded
	case errors.Is(err, context.Canceled),
		strings.Contains(msg, "Canceled"),
		strings.Contains(msg, "context canceled"):
		return context.Canceled
	}
	return nil
}
