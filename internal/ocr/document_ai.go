package ocr

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// DocumentAIEngine implements Engine using a Google Document AI OCR processor.
type DocumentAIEngine struct {
	client        *documentai.DocumentProcessorClient
	processorName string
}

// NewDocumentAIEngine creates a Document AI engine. cfg must carry the
// project and processor IDs; Location defaults to "us".
func NewDocumentAIEngine(ctx context.Context, cfg EngineConfig) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if cfg.ProjectID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if cfg.ProcessorID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}

	opts, err := googleClientOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}
	hasCredentials := len(opts) > 0

	// Processors outside the US multi-region are served from regional endpoints.
	if cfg.Location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		if !hasCredentials {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", cfg.Location))
	}

	return &DocumentAIEngine{
		client:        client,
		processorName: ProcessorName(cfg.ProjectID, cfg.Location, cfg.ProcessorID),
	}, nil
}

// ProcessorName builds the fully qualified Document AI processor name.
func ProcessorName(projectID, location, processorID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID)
}

// Name implements Engine.
func (d *DocumentAIEngine) Name() string { return EngineDocumentAI }

// ExtractText implements Engine.
func (d *DocumentAIEngine) ExtractText(ctx context.Context, image io.Reader) (*Result, error) {
	const op = "DocumentAI.ExtractText"
	startTime := time.Now()

	data, mime, err := readImage(op, image)
	if err != nil {
		return nil, err
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mime.String(),
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, d.handleProcessingError(op, err)
	}
	if resp.Document == nil {
		return nil, WrapOCRError(op, ErrOCRFailed, "no document in response")
	}

	result := documentResult(resp.Document)
	result.MimeType = mime.String()
	return finish(op, result, startTime)
}

func documentResult(doc *documentaipb.Document) *Result {
	result := &Result{Engine: EngineDocumentAI, Text: doc.Text}

	var confidenceSum float32
	var confidenceCount int
	languages := make(map[string]bool)
	for _, page := range doc.Pages {
		if page.Layout != nil && page.Layout.Confidence > 0 {
			confidenceSum += page.Layout.Confidence
			confidenceCount++
		}
		for _, lang := range page.DetectedLanguages {
			if lang.LanguageCode != "" {
				languages[lang.LanguageCode] = true
			}
		}
	}
	if confidenceCount > 0 {
		result.Confidence = confidenceSum / float32(confidenceCount)
	}
	result.LanguageCodes = sortedKeys(languages)
	return result
}

// handleProcessingError maps Document AI status strings onto OCR errors.
func (d *DocumentAIEngine) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"), strings.Contains(errStr, "Unauthenticated"):
		return WrapOCRError(op, ErrMissingCredentials, fmt.Sprintf("Document AI rejected credentials: %v", err))
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", d.processorName))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapOCRError(op, ErrUnsupportedFormat, "document format not supported or corrupted")
	case ctxErr(err) != nil:
		return WrapOCRError(op, ctxErr(err), "processing interrupted")
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (d *DocumentAIEngine) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
