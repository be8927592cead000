package services

import (
	"context"
	"io"

	"points/pkg/models"
)

// ScoringService turns marksheet and certificate documents into points.
type ScoringService interface {
	// Score classifies and scores text that has already been through OCR.
	// It never fails: input problems are reported in ScoreResult.Error.
	Score(ctx context.Context, text string, opts ScoreOptions) *models.ScoreResult

	// ScoreImage runs OCR on an image and scores the extracted text.
	// Errors are OCR or I/O failures; scoring itself never fails.
	ScoreImage(ctx context.Context, image io.Reader, opts ScoreOptions) (*models.ScoreResult, error)
}

// ScoreOptions selects the scoring pipeline.
type ScoreOptions struct {
	// DocType is "marksheet" or "certificate", matched case-insensitively.
	DocType string `json:"docType"`

	// Stream is the academic track for marksheets. Empty means the default.
	Stream string `json:"stream,omitempty"`
}
