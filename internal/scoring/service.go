package scoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"points/internal/logger"
	"points/internal/marksheet"
	"points/internal/ocr"
	"points/pkg/models"
	"points/pkg/services"
)

// ErrNoEngine is returned by ScoreImage when the service has no OCR engine.
var ErrNoEngine = errors.New("no OCR engine configured")

// Service implements services.ScoringService on top of Route.
type Service struct {
	engine        ocr.Engine
	defaultStream marksheet.Stream
	log           zerolog.Logger
}

var _ services.ScoringService = (*Service)(nil)

// NewService creates a scoring service. engine may be nil when only
// pre-extracted text is scored. defaultStream applies to marksheets whose
// request carries no stream.
func NewService(engine ocr.Engine, defaultStream string) *Service {
	return &Service{
		engine:        engine,
		defaultStream: marksheet.ParseStream(defaultStream),
		log:           logger.WithComponent("scoring"),
	}
}

// SupportedDocType reports whether docType selects a scoring pipeline.
func SupportedDocType(docType string) bool {
	switch strings.ToLower(strings.TrimSpace(docType)) {
	case models.DocTypeMarksheet, models.DocTypeCertificate:
		return true
	}
	return false
}

// Score implements services.ScoringService.
func (s *Service) Score(ctx context.Context, text string, opts services.ScoreOptions) *models.ScoreResult {
	log := s.logger(ctx)

	stream := s.defaultStream
	if strings.TrimSpace(opts.Stream) != "" {
		stream = marksheet.ParseStream(opts.Stream)
	}

	result := Route(opts.DocType, text, stream)
	if result.Failed() {
		log.Warn().
			Str("doc_type", opts.DocType).
			Str("error", result.Error).
			Msg("Document not scored")
		return &result
	}

	event := log.Info().
		Str("doc_type", result.Type).
		Float64("points", result.Points).
		Int("text_length", len(text))
	switch result.Type {
	case models.DocTypeMarksheet:
		event = event.Str("stream", result.Stream).Int("semesters", len(result.SGPAs))
		if result.CGPA != nil {
			event = event.Float64("cgpa", *result.CGPA)
		}
	case models.DocTypeCertificate:
		event = event.
			Str("category", result.Category).
			Str("cert_type", result.CertType).
			Str("rank", result.Rank)
	}
	event.Msg("Document scored")

	return &result
}

// ScoreImage implements services.ScoringService. Unknown document types are
// rejected before any OCR call is made.
func (s *Service) ScoreImage(ctx context.Context, image io.Reader, opts services.ScoreOptions) (*models.ScoreResult, error) {
	const op = "ScoreImage"

	if !SupportedDocType(opts.DocType) {
		return s.Score(ctx, "", opts), nil
	}
	if s.engine == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoEngine)
	}

	log := s.logger(ctx)
	log.Debug().
		Str("engine", s.engine.Name()).
		Str("doc_type", opts.DocType).
		Msg("Running OCR")

	extracted, err := s.engine.ExtractText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug().
		Str("engine", extracted.Engine).
		Float32("confidence", extracted.Confidence).
		Dur("duration", extracted.ProcessingDuration).
		Msg("OCR completed")

	return s.Score(ctx, extracted.Text, opts), nil
}

func (s *Service) logger(ctx context.Context) zerolog.Logger {
	if zerolog.Ctx(ctx).GetLevel() != zerolog.Disabled {
		return logger.FromContext(ctx, "scoring")
	}
	return s.log
}
