// Package server exposes the scoring service over HTTP as a JSON API for
// document images.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"points/internal/logger"
	"points/internal/ocr"
	"points/pkg/services"
)

// maxBodyBytes fits a base64 encoded image of ocr.MaxImageSizeBytes.
const maxBodyBytes = ocr.MaxImageSizeBytes/3*4 + 64*1024

// Error messages returned in the "error" field.
const (
	MsgNoImage        = "No image provided"
	MsgInvalidImage   = "Image is not valid base64"
	MsgInvalidRequest = "Request body must be a JSON object"
	MsgTimeout        = "OCR processing timed out"
)

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	ImageBase64 string `json:"imageBase64" validate:"required,base64"`
	DocType     string `json:"docType"`
	Stream      string `json:"stream,omitempty"`
}

// Server serves the scoring HTTP API.
type Server struct {
	scorer   services.ScoringService
	timeout  time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

// New creates a server. timeout bounds OCR and scoring per request.
func New(scorer services.ScoringService, timeout time.Duration) *Server {
	return &Server{
		scorer:   scorer,
		timeout:  timeout,
		validate: validator.New(),
		log:      logger.WithComponent("server"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /extract", s.handleExtract)
	return s.withRequestID(mux)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OCR Service Running"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), "server")

	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid request body")
		writeError(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidImage)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.scorer.ScoreImage(ctx, bytesReader(image), services.ScoreOptions{
		DocType: req.DocType,
		Stream:  req.Stream,
	})
	if err != nil {
		status, msg := errorStatus(err)
		log.Error().Err(err).Int("status", status).Msg("Extraction failed")
		writeError(w, status, msg)
		return
	}

	status := http.StatusOK
	if result.Failed() {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

// withRequestID tags each request with an ID, echoed in X-Request-ID and
// attached to the request logger.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		l := logger.WithRequestID(id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))

		l.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "ImageBase64" {
				if fe.Tag() == "required" {
					return MsgNoImage
				}
				return MsgInvalidImage
			}
		}
	}
	return err.Error()
}

// errorStatus maps collaborator failures to HTTP statuses.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, MsgTimeout
	case errors.Is(err, ocr.ErrEmptyImage):
		return http.StatusBadRequest, MsgNoImage
	case errors.Is(err, ocr.ErrUnsupportedFormat),
		errors.Is(err, ocr.ErrImageTooLarge):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ocr.ErrEmptyDocument):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
