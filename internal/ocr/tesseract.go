package ocr

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// DefaultTesseractLanguage is used when no language is configured.
const DefaultTesseractLanguage = "eng"

// TesseractEngine implements Engine with a local Tesseract installation.
// Each call uses its own client, so the engine is safe for concurrent use.
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed engine.
func NewTesseractEngine(languages []string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{DefaultTesseractLanguage}
	}
	return &TesseractEngine{languages: languages, clientFactory: gosseract.NewClient}
}

// Name implements Engine.
func (t *TesseractEngine) Name() string { return EngineTesseract }

// ExtractText implements Engine. Tesseract cannot be interrupted once it
// starts, so ctx is only checked before recognition.
func (t *TesseractEngine) ExtractText(ctx context.Context, image io.Reader) (*Result, error) {
	const op = "Tesseract.ExtractText"
	startTime := time.Now()

	data, mime, err := readImage(op, image)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, WrapOCRError(op, err, "canceled before recognition")
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.languages...); err != nil {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("set languages %s: %v", strings.Join(t.languages, "+"), err))
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("set image: %v", err))
	}
	text, err := c.Text()
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("recognize text: %v", err))
	}

	result := &Result{
		Text:          text,
		Engine:        EngineTesseract,
		MimeType:      mime.String(),
		Confidence:    wordConfidence(c),
		LanguageCodes: t.languages,
	}
	return finish(op, result, startTime)
}

// wordConfidence averages Tesseract's per-word confidence, scaled to 0..1.
func wordConfidence(c *gosseract.Client) float32 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return float32(sum / float64(len(boxes)))
}

// Close implements Engine. Clients are per call, so there is nothing to release.
func (t *TesseractEngine) Close() error { return nil }
