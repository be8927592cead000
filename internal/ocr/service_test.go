package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReadImage(t *testing.T) {
	req := require.New(t)

	data, mime, err := readImage("test", bytes.NewReader(pngBytes(t)))
	req.NoError(err)
	req.NotEmpty(data)
	req.Equal("image/png", mime.String())

	_, _, err = readImage("test", bytes.NewReader(nil))
	req.ErrorIs(err, ErrEmptyImage)

	_, _, err = readImage("test", strings.NewReader("plain text is not an image"))
	req.ErrorIs(err, ErrUnsupportedFormat)

	_, _, err = readImage("test", bytes.NewReader(make([]byte, MaxImageSizeBytes+1)))
	req.ErrorIs(err, ErrImageTooLarge)
}

func TestWrapOCRError(t *testing.T) {
	req := require.New(t)

	req.NoError(WrapOCRError("op", nil, ""))

	err := WrapOCRError("ExtractText", ErrOCRFailed, "backend down")
	req.ErrorIs(err, ErrOCRFailed)
	req.Equal("ocr: ExtractText failed: backend down: OCR processing failed", err.Error())

	// Already wrapped errors keep their original operation.
	again := WrapOCRError("Outer", err, "ignored")
	var ocrErr *OCRError
	req.True(errors.As(again, &ocrErr))
	req.Equal("ExtractText", ocrErr.Op)

	req.Equal("ocr: Op failed: no image provided", NewOCRError("Op", ErrEmptyImage, "").Error())
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(context.Background(), EngineConfig{Name: "abbyy"})
	require.ErrorIs(t, err, ErrUnknownEngine)

	e, err := NewEngine(context.Background(), EngineConfig{Name: "Tesseract"})
	require.NoError(t, err)
	require.Equal(t, EngineTesseract, e.Name())
	require.NoError(t, e.Close())

	_, err = NewEngine(context.Background(), EngineConfig{Name: EngineDocumentAI})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewTesseractEngine_DefaultLanguage(t *testing.T) {
	require.Equal(t, []string{DefaultTesseractLanguage}, NewTesseractEngine(nil).languages)
	require.Equal(t, []string{"eng", "hin"}, NewTesseractEngine([]string{"eng", "hin"}).languages)
}

func TestTesseractEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTesseractEngine(nil).ExtractText(ctx, bytes.NewReader(pngBytes(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessorName(t *testing.T) {
	require.Equal(t, "projects/p/locations/eu/processors/123", ProcessorName("p", "eu", "123"))
}

func TestVisionResult(t *testing.T) {
	req := require.New(t)

	annotation := &visionpb.TextAnnotation{
		Text: "SEMESTER GRADE CARD\nI 20 20 8.1 8.1 PASSED",
		Pages: []*visionpb.Page{
			{
				Confidence: 0.9,
				Property: &visionpb.TextAnnotation_TextProperty{
					DetectedLanguages: []*visionpb.TextAnnotation_DetectedLanguage{{LanguageCode: "en"}},
				},
			},
			{Confidence: 0.7},
		},
	}

	result := visionResult(annotation)
	req.Equal(EngineVision, result.Engine)
	req.Equal(annotation.Text, result.Text)
	req.InDelta(0.8, result.Confidence, 0.0001)
	req.Equal([]string{"en"}, result.LanguageCodes)

	req.Empty(visionResult(nil).Text)
}

func TestDocumentResult(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Certificate of Merit",
		Pages: []*documentaipb.Document_Page{
			{
				Layout: &documentaipb.Document_Page_Layout{Confidence: 0.95},
				DetectedLanguages: []*documentaipb.Document_Page_DetectedLanguage{
					{LanguageCode: "en"}, {LanguageCode: "hi"},
				},
			},
		},
	}

	result := documentResult(doc)
	require.Equal(t, "Certificate of Merit", result.Text)
	require.InDelta(t, 0.95, result.Confidence, 0.0001)
	require.Equal(t, []string{"en", "hi"}, result.LanguageCodes)
}

func TestFinish(t *testing.T) {
	_, err := finish("op", &Result{Engine: EngineVision, Text: " \n "}, time.Now())
	require.ErrorIs(t, err, ErrEmptyDocument)

	start := time.Now().Add(-time.Second)
	res, err := finish("op", &Result{Text: "text"}, start)
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.ProcessingDuration, time.Second)
}

func TestCtxErr(t *testing.T) {
	require.Equal(t, context.DeadlineExceeded, ctxErr(fmt.Errorf("wrap: %w", context.DeadlineExceeded)))
	require.Equal(t, context.Canceled, ctxErr(errors.New("rpc error: code = Canceled desc = context canceled")))
	require.NoError(t, ctxErr(errors.New("rpc error: code = Internal")))
}
