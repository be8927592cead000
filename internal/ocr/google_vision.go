package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// GoogleVisionEngine implements Engine using Google Cloud Vision document
// text detection.
type GoogleVisionEngine struct {
	client        *vision.ImageAnnotatorClient
	languageHints []string
}

// NewGoogleVisionEngine creates a Vision engine with credentials from the
// environment. languageHints may be empty.
func NewGoogleVisionEngine(ctx context.Context, languageHints []string) (*GoogleVisionEngine, error) {
	const op = "NewGoogleVisionEngine"

	opts, err := googleClientOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	return NewGoogleVisionEngineWithClient(client, languageHints), nil
}

// NewGoogleVisionEngineWithClient creates a Vision engine with an explicit client.
func NewGoogleVisionEngineWithClient(client *vision.ImageAnnotatorClient, languageHints []string) *GoogleVisionEngine {
	return &GoogleVisionEngine{
		client:        client,
		languageHints: languageHints,
	}
}

// Name implements Engine.
func (g *GoogleVisionEngine) Name() string { return EngineVision }

// ExtractText implements Engine.
func (g *GoogleVisionEngine) ExtractText(ctx context.Context, image io.Reader) (*Result, error) {
	const op = "GoogleVision.ExtractText"
	startTime := time.Now()

	data, mime, err := readImage(op, image)
	if err != nil {
		return nil, err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{LanguageHints: g.languageHints},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if cerr := ctxErr(err); cerr != nil {
			return nil, WrapOCRError(op, cerr, "processing interrupted")
		}
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrOCRFailed, "no response from Vision API")
	}

	imgResp := resp.Responses[0]
	if imgResp.Error != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", imgResp.Error.Message))
	}

	result := visionResult(imgResp.FullTextAnnotation)
	result.MimeType = mime.String()
	return finish(op, result, startTime)
}

// visionResult collects text, page confidence and detected languages.
func visionResult(annotation *visionpb.TextAnnotation) *Result {
	result := &Result{Engine: EngineVision}
	if annotation == nil {
		return result
	}
	result.Text = annotation.Text

	var confidenceSum float32
	languages := make(map[string]bool)
	for _, page := range annotation.Pages {
		confidenceSum += page.Confidence
		if page.Property == nil {
			continue
		}
		for _, lang := range page.Property.DetectedLanguages {
			if lang.LanguageCode != "" {
				languages[lang.LanguageCode] = true
			}
		}
	}
	if len(annotation.Pages) > 0 {
		result.Confidence = confidenceSum / float32(len(annotation.Pages))
	}
	result.LanguageCodes = sortedKeys(languages)
	return result
}

// Close closes the underlying Vision client.
func (g *GoogleVisionEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// googleClientOptions prefers inline credentials over a credentials file.
// With neither set the client falls back to application default credentials.
func googleClientOptions() ([]option.ClientOption, error) {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}, nil
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		if _, err := os.Stat(credFile); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
		}
		return []option.ClientOption{option.WithCredentialsFile(credFile)}, nil
	}
	return nil, nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, strings.ToLower(k))
	}
	sort.Strings(keys)
	return keys
}
