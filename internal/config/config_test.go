package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DEFAULT_STREAM", "OCR_ENGINE", "OCR_TIMEOUT_SECONDS", "TESSERACT_LANGUAGES",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "DOCUMENT_AI_PROCESSOR_ID",
		"SERVER_ADDR", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_STREAM", "Humanities")
	t.Setenv("OCR_ENGINE", "Tesseract")
	t.Setenv("OCR_TIMEOUT_SECONDS", "15")
	t.Setenv("TESSERACT_LANGUAGES", "eng+hin")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Humanities", cfg.DefaultStream)
	require.Equal(t, "tesseract", cfg.OCREngine)
	require.Equal(t, 15, cfg.OCRTimeoutSeconds)
	require.Equal(t, []string{"eng", "hin"}, cfg.TesseractLanguages)
	require.Equal(t, "debug", cfg.GetLoggerConfig().Level)

	engine := cfg.GetEngineConfig("")
	require.Equal(t, "tesseract", engine.Name)
	require.Equal(t, []string{"eng", "hin"}, engine.Languages)
	require.Equal(t, "vision", cfg.GetEngineConfig("vision").Name)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown engine", env: map[string]string{"OCR_ENGINE": "abbyy"}},
		{name: "non numeric timeout", env: map[string]string{"OCR_TIMEOUT_SECONDS": "soon"}},
		{name: "zero timeout", env: map[string]string{"OCR_TIMEOUT_SECONDS": "0"}},
		{name: "document ai without project", env: map[string]string{"OCR_ENGINE": "documentai", "DOCUMENT_AI_PROCESSOR_ID": "abc"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_CLOUD_PROJECT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidate_DocumentAI(t *testing.T) {
	cfg := Default()
	cfg.OCREngine = "documentai"
	require.Error(t, cfg.Validate())

	cfg.GoogleCloudProject = "proj"
	cfg.DocumentAIProcessorID = "proc"
	require.NoError(t, cfg.Validate())
}
