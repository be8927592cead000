package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"points/internal/logger"
	"points/internal/ocr"
)

var validate = validator.New()

type Config struct {
	// Scoring Configuration
	DefaultStream string `validate:"required"`

	// OCR Configuration
	OCREngine          string `validate:"oneof=vision documentai tesseract"`
	OCRTimeoutSeconds  int    `validate:"gt=0"`
	TesseractLanguages []string

	// Google Cloud Configuration (Document AI engine)
	GoogleCloudProject    string `validate:"required_if=OCREngine documentai"`
	GoogleCloudLocation   string
	DocumentAIProcessorID string `validate:"required_if=OCREngine documentai"`

	// HTTP Server Configuration
	ServerAddr string `validate:"required"`

	// Logging Configuration
	LogLevel      string `validate:"oneof=trace debug info warn error fatal panic"`
	LogFormat     string `validate:"oneof=json console"`
	LogTimeFormat string
	LogOutput     string
}

// Default returns the configuration used when the environment sets nothing.
func Default() *Config {
	return &Config{
		DefaultStream:       "Sciences",
		OCREngine:           ocr.EngineVision,
		OCRTimeoutSeconds:   60,
		TesseractLanguages:  []string{ocr.DefaultTesseractLanguage},
		GoogleCloudLocation: "us",
		ServerAddr:          ":8080",
		LogLevel:            "info",
		LogFormat:           "console",
		LogTimeFormat:       "2006-01-02T15:04:05Z07:00",
		LogOutput:           "stderr",
	}
}

func Load() (*Config, error) {
	d := Default()

	timeout, err := getEnvInt("OCR_TIMEOUT_SECONDS", d.OCRTimeoutSeconds)
	if err != nil {
		return nil, err
	}

	config := &Config{
		DefaultStream:         getEnv("DEFAULT_STREAM", d.DefaultStream),
		OCREngine:             strings.ToLower(getEnv("OCR_ENGINE", d.OCREngine)),
		OCRTimeoutSeconds:     timeout,
		TesseractLanguages:    getEnvList("TESSERACT_LANGUAGES", d.TesseractLanguages),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", d.GoogleCloudLocation),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		ServerAddr:            getEnv("SERVER_ADDR", d.ServerAddr),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", d.LogLevel)),
		LogFormat:             strings.ToLower(getEnv("LOG_FORMAT", d.LogFormat)),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", d.LogTimeFormat),
		LogOutput:             getEnv("LOG_OUTPUT", d.LogOutput),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration. It is exported so commands can
// re-check after flags override loaded values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetEngineConfig returns the OCR engine settings, optionally overriding
// the engine name.
func (c *Config) GetEngineConfig(engine string) ocr.EngineConfig {
	if engine == "" {
		engine = c.OCREngine
	}
	return ocr.EngineConfig{
		Name:        engine,
		Languages:   c.TesseractLanguages,
		ProjectID:   c.GoogleCloudProject,
		Location:    c.GoogleCloudLocation,
		ProcessorID: c.DocumentAIProcessorID,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// getEnvList splits a "+" or "," separated list, e.g. "eng+hin".
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '+' || r == ',' })
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
