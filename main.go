package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"points/cmd"
	"points/internal/config"
	"points/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration, using defaults: %v", err)
		cfg = config.Default()
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().
		Str("ocr_engine", cfg.OCREngine).
		Str("default_stream", cfg.DefaultStream).
		Msg("Starting Points CLI")

	cmd.Execute(cfg)
}
