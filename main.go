package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"nfsft/cmd"
	"nfsft/internal/config"
	"nfsft/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger with configuration
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	mainLog := logger.WithComponent("main")
	mainLog.Info().Msg("Starting nfsft")

	cmd.Execute(cfg)

	mainLog.Info().Msg("nfsft shutdown")
	os.Exit(0)
}
