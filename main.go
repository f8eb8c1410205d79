package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"labrex/internal/config"
	"labrex/internal/observability"
	"labrex/pkg/ocr"
)

// Shared handler state, set once in main before the server starts.
var (
	proc           *ocr.Processor
	engineVersion  string
	logger         zerolog.Logger
	maxUploadBytes int64
)

func main() {
	// Load ./.env if present before reading configuration from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("LABREX_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "labrex-api: %v\n", err)
		os.Exit(1)
	}
	logger, err = observability.New(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "labrex-api",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "labrex-api: %v\n", err)
		os.Exit(1)
	}

	// The engine is a startup requirement: no tesseract, no server.
	engine, err := ocr.NewTesseract(cfg.OCR.Language)
	if err != nil {
		logger.Fatal().Err(err).Msg("ocr engine unavailable")
	}
	engineVersion, err = engine.Version()
	if err != nil {
		logger.Fatal().Err(err).Msg("ocr engine not responding")
	}
	proc = ocr.NewProcessor(engine, logger)
	maxUploadBytes = int64(cfg.Server.MaxUploadMB) * 1024 * 1024

	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestIDMiddleware(), requestLogMiddleware(logger), gin.Recovery())
	setupRoutes(r)

	logger.Info().Str("addr", cfg.Server.Addr).Str("engine", engineVersion).Msg("starting api server")
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
