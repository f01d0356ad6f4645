package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/beautylens/backend/config"
	httpDelivery "github.com/beautylens/backend/internal/delivery/http"
	"github.com/beautylens/backend/internal/infrastructure/pricesearch"
	"github.com/beautylens/backend/internal/infrastructure/store"
	"github.com/beautylens/backend/internal/infrastructure/vision"
	"github.com/beautylens/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("starting beautylens backend",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"model", cfg.Vision.Model,
	)

	// Infrastructure
	repo, err := store.NewSQLiteRepository(cfg.Store.DBPath)
	if err != nil {
		sugar.Fatalw("failed to open catalog database", "path", cfg.Store.DBPath, "error", err)
	}
	defer repo.Close()

	blobs, err := store.NewDiskBlobStore(cfg.Store.BlobDir, cfg.Store.BaseURL)
	if err != nil {
		sugar.Fatalw("failed to initialize blob store", "dir", cfg.Store.BlobDir, "error", err)
	}

	visionClient := vision.NewClient(vision.ClientConfig{
		APIKey:  cfg.Vision.APIKey,
		BaseURL: cfg.Vision.BaseURL,
		Model:   cfg.Vision.Model,
		Referer: cfg.Vision.Referer,
		Title:   cfg.Vision.Title,
		Timeout: cfg.Vision.Timeout,
	}, sugar)

	priceClient := pricesearch.NewClient(pricesearch.ClientConfig{
		APIKey:  cfg.Search.APIKey,
		BaseURL: cfg.Search.BaseURL,
		Timeout: cfg.Search.Timeout,
	}, sugar)

	// Usecase layer
	analysisService := usecase.NewAnalysisService(
		visionClient,
		priceClient,
		repo,
		blobs,
		sugar,
		usecase.AnalysisServiceConfig{
			ConfidenceThreshold: cfg.Analysis.ConfidenceThreshold,
			EnableDebugLogging:  cfg.Analysis.EnableDebugLogging,
		},
	)
	migrationService := usecase.NewMigrationService(repo, sugar)

	sugar.Infow("analysis configured",
		"confidenceThreshold", cfg.Analysis.ConfidenceThreshold,
		"debug", cfg.Analysis.EnableDebugLogging,
	)

	// HTTP delivery
	handler := httpDelivery.NewHandler(analysisService, migrationService)
	router := httpDelivery.SetupRouter(cfg, handler, blobs.Dir())

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	sugar.Infow("server listening", "addr", addr)

	if err := router.Run(addr); err != nil {
		sugar.Fatalw("server stopped", "error", err)
	}
}

// newLogger builds a development or production zap logger by environment
func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
