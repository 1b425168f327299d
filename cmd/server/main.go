package main

import (
	"context"
	"log"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/config"
	"github.com/ridwanfathin/invoice-insights-service/internal/docprep"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/fixtures"
	"github.com/ridwanfathin/invoice-insights-service/internal/gigachat"
	"github.com/ridwanfathin/invoice-insights-service/internal/handler"
	"github.com/ridwanfathin/invoice-insights-service/internal/imageutil"
	"github.com/ridwanfathin/invoice-insights-service/internal/insights"
	"github.com/ridwanfathin/invoice-insights-service/internal/logger"
	"github.com/ridwanfathin/invoice-insights-service/internal/mlxclient"
	"github.com/ridwanfathin/invoice-insights-service/internal/openrouter"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"github.com/ridwanfathin/invoice-insights-service/internal/server"
	"github.com/ridwanfathin/invoice-insights-service/internal/service"
	"github.com/ridwanfathin/invoice-insights-service/internal/storage"
	"go.uber.org/zap"
)

// @title Invoice Insights API
// @version 1.0
// @description Extracts logistics invoices with AI and serves spend aggregates, alerts, exports and an analysis assistant.
// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Must(cfg.LogLevel, cfg.LogFormat)
	defer appLogger.Sync()

	ctx := context.Background()

	// Initialize repository
	repo := repository.NewMemoryRepository()
	if cfg.SeedDemoData {
		seedDemoData(ctx, repo, appLogger)
	}

	// Initialize OpenRouter client, used for extraction and chat by default
	openRouterClient := openrouter.NewClient(&openrouter.Config{
		APIKey:      cfg.OpenRouterAPIKey,
		APIURL:      openrouter.DefaultAPIURL,
		ModelID:     cfg.OpenRouterModelID,
		ChatModelID: cfg.OpenRouterChatModelID,
		Timeout:     cfg.OpenRouterTimeout,
	}, appLogger)

	// Optional document archive
	var extractionOpts []service.ExtractionOption
	if cfg.StorageEnabled() {
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
		})
		if err != nil {
			appLogger.Warn("Document archive disabled", zap.Error(err))
		} else {
			appLogger.Info("Archiving documents", zap.String("bucket", cfg.S3Bucket))
			extractionOpts = append(extractionOpts, service.WithArchiver(uploader))
		}
	}

	// Select the extraction backend
	var extractor service.Extractor = openRouterClient
	if cfg.Extractor == config.ExtractorMLX {
		mlx := mlxclient.NewClient(&mlxclient.Config{
			BaseURL: cfg.MLXBaseURL,
			Timeout: cfg.MLXTimeout,
		})
		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mlx.HealthCheck(healthCtx); err != nil {
			appLogger.Warn("MLX service is not reachable", zap.String("url", cfg.MLXBaseURL), zap.Error(err))
		}
		cancel()
		extractor = mlx
	}
	appLogger.Info("Extraction backend selected", zap.String("extractor", cfg.Extractor))

	// Select the assistant backend
	var assistant service.Assistant = openRouterClient
	if cfg.Assistant == config.AssistantGigaChat {
		giga, err := gigachat.New(ctx, &gigachat.Config{
			APIKey:             cfg.GigaChatAPIKey,
			Scope:              cfg.GigaChatScope,
			InsecureSkipVerify: cfg.GigaChatSkipTLSVerify,
		}, appLogger)
		if err != nil {
			appLogger.Warn("GigaChat unavailable, falling back to OpenRouter", zap.Error(err))
		} else {
			assistant = giga
		}
	}

	// Create services
	preparer := docprep.New(imageutil.DefaultConfig())
	extractionService := service.NewExtractionService(repo, extractor, preparer, cfg.MaxWorkers, appLogger, extractionOpts...)
	dashboardService := service.NewDashboardService(
		repo,
		domain.NewValidatedProviderSet(cfg.ValidatedProviders...),
		insights.NewCatalog(cfg.AlertLocale),
		time.Now,
	)
	chatService := service.NewChatService(assistant, repo, appLogger)
	exportService := service.NewExportService(repo)

	// Create and configure server
	appServer := server.NewServer(cfg, appLogger,
		handler.NewInvoiceHandler(extractionService, exportService, cfg.MaxUploadBytes(), appLogger),
		handler.NewDashboardHandler(dashboardService, appLogger),
		handler.NewChatHandler(chatService, appLogger),
		handler.NewExportHandler(exportService, appLogger),
	)

	// Start server (blocking call)
	if err := appServer.Start(); err != nil {
		appLogger.Fatal("Server error", zap.Error(err))
	}
}

// seedDemoData loads the embedded demo invoices as processed files
func seedDemoData(ctx context.Context, repo repository.InvoiceRepository, appLogger *zap.Logger) {
	files, err := fixtures.DemoFiles(time.Now().UTC())
	if err != nil {
		appLogger.Error("Failed to load demo data", zap.Error(err))
		return
	}
	for _, file := range files {
		if _, err := repo.Add(ctx, file); err != nil {
			appLogger.Error("Failed to seed demo invoice", zap.String("file_id", file.ID), zap.Error(err))
			return
		}
	}
	appLogger.Info("Seeded demo invoices", zap.Int("count", len(files)))
}
