// The collector sweeps the configured search areas against the upstream
// listing API. With PUBLISH_TO_KAFKA=true it hands listings to kafka for the
// worker; otherwise it ingests them directly into the store.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"homeradar-properties/internal/ingestion"
	"homeradar-properties/internal/repositories"
	"homeradar-properties/internal/services"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/cache"
	"homeradar-properties/pkg/config"
	"homeradar-properties/pkg/database"
	"homeradar-properties/pkg/logger"
	"homeradar-properties/pkg/metrics"
	"homeradar-properties/pkg/zillow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on system environment variables: %v", err)
	}
	logger.InitLogger(os.Stdout, os.Getenv("LOG_LEVEL"))

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := zillow.NewClient(cfg.Ingestion.BaseURL, cfg.Ingestion.APIKey)

	var sink ingestion.ListingSink
	if os.Getenv("PUBLISH_TO_KAFKA") == "true" {
		publisher := ingestion.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		sink = publisher
	} else {
		if err := database.InitDB(cfg); err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize database: %v", err)
			os.Exit(1)
		}
		defer database.CloseDB()

		if err := cache.InitRedis(cfg); err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
			os.Exit(1)
		}
		defer cache.CloseRedis()

		metrics.Init()

		propertyRepo := repositories.NewPropertyRepository()
		childRepo := repositories.NewChildRecordRepository()
		propertyCache := repositories.NewPropertyCache()
		addrTrans := transformers.NewAddressTransformer()
		listingTrans := transformers.NewListingTransformer(addrTrans)
		propertyValidator := validators.NewPropertyValidator()

		propertyService := services.NewPropertyService(propertyRepo, childRepo, propertyCache, addrTrans, propertyValidator, cfg.Cache.PropertyTTL)
		sink = ingestion.NewPipeline(propertyRepo, propertyService, listingTrans)
	}

	collector := ingestion.NewCollector(client, sink, cfg.Ingestion.Areas, cfg.Ingestion.PageSize, cfg.Ingestion.AreasPerMinute)

	logger.GlobalLogger.Printf("Collector started: %d areas", len(cfg.Ingestion.Areas))
	summary, err := collector.Run(ctx)
	logger.GlobalLogger.Printf("Sweep finished: accepted=%d duplicates=%d errors=%d",
		summary.Accepted, summary.SkippedDuplicate, summary.SkippedError)
	if err != nil {
		logger.GlobalLogger.Errorf("Sweep interrupted: %v", err)
		os.Exit(1)
	}
}
