// The worker consumes raw listings from kafka and ingests them into the
// property store. It shares the pipeline with the API's ingestion endpoint,
// so replayed messages dedupe the same way.
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
	pipeline := ingestion.NewPipeline(propertyRepo, propertyService, listingTrans)

	consumer := ingestion.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, pipeline)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.GlobalLogger.Printf("Worker started: topic=%s group=%s", cfg.Kafka.Topic, cfg.Kafka.GroupID)
	if err := consumer.Run(ctx); err != nil {
		logger.GlobalLogger.Errorf("Worker stopped with error: %v", err)
		os.Exit(1)
	}
	logger.GlobalLogger.Println("Worker exited")
}
