package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URI    string `yaml:"uri"`
		DBName string `yaml:"dbname"`
	} `yaml:"database"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Cache struct {
		// PropertyTTL is parsed from the property_ttl duration string.
		PropertyTTL    time.Duration `yaml:"-"`
		PropertyTTLRaw string        `yaml:"property_ttl"`
	} `yaml:"cache"`
	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	Ingestion struct {
		BaseURL        string   `yaml:"base_url"`
		APIKey         string   `yaml:"api_key"`
		Areas          []string `yaml:"areas"`
		PageSize       int      `yaml:"page_size"`
		AreasPerMinute int      `yaml:"areas_per_minute"`
	} `yaml:"ingestion"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
		GroupID string   `yaml:"group_id"`
	} `yaml:"kafka"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	// Override with environment variables if set
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.Database.DBName = dbname
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if key := os.Getenv("LISTING_API_KEY"); key != "" {
		cfg.Ingestion.APIKey = key
	}
	if baseURL := os.Getenv("LISTING_API_BASE_URL"); baseURL != "" {
		cfg.Ingestion.BaseURL = baseURL
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitAndTrim(brokers)
	}
	if topic := os.Getenv("KAFKA_TOPIC"); topic != "" {
		cfg.Kafka.Topic = topic
	}

	if cfg.Cache.PropertyTTLRaw != "" {
		ttl, err := time.ParseDuration(cfg.Cache.PropertyTTLRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid cache property_ttl: %v", err)
		}
		cfg.Cache.PropertyTTL = ttl
	}

	// Set default values
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.PropertyTTL == 0 {
		cfg.Cache.PropertyTTL = 30 * time.Minute
	}
	if cfg.Ingestion.PageSize == 0 {
		cfg.Ingestion.PageSize = 50
	}
	if cfg.Ingestion.AreasPerMinute == 0 {
		cfg.Ingestion.AreasPerMinute = 12
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "property.listings.raw"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "property-worker"
	}

	// Validation
	if cfg.Redis.Port <= 0 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("REDIS_PORT must be between 1 and 65535")
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("REDIS_DB must be non-negative")
	}
	if cfg.Cache.PropertyTTL < 0 {
		return nil, fmt.Errorf("cache property_ttl cannot be negative")
	}

	return &cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
