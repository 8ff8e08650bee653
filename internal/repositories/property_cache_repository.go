package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"homeradar-properties/internal/models"
	"homeradar-properties/pkg/cache"
	"homeradar-properties/pkg/metrics"
)

type propertyCache struct {
	client *redis.Client
}

func NewPropertyCache() PropertyCache {
	return &propertyCache{
		client: cache.RedisClient,
	}
}

func (c *propertyCache) GetProperty(ctx context.Context, key string) (*models.Property, error) {
	start := time.Now()
	data, err := c.client.Get(ctx, key).Result()
	metrics.RedisOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get").Inc()
		return nil, err
	}
	var property models.Property
	if err := json.Unmarshal([]byte(data), &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *propertyCache) SetProperty(ctx context.Context, key string, property *models.Property, expiration time.Duration) error {
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	start := time.Now()
	err = c.client.Set(ctx, key, data, expiration).Err()
	metrics.RedisOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

func (c *propertyCache) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := c.client.Del(ctx, key).Err()
	metrics.RedisOperationDuration.WithLabelValues("del").Observe(time.Since(start).Seconds())
	if err != nil && err != redis.Nil {
		metrics.RedisErrorsTotal.WithLabelValues("del").Inc()
		return err
	}
	return nil
}
