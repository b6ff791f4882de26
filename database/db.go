package database

import (
	"context"
	"fmt"
	"time"

	"creatorhub/config"

	"github.com/go-redis/redis/v8"
)

// InitDB connects to the device database and verifies it with a ping.
func InitDB(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDeviceDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (device): %w", err)
	}
	return client, nil
}
