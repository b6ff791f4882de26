package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	HealthOK       = "ok"
	HealthDown     = "down"
	HealthDisabled = "disabled"
)

// Pinger is any dependency that can be pinged for reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     string    `json:"redis"`
	Backend   string    `json:"backend"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every configured dependency answered.
func (h HealthStatus) Healthy() bool {
	return h.Redis != HealthDown && h.Backend != HealthDown
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings Redis and the backend once. A nil dependency is reported
// as disabled.
func CheckHealth(ctx context.Context, redisClient *redis.Client, backend Pinger) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := HealthStatus{Redis: HealthDisabled, Backend: HealthDisabled, CheckedAt: time.Now()}
	if redisClient != nil {
		status.Redis = statusOf(redisClient.Ping(ctx).Err())
	}
	if backend != nil {
		status.Backend = statusOf(backend.Ping(ctx))
	}
	return status
}

func statusOf(err error) string {
	if err != nil {
		return HealthDown
	}
	return HealthOK
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClient *redis.Client, backend Pinger) {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	update := func() {
		status := CheckHealth(ctx, redisClient, backend)
		mu.Lock()
		currentHealth = status
		mu.Unlock()
	}
	update()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}
