package deviceRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// KeyPrefix namespaces every key this repository writes.
const KeyPrefix = "creatorhub:"

// RedisDeviceRepo implements DeviceRepository on a Redis database.
type RedisDeviceRepo struct {
	client   *redis.Client
	deviceID string
}

// NewRedisDeviceRepo returns a repository whose keys are scoped to deviceID.
func NewRedisDeviceRepo(client *redis.Client, deviceID string) *RedisDeviceRepo {
	return &RedisDeviceRepo{client: client, deviceID: deviceID}
}

func (r *RedisDeviceRepo) key(k string) string {
	return KeyPrefix + r.deviceID + ":" + k
}

func (r *RedisDeviceRepo) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

// Set writes without expiry; session lifetime is decided by the token itself.
func (r *RedisDeviceRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *RedisDeviceRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete device keys: %w", err)
	}
	return nil
}
