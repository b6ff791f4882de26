package deviceRepo

import (
	"context"
	"sync"
)

// MemoryDeviceRepo keeps device state in process memory. It does not survive a
// restart and is meant for tests and for running without Redis.
type MemoryDeviceRepo struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryDeviceRepo() *MemoryDeviceRepo {
	return &MemoryDeviceRepo{data: make(map[string]string)}
}

func (m *MemoryDeviceRepo) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryDeviceRepo) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryDeviceRepo) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.mu.Unlock()
	return nil
}
