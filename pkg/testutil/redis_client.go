package testutil

import (
	"context"
	"sync"
	"time"
)

type MockRedisClient struct {
	SetNXFunc func(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	DelFunc   func(ctx context.Context, key ...string) error
}

func (m *MockRedisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, ttl)
	}

	return true, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

// NewMemoryRedisClient returns a MockRedisClient which keeps keys in memory,
// ttl is ignored.
func NewMemoryRedisClient() *MockRedisClient {
	var mutex sync.Mutex
	keys := map[string]string{}

	return &MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			mutex.Lock()
			defer mutex.Unlock()

			if _, ok := keys[key]; ok {
				return false, nil
			}

			keys[key] = value
			return true, nil
		},
		DelFunc: func(ctx context.Context, key ...string) error {
			mutex.Lock()
			defer mutex.Unlock()

			for _, k := range key {
				delete(keys, k)
			}
			return nil
		},
	}
}
