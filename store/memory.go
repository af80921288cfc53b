package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// Memory is a Store that lives as long as the process.
type Memory struct {
	c *cache.Cache
}

// NewMemory returns an empty memory store. Values never expire.
func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
