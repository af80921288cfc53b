// Package store persists the last import result between fa invocations.
//
// Three backends are available: an in-process memory cache, a SQLite file
// and a Redis server. They all store opaque values under string keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/folio"
)

// LastResultKey is the key of the most recent import result.
const LastResultKey = "folio:last-result"

// ErrNotFound is returned when no result has been saved yet.
var ErrNotFound = errors.New("no saved result, run fa import first")

// Store is a key value store.
type Store interface {
	// Get returns the value of key, and false if there is none.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open opens the backend selected in cfg.
func Open(cfg folio.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		return NewRedis(cfg.RedisAddr), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// SaveResult saves r as the last result.
func SaveResult(ctx context.Context, s Store, r *folio.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("could not encode result: %w", err)
	}
	if err := s.Set(ctx, LastResultKey, data); err != nil {
		return fmt.Errorf("could not save result: %w", err)
	}
	return nil
}

// LoadRaw returns the JSON encoding of the last result.
func LoadRaw(ctx context.Context, s Store) ([]byte, error) {
	data, ok, err := s.Get(ctx, LastResultKey)
	if err != nil {
		return nil, fmt.Errorf("could not load result: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// LoadResult returns the last result.
func LoadResult(ctx context.Context, s Store) (*folio.Result, error) {
	data, err := LoadRaw(ctx, s)
	if err != nil {
		return nil, err
	}
	var r folio.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("could not decode saved result: %w", err)
	}
	return &r, nil
}

// Clear removes the last result, if any.
func Clear(ctx context.Context, s Store) error {
	return s.Delete(ctx, LastResultKey)
}
