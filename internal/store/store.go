// Package store provides the key-value persistence layer the tracker keeps its
// JSON state blobs in.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Named keys under which tracker state is persisted.
const (
	KeyProblemsState = "problemsState"
	KeyProgress      = "progress"
	KeyPreferences   = "preferences"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// KV defines a byte-oriented key-value store.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying database.
	Close() error
}

// Open creates the store selected by driver at path.
func Open(driver, path string) (KV, error) {
	switch driver {
	case "", DriverSQLite:
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverBolt:
		s, err := NewBolt(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// SaveJSON marshals value and stores it under key.
func SaveJSON[T any](ctx context.Context, kv KV, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadJSON reads key and unmarshals it into a T. Missing keys yield ErrNotFound.
func LoadJSON[T any](ctx context.Context, kv KV, key string) (T, error) {
	var out T
	data, err := kv.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return out, nil
}
