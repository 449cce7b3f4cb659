// Package storage persists the small set of session keys that must survive a
// restart of the client.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a durable string key/value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// Options configures Open.
type Options struct {
	Kind Kind
	// Path is the JSON file (file) or database file (sqlite).
	Path        string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Open returns the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch opts.Kind {
	case KindFile, "":
		b, err = NewFile(opts.Path)
	case KindSQLite:
		b, err = NewSQLite(opts.Path)
	case KindRedis:
		b, err = NewRedis(ctx, RedisConfig{Addr: opts.RedisAddr, DB: opts.RedisDB, Prefix: opts.RedisPrefix})
	case KindMemory:
		b = NewMemory()
	default:
		err = fmt.Errorf("unknown backend %q", opts.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("storage.Open: %w", err)
	}
	return b, nil
}
