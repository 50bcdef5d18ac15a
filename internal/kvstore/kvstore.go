// Package kvstore provides a minimal key-value abstraction used to persist
// calculation history. Values are opaque byte slices; each backend stores
// them under a single string key.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when the key has never been set or was removed.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is a durable key-value store. Set and Remove must not return before
// the change is persisted (or failed).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options configures Open.
type Options struct {
	Driver string
	Path   string // sqlite file path or ":memory:"
	DSN    string // postgres connection string
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(ctx, opts.Path)
	case DriverPostgres:
		return NewPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("kvstore: unknown driver %q", opts.Driver)
	}
}
