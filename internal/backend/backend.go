// Package backend selects and constructs the record store from
// configuration.
package backend

import (
	"fmt"

	"sika/internal/storage"
	"sika/internal/store"
	"sika/internal/store/memory"
)

// Type identifies a record store implementation.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

func (t Type) String() string { return string(t) }

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Config holds what store construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Open constructs the configured record store. The returned cleanup
// func is never nil.
func Open(cfg Config) (store.Store, CleanupFunc, error) {
	switch cfg.Type {
	case Memory:
		return memory.New(), func() error { return nil }, nil
	case SQLite:
		st, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid store backend: %q", cfg.Type)
	}
}
