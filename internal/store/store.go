// Package store defines the ports onto the document store. Records are
// explicit value types; the adapters translate them to and from their
// stored document form.
package store

import (
	"context"
	"errors"

	"sika/internal/core"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")

// UserStore is the users collection.
type UserStore interface {
	InsertUser(ctx context.Context, u core.User) (string, error)
	GetUser(ctx context.Context, id string) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	// UpdateUser replaces the stored record for u.ID and returns the
	// persisted result.
	UpdateUser(ctx context.Context, u core.User) (core.User, error)
	// DeleteUser removes and returns the record.
	DeleteUser(ctx context.Context, id string) (core.User, error)
}

// TransactionStore is the transactions collection.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, t core.Transaction) (string, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (core.Transaction, error)
}

// Store is the full record store.
type Store interface {
	UserStore
	TransactionStore

	// Ping probes the underlying store for health checks.
	Ping(ctx context.Context) error
}
