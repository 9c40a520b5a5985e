// Package storage is the SQLite-backed record store. Each record is
// kept as a JSON document in a single row, keyed by a UUID; the
// transactions table carries the owning user id as a column so the
// by-user listing stays an indexed query.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sika/internal/core"
	"sika/internal/store"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) InsertUser(ctx context.Context, u core.User) (string, error) {
	u.ID = uuid.NewString()
	doc, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("marshal user: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, doc) VALUES (?, ?)`, u.ID, string(doc)); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return u.ID, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (core.User, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM users WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return decodeUser(doc, id)
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		u, err := decodeUser(doc, id)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u core.User) (core.User, error) {
	doc, err := json.Marshal(u)
	if err != nil {
		return core.User{}, fmt.Errorf("marshal user: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET doc = ? WHERE id = ?`, string(doc), u.ID)
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.User{}, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) (core.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return core.User{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`, id); err != nil {
		return core.User{}, fmt.Errorf("delete user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) InsertTransaction(ctx context.Context, t core.Transaction) (string, error) {
	t.ID = uuid.NewString()
	doc, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal transaction: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, doc) VALUES (?, ?, ?)`,
		t.ID, t.UserID, string(doc)); err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return t.ID, nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM transactions WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return decodeTransaction(doc, id)
}

func (s *SQLiteStore) ListTransactionsByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM transactions WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t, err := decodeTransaction(doc, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	doc, err := json.Marshal(t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("marshal transaction: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET user_id = ?, doc = ? WHERE id = ?`,
		t.UserID, string(doc), t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Transaction{}, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := s.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}
	return t, nil
}

func decodeUser(doc, id string) (core.User, error) {
	var u core.User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return core.User{}, fmt.Errorf("decode user document %s: %w", id, err)
	}
	u.ID = id
	return u, nil
}

func decodeTransaction(doc, id string) (core.Transaction, error) {
	var t core.Transaction
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction document %s: %w", id, err)
	}
	t.ID = id
	return t, nil
}
