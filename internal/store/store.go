// Package store is the gorm-backed persistence layer for certificates, tags, orders and users.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate key")
)

// Store wraps a gorm handle. A Store obtained inside Transaction shares the transaction.
type Store struct {
	db *gorm.DB
}

// New creates a store over db. db must be opened with TranslateError enabled
// so that unique violations surface as ErrDuplicate.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside a database transaction. Nested calls use savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// supportsRowLocks reports whether SELECT ... FOR UPDATE is available
func (s *Store) supportsRowLocks() bool {
	return s.db.Dialector.Name() != "sqlite"
}

// lockingRead returns a query that reads the latest committed rows and locks
// them with the given strength. SQLite has no row locks and serializes writers.
func (s *Store) lockingRead(ctx context.Context, strength string) *gorm.DB {
	query := s.conn(ctx)
	if s.supportsRowLocks() {
		query = query.Clauses(clause.Locking{Strength: strength})
	}
	return query
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
