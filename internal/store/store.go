// Package store persists the full medicine collection. Every operation reads
// the whole set and writes the whole set back, the same way the ledger file
// was rewritten per command before; SQLite just makes the rewrite atomic.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"goodhealth/m/domain"
)

// Store reads and writes the medicine collection in a single SQLite file.
type Store struct {
	db *sqlx.DB
}

// New constructs a Store on top of an open database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Load returns every stock line in id order, which equals insertion order
// because ids are assigned max+1. An empty store yields an empty slice.
// Decode failures are reported as corrupt storage so the caller can fall
// back to an empty set; transient failures are not, so no caller mistakes
// them for a reason to rewrite the file from an empty view.
func (s *Store) Load(ctx context.Context) ([]domain.Medicine, error) {
	records := []domain.Medicine{}
	err := s.db.SelectContext(ctx, &records,
		`SELECT id, name, brand, manufacturing_date, expiry_date, kind, quantity, unit_price, amount
         FROM medicines ORDER BY id`)
	if err != nil {
		if corruptRead(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStorage, err)
		}
		return nil, fmt.Errorf("load medicines: %w", err)
	}
	return records, nil
}

// corruptRead reports whether err means the stored bytes cannot be decoded,
// as opposed to a cancelled context, a dead connection or another failure
// that says nothing about the data.
func corruptRead(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// Primary result code; extended codes carry detail in the high bits.
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return false
	}
	// The query itself succeeded, so what remains is a row that would not
	// scan into the record type.
	return true
}

// Save replaces the stored collection with records, all inside one
// transaction so a failed write leaves the previous data intact.
func (s *Store) Save(ctx context.Context, records []domain.Medicine) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM medicines`); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	for _, m := range records {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO medicines (id, name, brand, manufacturing_date, expiry_date, kind, quantity, unit_price, amount)
             VALUES (:id, :name, :brand, :manufacturing_date, :expiry_date, :kind, :quantity, :unit_price, :amount)`, m)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	return nil
}

// NextID returns the id for the next stock line: one past the highest live
// id. Deleted ids are never handed out again because the maximum only grows.
func NextID(records []domain.Medicine) int64 {
	var max int64
	for _, m := range records {
		if m.ID > max {
			max = m.ID
		}
	}
	return max + 1
}
