package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open opens the SQLite inventory file at the provided DSN. A single
// connection is enough for a single-operator process and keeps SQLite happy.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open inventory database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
