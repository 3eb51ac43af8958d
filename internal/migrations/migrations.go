package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the inventory schema. Ids are assigned by the store, not by
// SQLite, so the primary key carries no AUTOINCREMENT. Prices are stored as
// decimal text so they round-trip exactly.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL,
            brand TEXT NOT NULL DEFAULT '',
            manufacturing_date TEXT NOT NULL,
            expiry_date TEXT NOT NULL,
            kind INTEGER NOT NULL,
            quantity INTEGER NOT NULL,
            unit_price TEXT NOT NULL,
            amount TEXT NOT NULL
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
