// Package migrations creates and versions the journal-tracker schema. Applied
// versions are tracked in the schema_migrations table so Run is idempotent.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	stmt    string
}

var all = []migration{
	{
		version: 1,
		stmt: `
			CREATE TABLE IF NOT EXISTS document (
				id INTEGER PRIMARY KEY,
				data VARCHAR NOT NULL,
				created_at TIMESTAMP DEFAULT now(),
				updated_at TIMESTAMP DEFAULT now()
			)`,
	},
	{
		version: 2,
		stmt: `
			CREATE TABLE IF NOT EXISTS log_entries (
				partition_key VARCHAR NOT NULL,
				id BIGINT NOT NULL,
				kind VARCHAR NOT NULL,
				location VARCHAR,
				event_time TIMESTAMP,
				data VARCHAR NOT NULL,
				PRIMARY KEY (partition_key, id)
			)`,
	},
}

// Run applies all pending migrations in version order.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range all {
		if applied[m.version] {
			continue
		}
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
