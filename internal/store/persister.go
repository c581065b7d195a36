package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// NewDB opens a DuckDB database at the given path (":memory:" for tests).
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EntryRow is the queryable mirror of one stored record, written alongside
// the document blob so listings can filter without deserializing the blob.
type EntryRow struct {
	Partition string
	ID        int64
	Kind      string
	Location  string
	EventTime *time.Time
	Data      []byte
}

// PartitionRows carries the full replacement row set of one partition.
type PartitionRows struct {
	Partition string
	Rows      []EntryRow
}

// Persister is the synchronous get/set collaborator holding the serialized
// state document. Save must be atomic: either the document and all given
// partition mirrors are written, or nothing is.
type Persister interface {
	// Load returns the stored document bytes, or nil when none exists yet.
	Load(ctx context.Context) ([]byte, error)
	// Save writes the document and replaces the row mirror of the given
	// partitions.
	Save(ctx context.Context, doc []byte, partitions []PartitionRows) error
}

// DuckDBPersister stores the document blob in the document table and the row
// mirror in log_entries, in one transaction per flush.
type DuckDBPersister struct {
	db *sql.DB
}

func NewDuckDBPersister(db *sql.DB) *DuckDBPersister {
	return &DuckDBPersister{db: db}
}

func (p *DuckDBPersister) Load(ctx context.Context) ([]byte, error) {
	row := p.db.QueryRowContext(ctx, queryGetDocument)

	var data []byte
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *DuckDBPersister) Save(ctx context.Context, doc []byte, partitions []PartitionRows) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryUpsertDocument, string(doc)); err != nil {
		return err
	}

	for _, part := range partitions {
		if _, err := tx.ExecContext(ctx, queryDeletePartitionEntries, part.Partition); err != nil {
			return err
		}
		for _, row := range part.Rows {
			_, err := tx.ExecContext(ctx, queryInsertEntry,
				row.Partition, row.ID, row.Kind, row.Location, row.EventTime, string(row.Data))
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
