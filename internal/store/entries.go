package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// EntryStore queries the log_entries row mirror. It is read-only; rows are
// written by the persister on flush.
type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

func (s *EntryStore) List(ctx context.Context, opts ...ListOption) ([]EntryRow, error) {
	builder := sq.Select("partition_key", "id", "kind", "location", "event_time", "data").
		From("log_entries")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []EntryRow
	for rows.Next() {
		var entry EntryRow
		var location sql.NullString
		var eventTime sql.NullTime
		var data string
		err := rows.Scan(
			&entry.Partition,
			&entry.ID,
			&entry.Kind,
			&location,
			&eventTime,
			&data,
		)
		if err != nil {
			return nil, err
		}
		entry.Location = location.String
		if eventTime.Valid {
			ts := eventTime.Time
			entry.EventTime = &ts
		}
		entry.Data = []byte(data)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *EntryStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("log_entries")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByPartition(partitions ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(partitions) == 0 {
			return b
		}
		return b.Where(sq.Eq{"partition_key": partitions})
	}
}

func ByKind(kinds ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(kinds) == 0 {
			return b
		}
		return b.Where(sq.Eq{"kind": kinds})
	}
}

func ByLocation(locations ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(locations) == 0 {
			return b
		}
		return b.Where(sq.Eq{"location": locations})
	}
}

func ByEventTimeRange(from, to time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.And{
			sq.GtOrEq{"event_time": from},
			sq.Lt{"event_time": to},
		})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort orders chronologically: entry ids are issued in event order.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("id")
	}
}
