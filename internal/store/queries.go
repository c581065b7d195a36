package store

// Document queries
const (
	queryGetDocument = `
		SELECT data
		FROM document WHERE id = 1`

	queryUpsertDocument = `
		INSERT INTO document (id, data, updated_at)
		VALUES (1, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now()`
)

// Log entry mirror queries
const (
	queryDeletePartitionEntries = `DELETE FROM log_entries WHERE partition_key = ?`

	queryInsertEntry = `
		INSERT INTO log_entries (partition_key, id, kind, location, event_time, data)
		VALUES (?, ?, ?, ?, ?, ?)`
)
