package services

import (
	"context"

	"github.com/hannaddev/journal-tracker/internal/store"
)

// Logs serves filtered, paginated listings of stored entries from the row
// mirror.
type Logs struct {
	entries *store.EntryStore
}

func NewLogsService(entries *store.EntryStore) *Logs {
	return &Logs{entries: entries}
}

type LogListParams struct {
	Partitions []string
	Kinds      []string
	Locations  []string
	Limit      uint64
	Offset     uint64
}

type LogListResult struct {
	Entries []store.EntryRow
	Total   int
}

func (s *Logs) List(ctx context.Context, params LogListParams) (*LogListResult, error) {
	opts := s.buildListOptions(params)
	opts = append(opts, store.WithDefaultSort())

	entries, err := s.entries.List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Total count without pagination.
	total, err := s.entries.Count(ctx, s.buildListOptions(LogListParams{
		Partitions: params.Partitions,
		Kinds:      params.Kinds,
		Locations:  params.Locations,
	})...)
	if err != nil {
		return nil, err
	}

	return &LogListResult{
		Entries: entries,
		Total:   total,
	}, nil
}

func (s *Logs) buildListOptions(params LogListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.Partitions) > 0 {
		opts = append(opts, store.ByPartition(params.Partitions...))
	}
	if len(params.Kinds) > 0 {
		opts = append(opts, store.ByKind(params.Kinds...))
	}
	if len(params.Locations) > 0 {
		opts = append(opts, store.ByLocation(params.Locations...))
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}
