// Package store implements the deduplicating state store of the tracker.
//
// The store owns an in-memory Document mirroring the persisted JSON state and
// an explicit load/flush lifecycle against a Persister. Inserts are write-once
// by entry id; every mutating call flushes synchronously before returning, so
// a crash between calls leaves persistence consistent with the last completed
// call. A failed flush keeps the in-memory state and the dirty bookkeeping,
// and the next successful flush persists the accumulated changes.
//
// All methods are safe for concurrent use; batch processing is serialized by
// the store mutex to preserve the write-once invariant on a multi-threaded
// host.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/hannaddev/journal-tracker/internal/models"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
)

type Store struct {
	mu        sync.Mutex
	doc       *Document
	persister Persister
	dirty     map[string]bool
	log       *zap.SugaredLogger
}

func New(persister Persister) *Store {
	return &Store{
		doc:       NewDocument(),
		persister: persister,
		dirty:     map[string]bool{},
		log:       zap.S().Named("store"),
	}
}

// Load reads the persisted document. A corrupt document is discarded and the
// store starts from an empty default rather than failing startup.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		s.log.Warnw("starting from empty state", "error", srvErrors.NewCorruptStateError(err))
		s.doc = NewDocument()
		return nil
	}
	s.doc = doc
	return nil
}

// InsertVisit stores a visit record under the given event year. It is a no-op
// returning false when the id is already present; a record is never
// overwritten.
func (s *Store) InsertVisit(ctx context.Context, year string, id int64, rec models.VisitRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.doc.year(year)
	if _, exists := p.LogEntries[id]; exists {
		return false, nil
	}

	p.LogEntries[id] = rec
	p.ScrapedStats[rec.LocationName] = p.ScrapedStats[rec.LocationName].Add(scrapedDelta(rec))
	if id > p.highestID {
		p.highestID = id
	}
	s.dirty[year] = true

	return true, s.flushLocked(ctx)
}

// InsertSummary stores a report record. No-op returning false on a duplicate
// id; updates the highest saved id on success.
func (s *Store) InsertSummary(ctx context.Context, id int64, rec models.SummaryRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doc.Logs[id]; exists {
		return false, nil
	}

	s.doc.Logs[id] = rec
	if id > s.doc.LastSavedEntryID {
		s.doc.LastSavedEntryID = id
	}
	s.dirty[LogsPartition] = true

	return true, s.flushLocked(ctx)
}

// DeleteVisit removes a visit record. Derived state (highest id, scraped
// aggregate) is recomputed from the remaining records.
func (s *Store) DeleteVisit(ctx context.Context, year string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.doc.Years[year]
	if !ok {
		return srvErrors.NewPartitionNotFoundError(year)
	}
	if _, exists := p.LogEntries[id]; !exists {
		return nil
	}

	delete(p.LogEntries, id)
	p.recompute()
	s.dirty[year] = true

	return s.flushLocked(ctx)
}

// DeleteSummary removes a report record, rescanning for the highest saved id
// when the removed one held it.
func (s *Store) DeleteSummary(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doc.Logs[id]; !exists {
		return nil
	}

	delete(s.doc.Logs, id)
	if id == s.doc.LastSavedEntryID {
		s.doc.LastSavedEntryID = 0
		for rest := range s.doc.Logs {
			if rest > s.doc.LastSavedEntryID {
				s.doc.LastSavedEntryID = rest
			}
		}
	}
	s.dirty[LogsPartition] = true

	return s.flushLocked(ctx)
}

// RunMigrationOnce applies transform to the document and sets flag. When the
// flag is already set the call is a no-op returning false.
func (s *Store) RunMigrationOnce(ctx context.Context, flag string, transform func(*Document)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Flags[flag] {
		return false, nil
	}

	transform(s.doc)
	s.doc.Flags[flag] = true
	for year := range s.doc.Years {
		s.dirty[year] = true
	}
	s.dirty[LogsPartition] = true

	return true, s.flushLocked(ctx)
}

// SetLiveStats caches the authoritative live per-location counts for a year.
func (s *Store) SetLiveStats(ctx context.Context, year string, counts map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.doc.year(year)
	p.Stats = make(map[string]models.LiveStats, len(counts))
	for name, primary := range counts {
		p.Stats[name] = models.LiveStats{Primary: primary}
	}
	s.dirty[year] = true

	return s.flushLocked(ctx)
}

// YearSnapshot returns copies of the cached live stats and the scraped
// aggregate for a year. ok is false when the partition has no data.
func (s *Store) YearSnapshot(year string) (map[string]models.LiveStats, map[string]models.CategoryStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.doc.Years[year]
	if !ok {
		return nil, nil, false
	}

	stats := make(map[string]models.LiveStats, len(p.Stats))
	for name, v := range p.Stats {
		stats[name] = v
	}
	scraped := make(map[string]models.CategoryStats, len(p.ScrapedStats))
	for name, v := range p.ScrapedStats {
		scraped[name] = v
	}
	return stats, scraped, true
}

// LatestSummary returns the report record with the highest saved id.
func (s *Store) LatestSummary() (int64, models.SummaryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.doc.Logs[s.doc.LastSavedEntryID]
	if !ok {
		return 0, models.SummaryRecord{}, false
	}
	return s.doc.LastSavedEntryID, rec, true
}

// LastSavedEntryID returns the highest report id seen so far.
func (s *Store) LastSavedEntryID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.LastSavedEntryID
}

// Export serializes the full document.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.doc)
}

// Merge additively imports a document: only ids absent from the store are
// added, existing records are never overwritten and the highest saved id is
// recomputed as the max of existing and imported ids.
func (s *Store) Merge(ctx context.Context, incoming *Document) (models.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result models.ImportResult

	for year, inPart := range incoming.Years {
		p := s.doc.year(year)
		changed := false
		for id, rec := range inPart.LogEntries {
			if _, exists := p.LogEntries[id]; exists {
				result.Skipped++
				continue
			}
			p.LogEntries[id] = rec
			p.ScrapedStats[rec.LocationName] = p.ScrapedStats[rec.LocationName].Add(scrapedDelta(rec))
			if id > p.highestID {
				p.highestID = id
			}
			result.Added++
			changed = true
		}
		if changed {
			s.dirty[year] = true
		}
	}

	changed := false
	for id, rec := range incoming.Logs {
		if _, exists := s.doc.Logs[id]; exists {
			result.Skipped++
			continue
		}
		s.doc.Logs[id] = rec
		if id > s.doc.LastSavedEntryID {
			s.doc.LastSavedEntryID = id
		}
		result.Added++
		changed = true
	}
	if changed {
		s.dirty[LogsPartition] = true
	}

	result.LastSavedEntryID = s.doc.LastSavedEntryID

	if result.Added == 0 {
		return result, nil
	}
	return result, s.flushLocked(ctx)
}

// flushLocked writes the document and the row mirror of every dirty
// partition. On failure the dirty set is kept so the next flush retries.
func (s *Store) flushLocked(ctx context.Context) error {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return srvErrors.NewFlushError(err)
	}

	partitions := make([]PartitionRows, 0, len(s.dirty))
	for name := range s.dirty {
		partitions = append(partitions, PartitionRows{
			Partition: name,
			Rows:      s.rowsLocked(name),
		})
	}

	if err := s.persister.Save(ctx, data, partitions); err != nil {
		return srvErrors.NewFlushError(err)
	}

	s.dirty = map[string]bool{}
	return nil
}

func (s *Store) rowsLocked(partition string) []EntryRow {
	if partition == LogsPartition {
		rows := make([]EntryRow, 0, len(s.doc.Logs))
		for id, rec := range s.doc.Logs {
			data, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			ts := rec.Timestamp
			rows = append(rows, EntryRow{
				Partition: partition,
				ID:        id,
				Kind:      string(models.EntryKindSummary),
				EventTime: &ts,
				Data:      data,
			})
		}
		return rows
	}

	p, ok := s.doc.Years[partition]
	if !ok {
		return nil
	}
	rows := make([]EntryRow, 0, len(p.LogEntries))
	for id, rec := range p.LogEntries {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		rows = append(rows, EntryRow{
			Partition: partition,
			ID:        id,
			Kind:      string(models.EntryKindVisit),
			Location:  rec.LocationName,
			Data:      data,
		})
	}
	return rows
}
