package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/parser"
	"github.com/hannaddev/journal-tracker/internal/store"
	"github.com/hannaddev/journal-tracker/pkg/cycle"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
	"github.com/hannaddev/journal-tracker/pkg/feed"
	"github.com/hannaddev/journal-tracker/pkg/scheduler"
)

// ForecastResult is a report forecast enriched with the observed occurrence
// it was computed from and the display-only calendar slot.
type ForecastResult struct {
	cycle.Forecast
	NextCalendar  time.Time
	LastEntryID   int64
	LastTimestamp time.Time
}

// Tracker runs the parse→dedupe pipeline over incoming feed batches and
// forecasts the next periodic report. Batches are processed sequentially; the
// mutex stands in for the single-threaded host the feed contract assumes.
type Tracker struct {
	store     *store.Store
	parserCfg parser.Config
	eventYear string
	cycle     cycle.Tracker
	scheduler *scheduler.Scheduler
	trigger   feed.Trigger
	mu        sync.Mutex
	log       *zap.SugaredLogger
}

func NewTrackerService(st *store.Store, parserCfg parser.Config, eventYear string, cyc cycle.Tracker, sched *scheduler.Scheduler, trigger feed.Trigger) *Tracker {
	return &Tracker{
		store:     st,
		parserCfg: parserCfg,
		eventYear: eventYear,
		cycle:     cyc,
		scheduler: sched,
		trigger:   trigger,
		log:       zap.S().Named("tracker_service"),
	}
}

// HandleBatch consumes one feed batch. Unparseable entries are skipped without
// aborting the batch; duplicate ids are no-ops, so redelivered batches are
// safe. The returned error, if any, is the last flush failure; the in-memory
// state still holds every inserted record.
func (t *Tracker) HandleBatch(ctx context.Context, entries []models.RawEntry) (models.BatchResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var result models.BatchResult
	var flushErr error

	for _, entry := range entries {
		inserted, err := t.processEntry(ctx, entry)
		switch {
		case err == nil && inserted:
			result.Inserted++
		case err == nil:
			result.Skipped++
			t.log.Debugw("entry already stored", "id", entry.ID)
		case srvErrors.IsUnparseableEntryError(err):
			result.Failed++
			t.log.Debugw("skipping unparseable entry", "id", entry.ID, "kind", entry.Kind, "error", err)
		default:
			// Flush failure: the record is in memory, the next successful
			// flush persists it.
			if inserted {
				result.Inserted++
			}
			flushErr = err
			t.log.Errorw("failed to flush batch state", "id", entry.ID, "error", err)
		}
	}

	return result, flushErr
}

func (t *Tracker) processEntry(ctx context.Context, entry models.RawEntry) (bool, error) {
	switch entry.Kind {
	case models.EntryKindVisit:
		rec, err := parser.ParseVisit(t.parserCfg, entry.Text)
		if err != nil {
			return false, err
		}
		return t.store.InsertVisit(ctx, t.eventYear, entry.ID, rec)

	case models.EntryKindSummary:
		rec, err := parser.ParseSummary(t.parserCfg, entry.Text, time.Now())
		if err != nil {
			return false, err
		}
		rec.Open = models.SummaryRef{Kind: string(models.EntryKindSummary), ID: entry.ID}
		return t.store.InsertSummary(ctx, entry.ID, rec)

	default:
		t.log.Debugw("ignoring entry of unknown kind", "id", entry.ID, "kind", entry.Kind)
		return false, nil
	}
}

// Forecast computes the next report forecast from the latest stored report.
// ok is false when no report has been observed yet.
func (t *Tracker) Forecast(now time.Time) (ForecastResult, bool) {
	id, rec, ok := t.store.LatestSummary()
	if !ok {
		return ForecastResult{}, false
	}

	return ForecastResult{
		Forecast:      t.cycle.Next(rec.Timestamp, now),
		NextCalendar:  t.cycle.NextCalendar(rec.Timestamp, now),
		LastEntryID:   id,
		LastTimestamp: rec.Timestamp,
	}, true
}

// TriggerRescrape asks the feed observer to re-scrape immediately. The hook
// runs asynchronously; delivery of the resulting batch comes back through
// HandleBatch as usual.
func (t *Tracker) TriggerRescrape() error {
	if t.trigger == nil {
		return fmt.Errorf("no feed trigger configured")
	}

	t.scheduler.AddWork(func(ctx context.Context) (any, error) {
		if err := t.trigger.Trigger(ctx); err != nil {
			t.log.Errorw("failed to trigger re-scrape", "error", err)
			return nil, err
		}
		return nil, nil
	})
	return nil
}
