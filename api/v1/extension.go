package v1

import (
	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/services"
	"github.com/hannaddev/journal-tracker/internal/store"
)

// ToModel converts an API entry to the internal form.
func (e RawEntry) ToModel() models.RawEntry {
	return models.RawEntry{
		ID:   e.Id,
		Kind: models.EntryKind(e.Kind),
		Text: e.Text,
	}
}

// NewBatchResponse converts a batch result to the API shape.
func NewBatchResponse(r models.BatchResult) BatchResponse {
	return BatchResponse{
		Inserted: r.Inserted,
		Skipped:  r.Skipped,
		Failed:   r.Failed,
	}
}

// NewLogEntryFromRow converts a stored row to an API listing entry.
func NewLogEntryFromRow(row store.EntryRow) LogEntry {
	entry := LogEntry{
		Id:        row.ID,
		Partition: row.Partition,
		Kind:      row.Kind,
		EventTime: row.EventTime,
		Record:    row.Data,
	}
	if row.Location != "" {
		entry.Location = &row.Location
	}
	return entry
}

// NewStatsResponse converts an aggregation result to the API shape.
func NewStatsResponse(agg *services.AggregateResult) StatsResponse {
	resp := StatsResponse{
		Year:        agg.Year,
		Cached:      agg.Cached,
		PerLocation: make(map[string]LocationStats, len(agg.PerCategory)),
		Total:       newLocationStats(agg.Total),
	}
	for name, row := range agg.PerCategory {
		resp.PerLocation[name] = newLocationStats(row)
	}
	return resp
}

func newLocationStats(s models.LocationStats) LocationStats {
	return LocationStats{
		Primary:    s.Primary,
		Secondary1: s.Secondary1,
		Secondary2: s.Secondary2,
	}
}

// NewForecastResponse converts a forecast to the API shape.
func NewForecastResponse(f services.ForecastResult) ForecastResponse {
	return ForecastResponse{
		NextTime:      f.NextTime,
		NextCalendar:  f.NextCalendar,
		Countdown:     f.Countdown,
		MissedCycles:  f.MissedCycles,
		Approximate:   f.Approximate,
		Overdue:       f.Overdue,
		Ready:         f.Ready,
		LastEntryId:   f.LastEntryID,
		LastTimestamp: f.LastTimestamp,
	}
}

// NewImportResponse converts an import result to the API shape.
func NewImportResponse(r models.ImportResult) ImportResponse {
	return ImportResponse{
		Added:            r.Added,
		Skipped:          r.Skipped,
		LastSavedEntryId: r.LastSavedEntryID,
	}
}
