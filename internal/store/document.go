package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hannaddev/journal-tracker/internal/models"
)

// LogsPartition is the partition name of the periodic report feature. Visit
// partitions are keyed by event year.
const LogsPartition = "logs"

// FlagNormalizedLocations guards the one-time location-key normalization pass.
const FlagNormalizedLocations = "NormalizedLocationKeys20241211"

// YearPartition holds one event year of the visit feature: the cached
// authoritative live counts, the deduplicated visit records keyed by entry id
// and the per-location aggregate derived from them.
type YearPartition struct {
	Stats        map[string]models.LiveStats     `json:"stats"`
	LogEntries   map[int64]models.VisitRecord    `json:"logEntries"`
	ScrapedStats map[string]models.CategoryStats `json:"scrapedStats"`

	highestID int64
}

func newYearPartition() *YearPartition {
	return &YearPartition{
		Stats:        map[string]models.LiveStats{},
		LogEntries:   map[int64]models.VisitRecord{},
		ScrapedStats: map[string]models.CategoryStats{},
	}
}

// HighestID returns the highest entry id present in the partition.
func (p *YearPartition) HighestID() int64 {
	return p.highestID
}

// recompute rederives the highest id and the scraped aggregate from the
// record set. The aggregate is a pure function of the records, never an
// independent source of truth.
func (p *YearPartition) recompute() {
	p.highestID = 0
	p.ScrapedStats = map[string]models.CategoryStats{}
	for id, rec := range p.LogEntries {
		if id > p.highestID {
			p.highestID = id
		}
		p.ScrapedStats[rec.LocationName] = p.ScrapedStats[rec.LocationName].Add(scrapedDelta(rec))
	}
}

func scrapedDelta(rec models.VisitRecord) models.CategoryStats {
	var delta models.CategoryStats
	if rec.HasPrimaryItem {
		delta.Secondary1 = 1
	}
	if rec.HasSecondaryItem {
		delta.Secondary2 = 1
	}
	return delta
}

// Document is the in-memory mirror of the persisted state: visit partitions
// keyed by event year, the report log map with its highest saved id, and the
// one-time migration flags. It is owned by the Store and reaches persistence
// only through an explicit flush.
type Document struct {
	Years            map[string]*YearPartition
	Logs             map[int64]models.SummaryRecord
	LastSavedEntryID int64
	Flags            map[string]bool
}

func NewDocument() *Document {
	return &Document{
		Years: map[string]*YearPartition{},
		Logs:  map[int64]models.SummaryRecord{},
		Flags: map[string]bool{},
	}
}

func (d *Document) year(key string) *YearPartition {
	p, ok := d.Years[key]
	if !ok {
		p = newYearPartition()
		d.Years[key] = p
	}
	return p
}

// NormalizeLocations strips a leading definite article from location keys in
// visit records and merges any colliding aggregate keys by summing their
// counters. Running it on already-normalized data is a no-op, so the pass is
// idempotent even without its guard flag.
func NormalizeLocations(d *Document) {
	for _, p := range d.Years {
		for id, rec := range p.LogEntries {
			if trimmed := strings.TrimPrefix(rec.LocationName, "the "); trimmed != rec.LocationName {
				rec.LocationName = trimmed
				p.LogEntries[id] = rec
			}
		}

		for name, stats := range p.ScrapedStats {
			trimmed := strings.TrimPrefix(name, "the ")
			if trimmed == name {
				continue
			}
			p.ScrapedStats[trimmed] = p.ScrapedStats[trimmed].Add(stats)
			delete(p.ScrapedStats, name)
		}
	}
}

// MarshalJSON flattens the document into the persisted schema: year keys at
// the top level next to "logs", "lastSavedEntryId" and the migration flags.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Years)+len(d.Flags)+2)
	for year, p := range d.Years {
		out[year] = p
	}
	out["logs"] = d.Logs
	out["lastSavedEntryId"] = d.LastSavedEntryID
	for flag, set := range d.Flags {
		out[flag] = set
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the document from the persisted schema. Derived
// state (highest ids, scraped aggregates) is recomputed deterministically
// from the record sets.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = *NewDocument()

	for key, value := range raw {
		switch {
		case key == LogsPartition:
			if err := json.Unmarshal(value, &d.Logs); err != nil {
				return fmt.Errorf("logs: %w", err)
			}
		case key == "lastSavedEntryId":
			if err := json.Unmarshal(value, &d.LastSavedEntryID); err != nil {
				return fmt.Errorf("lastSavedEntryId: %w", err)
			}
		case isYearKey(key):
			p := newYearPartition()
			if err := json.Unmarshal(value, p); err != nil {
				return fmt.Errorf("partition %s: %w", key, err)
			}
			if p.Stats == nil {
				p.Stats = map[string]models.LiveStats{}
			}
			if p.LogEntries == nil {
				p.LogEntries = map[int64]models.VisitRecord{}
			}
			d.Years[key] = p
		default:
			var flag bool
			if err := json.Unmarshal(value, &flag); err == nil {
				d.Flags[key] = flag
			}
			// Anything else is an unknown key written by a newer revision;
			// keep loading what we understand.
		}
	}

	if d.Logs == nil {
		d.Logs = map[int64]models.SummaryRecord{}
	}
	for _, p := range d.Years {
		p.recompute()
	}
	for id := range d.Logs {
		if id > d.LastSavedEntryID {
			d.LastSavedEntryID = id
		}
	}
	return nil
}

func isYearKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
