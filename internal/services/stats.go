package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/store"
)

// LiveSource is the optional authoritative per-location count collaborator.
type LiveSource interface {
	Snapshot(ctx context.Context) (map[string]int, error)
}

// AggregateResult is the per-location aggregate for one event year. Cached is
// set when no live source was available and the result comes entirely from
// previously persisted data; presentation should indicate staleness then.
type AggregateResult struct {
	Year        string
	PerCategory map[string]models.LocationStats
	Total       models.LocationStats
	Cached      bool
}

// Stats derives per-location totals, reconciling the authoritative live
// counts with the counts scraped from stored records.
type Stats struct {
	store     *store.Store
	live      LiveSource
	eventYear string
	log       *zap.SugaredLogger
}

// NewStatsService builds the aggregator. live may be nil; aggregation then
// always runs in cached mode.
func NewStatsService(st *store.Store, live LiveSource, eventYear string) *Stats {
	return &Stats{
		store:     st,
		live:      live,
		eventYear: eventYear,
		log:       zap.S().Named("stats_service"),
	}
}

// Aggregate computes the totals for a year. The live source is consulted only
// for the current event year; a successful snapshot is cached to the store so
// later cached-mode reads see it.
func (s *Stats) Aggregate(ctx context.Context, year string) (*AggregateResult, error) {
	if year == "" {
		year = s.eventYear
	}

	var live map[string]int
	if s.live != nil && year == s.eventYear {
		counts, err := s.live.Snapshot(ctx)
		if err != nil {
			s.log.Warnw("live snapshot unavailable, falling back to cached stats", "error", err)
		} else {
			live = counts
			if err := s.store.SetLiveStats(ctx, year, counts); err != nil {
				// Cache write failure does not invalidate the live data.
				s.log.Errorw("failed to cache live stats", "year", year, "error", err)
			}
		}
	}

	return s.aggregate(year, live), nil
}

// aggregate merges live counts (authoritative for the primary counter) with
// the scraped per-location aggregate. With live == nil the cached stats stand
// in for the primary counter and the result is flagged cached.
func (s *Stats) aggregate(year string, live map[string]int) *AggregateResult {
	result := &AggregateResult{
		Year:        year,
		PerCategory: map[string]models.LocationStats{},
		Cached:      live == nil,
	}

	cached, scraped, ok := s.store.YearSnapshot(year)
	if !ok {
		cached, scraped = map[string]models.LiveStats{}, map[string]models.CategoryStats{}
	}

	primary := map[string]int{}
	if live != nil {
		primary = live
	} else {
		for name, v := range cached {
			primary[name] = v.Primary
		}
	}

	for name, count := range primary {
		row := models.LocationStats{Primary: count}
		if sc, ok := scraped[name]; ok {
			row.Secondary1 = sc.Secondary1
			row.Secondary2 = sc.Secondary2
		}
		result.PerCategory[name] = row
	}

	// Locations seen only in scraped records still get a row; the primary
	// counter is unknown there.
	for name, sc := range scraped {
		if _, ok := result.PerCategory[name]; ok {
			continue
		}
		result.PerCategory[name] = models.LocationStats{
			Secondary1: sc.Secondary1,
			Secondary2: sc.Secondary2,
		}
	}

	for _, row := range result.PerCategory {
		result.Total = result.Total.Add(row)
	}

	return result
}
