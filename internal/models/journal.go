package models

import "time"

// EntryKind tags a raw journal entry with the feature that consumes it.
type EntryKind string

const (
	// EntryKindVisit - a location visit entry ("sendGolem" class in the journal markup)
	EntryKindVisit EntryKind = "visit"
	// EntryKindSummary - a periodic report entry ("log_summary" class in the journal markup)
	EntryKindSummary EntryKind = "summary"
)

// RawEntry is one unparsed journal block as delivered by the feed observer.
// The id is the ordinal assigned by the journal page; ordering of ids follows
// the chronological order of the underlying events. RawEntry is transient and
// never persisted.
type RawEntry struct {
	ID   int64     `json:"id"`
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
}

// VisitRecord is the parsed form of a visit entry.
type VisitRecord struct {
	LocationName     string `json:"locationName"`
	HasPrimaryItem   bool   `json:"hasPrimaryItem"`
	HasSecondaryItem bool   `json:"hasSecondaryItem"`
}

// SummaryRef is a data-only handle the presentation layer resolves to reopen
// the detailed view of a report. It deliberately carries no executable payload.
type SummaryRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// SummaryRecord is the parsed form of a periodic report entry. Pointer fields
// are nil when the source text omitted the corresponding line; absence is
// preserved until aggregation.
type SummaryRecord struct {
	Timestamp      time.Time  `json:"timestamp"`
	DurationLabel  string     `json:"durationLabel"`
	Catches        *int       `json:"catches,omitempty"`
	Misses         *int       `json:"misses,omitempty"`
	FailedAttempts *int       `json:"failedAttempts,omitempty"`
	GoldDelta      *int       `json:"goldDelta,omitempty"`
	PointsDelta    *int       `json:"pointsDelta,omitempty"`
	GoldTotal      *int       `json:"goldTotal,omitempty"`
	PointsTotal    *int       `json:"pointsTotal,omitempty"`
	Open           SummaryRef `json:"openHandle"`
}

// LiveStats is the authoritative per-location count snapshot cached from the
// live game-state source.
type LiveStats struct {
	Primary int `json:"primary"`
}

// CategoryStats holds the per-location counters derived from scraped records.
type CategoryStats struct {
	Secondary1 int `json:"secondary1"`
	Secondary2 int `json:"secondary2"`
}

// Add merges two scraped counters. Merging is commutative and associative so
// key-collision merges are order independent.
func (c CategoryStats) Add(other CategoryStats) CategoryStats {
	return CategoryStats{
		Secondary1: c.Secondary1 + other.Secondary1,
		Secondary2: c.Secondary2 + other.Secondary2,
	}
}

// LocationStats is one aggregated row: the authoritative primary count plus
// the scraped secondary counts for a location.
type LocationStats struct {
	Primary    int `json:"primary"`
	Secondary1 int `json:"secondary1"`
	Secondary2 int `json:"secondary2"`
}

func (l LocationStats) Add(other LocationStats) LocationStats {
	return LocationStats{
		Primary:    l.Primary + other.Primary,
		Secondary1: l.Secondary1 + other.Secondary1,
		Secondary2: l.Secondary2 + other.Secondary2,
	}
}
