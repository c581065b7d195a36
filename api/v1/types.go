package v1

import (
	"encoding/json"
	"time"
)

// RawEntry is one raw journal block pushed by the feed observer.
type RawEntry struct {
	Id   int64  `json:"id"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// PushEntriesRequest is the body of POST /entries.
type PushEntriesRequest struct {
	Entries []RawEntry `json:"entries"`
}

// BatchResponse reports what happened to each entry of a pushed batch.
type BatchResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// LogEntry is one stored record in a listing response.
type LogEntry struct {
	Id        int64           `json:"id"`
	Partition string          `json:"partition"`
	Kind      string          `json:"kind"`
	Location  *string         `json:"location,omitempty"`
	EventTime *time.Time      `json:"eventTime,omitempty"`
	Record    json.RawMessage `json:"record"`
}

// LogListResponse is a paginated listing of stored records.
type LogListResponse struct {
	Page      int        `json:"page"`
	PageCount int        `json:"pageCount"`
	Total     int        `json:"total"`
	Entries   []LogEntry `json:"entries"`
}

// GetLogsParams are the query parameters of GET /logs.
type GetLogsParams struct {
	Partitions []string `form:"partitions"`
	Kinds      []string `form:"kinds"`
	Locations  []string `form:"locations"`
	Page       *int     `form:"page"`
	PageSize   *int     `form:"pageSize"`
}

// LocationStats is one aggregated per-location row.
type LocationStats struct {
	Primary    int `json:"primary"`
	Secondary1 int `json:"secondary1"`
	Secondary2 int `json:"secondary2"`
}

// StatsResponse is the per-location aggregate for one event year.
type StatsResponse struct {
	Year        string                   `json:"year"`
	Cached      bool                     `json:"cached"`
	PerLocation map[string]LocationStats `json:"perLocation"`
	Total       LocationStats            `json:"total"`
}

// ForecastResponse describes the next expected report.
type ForecastResponse struct {
	NextTime      time.Time `json:"nextTime"`
	NextCalendar  time.Time `json:"nextCalendar"`
	Countdown     string    `json:"countdown"`
	MissedCycles  int       `json:"missedCycles"`
	Approximate   bool      `json:"approximate"`
	Overdue       bool      `json:"overdue"`
	Ready         bool      `json:"ready"`
	LastEntryId   int64     `json:"lastEntryId"`
	LastTimestamp time.Time `json:"lastTimestamp"`
}

// ImportResponse reports the outcome of an additive import.
type ImportResponse struct {
	Added            int   `json:"added"`
	Skipped          int   `json:"skipped"`
	LastSavedEntryId int64 `json:"lastSavedEntryId"`
}

// Error is the uniform error body.
type Error struct {
	Error string `json:"error"`
}
