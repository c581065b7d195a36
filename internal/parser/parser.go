// Package parser extracts structured records from raw journal text blocks.
// All functions are pure string processing so the feed's DOM handling stays
// outside; an entry that lacks the expected markers yields an
// UnparseableEntryError and is skipped by the caller.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hannaddev/journal-tracker/internal/models"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
)

// Config carries the textual markers the extraction rules are tied to. The
// two journal features share one parser parameterized by this marker set.
type Config struct {
	// DestinationMarker introduces the destination name in a visit entry.
	DestinationMarker string
	// ReturnMarker terminates the destination name.
	ReturnMarker string
	// PrimaryItemMarker and SecondaryItemMarker are matched as substrings
	// anywhere in a visit block.
	PrimaryItemMarker   string
	SecondaryItemMarker string
	// DurationPrefix introduces the report duration label.
	DurationPrefix string
}

// DefaultConfig returns the marker set of the journal pages this tracker was
// written against.
func DefaultConfig() Config {
	return Config{
		DestinationMarker:   "It lumbered towards ",
		ReturnMarker:        " and will be back",
		PrimaryItemMarker:   "Hat",
		SecondaryItemMarker: "Scarf",
		DurationPrefix:      "Last ",
	}
}

var (
	clockRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)`)
	labelRe  = regexp.MustCompile(`([A-Za-z][A-Za-z ]*?):\s*(-?[0-9][0-9,]*)`)
	articleP = "the "
)

// ParseVisit extracts a VisitRecord from a visit entry block. A leading
// definite article is stripped from the destination name. Item flags are
// substring presence, not field extraction.
func ParseVisit(cfg Config, text string) (models.VisitRecord, error) {
	_, rest, found := strings.Cut(text, cfg.DestinationMarker)
	if !found {
		return models.VisitRecord{}, srvErrors.NewUnparseableEntryError("visit", "destination marker not found")
	}
	name, _, found := strings.Cut(rest, cfg.ReturnMarker)
	if !found {
		return models.VisitRecord{}, srvErrors.NewUnparseableEntryError("visit", "return marker not found")
	}

	return models.VisitRecord{
		LocationName:     strings.TrimPrefix(name, articleP),
		HasPrimaryItem:   strings.Contains(text, cfg.PrimaryItemMarker),
		HasSecondaryItem: strings.Contains(text, cfg.SecondaryItemMarker),
	}, nil
}

// ParseSummary extracts a SummaryRecord from a report entry block.
//
// The feed renders a report as plain lines: a header line carrying the
// "HH:MM am/pm" clock label, a "Last <duration>" subtitle, then label/value
// lines. A line holding two label/value pairs represents the two-column table
// layout: the left pair is the gold column, the right pair the points column.
//
// The clock label is resolved against the calendar day of now; entries are
// always in the past, so a resulting instant in the future rolls back one
// day (a scrape just after midnight reading yesterday's clock time).
// A missing or malformed clock label fails the whole record; no partial
// record is produced. Absent label/value pairs leave fields nil.
func ParseSummary(cfg Config, text string, now time.Time) (models.SummaryRecord, error) {
	ts, err := parseClockLabel(text, now)
	if err != nil {
		return models.SummaryRecord{}, err
	}

	rec := models.SummaryRecord{Timestamp: ts}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if rest, found := strings.CutPrefix(line, cfg.DurationPrefix); found && rec.DurationLabel == "" {
			rec.DurationLabel = rest
			continue
		}

		pairs := labelRe.FindAllStringSubmatch(line, -1)
		for side, pair := range pairs {
			value, err := parseAmount(pair[2])
			if err != nil {
				continue
			}
			applyPair(&rec, pair[1], side, value)
		}
	}

	return rec, nil
}

// applyPair assigns a recognized label/value pair to its record field. For
// the Gained/Lost/Total labels the side within the line picks gold (left)
// or points (right).
func applyPair(rec *models.SummaryRecord, label string, side int, value int) {
	switch {
	case strings.Contains(label, "Catches"):
		rec.Catches = &value
	case strings.Contains(label, "Fail to Attract"):
		rec.FailedAttempts = &value
	case strings.Contains(label, "Misses"):
		rec.Misses = &value
	case strings.Contains(label, "Gained"):
		setSided(rec, side, value, &rec.GoldDelta, &rec.PointsDelta)
	case strings.Contains(label, "Lost"):
		setSided(rec, side, -value, &rec.GoldDelta, &rec.PointsDelta)
	case strings.Contains(label, "Total"):
		setSided(rec, side, value, &rec.GoldTotal, &rec.PointsTotal)
	}
}

func setSided(rec *models.SummaryRecord, side int, value int, gold, points **int) {
	if side == 0 {
		*gold = &value
	} else {
		*points = &value
	}
}

// parseClockLabel resolves a 12-hour "HH:MM am/pm" label against the current
// calendar day of now.
func parseClockLabel(text string, now time.Time) (time.Time, error) {
	m := clockRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, srvErrors.NewUnparseableEntryError("summary", "clock label not found")
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return time.Time{}, srvErrors.NewUnparseableEntryError("summary", "malformed clock label")
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return time.Time{}, srvErrors.NewUnparseableEntryError("summary", "malformed clock label")
	}

	if m[3] == "pm" && hour != 12 {
		hour += 12
	} else if m[3] == "am" && hour == 12 {
		hour -= 12
	}

	ts := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if ts.After(now) {
		ts = ts.AddDate(0, 0, -1)
	}
	return ts, nil
}

// parseAmount parses an integer value after removing thousands separators.
func parseAmount(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}
