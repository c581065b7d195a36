// Package cycle computes the timing of the next recurring journal report from
// the last observed occurrence and a fixed cycle length. It is pure time math
// with no dependency on storage or transport.
package cycle

import (
	"fmt"
	"math"
	"time"
)

// Forecast describes the next expected occurrence of a recurring event.
type Forecast struct {
	// NextTime is the slot the countdown is computed against. When cycles were
	// missed this is the next future slot, not the first overdue one.
	NextTime time.Time
	// Countdown is the human readable remaining time, e.g. "26h 0m",
	// "3h 12m ago", "~22h 0m" or "Almost ready!".
	Countdown string
	// MissedCycles is the number of cycles inferred to have elapsed without an
	// observed event. Zero unless the overdue gap reached the threshold.
	MissedCycles int
	// Approximate is set when MissedCycles > 0: the true last occurrence beyond
	// the observed window is unknown, so the countdown is an estimate.
	Approximate bool
	// Overdue is set when the base slot has passed but no cycle was inferred
	// missed, i.e. the countdown reads "N ago".
	Overdue bool
	// Ready is set when the remaining time rounds to zero and the slot has not
	// passed.
	Ready bool
}

// Tracker forecasts occurrences of one recurring event.
type Tracker struct {
	// Length is the fixed recurrence interval.
	Length time.Duration
	// OverdueAfter is the overdue margin beyond which missing cycles are
	// inferred rather than attributed to observation latency.
	OverdueAfter time.Duration
}

// Next computes the forecast for the occurrence following last, as seen at now.
func (t Tracker) Next(last time.Time, now time.Time) Forecast {
	next := last.Add(t.Length)

	if next.Before(now) {
		overdue := now.Sub(next)
		if overdue >= t.OverdueAfter {
			// The event fired while nobody was watching, possibly more than
			// once. Count the silently elapsed cycles and aim at the next
			// future slot.
			missed := int(overdue/t.Length) + 1
			next = last.Add(t.Length * time.Duration(missed+1))
			h, m := split(next.Sub(now))
			return Forecast{
				NextTime:     next,
				Countdown:    fmt.Sprintf("~%dh %dm", h, m),
				MissedCycles: missed,
				Approximate:  true,
			}
		}

		// Short gaps are observation latency, not missed events.
		h, m := split(overdue)
		return Forecast{
			NextTime:  next,
			Countdown: fmt.Sprintf("%dh %dm ago", h, m),
			Overdue:   true,
		}
	}

	h, m := split(next.Sub(now))
	if h == 0 && m == 0 {
		return Forecast{
			NextTime:  next,
			Countdown: "Almost ready!",
			Ready:     true,
		}
	}
	return Forecast{
		NextTime:  next,
		Countdown: fmt.Sprintf("%dh %dm", h, m),
	}
}

// NextCalendar returns the next occurrence that is not in the past by repeated
// addition of the cycle length. Display-only variant: it advances past missed
// slots without counting them.
func (t Tracker) NextCalendar(last time.Time, now time.Time) time.Time {
	next := last.Add(t.Length)
	for next.Before(now) {
		next = next.Add(t.Length)
	}
	return next
}

// split decomposes a duration into whole hours and rounded minutes, carrying
// the minute component into hours when rounding reaches 60.
func split(d time.Duration) (hours, minutes int) {
	if d < 0 {
		d = -d
	}
	hours = int(d / time.Hour)
	minutes = int(math.Round(float64(d-time.Duration(hours)*time.Hour) / float64(time.Minute)))
	if minutes == 60 {
		minutes = 0
		hours++
	}
	return hours, minutes
}
