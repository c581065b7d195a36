package cycle_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hannaddev/journal-tracker/pkg/cycle"
)

var _ = Describe("Tracker", func() {
	var (
		tracker cycle.Tracker
		now     time.Time
	)

	BeforeEach(func() {
		tracker = cycle.Tracker{
			Length:       36 * time.Hour,
			OverdueAfter: 8 * time.Hour,
		}
		now = time.Date(2024, 12, 14, 12, 0, 0, 0, time.UTC)
	})

	Context("Next", func() {
		// Given a report observed 10h ago with a 36h cycle
		// When we forecast the next occurrence
		// Then it is due in 26h with no missed cycles
		It("should count down to the upcoming slot", func() {
			last := now.Add(-10 * time.Hour)

			f := tracker.Next(last, now)

			Expect(f.NextTime).To(Equal(now.Add(26 * time.Hour)))
			Expect(f.Countdown).To(Equal("26h 0m"))
			Expect(f.MissedCycles).To(BeZero())
			Expect(f.Approximate).To(BeFalse())
			Expect(f.Overdue).To(BeFalse())
		})

		It("should round minutes and carry into hours", func() {
			last := now.Add(-36 * time.Hour).Add(59*time.Minute + 36*time.Second)

			f := tracker.Next(last, now)

			Expect(f.Countdown).To(Equal("1h 0m"))
		})

		It("should report a distinct ready state instead of 0h 0m", func() {
			last := now.Add(-36 * time.Hour).Add(10 * time.Second)

			f := tracker.Next(last, now)

			Expect(f.Ready).To(BeTrue())
			Expect(f.Countdown).To(Equal("Almost ready!"))
		})

		// Given a slot that passed 4h ago, below the 8h threshold
		// When we forecast
		// Then the gap reads as elapsed time, not as a missed cycle
		It("should report short overdue gaps as elapsed", func() {
			last := now.Add(-40 * time.Hour)

			f := tracker.Next(last, now)

			Expect(f.Overdue).To(BeTrue())
			Expect(f.Countdown).To(Equal("4h 0m ago"))
			Expect(f.MissedCycles).To(BeZero())
			Expect(f.Approximate).To(BeFalse())
		})

		// Given a slot that passed 14h ago, beyond the 8h threshold
		// When we forecast
		// Then one missed cycle is inferred and the countdown targets the
		// next future slot, marked approximate
		It("should infer a missed cycle beyond the overdue threshold", func() {
			last := now.Add(-50 * time.Hour)

			f := tracker.Next(last, now)

			Expect(f.MissedCycles).To(Equal(1))
			Expect(f.NextTime).To(Equal(last.Add(72 * time.Hour)))
			Expect(f.Countdown).To(Equal("~22h 0m"))
			Expect(f.Approximate).To(BeTrue())
			Expect(f.Overdue).To(BeFalse())
		})

		It("should infer multiple missed cycles for long gaps", func() {
			last := now.Add(-116 * time.Hour) // overdue by 80h

			f := tracker.Next(last, now)

			Expect(f.MissedCycles).To(Equal(3))
			Expect(f.NextTime).To(Equal(last.Add(4 * 36 * time.Hour)))
			Expect(f.NextTime.After(now)).To(BeTrue())
			Expect(f.Approximate).To(BeTrue())
		})

		// The threshold boundary itself counts as a missed cycle.
		It("should infer a missed cycle at exactly the threshold", func() {
			last := now.Add(-44 * time.Hour) // overdue by exactly 8h

			f := tracker.Next(last, now)

			Expect(f.MissedCycles).To(Equal(1))
			Expect(f.Approximate).To(BeTrue())
		})

		It("should stay on elapsed reporting just under the threshold", func() {
			last := now.Add(-44*time.Hour + time.Minute) // overdue by 7h59m

			f := tracker.Next(last, now)

			Expect(f.MissedCycles).To(BeZero())
			Expect(f.Overdue).To(BeTrue())
			Expect(f.Countdown).To(Equal("7h 59m ago"))
		})
	})

	Context("NextCalendar", func() {
		It("should return the base slot when it is still ahead", func() {
			last := now.Add(-10 * time.Hour)

			next := tracker.NextCalendar(last, now)

			Expect(next).To(Equal(last.Add(36 * time.Hour)))
		})

		// Both routines agree on cycleLength and last occurrence: the calendar
		// variant lands on the same future slot the missed-cycle correction
		// computes against.
		It("should advance past missed slots", func() {
			last := now.Add(-50 * time.Hour)

			next := tracker.NextCalendar(last, now)

			Expect(next).To(Equal(last.Add(72 * time.Hour)))
			Expect(next).To(Equal(tracker.Next(last, now).NextTime))
		})
	})
})
