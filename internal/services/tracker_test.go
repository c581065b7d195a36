package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/parser"
	"github.com/hannaddev/journal-tracker/internal/services"
	"github.com/hannaddev/journal-tracker/internal/store"
	"github.com/hannaddev/journal-tracker/internal/store/migrations"
	"github.com/hannaddev/journal-tracker/pkg/cycle"
)

func newTestStore(ctx context.Context) (*store.Store, *sql.DB) {
	db, err := store.NewDB(":memory:")
	Expect(err).NotTo(HaveOccurred())
	Expect(migrations.Run(ctx, db)).To(Succeed())

	s := store.New(store.NewDuckDBPersister(db))
	Expect(s.Load(ctx)).To(Succeed())
	return s, db
}

var _ = Describe("Tracker", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		s       *store.Store
		tracker *services.Tracker
	)

	visitText := "The golem arrived carrying a Hat! It lumbered towards the Golem Workshop and will be back soon."
	summaryText := "2:05 pm - Journal Log\nLast 36 hours\nCatches: 120\nMisses: 4\n"

	BeforeEach(func() {
		ctx = context.Background()
		s, db = newTestStore(ctx)

		tracker = services.NewTrackerService(
			s,
			parser.DefaultConfig(),
			"2024",
			cycle.Tracker{Length: 36 * time.Hour, OverdueAfter: 8 * time.Hour},
			nil,
			nil,
		)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("HandleBatch", func() {
		It("should parse and store a mixed batch", func() {
			result, err := tracker.HandleBatch(ctx, []models.RawEntry{
				{ID: 1, Kind: models.EntryKindVisit, Text: visitText},
				{ID: 2, Kind: models.EntryKindSummary, Text: summaryText},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Inserted).To(Equal(2))

			_, scraped, ok := s.YearSnapshot("2024")
			Expect(ok).To(BeTrue())
			Expect(scraped).To(HaveKeyWithValue("Golem Workshop", models.CategoryStats{Secondary1: 1}))

			id, rec, ok := s.LatestSummary()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(int64(2)))
			Expect(rec.Catches).To(HaveValue(Equal(120)))
			Expect(rec.Open).To(Equal(models.SummaryRef{Kind: "summary", ID: 2}))
		})

		// The feed may deliver the same batch more than once.
		It("should tolerate redelivered batches", func() {
			batch := []models.RawEntry{{ID: 1, Kind: models.EntryKindVisit, Text: visitText}}

			first, err := tracker.HandleBatch(ctx, batch)
			Expect(err).NotTo(HaveOccurred())
			second, err := tracker.HandleBatch(ctx, batch)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Inserted).To(Equal(1))
			Expect(second.Inserted).To(BeZero())
			Expect(second.Skipped).To(Equal(1))

			_, scraped, _ := s.YearSnapshot("2024")
			Expect(scraped["Golem Workshop"]).To(Equal(models.CategoryStats{Secondary1: 1}))
		})

		It("should skip unparseable entries and continue", func() {
			result, err := tracker.HandleBatch(ctx, []models.RawEntry{
				{ID: 1, Kind: models.EntryKindVisit, Text: "nothing recognizable"},
				{ID: 2, Kind: models.EntryKindVisit, Text: visitText},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Failed).To(Equal(1))
			Expect(result.Inserted).To(Equal(1))
		})

		It("should ignore entries of unknown kind", func() {
			result, err := tracker.HandleBatch(ctx, []models.RawEntry{
				{ID: 1, Kind: "weather", Text: "A storm rolls in."},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Inserted).To(BeZero())
			Expect(result.Skipped).To(Equal(1))
		})
	})

	Context("Forecast", func() {
		It("should report no forecast without observed reports", func() {
			_, ok := tracker.Forecast(time.Now())
			Expect(ok).To(BeFalse())
		})

		It("should forecast from the latest stored report", func() {
			now := time.Date(2024, 12, 14, 12, 0, 0, 0, time.UTC)
			_, err := s.InsertSummary(ctx, 7, models.SummaryRecord{Timestamp: now.Add(-10 * time.Hour)})
			Expect(err).NotTo(HaveOccurred())

			f, ok := tracker.Forecast(now)

			Expect(ok).To(BeTrue())
			Expect(f.LastEntryID).To(Equal(int64(7)))
			Expect(f.Countdown).To(Equal("26h 0m"))
			Expect(f.NextCalendar).To(Equal(f.NextTime))
		})
	})

	Context("TriggerRescrape", func() {
		It("should fail without a configured trigger", func() {
			Expect(tracker.TriggerRescrape()).To(HaveOccurred())
		})
	})
})
