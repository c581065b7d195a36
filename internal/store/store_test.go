package store_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/store"
	"github.com/hannaddev/journal-tracker/internal/store/migrations"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
)

var _ = Describe("Store", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.Store
	)

	visit := func(location string, hat, scarf bool) models.VisitRecord {
		return models.VisitRecord{
			LocationName:     location,
			HasPrimaryItem:   hat,
			HasSecondaryItem: scarf,
		}
	}

	summary := func(ts time.Time) models.SummaryRecord {
		return models.SummaryRecord{
			Timestamp:     ts,
			DurationLabel: "36 hours",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.New(store.NewDuckDBPersister(db))
		Expect(s.Load(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("InsertVisit", func() {
		// Given an empty partition
		// When the same record is inserted twice
		// Then the second insert is a no-op and the aggregate counts it once
		It("should be idempotent by entry id", func() {
			inserted, err := s.InsertVisit(ctx, "2024", 10, visit("Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())

			inserted, err = s.InsertVisit(ctx, "2024", 10, visit("Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())

			_, scraped, ok := s.YearSnapshot("2024")
			Expect(ok).To(BeTrue())
			Expect(scraped).To(HaveKeyWithValue("Golem Workshop", models.CategoryStats{Secondary1: 1}))
		})

		It("should never overwrite an existing id", func() {
			_, err := s.InsertVisit(ctx, "2024", 10, visit("Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())

			inserted, err := s.InsertVisit(ctx, "2024", 10, visit("Fort Rox", false, true))
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())

			_, scraped, _ := s.YearSnapshot("2024")
			Expect(scraped).NotTo(HaveKey("Fort Rox"))
		})

		It("should aggregate items per location", func() {
			_, err := s.InsertVisit(ctx, "2024", 1, visit("Golem Workshop", true, true))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 2, visit("Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 3, visit("Fort Rox", false, false))
			Expect(err).NotTo(HaveOccurred())

			_, scraped, _ := s.YearSnapshot("2024")
			Expect(scraped).To(HaveKeyWithValue("Golem Workshop", models.CategoryStats{Secondary1: 2, Secondary2: 1}))
			Expect(scraped).To(HaveKeyWithValue("Fort Rox", models.CategoryStats{}))
		})
	})

	Context("InsertSummary", func() {
		It("should track the highest saved id", func() {
			now := time.Now().Truncate(time.Minute)

			_, err := s.InsertSummary(ctx, 5, summary(now.Add(-72*time.Hour)))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertSummary(ctx, 9, summary(now))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertSummary(ctx, 7, summary(now.Add(-36*time.Hour)))
			Expect(err).NotTo(HaveOccurred())

			id, rec, ok := s.LatestSummary()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(int64(9)))
			Expect(rec.Timestamp.Equal(now)).To(BeTrue())
		})
	})

	Context("Delete", func() {
		BeforeEach(func() {
			_, err := s.InsertVisit(ctx, "2024", 1, visit("Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 4, visit("Fort Rox", false, true))
			Expect(err).NotTo(HaveOccurred())
		})

		// Given the removed id held the highest position
		// When it is deleted
		// Then the highest id and the aggregate are recomputed from what remains
		It("should recompute derived state after deleting the highest id", func() {
			Expect(s.DeleteVisit(ctx, "2024", 4)).To(Succeed())

			_, scraped, ok := s.YearSnapshot("2024")
			Expect(ok).To(BeTrue())
			Expect(scraped).NotTo(HaveKey("Fort Rox"))
			Expect(scraped).To(HaveKeyWithValue("Golem Workshop", models.CategoryStats{Secondary1: 1}))
		})

		It("should return PartitionNotFoundError for an unknown year", func() {
			err := s.DeleteVisit(ctx, "1999", 1)
			Expect(srvErrors.IsPartitionNotFoundError(err)).To(BeTrue())
		})

		It("should rescan the highest summary id on delete", func() {
			_, err := s.InsertSummary(ctx, 3, summary(time.Now()))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertSummary(ctx, 8, summary(time.Now()))
			Expect(err).NotTo(HaveOccurred())

			Expect(s.DeleteSummary(ctx, 8)).To(Succeed())
			Expect(s.LastSavedEntryID()).To(Equal(int64(3)))
		})
	})

	Context("RunMigrationOnce", func() {
		BeforeEach(func() {
			// Two locations that collide after stripping the article.
			_, err := s.InsertVisit(ctx, "2024", 1, visit("the Foo", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 2, visit("the Foo", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 3, visit("Foo", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 4, visit("Foo", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 5, visit("Foo", true, false))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should merge colliding location keys by summing counters", func() {
			ran, err := s.RunMigrationOnce(ctx, store.FlagNormalizedLocations, store.NormalizeLocations)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeTrue())

			_, scraped, _ := s.YearSnapshot("2024")
			Expect(scraped).NotTo(HaveKey("the Foo"))
			Expect(scraped).To(HaveKeyWithValue("Foo", models.CategoryStats{Secondary1: 5}))
		})

		It("should not re-apply once the flag is set", func() {
			ran, err := s.RunMigrationOnce(ctx, store.FlagNormalizedLocations, store.NormalizeLocations)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeTrue())

			ran, err = s.RunMigrationOnce(ctx, store.FlagNormalizedLocations, store.NormalizeLocations)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeFalse())
		})

		// The transform itself is idempotent even if the guard flag were lost.
		It("should produce the same store when applied twice", func() {
			_, err := s.RunMigrationOnce(ctx, store.FlagNormalizedLocations, store.NormalizeLocations)
			Expect(err).NotTo(HaveOccurred())
			_, first, _ := s.YearSnapshot("2024")

			_, err = s.RunMigrationOnce(ctx, "SecondPass", store.NormalizeLocations)
			Expect(err).NotTo(HaveOccurred())
			_, second, _ := s.YearSnapshot("2024")

			Expect(second).To(Equal(first))
		})
	})

	Context("persistence round trip", func() {
		It("should reload the full document from the persister", func() {
			_, err := s.InsertVisit(ctx, "2024", 1, visit("the Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertSummary(ctx, 42, summary(time.Date(2024, 12, 13, 14, 5, 0, 0, time.UTC)))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SetLiveStats(ctx, "2024", map[string]int{"the Golem Workshop": 7})).To(Succeed())

			reloaded := store.New(store.NewDuckDBPersister(db))
			Expect(reloaded.Load(ctx)).To(Succeed())

			stats, scraped, ok := reloaded.YearSnapshot("2024")
			Expect(ok).To(BeTrue())
			Expect(stats).To(HaveKeyWithValue("the Golem Workshop", models.LiveStats{Primary: 7}))
			Expect(scraped).To(HaveKeyWithValue("the Golem Workshop", models.CategoryStats{Secondary1: 1}))
			Expect(reloaded.LastSavedEntryID()).To(Equal(int64(42)))
		})

		It("should start from an empty default on corrupt state", func() {
			_, err := db.ExecContext(ctx, `
				INSERT INTO document (id, data) VALUES (1, 'not json')
				ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`)
			Expect(err).NotTo(HaveOccurred())

			fresh := store.New(store.NewDuckDBPersister(db))
			Expect(fresh.Load(ctx)).To(Succeed())
			Expect(fresh.LastSavedEntryID()).To(BeZero())
		})

		It("should keep in-memory state when a flush fails", func() {
			failing := &flakyPersister{}
			broken := store.New(failing)
			Expect(broken.Load(ctx)).To(Succeed())

			failing.fail = true
			_, err := broken.InsertVisit(ctx, "2024", 99, visit("Fort Rox", false, false))
			Expect(srvErrors.IsFlushError(err)).To(BeTrue())

			// The record is still there and retried on the next flush.
			failing.fail = false
			inserted, err := broken.InsertVisit(ctx, "2024", 99, visit("Fort Rox", false, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())

			_, err = broken.InsertVisit(ctx, "2024", 100, visit("Fort Rox", false, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(failing.saved).To(BeTrue())
		})
	})

	Context("EntryStore", func() {
		It("should list the row mirror with filters", func() {
			_, err := s.InsertVisit(ctx, "2024", 1, visit("Golem Workshop", true, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertVisit(ctx, "2024", 2, visit("Fort Rox", false, false))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertSummary(ctx, 3, summary(time.Now().UTC()))
			Expect(err).NotTo(HaveOccurred())

			entries := store.NewEntryStore(db)

			rows, err := entries.List(ctx, store.ByPartition("2024"), store.WithDefaultSort())
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].ID).To(Equal(int64(1)))
			Expect(rows[0].Location).To(Equal("Golem Workshop"))

			count, err := entries.Count(ctx, store.ByKind("summary"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("should filter report rows by event time", func() {
			base := time.Date(2024, 12, 10, 12, 0, 0, 0, time.UTC)
			_, err := s.InsertSummary(ctx, 1, summary(base))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.InsertSummary(ctx, 2, summary(base.Add(36*time.Hour)))
			Expect(err).NotTo(HaveOccurred())

			entries := store.NewEntryStore(db)

			rows, err := entries.List(ctx, store.ByEventTimeRange(base, base.Add(time.Hour)))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).To(Equal(int64(1)))
		})
	})
})

// flakyPersister fails saves on demand.
type flakyPersister struct {
	fail  bool
	saved bool
}

func (f *flakyPersister) Load(ctx context.Context) ([]byte, error) {
	return nil, nil
}

func (f *flakyPersister) Save(ctx context.Context, doc []byte, partitions []store.PartitionRows) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.saved = true
	return nil
}
