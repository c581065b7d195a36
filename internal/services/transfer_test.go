package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/services"
	"github.com/hannaddev/journal-tracker/internal/store"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
)

var _ = Describe("Transfer", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		s, db = newTestStore(ctx)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	It("should name the export after the session and instant", func() {
		transfer := services.NewTransferService(s, "f3b1")
		now := time.Date(2024, 12, 14, 9, 30, 0, 0, time.UTC)

		name, data, err := transfer.Export(now)

		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("journal-tracker-f3b1-20241214-093000.json"))
		Expect(data).NotTo(BeEmpty())
	})

	It("should merge imported records without touching existing ones", func() {
		// Given a store that already holds report 2
		existing := models.SummaryRecord{Timestamp: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC), DurationLabel: "kept"}
		_, err := s.InsertSummary(ctx, 2, existing)
		Expect(err).NotTo(HaveOccurred())

		// And an export taken from a store holding reports 1, 2 and 3
		other, otherSQL := newTestStore(ctx)
		defer otherSQL.Close()
		for id := int64(1); id <= 3; id++ {
			rec := models.SummaryRecord{Timestamp: time.Date(2024, 12, int(id), 9, 0, 0, 0, time.UTC), DurationLabel: "imported"}
			_, err := other.InsertSummary(ctx, id, rec)
			Expect(err).NotTo(HaveOccurred())
		}
		_, data, err := services.NewTransferService(other, "other").Export(time.Now())
		Expect(err).NotTo(HaveOccurred())

		// When importing that export
		transfer := services.NewTransferService(s, "mine")
		result, err := transfer.Import(ctx, data)

		// Then only the missing ids are added and the watermark advances
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Added).To(Equal(2))
		Expect(result.Skipped).To(Equal(1))
		Expect(result.LastSavedEntryID).To(Equal(int64(3)))
		Expect(s.LastSavedEntryID()).To(Equal(int64(3)))

		// Report 2 kept its original content
		id, rec, ok := s.LatestSummary()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(3)))
		Expect(rec.DurationLabel).To(Equal("imported"))
		_, fullDump, err := transfer.Export(time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(fullDump)).To(ContainSubstring(`"kept"`))
	})

	It("should reject payloads that are not an exported document", func() {
		transfer := services.NewTransferService(s, "mine")

		_, err := transfer.Import(ctx, []byte(`{"logs": "not an object"`))

		Expect(err).To(HaveOccurred())
		Expect(srvErrors.IsImportFormatError(err)).To(BeTrue())
	})

	It("should round trip through export and import", func() {
		_, err := s.InsertSummary(ctx, 5, models.SummaryRecord{Timestamp: time.Date(2024, 12, 10, 8, 0, 0, 0, time.UTC)})
		Expect(err).NotTo(HaveOccurred())
		_, data, err := services.NewTransferService(s, "src").Export(time.Now())
		Expect(err).NotTo(HaveOccurred())

		fresh, freshDB := newTestStore(ctx)
		defer freshDB.Close()

		result, err := services.NewTransferService(fresh, "dst").Import(ctx, data)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Added).To(Equal(1))

		id, rec, ok := fresh.LatestSummary()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(5)))
		Expect(rec.Timestamp).To(BeTemporally("==", time.Date(2024, 12, 10, 8, 0, 0, 0, time.UTC)))
	})
})
