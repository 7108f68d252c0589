package revenue_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"constructhub/internal/model"
	"constructhub/internal/revenue"
)

var now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func ts(y int, m time.Month, d int) model.Timestamp {
	return model.NewTimestamp(time.Date(y, m, d, 9, 0, 0, 0, time.UTC))
}

func invoice(status model.InvoiceStatus, amount any, paidAt model.Timestamp) model.Invoice {
	return model.Invoice{Status: status, Amount: amount, PaidAt: paidAt}
}

var _ = Describe("PlanPrice", func() {
	It("uses the fixed plan table", func() {
		Expect(revenue.PlanPrice("BuildPath Consultation")).To(Equal(int64(498)))
		Expect(revenue.PlanPrice("LandFit Consultation")).To(Equal(int64(299)))
		Expect(revenue.PlanPrice("  landfit   consultation ")).To(Equal(int64(299)))
		Expect(revenue.PlanPrice("Premium")).To(Equal(int64(0)))
	})
})

var _ = Describe("ResolveDate", func() {
	It("prefers paidAt, then createdAt, then the raw date", func() {
		paid, created := ts(2026, 5, 1), ts(2026, 4, 1)

		at, ok := revenue.ResolveDate(paid, created, "2026-03-01", time.UTC)
		Expect(ok).To(BeTrue())
		Expect(at.Month()).To(Equal(time.May))

		at, ok = revenue.ResolveDate(model.Timestamp{}, created, "2026-03-01", time.UTC)
		Expect(ok).To(BeTrue())
		Expect(at.Month()).To(Equal(time.April))

		at, ok = revenue.ResolveDate(model.Timestamp{}, model.Timestamp{}, "March 1, 2026", time.UTC)
		Expect(ok).To(BeTrue())
		Expect(at.Month()).To(Equal(time.March))

		_, ok = revenue.ResolveDate(model.Timestamp{}, model.Timestamp{}, "soon", time.UTC)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Aggregate", func() {
	It("always returns twelve zero-filled months ending with the current one", func() {
		r := revenue.Aggregate(nil, nil, now)
		Expect(r.Monthly).To(HaveLen(12))
		Expect(r.Monthly[0].Year).To(Equal(2025))
		Expect(r.Monthly[0].Month).To(Equal(time.November))
		Expect(r.Monthly[11].Year).To(Equal(2026))
		Expect(r.Monthly[11].Month).To(Equal(time.October))
		Expect(r.Monthly[11].Label).To(Equal("Oct 2026"))
		for _, m := range r.Monthly {
			Expect(m.Total).To(BeZero())
		}
		Expect(r.StatusBreakdown).To(Equal(revenue.StatusBreakdown{}))
	})

	It("adds a paid invoice and a BuildPath consultation into this month", func() {
		r := revenue.Aggregate(
			[]model.Invoice{invoice(model.InvoicePaid, "₦100,000", ts(2026, 10, 2))},
			[]model.ConsultationRegistration{{Plan: "BuildPath Consultation", Status: model.ConsultationSuccess, PaidAt: ts(2026, 10, 5)}},
			now,
		)
		Expect(r.ThisMonth).To(Equal(int64(100498)))
		Expect(r.Monthly[11].Invoices).To(Equal(int64(100000)))
		Expect(r.Monthly[11].Consultations).To(Equal(int64(498)))
		Expect(r.Monthly[11].Total).To(Equal(int64(100498)))
	})

	It("ignores unsettled records for money but counts outstanding invoices", func() {
		r := revenue.Aggregate(
			[]model.Invoice{
				invoice(model.InvoicePending, 5000, ts(2026, 10, 1)),
				invoice(model.InvoiceOverdue, 7000, ts(2026, 9, 1)),
				invoice(model.InvoicePaid, 1000, ts(2026, 9, 1)),
			},
			[]model.ConsultationRegistration{{Plan: "LandFit Consultation", Status: model.ConsultationFailed, PaidAt: ts(2026, 10, 1)}},
			now,
		)
		Expect(r.ThisMonth).To(BeZero())
		Expect(r.OutstandingInvoices).To(Equal(2))
		Expect(r.TotalYTD).To(Equal(int64(1000)))
		Expect(r.Monthly[10].Invoices).To(Equal(int64(1000)))
	})

	It("buckets a record with only createdAt into its created month", func() {
		r := revenue.Aggregate(
			[]model.Invoice{{Status: model.InvoicePaid, Amount: 250, CreatedAt: ts(2026, 7, 14)}},
			nil,
			now,
		)
		Expect(r.Monthly[8].Month).To(Equal(time.July))
		Expect(r.Monthly[8].Invoices).To(Equal(int64(250)))
	})

	It("limits year-to-date to the current year and skips undated records", func() {
		r := revenue.Aggregate(
			[]model.Invoice{
				invoice(model.InvoicePaid, 100, ts(2025, 12, 20)),
				invoice(model.InvoicePaid, 200, ts(2026, 1, 3)),
				{Status: model.InvoicePaid, Amount: 999, Date: "unknown"},
			},
			nil,
			now,
		)
		Expect(r.TotalYTD).To(Equal(int64(200)))
		Expect(r.Monthly[1].Invoices).To(Equal(int64(100)))
		Expect(r.Undated).To(Equal(1))
	})

	It("keeps records older than the window out of the series", func() {
		r := revenue.Aggregate(
			[]model.Invoice{invoice(model.InvoicePaid, 100, ts(2024, 1, 1))},
			nil,
			now,
		)
		for _, m := range r.Monthly {
			Expect(m.Total).To(BeZero())
		}
	})

	DescribeTable("status breakdown never exceeds 100",
		func(paid, pending, overdue int, expected revenue.StatusBreakdown) {
			var invoices []model.Invoice
			for range paid {
				invoices = append(invoices, model.Invoice{Status: model.InvoicePaid})
			}
			for range pending {
				invoices = append(invoices, model.Invoice{Status: model.InvoicePending})
			}
			for range overdue {
				invoices = append(invoices, model.Invoice{Status: model.InvoiceOverdue})
			}
			b := revenue.Aggregate(invoices, nil, now).StatusBreakdown
			Expect(b).To(Equal(expected))
			Expect(b.Sum()).To(BeNumerically("<=", 100))
		},
		Entry("thirds", 1, 1, 1, revenue.StatusBreakdown{Paid: 33, Pending: 33, Overdue: 33}),
		Entry("halves", 1, 1, 0, revenue.StatusBreakdown{Paid: 50, Pending: 50}),
		Entry("two categories round up", 1, 2, 5, revenue.StatusBreakdown{Paid: 12, Pending: 25, Overdue: 63}),
		Entry("all paid", 4, 0, 0, revenue.StatusBreakdown{Paid: 100}),
	)

	It("shares the breakdown over every invoice, unknown statuses included", func() {
		invoices := []model.Invoice{
			{Status: model.InvoicePaid},
			{Status: model.InvoicePending},
			{Status: model.InvoiceUnknown},
			{Status: model.InvoiceUnknown},
		}
		b := revenue.Aggregate(invoices, nil, now).StatusBreakdown
		Expect(b).To(Equal(revenue.StatusBreakdown{Paid: 25, Pending: 25}))
	})
})

var _ = Describe("Aggregate across time zones", func() {
	decodeInvoice := func(raw string) model.Invoice {
		var inv model.Invoice
		Expect(json.Unmarshal([]byte(raw), &inv)).To(Succeed())
		return inv
	}

	DescribeTable("keeps zone-less dates on the day they were written",
		func(loc *time.Location) {
			at := time.Date(2026, time.October, 19, 23, 59, 0, 0, loc)
			r := revenue.Aggregate([]model.Invoice{
				decodeInvoice(`{"amount":1000,"status":"paid","createdAt":"2026-10-01"}`),
				decodeInvoice(`{"amount":50,"status":"paid","date":"2026-01-01 00:00:00"}`),
			}, nil, at)

			Expect(r.ThisMonth).To(Equal(int64(1000)))
			Expect(r.Monthly[11].Invoices).To(Equal(int64(1000)))
			Expect(r.Monthly[10].Invoices).To(BeZero())
			Expect(r.Monthly[2].Month).To(Equal(time.January))
			Expect(r.Monthly[2].Invoices).To(Equal(int64(50)))
			Expect(r.TotalYTD).To(Equal(int64(1050)))
		},
		Entry("UTC", time.UTC),
		Entry("west of UTC", time.FixedZone("EST", -5*60*60)),
		Entry("east of UTC", time.FixedZone("WAT", 60*60)),
	)

	It("still converts dates that carry a zone", func() {
		est := time.FixedZone("EST", -5*60*60)
		at := time.Date(2026, time.October, 19, 12, 0, 0, 0, est)
		r := revenue.Aggregate([]model.Invoice{
			decodeInvoice(`{"amount":300,"status":"paid","paidAt":"2026-10-01T02:00:00Z"}`),
		}, nil, at)

		Expect(r.ThisMonth).To(BeZero())
		Expect(r.Monthly[10].Month).To(Equal(time.September))
		Expect(r.Monthly[10].Invoices).To(Equal(int64(300)))
	})
})
