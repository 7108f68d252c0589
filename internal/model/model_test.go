package model_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"constructhub/internal/model"
)

var _ = Describe("StageStatus", func() {
	DescribeTable("decodes loosely written values",
		func(raw string, expected model.StageStatus) {
			var s model.StageStatus
			Expect(json.Unmarshal([]byte(raw), &s)).To(Succeed())
			Expect(s).To(Equal(expected))
		},
		Entry("title case", `"Completed"`, model.StageCompleted),
		Entry("spaced", `"In Progress"`, model.StageInProgress),
		Entry("snake case", `"in_progress"`, model.StageInProgress),
		Entry("collapsed", `"inprogress"`, model.StageInProgress),
		Entry("lower pending", `"pending"`, model.StagePending),
		Entry("ongoing", `"ONGOING"`, model.StageOngoing),
		Entry("garbage", `"whatever"`, model.StageUnknown),
		Entry("not a string", `42`, model.StageUnknown),
	)
})

var _ = Describe("settled statuses", func() {
	It("treats paid invoices and successful consultations as settled", func() {
		Expect(model.ParseInvoiceStatus("Paid").Settled()).To(BeTrue())
		Expect(model.ParseInvoiceStatus("pending").Settled()).To(BeFalse())
		Expect(model.ParseConsultationStatus("SUCCESS").Settled()).To(BeTrue())
		Expect(model.ParseConsultationStatus("failed").Settled()).To(BeFalse())
	})

	It("counts pending and overdue invoices as outstanding", func() {
		Expect(model.InvoicePending.Outstanding()).To(BeTrue())
		Expect(model.InvoiceOverdue.Outstanding()).To(BeTrue())
		Expect(model.InvoicePaid.Outstanding()).To(BeFalse())
	})
})

var _ = Describe("Timestamp", func() {
	decode := func(raw string) model.Timestamp {
		var ts model.Timestamp
		Expect(json.Unmarshal([]byte(raw), &ts)).To(Succeed())
		return ts
	}

	It("reads RFC3339 strings", func() {
		ts := decode(`"2026-03-04T10:00:00Z"`)
		Expect(ts.Time).To(BeTemporally("==", time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)))
	})

	It("reads date-only strings", func() {
		ts := decode(`"2026-03-04"`)
		Expect(ts.Year()).To(Equal(2026))
		Expect(ts.Month()).To(Equal(time.March))
		Expect(ts.Day()).To(Equal(4))
	})

	It("reads epoch milliseconds", func() {
		ts := decode(`1767225600000`)
		Expect(ts.Time).To(BeTemporally("==", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	It("reads seconds objects in both spellings", func() {
		a := decode(`{"seconds": 1767225600, "nanoseconds": 0}`)
		b := decode(`{"_seconds": 1767225600, "_nanoseconds": 0}`)
		Expect(a.Time).To(BeTemporally("==", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
		Expect(b.Time).To(BeTemporally("==", a.Time))
	})

	It("turns unreadable values into the zero time", func() {
		Expect(decode(`"not a date"`).IsZero()).To(BeTrue())
		Expect(decode(`null`).IsZero()).To(BeTrue())
		Expect(decode(`true`).IsZero()).To(BeTrue())
	})

	It("keeps the calendar day of zone-less values in another location", func() {
		est := time.FixedZone("EST", -5*60*60)
		local := decode(`"2026-10-01"`).In(est)
		Expect(local.Day()).To(Equal(1))
		Expect(local.Month()).To(Equal(time.October))
		Expect(local.Location()).To(Equal(est))

		zoned := decode(`"2026-10-01T00:00:00Z"`).In(est)
		Expect(zoned.Day()).To(Equal(30))
		Expect(zoned.Month()).To(Equal(time.September))
	})

	It("parses zone-less strings in the given location", func() {
		wat := time.FixedZone("WAT", 60*60)
		t, ok := model.ParseDateIn("2026-10-01 08:30:00", wat)
		Expect(ok).To(BeTrue())
		Expect(t.Hour()).To(Equal(8))
		Expect(t.Location()).To(Equal(wat))
	})

	It("encodes the zero value as null", func() {
		out, err := json.Marshal(model.Timestamp{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("null"))
	})
})

var _ = Describe("UserRef", func() {
	It("resolves path and bare forms to the same id", func() {
		Expect(model.UserRef("users/abc").ID()).To(Equal("abc"))
		Expect(model.UserRef("/users/abc").ID()).To(Equal("abc"))
		Expect(model.UserRef("abc").ID()).To(Equal("abc"))
	})

	It("decodes object references", func() {
		var refs []model.UserRef
		Expect(json.Unmarshal([]byte(`["u1", {"id": "u2"}, {"path": "users/u3"}]`), &refs)).To(Succeed())
		Expect(refs[0].ID()).To(Equal("u1"))
		Expect(refs[1].ID()).To(Equal("u2"))
		Expect(refs[2].ID()).To(Equal("u3"))
	})
})

var _ = Describe("Project", func() {
	It("lists members and checks membership", func() {
		p := model.Project{
			Manager:  "users/pm",
			Users:    model.RefsFromIDs("c1"),
			Team:     model.RefsFromIDs("t1", "t2"),
			ClientID: "client-9",
		}
		Expect(p.Members()).To(HaveLen(4))
		Expect(p.HasMember("pm")).To(BeTrue())
		Expect(p.HasMember("t2")).To(BeTrue())
		Expect(p.HasMember("client-9")).To(BeTrue())
		Expect(p.HasMember("stranger")).To(BeFalse())
		Expect(p.HasMember("")).To(BeFalse())
	})

	It("decodes a stored project with loose fields", func() {
		raw := `{
			"name": "Lekki Duplex",
			"status": "ongoing",
			"initialBudget": "₦10,000,000",
			"taskTimeline": [
				{"name": "Foundation", "status": "Completed", "cost": 500000,
				 "tasks": [{"name": "Excavation", "status": "completed", "cost": "₦50,000"}]},
				{"name": "Roofing", "status": "In Progress", "cost": "1,200,000"}
			],
			"manager": "users/pm1"
		}`
		var p model.Project
		Expect(json.Unmarshal([]byte(raw), &p)).To(Succeed())
		Expect(p.Status).To(Equal(model.ProjectOngoing))
		Expect(p.TaskTimeline).To(HaveLen(2))
		Expect(p.TaskTimeline[0].Tasks[0].Status).To(Equal(model.StageCompleted))
		Expect(p.TaskTimeline[1].Tasks).To(BeNil())
		Expect(p.Manager.ID()).To(Equal("pm1"))
	})
})
