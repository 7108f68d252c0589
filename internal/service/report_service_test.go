package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"constructhub/internal/model"
	"constructhub/internal/service"
)

var _ = Describe("ReportService", func() {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	It("aggregates invoices and consultations as of the clock", func() {
		invoices := &mockInvoiceStore{listFn: func(context.Context) ([]model.Invoice, error) {
			return []model.Invoice{{Status: model.InvoicePaid, Amount: 100000, PaidAt: model.NewTimestamp(now.AddDate(0, 0, -3))}}, nil
		}}
		consultations := &mockConsultationStore{listFn: func(context.Context) ([]model.ConsultationRegistration, error) {
			return []model.ConsultationRegistration{{Plan: "BuildPath Consultation", Status: model.ConsultationSuccess, CreatedAt: model.NewTimestamp(now)}}, nil
		}}

		svc := service.NewReportService(invoices, consultations, zap.NewNop()).WithClock(func() time.Time { return now })
		report, err := svc.Revenue(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.ThisMonth).To(Equal(int64(100498)))
	})

	It("fails when a collection cannot be loaded", func() {
		invoices := &mockInvoiceStore{listFn: func(context.Context) ([]model.Invoice, error) {
			return nil, errors.New("db down")
		}}
		svc := service.NewReportService(invoices, &mockConsultationStore{}, zap.NewNop())
		_, err := svc.Revenue(context.Background())
		Expect(err).To(MatchError("db down"))
	})
})
