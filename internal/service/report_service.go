package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"constructhub/internal/model"
	"constructhub/internal/revenue"
	"constructhub/pkg/logger"
)

type InvoiceStore interface {
	List(ctx context.Context) ([]model.Invoice, error)
}

type ConsultationStore interface {
	List(ctx context.Context) ([]model.ConsultationRegistration, error)
}

type ReportService struct {
	invoices      InvoiceStore
	consultations ConsultationStore
	logger        *zap.Logger
	now           func() time.Time
}

func NewReportService(invoices InvoiceStore, consultations ConsultationStore, logger *zap.Logger) *ReportService {
	return &ReportService{
		invoices:      invoices,
		consultations: consultations,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock replaces the time source used as "now".
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Revenue loads invoices and consultations in parallel and aggregates them.
func (s *ReportService) Revenue(ctx context.Context) (revenue.Report, error) {
	var (
		invoices      []model.Invoice
		consultations []model.ConsultationRegistration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = s.invoices.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		consultations, err = s.consultations.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.WithTrace(ctx, s.logger).Error("Failed to load revenue records", zap.Error(err))
		return revenue.Report{}, err
	}

	report := revenue.Aggregate(invoices, consultations, s.now())
	logger.WithTrace(ctx, s.logger).Info("Revenue report built",
		zap.Int("invoices", len(invoices)),
		zap.Int("consultations", len(consultations)),
		zap.Int("undated", report.Undated),
	)
	return report, nil
}
