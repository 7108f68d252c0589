package repository

import (
	"context"

	"go.uber.org/zap"

	"constructhub/internal/model"
	"constructhub/pkg/docstore"
)

type InvoiceRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

func NewInvoiceRepository(store *docstore.Store, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{store: store, logger: logger}
}

func (r *InvoiceRepository) List(ctx context.Context) ([]model.Invoice, error) {
	docs, err := r.store.List(ctx, model.CollectionInvoices, 0)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.logger, docs, func(i *model.Invoice, id string) { i.ID = id }), nil
}

func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID string) ([]model.Invoice, error) {
	docs, err := r.store.QueryByField(ctx, model.CollectionInvoices, "projectId", projectID)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.logger, docs, func(i *model.Invoice, id string) { i.ID = id }), nil
}

type ConsultationRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

func NewConsultationRepository(store *docstore.Store, logger *zap.Logger) *ConsultationRepository {
	return &ConsultationRepository{store: store, logger: logger}
}

func (r *ConsultationRepository) List(ctx context.Context) ([]model.ConsultationRegistration, error) {
	docs, err := r.store.List(ctx, model.CollectionConsultations, 0)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.logger, docs, func(c *model.ConsultationRegistration, id string) { c.ID = id }), nil
}
