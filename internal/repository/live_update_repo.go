package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "constructhub/contracts/mq"
	"constructhub/internal/model"
	"constructhub/pkg/docstore"
	"constructhub/pkg/idgen"
	"constructhub/pkg/trace"
)

type LiveUpdateRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

func NewLiveUpdateRepository(store *docstore.Store, logger *zap.Logger) *LiveUpdateRepository {
	return &LiveUpdateRepository{store: store, logger: logger}
}

// Create stores the update together with its live_update.posted event.
func (r *LiveUpdateRepository) Create(ctx context.Context, u *model.LiveUpdate) error {
	if u.ID == "" {
		u.ID = idgen.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = model.NewTimestamp(time.Now().UTC())
	}
	r.logger.Debug("Posting live update",
		zap.String("project_id", u.ProjectID),
		zap.String("author_id", u.AuthorID),
	)

	batch := r.store.NewBatch()
	if err := batch.Create(model.CollectionLiveUpdates, u.ID, u); err != nil {
		return err
	}
	err := batch.Emit("live_update", u.ID, mqcontracts.RoutingKeyLiveUpdatePosted, mqcontracts.LiveUpdatePostedPayload{
		UpdateID:  u.ID,
		ProjectID: u.ProjectID,
		AuthorID:  u.AuthorID,
		Message:   u.Message,
		PostedAt:  u.CreatedAt.Time,
		TraceID:   trace.FromContext(ctx),
	})
	if err != nil {
		return err
	}

	if err := batch.Commit(ctx); err != nil {
		r.logger.Error("Failed to post live update", zap.String("project_id", u.ProjectID), zap.Error(err))
		return fmt.Errorf("create live update: %w", err)
	}

	r.logger.Info("Live update posted",
		zap.String("update_id", u.ID),
		zap.String("project_id", u.ProjectID),
	)
	return nil
}

func (r *LiveUpdateRepository) ListByProject(ctx context.Context, projectID string) ([]model.LiveUpdate, error) {
	docs, err := r.store.QueryByField(ctx, model.CollectionLiveUpdates, "projectId", projectID)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.logger, docs, func(u *model.LiveUpdate, id string) { u.ID = id }), nil
}
