package repository

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"constructhub/internal/model"
	"constructhub/pkg/docstore"
)

type ProjectRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

func NewProjectRepository(store *docstore.Store, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{store: store, logger: logger}
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	r.logger.Debug("Fetching project", zap.String("project_id", id))

	doc, err := r.store.Get(ctx, model.CollectionProjects, id)
	if err != nil {
		return nil, err
	}
	var p model.Project
	if err := doc.Decode(&p); err != nil {
		r.logger.Error("Failed to decode project", zap.String("project_id", id), zap.Error(err))
		return nil, err
	}
	p.ID = doc.ID
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	docs, err := r.store.List(ctx, model.CollectionProjects, 0)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.logger, docs, func(p *model.Project, id string) { p.ID = id }), nil
}

// SetStageStatus rewrites taskTimeline[index].status in place. The other
// stages and any fields the model does not know about stay as stored.
func (r *ProjectRepository) SetStageStatus(ctx context.Context, id string, index int, status model.StageStatus) error {
	r.logger.Debug("Updating stage status",
		zap.String("project_id", id),
		zap.Int("stage", index),
	)

	path := []string{"taskTimeline", strconv.Itoa(index), "status"}
	if err := r.store.SetPath(ctx, model.CollectionProjects, id, path, status); err != nil {
		r.logger.Error("Failed to update stage status", zap.String("project_id", id), zap.Int("stage", index), zap.Error(err))
		return fmt.Errorf("update stage status: %w", err)
	}

	r.logger.Info("Stage status updated", zap.String("project_id", id), zap.Int("stage", index))
	return nil
}
