package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"constructhub/internal/budget"
	"constructhub/internal/model"
	"constructhub/pkg/logger"
	"constructhub/pkg/rbac"
)

type ProjectStore interface {
	Get(ctx context.Context, id string) (*model.Project, error)
	SetStageStatus(ctx context.Context, id string, index int, status model.StageStatus) error
}

type LiveUpdateStore interface {
	Create(ctx context.Context, u *model.LiveUpdate) error
	ListByProject(ctx context.Context, projectID string) ([]model.LiveUpdate, error)
}

const maxUpdateLength = 2000

type ProjectService struct {
	projects ProjectStore
	updates  LiveUpdateStore
	logger   *zap.Logger
}

func NewProjectService(projects ProjectStore, updates LiveUpdateStore, logger *zap.Logger) *ProjectService {
	return &ProjectService{projects: projects, updates: updates, logger: logger}
}

// Get returns the project when the viewer is an admin or belongs to it.
func (s *ProjectService) Get(ctx context.Context, viewer Viewer, id string) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer.Role != rbac.RoleAdmin && !p.HasMember(viewer.UserID) {
		logger.WithTrace(ctx, s.logger).Warn("Project access denied",
			zap.String("project_id", id),
			zap.String("user_id", viewer.UserID),
		)
		return nil, fmt.Errorf("%w: project %s", ErrAccessDenied, id)
	}
	return p, nil
}

func (s *ProjectService) Budget(ctx context.Context, viewer Viewer, id string) (budget.Summary, error) {
	p, err := s.Get(ctx, viewer, id)
	if err != nil {
		return budget.Summary{}, err
	}
	return budget.Summarize(p.TaskTimeline), nil
}

func (s *ProjectService) Progress(ctx context.Context, viewer Viewer, id string) (budget.Progress, error) {
	p, err := s.Get(ctx, viewer, id)
	if err != nil {
		return budget.Progress{}, err
	}
	return budget.CalculateProgress(p.TaskTimeline), nil
}

func (s *ProjectService) Overview(ctx context.Context, viewer Viewer, id string) (budget.Overview, error) {
	p, err := s.Get(ctx, viewer, id)
	if err != nil {
		return budget.Overview{}, err
	}
	return budget.NewOverview(*p), nil
}

// SetStageStatus changes one stage's status and returns the new progress.
func (s *ProjectService) SetStageStatus(ctx context.Context, viewer Viewer, id string, index int, status string) (budget.Progress, error) {
	p, err := s.Get(ctx, viewer, id)
	if err != nil {
		return budget.Progress{}, err
	}
	if index < 0 || index >= len(p.TaskTimeline) {
		return budget.Progress{}, fmt.Errorf("%w: stage %d out of range", ErrInvalidInput, index)
	}
	parsed := model.ParseStageStatus(status)
	if parsed == model.StageUnknown {
		return budget.Progress{}, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}

	if err := s.projects.SetStageStatus(ctx, id, index, parsed); err != nil {
		return budget.Progress{}, err
	}
	p.TaskTimeline[index].Status = parsed

	logger.WithTrace(ctx, s.logger).Info("Stage status changed",
		zap.String("project_id", id),
		zap.Int("stage", index),
		zap.String("status", string(parsed)),
		zap.String("user_id", viewer.UserID),
	)
	return budget.CalculateProgress(p.TaskTimeline), nil
}

// PostUpdate stores a live update; fan-out happens asynchronously in the worker.
func (s *ProjectService) PostUpdate(ctx context.Context, viewer Viewer, id, message string) (*model.LiveUpdate, error) {
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > maxUpdateLength {
		return nil, fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidInput, maxUpdateLength)
	}
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return nil, err
	}

	u := &model.LiveUpdate{ProjectID: id, AuthorID: viewer.UserID, Message: message}
	if err := s.updates.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *ProjectService) ListUpdates(ctx context.Context, viewer Viewer, id string) ([]model.LiveUpdate, error) {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return nil, err
	}
	return s.updates.ListByProject(ctx, id)
}
