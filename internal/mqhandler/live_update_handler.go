package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	mqcontracts "constructhub/contracts/mq"
	"constructhub/internal/model"
	"constructhub/internal/notify"
	"constructhub/pkg/docstore"
	"constructhub/pkg/logger"
	"constructhub/pkg/util"
)

const (
	liveUpdateHandlerName = "live_update_fanout"
	maxBodyRunes          = 140
)

type ProjectLookup interface {
	Get(ctx context.Context, id string) (*model.Project, error)
}

type FanOuter interface {
	FanOut(ctx context.Context, req notify.Request) (int, error)
}

type Deduper interface {
	AcquireOnce(ctx context.Context, handler string, eventID string) bool
	Release(ctx context.Context, handler string, eventID string)
}

// LiveUpdatePostedHandler notifies a project's people (and the admins) about
// a new live update. The author is never notified.
type LiveUpdatePostedHandler struct {
	projects ProjectLookup
	fanout   FanOuter
	deduper  Deduper
	logger   *zap.Logger
}

func NewLiveUpdatePostedHandler(projects ProjectLookup, fanout FanOuter, deduper Deduper, logger *zap.Logger) *LiveUpdatePostedHandler {
	return &LiveUpdatePostedHandler{
		projects: projects,
		fanout:   fanout,
		deduper:  deduper,
		logger:   logger,
	}
}

func (h *LiveUpdatePostedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.LiveUpdatePostedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal LiveUpdatePostedPayload", zap.Error(err))
		return err
	}
	if p.UpdateID == "" || p.ProjectID == "" {
		return util.Permanent(fmt.Errorf("live update event missing ids"))
	}

	log := logger.WithTrace(ctx, h.logger).With(
		zap.String("update_id", p.UpdateID),
		zap.String("project_id", p.ProjectID),
	)

	if !h.deduper.AcquireOnce(ctx, liveUpdateHandlerName, p.UpdateID) {
		return nil
	}

	project, err := h.projects.Get(ctx, p.ProjectID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			log.Warn("Project gone, dropping live update fan-out")
			return nil
		}
		h.deduper.Release(ctx, liveUpdateHandlerName, p.UpdateID)
		log.Error("Failed to load project for live update", zap.Error(err))
		return err
	}

	n, err := h.fanout.FanOut(ctx, notify.Request{
		UserRefs:      project.Members(),
		IncludeAdmins: true,
		Title:         fmt.Sprintf("New update on %s", projectName(project)),
		Body:          truncate(p.Message, maxBodyRunes),
		Type:          "live_update",
		RelatedID:     p.UpdateID,
		ProjectID:     p.ProjectID,
		ActionURL:     fmt.Sprintf("/projects/%s/updates", p.ProjectID),
		SenderID:      p.AuthorID,
	})
	if err != nil {
		if n == 0 {
			h.deduper.Release(ctx, liveUpdateHandlerName, p.UpdateID)
			log.Error("Live update fan-out failed", zap.Error(err))
			return err
		}
		// 用户批次已写入，重试会产生重复通知
		log.Warn("Live update fan-out partially failed", zap.Int("notified", n), zap.Error(err))
		return nil
	}

	log.Info("Live update fan-out done", zap.Int("notified", n))
	return nil
}

func projectName(p *model.Project) string {
	if p.Name != "" {
		return p.Name
	}
	return "your project"
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
