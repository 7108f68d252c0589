package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructhub/internal/budget"
	"constructhub/internal/model"
	"constructhub/internal/service"
)

type ProjectAPI interface {
	Get(ctx context.Context, viewer service.Viewer, id string) (*model.Project, error)
	Budget(ctx context.Context, viewer service.Viewer, id string) (budget.Summary, error)
	Progress(ctx context.Context, viewer service.Viewer, id string) (budget.Progress, error)
	Overview(ctx context.Context, viewer service.Viewer, id string) (budget.Overview, error)
	SetStageStatus(ctx context.Context, viewer service.Viewer, id string, index int, status string) (budget.Progress, error)
	PostUpdate(ctx context.Context, viewer service.Viewer, id, message string) (*model.LiveUpdate, error)
	ListUpdates(ctx context.Context, viewer service.Viewer, id string) ([]model.LiveUpdate, error)
}

type ProjectHandler struct {
	projects ProjectAPI
	logger   *zap.Logger
}

func NewProjectHandler(projects ProjectAPI, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed to load project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /projects/:id/budget
func (h *ProjectHandler) GetBudget(c *gin.Context) {
	s, err := h.projects.Budget(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed to compute budget", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalBudget":        s.TotalBudget,
		"costIncurred":       s.CostIncurred,
		"remainingBudget":    s.RemainingBudget,
		"budgetSpentPercent": s.SpentPercent(),
	})
}

// GET /projects/:id/progress
func (h *ProjectHandler) GetProgress(c *gin.Context) {
	p, err := h.projects.Progress(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed to compute progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /projects/:id/overview
func (h *ProjectHandler) GetOverview(c *gin.Context) {
	o, err := h.projects.Overview(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed to compute overview", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type stageStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /projects/:id/stages/:index
func (h *ProjectHandler) SetStageStatus(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage index"})
		return
	}
	var req stageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	progress, err := h.projects.SetStageStatus(c.Request.Context(), viewerFrom(c), c.Param("id"), index, req.Status)
	if err != nil {
		writeError(c, h.logger, "failed to update stage", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

type postUpdateRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /projects/:id/updates
func (h *ProjectHandler) PostUpdate(c *gin.Context) {
	var req postUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	u, err := h.projects.PostUpdate(c.Request.Context(), viewerFrom(c), c.Param("id"), req.Message)
	if err != nil {
		writeError(c, h.logger, "failed to post update", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GET /projects/:id/updates
func (h *ProjectHandler) ListUpdates(c *gin.Context) {
	updates, err := h.projects.ListUpdates(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed to list updates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates})
}
