package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructhub/internal/model"
	"constructhub/internal/notify"
	"constructhub/pkg/logger"
)

type FanOuter interface {
	FanOut(ctx context.Context, req notify.Request) (int, error)
}

type NotificationStore interface {
	ListForRecipient(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type NotificationHandler struct {
	fanout FanOuter
	store  NotificationStore
	logger *zap.Logger
}

func NewNotificationHandler(fanout FanOuter, store NotificationStore, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{fanout: fanout, store: store, logger: logger}
}

type fanOutRequest struct {
	UserRefs      []model.UserRef `json:"userRefs"`
	IncludeAdmins bool            `json:"includeAdmins"`
	Title         string          `json:"title" binding:"required"`
	Body          string          `json:"body"`
	Type          string          `json:"type" binding:"required"`
	RelatedID     string          `json:"relatedId"`
	ProjectID     string          `json:"projectId"`
	ActionURL     string          `json:"actionUrl"`
	SendEmail     bool            `json:"sendEmail"`
}

// POST /notifications/fanout
func (h *NotificationHandler) FanOut(c *gin.Context) {
	var req fanOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and type are required"})
		return
	}
	if len(req.UserRefs) == 0 && !req.IncludeAdmins {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipients"})
		return
	}

	viewer := viewerFrom(c)
	n, err := h.fanout.FanOut(c.Request.Context(), notify.Request{
		UserRefs:      req.UserRefs,
		IncludeAdmins: req.IncludeAdmins,
		Title:         req.Title,
		Body:          req.Body,
		Type:          req.Type,
		RelatedID:     req.RelatedID,
		ProjectID:     req.ProjectID,
		ActionURL:     req.ActionURL,
		SenderID:      viewer.UserID,
		SendEmail:     req.SendEmail,
	})
	if err != nil {
		if n == 0 {
			writeError(c, h.logger, "failed to send notifications", err)
			return
		}
		logger.WithTrace(c.Request.Context(), h.logger).Warn("Fan-out partially failed",
			zap.Int("notified", n),
			zap.Error(err),
		)
		c.JSON(http.StatusMultiStatus, gin.H{"notified": n, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified": n})
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.store.ListForRecipient(c.Request.Context(), viewerFrom(c).UserID)
	if err != nil {
		writeError(c, h.logger, "failed to list notifications", err)
		return
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread": unread})
}

// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.store.MarkRead(c.Request.Context(), c.Param("id"), viewerFrom(c).UserID); err != nil {
		writeError(c, h.logger, "failed to mark notification read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
