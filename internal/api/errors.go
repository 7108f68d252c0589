package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructhub/internal/service"
	"constructhub/pkg/docstore"
	"constructhub/pkg/logger"
	"constructhub/pkg/outbox"
)

// writeError maps domain errors onto status codes; anything unknown is a 500
// and gets logged.
func writeError(c *gin.Context, log *zap.Logger, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, outbox.ErrEventNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.WithTrace(c.Request.Context(), log).Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
