package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructhub/internal/revenue"
)

type RevenueReporter interface {
	Revenue(ctx context.Context) (revenue.Report, error)
}

type ReportHandler struct {
	reports RevenueReporter
	logger  *zap.Logger
}

func NewReportHandler(reports RevenueReporter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// GET /reports/revenue
func (h *ReportHandler) GetRevenue(c *gin.Context) {
	report, err := h.reports.Revenue(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed to build revenue report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
