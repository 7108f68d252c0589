package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	mqcontracts "constructhub/contracts/mq"
	"constructhub/pkg/logger"
)

// BatchWrittenHandler records written notification batches in the worker log.
type BatchWrittenHandler struct {
	logger *zap.Logger
}

func NewBatchWrittenHandler(logger *zap.Logger) *BatchWrittenHandler {
	return &BatchWrittenHandler{logger: logger}
}

func (h *BatchWrittenHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.NotificationBatchWrittenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal NotificationBatchWrittenPayload", zap.Error(err))
		return err
	}

	logger.WithTrace(ctx, h.logger).Info("Notification batch written",
		zap.String("batch_id", p.BatchID),
		zap.String("audience", p.Audience),
		zap.String("type", p.Type),
		zap.String("related_id", p.RelatedID),
		zap.Int("recipients", len(p.RecipientIDs)),
	)
	return nil
}
