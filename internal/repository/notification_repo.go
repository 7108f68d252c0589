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
	"constructhub/pkg/metrics"
	"constructhub/pkg/trace"
)

type NotificationRepository struct {
	store  *docstore.Store
	logger *zap.Logger
}

func NewNotificationRepository(store *docstore.Store, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{store: store, logger: logger}
}

// CreateBatch writes all notifications and one notification.batch_written
// event in a single transaction.
func (r *NotificationRepository) CreateBatch(ctx context.Context, audience string, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	r.logger.Debug("Writing notification batch",
		zap.String("audience", audience),
		zap.Int("count", len(notifications)),
	)

	batch := r.store.NewBatch()
	recipients := make([]string, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		if n.ID == "" {
			n.ID = idgen.New()
		}
		if err := batch.Create(model.CollectionNotifications, n.ID, n); err != nil {
			return err
		}
		recipients = append(recipients, n.RecipientID)
	}

	first := notifications[0]
	batchID := idgen.New()
	err := batch.Emit("notification_batch", batchID, mqcontracts.RoutingKeyNotificationBatchWritten, mqcontracts.NotificationBatchWrittenPayload{
		BatchID:      batchID,
		Audience:     audience,
		Type:         first.Type,
		RelatedID:    first.RelatedID,
		ProjectID:    first.ProjectID,
		RecipientIDs: recipients,
		WrittenAt:    time.Now().UTC(),
		TraceID:      trace.FromContext(ctx),
	})
	if err != nil {
		return err
	}

	if err := batch.Commit(ctx); err != nil {
		r.logger.Error("Failed to write notification batch",
			zap.String("audience", audience),
			zap.Int("count", len(notifications)),
			zap.Error(err),
		)
		return fmt.Errorf("create notification batch: %w", err)
	}

	metrics.AddNotificationsWritten(audience, len(notifications))
	r.logger.Info("Notification batch written",
		zap.String("batch_id", batchID),
		zap.String("audience", audience),
		zap.Int("count", len(notifications)),
	)
	return nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, userID string) ([]model.Notification, error) {
	docs, err := r.store.QueryByField(ctx, model.CollectionNotifications, "recipientId", userID)
	if err != nil {
		return nil, err
	}
	return decodeAll(r.logger, docs, func(n *model.Notification, id string) { n.ID = id }), nil
}

// MarkRead flags a notification as read. Notifications of other users are
// reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	doc, err := r.store.Get(ctx, model.CollectionNotifications, id)
	if err != nil {
		return err
	}
	var n model.Notification
	if err := doc.Decode(&n); err != nil {
		return err
	}
	if n.RecipientID != userID {
		return fmt.Errorf("%w: notification %s", docstore.ErrNotFound, id)
	}
	if n.Read {
		return nil
	}
	return r.store.Update(ctx, model.CollectionNotifications, id, map[string]any{"read": true})
}
