package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"constructhub/pkg/outbox"
)

type pendingCreate struct {
	collection string
	id         string
	body       []byte
}

// Batch collects creates (and outbox events) committed in one transaction.
// Nothing is written until Commit.
type Batch struct {
	store   *Store
	creates []pendingCreate
	events  []*outbox.Event
}

// NewBatch starts an empty batch.
func (s *Store) NewBatch() *Batch {
	return &Batch{store: s}
}

// Create queues a new document with a caller-chosen id.
func (b *Batch) Create(collection, id string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	b.creates = append(b.creates, pendingCreate{collection: collection, id: id, body: body})
	return nil
}

// Emit queues an outbox event written in the same transaction as the documents.
func (b *Batch) Emit(aggregateType, aggregateID, routingKey string, payload any) error {
	event, err := outbox.NewEvent(aggregateType, aggregateID, routingKey, payload)
	if err != nil {
		return err
	}
	b.events = append(b.events, event)
	return nil
}

// Len is the number of queued documents.
func (b *Batch) Len() int {
	return len(b.creates)
}

// Commit writes everything or nothing.
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.creates) == 0 && len(b.events) == 0 {
		return nil
	}

	logger := b.store.logger
	tx, err := b.store.db.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin batch transaction", zap.Error(err))
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(b.creates) > 0 {
		pb := &pgx.Batch{}
		for _, c := range b.creates {
			pb.Queue(`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`, c.collection, c.id, c.body)
		}
		results := tx.SendBatch(ctx, pb)
		for _, c := range b.creates {
			if _, err := results.Exec(); err != nil {
				results.Close()
				logger.Error("Failed to write batched document",
					zap.String("collection", c.collection),
					zap.String("id", c.id),
					zap.Error(err),
				)
				return fmt.Errorf("batch create %s/%s: %w", c.collection, c.id, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch results: %w", err)
		}
	}

	if err := outbox.InsertEventsInTx(ctx, tx, b.events...); err != nil {
		logger.Error("Failed to write outbox events", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit batch", zap.Error(err))
		return fmt.Errorf("commit batch: %w", err)
	}

	logger.Info("Batch committed",
		zap.Int("documents", len(b.creates)),
		zap.Int("events", len(b.events)),
	)
	return nil
}
