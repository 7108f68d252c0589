package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// NewEvent builds a pending event. The payload is encoded immediately so a bad
// payload fails before any transaction is opened.
func NewEvent(aggregateType, aggregateID, routingKey string, payload any) (*Event, error) {
	if routingKey == "" {
		return nil, errors.New("outbox event needs a routing key")
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outbox payload: %w", err)
	}
	return &Event{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		RoutingKey:    routingKey,
		Payload:       payloadJSON,
		Status:        StatusPending,
	}, nil
}

// InsertEventsInTx 在业务事务中写入事件，并回填 ID
func InsertEventsInTx(ctx context.Context, tx pgx.Tx, events ...*Event) error {
	for _, event := range events {
		if err := insertEvent(ctx, tx, event); err != nil {
			return fmt.Errorf("%s: %w", event.RoutingKey, err)
		}
	}
	return nil
}
