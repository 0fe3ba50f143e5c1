package ports

import (
	"context"
	"time"
)

// OutboxMessage is a pending notification persisted alongside the state
// change that produced it. Messages are dispatched asynchronously; dispatch
// failures leave them pending for retry and never affect core state.
type OutboxMessage struct {
	// ID is the append order of the message.
	ID int64

	// EventType names the notification, e.g. "token.allocated".
	EventType string

	// Payload is the JSON-encoded event body.
	Payload []byte

	// CreatedAt is when the producing transaction committed the message.
	CreatedAt time.Time
}

// OutboxRepository defines the persistence contract for the notification
// outbox. Producers append inside the same transaction as the state change;
// the dispatcher job drains pending messages.
type OutboxRepository interface {
	// Add appends a message within the current transaction. The payload is
	// JSON-encoded by the adapter.
	Add(ctx context.Context, eventType string, payload any) error

	// GetPending retrieves up to limit undispatched messages in append order.
	GetPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkDispatched stamps the message as delivered to the notifier.
	MarkDispatched(ctx context.Context, id int64) error
}
