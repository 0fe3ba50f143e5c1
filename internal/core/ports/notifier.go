package ports

import "context"

// Notifier delivers domain events to interested parties outside this
// service. Delivery is fire-and-forget: implementations report errors so the
// dispatcher can retry later, but a failed publish never rolls back the
// state change that produced the event.
type Notifier interface {
	// Publish sends one event. The event type selects the channel (for the
	// MQTT implementation, the topic suffix); payload is the JSON body.
	Publish(ctx context.Context, eventType string, payload []byte) error

	// Close releases the underlying connection.
	Close()
}
