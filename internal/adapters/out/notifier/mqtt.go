// Package notifier provides the MQTT implementation of the outbound
// notification contract. Events drained from the outbox are published to
// per-event-type topics; subscribers such as station displays and dispatch
// dashboards react without ever calling back into this service.
package notifier

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second

	// publishQoS 1 delivers at least once; consumers must tolerate duplicates.
	publishQoS = 1

	disconnectGraceMs = 250
)

// MQTTNotifier publishes domain events to an MQTT broker. Each event type
// gets its own topic under a fixed prefix, e.g. "gts/events/token.allocated",
// so subscribers can filter with a single-level wildcard.
//
// Example:
//
//	n, err := NewMQTTNotifier("tcp://broker:1883", "gts-core", "gts/events")
//	if err != nil {
//	    return fmt.Errorf("failed to connect notifier: %w", err)
//	}
//	defer n.Close()
//
//	err = n.Publish(ctx, "token.allocated", payload)
type MQTTNotifier struct {
	client      mqtt.Client
	topicPrefix string
}

// NewMQTTNotifier connects to the broker and returns a ready notifier.
// The client reconnects automatically after broker restarts; publishes
// issued while disconnected fail and stay pending in the outbox.
func NewMQTTNotifier(brokerURL, clientID, topicPrefix string) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(disconnectGraceMs)
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", brokerURL, err)
	}

	return &MQTTNotifier{
		client:      client,
		topicPrefix: topicPrefix,
	}, nil
}

// Publish sends one event to "{prefix}/{eventType}". The call returns once
// the broker acknowledges the message or the context ends; either way the
// caller decides whether the message stays pending.
func (n *MQTTNotifier) Publish(ctx context.Context, eventType string, payload []byte) error {
	topic := fmt.Sprintf("%s/%s", n.topicPrefix, eventType)

	token := n.client.Publish(topic, publishQoS, false, payload)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
		return token.Error()
	}
}

// Close disconnects from the broker after giving in-flight messages a short
// grace period to complete.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(disconnectGraceMs)
}
