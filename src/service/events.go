package service

import (
	"encoding/json"
	"log/slog"

	"github.com/rafiql/voice-session-service/src/config"
	"github.com/rafiql/voice-session-service/src/hub"
	"github.com/rafiql/voice-session-service/src/rabbitmq"
)

// EventEmitter fans a named lifecycle event out to every interested party.
// Emission is best-effort: a delivery problem never reaches the emitting caller.
type EventEmitter interface {
	Emit(name string, payload any)
}

// Emitter delivers lifecycle events to connected websocket subscribers and,
// when an AMQP publisher is configured, to the session events fanout exchange.
type Emitter struct {
	hub       *hub.Hub
	publisher rabbitmq.Publisher
}

// NewEmitter creates an emitter. publisher may be nil to disable the AMQP egress.
func NewEmitter(h *hub.Hub, publisher rabbitmq.Publisher) *Emitter {
	return &Emitter{
		hub:       h,
		publisher: publisher,
	}
}

// Emit broadcasts the event envelope to all live subscribers and publishes it
// to RabbitMQ. Failures on either path are logged and contained.
func (e *Emitter) Emit(name string, payload any) {
	slog.Info("Emitting lifecycle event", "event", name)

	envelope := hub.Event{
		Event:   name,
		Payload: payload,
	}
	e.hub.Broadcast(envelope)

	if e.publisher == nil {
		return
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		slog.Error("Failed to marshal lifecycle event", "event", name, "error", err)
		return
	}
	if err := e.publisher.Publish(config.SESSION_EVENTS_EXCHANGE, body); err != nil {
		slog.Error("Failed to publish lifecycle event to RabbitMQ",
			"event", name,
			"exchange", config.SESSION_EVENTS_EXCHANGE,
			"error", err)
	}
}
