// internal/handler/event_bus.go
package handler

import (
	"sync"

	"go.uber.org/zap"

	"camera-service/internal/model"
)

// EventBus decouples event producers from their consumers. The camera
// service publishes into a buffered channel so a slow consumer never
// stalls an image transfer.
type EventBus struct {
	events chan model.CameraEvent
	sinks  []func(model.CameraEvent)
	mutex  sync.RWMutex
	logger *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		events: make(chan model.CameraEvent, 1000),
		logger: logger,
	}
}

// Start drains the event channel. Run in its own goroutine.
func (eb *EventBus) Start() {
	for event := range eb.events {
		eb.distributeEvent(event)
	}
}

// PublishCameraEvent queues an event for distribution
func (eb *EventBus) PublishCameraEvent(event model.CameraEvent) {
	select {
	case eb.events <- event:
	default:
		if eb.logger != nil {
			eb.logger.Warn("Event bus full, dropping event",
				zap.String("event_type", string(event.EventType)),
			)
		}
	}
}

// AttachSink registers a consumer for all events
func (eb *EventBus) AttachSink(sink func(model.CameraEvent)) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	eb.sinks = append(eb.sinks, sink)
}

// distributeEvent fans an event out to the attached sinks
func (eb *EventBus) distributeEvent(event model.CameraEvent) {
	eb.mutex.RLock()
	sinks := eb.sinks
	eb.mutex.RUnlock()

	for _, sink := range sinks {
		sink(event)
	}
}
