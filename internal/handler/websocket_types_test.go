// internal/handler/websocket_types_test.go
package handler

import (
	"testing"
	"time"

	"camera-service/internal/model"

	"go.uber.org/zap"
)

func TestClientWithoutSubscriptionsReceivesEverything(t *testing.T) {
	client := &Client{}
	for _, et := range []string{"TRANSFER_STARTED", "CAMERA_RESET", "anything"} {
		if !client.wantsEvent(et) {
			t.Fatalf("unsubscribed client filtered out %q", et)
		}
	}
}

func TestClientSubscriptionFiltersEvents(t *testing.T) {
	client := &Client{}
	client.subscribe("TRANSFER_PROGRESS")

	if !client.wantsEvent("TRANSFER_PROGRESS") {
		t.Fatal("subscribed event type filtered out")
	}
	if client.wantsEvent("CAMERA_RESET") {
		t.Fatal("unsubscribed event type delivered")
	}

	client.unsubscribe("TRANSFER_PROGRESS")
	if !client.wantsEvent("CAMERA_RESET") {
		t.Fatal("empty filter should deliver everything again")
	}
}

func TestEventBusDeliversToSinks(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	go bus.Start()

	received := make(chan model.CameraEvent, 1)
	bus.AttachSink(func(event model.CameraEvent) {
		received <- event
	})

	bus.PublishCameraEvent(model.CameraEvent{EventType: model.EventTransferStarted})

	select {
	case event := <-received:
		if event.EventType != model.EventTransferStarted {
			t.Fatalf("event type = %s, want %s", event.EventType, model.EventTransferStarted)
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached the sink")
	}
}
