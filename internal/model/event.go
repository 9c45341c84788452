// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventCameraConnected    EventType = "CAMERA_CONNECTED"
	EventCameraDisconnected EventType = "CAMERA_DISCONNECTED"
	EventCameraReset        EventType = "CAMERA_RESET"
	EventCameraError        EventType = "CAMERA_ERROR"
	EventSnapshotStarted    EventType = "SNAPSHOT_STARTED"
	EventTransferStarted    EventType = "TRANSFER_STARTED"
	EventTransferProgress   EventType = "TRANSFER_PROGRESS"
	EventTransferCompleted  EventType = "TRANSFER_COMPLETED"
	EventTransferFailed     EventType = "TRANSFER_FAILED"
	EventSettingsUpdated    EventType = "SETTINGS_UPDATED"
)

// CameraEvent represents an event in the system
type CameraEvent struct {
	ID         uuid.UUID  `json:"id"`
	EventType  EventType  `json:"event_type"`
	SnapshotID *uuid.UUID `json:"snapshot_id,omitempty"`
	Data       JSONObject `json:"data"`
	Timestamp  time.Time  `json:"timestamp"`
	Source     string     `json:"source"`
	Severity   string     `json:"severity"` // INFO, WARNING, ERROR, CRITICAL
}

// TransferProgressEventData reports bytes moved during an image transfer
type TransferProgressEventData struct {
	SnapshotID   uuid.UUID `json:"snapshot_id"`
	DeclaredSize int       `json:"declared_size"`
	BytesWritten int       `json:"bytes_written"`
	Percent      float64   `json:"percent"`
}

// TransferCompletedEventData summarizes a finished transfer
type TransferCompletedEventData struct {
	SnapshotID   uuid.UUID      `json:"snapshot_id"`
	Status       SnapshotStatus `json:"status"`
	BytesWritten int            `json:"bytes_written"`
	Chunks       int            `json:"chunks"`
	ElapsedMS    int64          `json:"elapsed_ms"`
	EOFMarker    bool           `json:"eof_marker"`
}

// CameraErrorEventData represents a camera error event
type CameraErrorEventData struct {
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
	ErrorTime    time.Time `json:"error_time"`
	Severity     string    `json:"severity"`
}
