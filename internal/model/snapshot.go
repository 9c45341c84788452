// internal/model/snapshot.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SnapshotStatus represents the lifecycle state of a snapshot
type SnapshotStatus string

const (
	// SnapshotStatusPending means the capture command was accepted and the
	// camera is still encoding.
	SnapshotStatusPending SnapshotStatus = "PENDING"
	// SnapshotStatusTransferring means image bytes are being pulled off
	// the serial link.
	SnapshotStatusTransferring SnapshotStatus = "TRANSFERRING"
	// SnapshotStatusCompleted means the full image (closing marker seen)
	// is on disk.
	SnapshotStatusCompleted SnapshotStatus = "COMPLETED"
	// SnapshotStatusPartial means the transfer ended on the time budget or
	// a retry limit; whatever arrived is on disk.
	SnapshotStatusPartial SnapshotStatus = "PARTIAL"
	SnapshotStatusFailed  SnapshotStatus = "FAILED"
)

// JSONObject type for PostgreSQL JSONB objects
type JSONObject map[string]interface{}

func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Snapshot represents one captured image and its transfer record
type Snapshot struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	FileName     string         `json:"file_name" db:"file_name"`
	FilePath     string         `json:"file_path" db:"file_path"`
	DeclaredSize int            `json:"declared_size" db:"declared_size"`
	BytesWritten int            `json:"bytes_written" db:"bytes_written"`
	Chunks       int            `json:"chunks" db:"chunks"`
	Retries      int            `json:"retries" db:"retries"`
	MaxResponse  int64          `json:"max_response_us" db:"max_response_us"`
	MaxByteGap   int64          `json:"max_byte_gap_us" db:"max_byte_gap_us"`
	ElapsedMS    int64          `json:"elapsed_ms" db:"elapsed_ms"`
	EOFMarker    bool           `json:"eof_marker" db:"eof_marker"`
	Status       SnapshotStatus `json:"status" db:"status"`
	ErrorInfo    JSONObject     `json:"error_info" db:"error_info"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// IsComplete reports whether the snapshot image is fully on disk
func (s *Snapshot) IsComplete() bool {
	return s.Status == SnapshotStatusCompleted
}

// CameraInfo represents the identity block of the camera
type CameraInfo struct {
	DeviceType string              `json:"device_type"`
	Firmware   string              `json:"firmware"`
	SerialID   string              `json:"serial_id"`
	Raw        map[string][]string `json:"raw,omitempty"`
}

// CameraSettings represents the adjustable camera settings
type CameraSettings struct {
	Resolution           string `json:"resolution,omitempty"`
	Quality              *int   `json:"quality,omitempty"`
	JPEGMaximumSize      *int   `json:"jpeg_maximum_size,omitempty"`
	NightMode            string `json:"night_mode,omitempty"`
	IRLEDMode            string `json:"ir_led_mode,omitempty"`
	IRFilter             string `json:"ir_filter,omitempty"`
	AutoSnapshotInterval *int   `json:"auto_snapshot_interval,omitempty"`
	FocusPosition        *int   `json:"focus_position,omitempty"`
	ZoomPosition         *int   `json:"zoom_position,omitempty"`
}

// UpdateSettingsRequest carries settable camera parameters. Pointers
// distinguish "not provided" from zero values.
type UpdateSettingsRequest struct {
	Resolution           *string `json:"resolution,omitempty"`
	Quality              *int    `json:"quality,omitempty" binding:"omitempty,min=1,max=100"`
	JPEGMaximumSize      *int    `json:"jpeg_maximum_size,omitempty" binding:"omitempty,min=1"`
	NightMode            *string `json:"night_mode,omitempty" binding:"omitempty,oneof=day night auto"`
	IRLEDMode            *string `json:"ir_led_mode,omitempty" binding:"omitempty,oneof=on off auto"`
	AutoSnapshotInterval *int    `json:"auto_snapshot_interval,omitempty" binding:"omitempty,min=0"`
	AutofocusX           *int    `json:"autofocus_x,omitempty"`
	AutofocusY           *int    `json:"autofocus_y,omitempty"`
	WBOffsetRed          *int    `json:"wb_offset_red,omitempty"`
	WBOffsetGreen        *int    `json:"wb_offset_green,omitempty"`
	WBOffsetBlue         *int    `json:"wb_offset_blue,omitempty"`
	AutoexposureX        *int    `json:"autoexposure_x,omitempty"`
	AutoexposureY        *int    `json:"autoexposure_y,omitempty"`
	AutoexposureWidth    *int    `json:"autoexposure_width,omitempty" binding:"omitempty,min=1"`
	AutoexposureHeight   *int    `json:"autoexposure_height,omitempty" binding:"omitempty,min=1"`
	ColorCorrectionMode  *int    `json:"color_correction_mode,omitempty" binding:"omitempty,min=0"`
}

// MoveRequest nudges the focus or zoom motor
type MoveRequest struct {
	Steps int `json:"steps" binding:"required"`
}

// SleepRequest puts the camera to sleep
type SleepRequest struct {
	Seconds int `json:"seconds" binding:"required,min=1"`
}

// SnapshotListFilter narrows snapshot listings
type SnapshotListFilter struct {
	Status SnapshotStatus
	Limit  int
	Offset int
}
