// internal/protocol/protocol.go
package protocol

import (
	"context"
	"io"
	"time"
)

// ConnectionType identifies how the camera is attached.
type ConnectionType string

const (
	ConnectionTypeSerial ConnectionType = "serial"
	ConnectionTypeTCP    ConnectionType = "tcp"
)

// Link is a half-duplex byte stream to the camera. Read blocks until at
// least one byte arrives or the read timeout elapses; a timed-out Read
// returns (0, nil) so the caller can tell silence from failure.
type Link interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data communication
	io.Reader
	io.Writer
	SetReadTimeout(d time.Duration) error

	// Protocol information
	Type() ConnectionType
	Stats() LinkStats
}

// LinkStats provides link-level statistics
type LinkStats struct {
	BytesWritten int64     `json:"bytes_written"`
	BytesRead    int64     `json:"bytes_read"`
	ErrorCount   int64     `json:"error_count"`
	LastActivity time.Time `json:"last_activity"`
	IsConnected  bool      `json:"is_connected"`
}
