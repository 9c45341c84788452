// internal/driver/geolux/geolux.go
package geolux

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fixed RS-232 parameters of the Geolux HydroCAM. The camera always talks
// 115200 8N1; the link layer is expected to be configured accordingly.
const (
	BaudRate = 115200

	// DefaultChunkSize is how many image bytes are requested per
	// #get_image exchange. The bytes are processed one at a time, so this
	// only bounds the size of a single request, not memory use.
	DefaultChunkSize = 16384
)

// Conn is the byte stream the camera is attached to. The caller owns the
// transport setup; the driver only reads, writes and adjusts the per-read
// deadline. A Conn must be used by one Camera at a time: the protocol has no
// request identifiers, so overlapping commands are unrecoverable.
type Conn interface {
	io.Reader
	io.Writer

	// SetReadTimeout bounds how long a single Read blocks waiting for the
	// first byte. A Read that hits the deadline returns (0, nil).
	SetReadTimeout(d time.Duration) error
}

// Config holds the camera protocol tuning knobs. The three timeout scopes
// are independent: ResponseTimeout bounds the wait for a command reply,
// ByteTimeout bounds the gap between consecutive bytes inside a chunk, and
// TransferBudget bounds a whole multi-chunk image transfer.
type Config struct {
	ResponseTimeout  time.Duration `json:"response_timeout"`
	ByteTimeout      time.Duration `json:"byte_timeout"`
	ChunkReadTimeout time.Duration `json:"chunk_read_timeout"`
	TransferBudget   time.Duration `json:"transfer_budget"`
	ChunkSize        int           `json:"chunk_size"`
	ChunkRetries     int           `json:"chunk_retries"`
}

// DefaultConfig returns the tuning the HydroCAM is known to behave with.
func DefaultConfig() Config {
	return Config{
		ResponseTimeout:  5 * time.Second,
		ByteTimeout:      10 * time.Millisecond,
		ChunkReadTimeout: 15 * time.Millisecond,
		TransferBudget:   120 * time.Second,
		ChunkSize:        DefaultChunkSize,
		ChunkRetries:     8,
	}
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = d.ResponseTimeout
	}
	if c.ByteTimeout <= 0 {
		c.ByteTimeout = d.ByteTimeout
	}
	if c.ChunkReadTimeout <= 0 {
		c.ChunkReadTimeout = d.ChunkReadTimeout
	}
	if c.TransferBudget <= 0 {
		c.TransferBudget = d.TransferBudget
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.ChunkRetries <= 0 {
		c.ChunkRetries = d.ChunkRetries
	}
}

// Status is the camera's answer to a status-bearing command.
type Status int

const (
	// StatusNoResponse means no recognized reply arrived before the
	// response deadline.
	StatusNoResponse Status = iota
	StatusOK
	StatusError
	StatusBusy
	StatusNone
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusBusy:
		return "BUSY"
	case StatusNone:
		return "NONE"
	default:
		return "NO_RESPONSE"
	}
}

// Camera drives one Geolux HydroCAM over its serial command protocol.
// Methods are not safe for concurrent use; the link is half-duplex and the
// caller must serialize access.
type Camera struct {
	conn   Conn
	cfg    Config
	logger *zap.Logger
	r      *byteReader

	// resetSeen is latched when the camera's unsolicited boot banner is
	// observed mid-wait, so callers can distinguish a device reboot from
	// a plain timeout.
	mu        sync.Mutex
	resetSeen bool
}

// New creates a camera driver on an already-open connection.
func New(conn Conn, cfg Config, logger *zap.Logger) *Camera {
	cfg.normalize()
	return &Camera{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With(zap.String("driver", "geolux")),
		r:      newByteReader(conn),
	}
}

// Config returns the tuning the camera was created with.
func (c *Camera) Config() Config {
	return c.cfg
}

// ResetSeen reports whether an unsolicited device reset was observed since
// the last call, and clears the latch.
func (c *Camera) ResetSeen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := c.resetSeen
	c.resetSeen = false
	return seen
}

func (c *Camera) noteReset() {
	c.mu.Lock()
	c.resetSeen = true
	c.mu.Unlock()
}
