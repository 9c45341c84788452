// internal/protocol/serial_connection.go
package protocol

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// SerialConnection implements Link over a local serial port
type SerialConnection struct {
	config *SerialConfig
	port   serial.Port
	logger *zap.Logger
	mutex  sync.RWMutex
	isOpen bool
	stats  LinkStats
}

// NewSerialConnection creates a new serial connection
func NewSerialConnection(config *SerialConfig, logger *zap.Logger) Link {
	return &SerialConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "serial"),
			zap.String("port", config.Port),
		),
	}
}

// Open opens the serial port
func (sc *SerialConnection) Open(ctx context.Context) error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.isOpen {
		return nil
	}

	sc.logger.Info("Opening serial port",
		zap.Int("baud_rate", sc.config.BaudRate),
	)

	mode := &serial.Mode{
		BaudRate: sc.config.BaudRate,
		DataBits: sc.config.DataBits,
		StopBits: serial.StopBits(sc.config.StopBits),
	}

	switch sc.config.Parity {
	case "none":
		mode.Parity = serial.NoParity
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}

	port, err := serial.Open(sc.config.Port, mode)
	if err != nil {
		sc.logger.Error("Failed to open serial port", zap.Error(err))
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	sc.port = port
	sc.isOpen = true
	sc.stats.IsConnected = true
	sc.stats.LastActivity = time.Now()

	sc.logger.Info("Serial port opened successfully")
	return nil
}

// Close closes the serial port
func (sc *SerialConnection) Close() error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if !sc.isOpen || sc.port == nil {
		return nil
	}

	if err := sc.port.Close(); err != nil {
		sc.logger.Error("Failed to close serial port", zap.Error(err))
		return fmt.Errorf("failed to close serial port: %w", err)
	}

	sc.port = nil
	sc.isOpen = false
	sc.stats.IsConnected = false

	sc.logger.Info("Serial port closed successfully")
	return nil
}

// IsOpen returns whether the connection is open
func (sc *SerialConnection) IsOpen() bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.isOpen && sc.port != nil
}

// Write writes data to the serial port
func (sc *SerialConnection) Write(data []byte) (int, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	if !sc.isOpen || sc.port == nil {
		return 0, fmt.Errorf("serial port not open")
	}

	n, err := sc.port.Write(data)
	if err != nil {
		sc.stats.ErrorCount++
		sc.logger.Error("Serial write failed", zap.Error(err))
		return n, fmt.Errorf("failed to write to serial port: %w", err)
	}
	if n != len(data) {
		return n, fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	sc.stats.BytesWritten += int64(n)
	sc.stats.LastActivity = time.Now()
	return n, nil
}

// Read reads from the serial port. The port driver returns (0, nil) when the
// configured read timeout elapses with no data.
func (sc *SerialConnection) Read(p []byte) (int, error) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	if !sc.isOpen || sc.port == nil {
		return 0, fmt.Errorf("serial port not open")
	}

	n, err := sc.port.Read(p)
	if err != nil {
		sc.stats.ErrorCount++
		return n, fmt.Errorf("failed to read from serial port: %w", err)
	}

	sc.stats.BytesRead += int64(n)
	if n > 0 {
		sc.stats.LastActivity = time.Now()
	}
	return n, nil
}

// SetReadTimeout bounds how long a single Read waits for the first byte
func (sc *SerialConnection) SetReadTimeout(d time.Duration) error {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	if !sc.isOpen || sc.port == nil {
		return fmt.Errorf("serial port not open")
	}
	return sc.port.SetReadTimeout(d)
}

// Type returns the connection type
func (sc *SerialConnection) Type() ConnectionType {
	return ConnectionTypeSerial
}

// Stats returns a copy of the link statistics
func (sc *SerialConnection) Stats() LinkStats {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.stats
}

// AvailablePorts lists the serial ports present on the host
func AvailablePorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
