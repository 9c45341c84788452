// internal/protocol/factory.go
package protocol

import (
	"fmt"

	"go.uber.org/zap"

	"camera-service/internal/config"
)

// NewLink creates the camera link described by the configuration
func NewLink(cfg *config.CameraConfig, logger *zap.Logger) (Link, error) {
	switch ConnectionType(cfg.Connection) {
	case ConnectionTypeSerial:
		return newSerialLink(cfg, logger)
	case ConnectionTypeTCP:
		return newTCPLink(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported connection type: %s", cfg.Connection)
	}
}

func newSerialLink(cfg *config.CameraConfig, logger *zap.Logger) (Link, error) {
	serialConfig := &SerialConfig{
		Port:     cfg.Serial.Port,
		BaudRate: cfg.Serial.BaudRate,
		DataBits: cfg.Serial.DataBits,
		StopBits: cfg.Serial.StopBits,
		Parity:   cfg.Serial.Parity,
	}

	if serialConfig.Port == "" {
		return nil, fmt.Errorf("serial port is required")
	}
	if serialConfig.BaudRate == 0 {
		serialConfig.BaudRate = 115200
	}
	if serialConfig.DataBits == 0 {
		serialConfig.DataBits = 8
	}
	if serialConfig.StopBits == 0 {
		serialConfig.StopBits = 1
	}
	if serialConfig.Parity == "" {
		serialConfig.Parity = "none"
	}

	return NewSerialConnection(serialConfig, logger), nil
}

func newTCPLink(cfg *config.CameraConfig, logger *zap.Logger) (Link, error) {
	tcpConfig := &TCPConfig{
		Host:           cfg.TCP.Host,
		Port:           cfg.TCP.Port,
		KeepAlive:      cfg.TCP.KeepAlive,
		ConnectTimeout: cfg.TCP.ConnectTimeout,
	}

	if tcpConfig.Host == "" || tcpConfig.Port == 0 {
		return nil, fmt.Errorf("tcp host and port are required")
	}

	return NewTCPConnection(tcpConfig, logger), nil
}
