// internal/protocol/connection.go
package protocol

import "time"

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// TCPConfig represents a TCP serial bridge configuration
type TCPConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	KeepAlive      bool          `json:"keep_alive"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}
