package network

import (
	"time"

	"github.com/lixenwraith/kcc/parameter"
)

// Config holds pose feed configuration
type Config struct {
	// Address to bind, host:port
	Address string

	// Path of the websocket endpoint
	Path string

	// Per-client outbound frames buffered before dropping
	SendQueueSize int

	// Timing
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	ShutdownTimeout time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConfig returns loopback defaults
func DefaultConfig() *Config {
	return &Config{
		Address:         parameter.FeedDefaultAddress,
		Path:            parameter.FeedPath,
		SendQueueSize:   parameter.FeedSendQueue,
		WriteTimeout:    parameter.FeedWriteTimeout,
		PingInterval:    parameter.FeedPingInterval,
		ShutdownTimeout: parameter.FeedShutdownTimeout,
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
	}
}
