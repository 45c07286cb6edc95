package broker

import (
	"fmt"
	"time"

	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/logging"
)

const namedLogger = "broker"

// Config represents the configuration of the broker sockets.
type Config struct {
	Level encoding.LogLevel

	// Gateway is the push socket commands are offered to.
	Gateway SocketConfig
	// Mirror is an optional secondary push socket every accepted command is
	// copied to, for audit tooling.
	Mirror SocketConfig
	// Streams is the sub socket the market data and confirmation feeds arrive
	// on.
	Streams StreamsConfig

	// EventBufferSize is the capacity of each decoded event channel.
	EventBufferSize int
}

type SocketConfig struct {
	Enabled       bool
	TransportType string
	IP            string
	Port          int
	SendTimeout   encoding.Duration
}

func (c SocketConfig) addr() string {
	return fmt.Sprintf("%s://%s:%d", c.TransportType, c.IP, c.Port)
}

type StreamsConfig struct {
	TransportType string
	// Addresses lists every upstream feed endpoint as host:port; all of them
	// are dialled from the one sub socket.
	Addresses   []string
	RecvTimeout encoding.Duration
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		Gateway: SocketConfig{
			Enabled:       true,
			TransportType: "tcp",
			IP:            "127.0.0.1",
			Port:          4000,
			SendTimeout:   encoding.Duration{Duration: 2 * time.Second},
		},
		Mirror: SocketConfig{
			Enabled:       false,
			TransportType: "tcp",
			IP:            "127.0.0.1",
			Port:          4001,
			SendTimeout:   encoding.Duration{Duration: time.Second},
		},
		Streams: StreamsConfig{
			TransportType: "tcp",
			Addresses:     []string{"127.0.0.1:5000"},
			RecvTimeout:   encoding.Duration{Duration: 5 * time.Second},
		},
		EventBufferSize: 1000,
	}
}
