package admin

import (
	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/logging"
)

const namedLogger = "admin"

// Config represents the configuration of the admin server.
type Config struct {
	Level   encoding.LogLevel
	Enabled bool
	IP      string
	Port    int
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Enabled: true,
		IP:      "127.0.0.1",
		Port:    6060,
	}
}
