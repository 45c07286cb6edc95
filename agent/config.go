package agent

import (
	"time"

	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/logging"
)

const namedLogger = "agent"

// Config represents the configuration of the decision loop.
type Config struct {
	Level encoding.LogLevel
	// IdleSleep is how long the loop parks when every event channel is empty.
	IdleSleep encoding.Duration
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:     encoding.LogLevel{Level: logging.InfoLevel},
		IdleSleep: encoding.Duration{Duration: 10 * time.Millisecond},
	}
}
