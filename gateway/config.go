package gateway

import (
	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/logging"
)

const namedLogger = "gateway"

// Config identifies this node in the command envelope.
type Config struct {
	Level encoding.LogLevel
	// Exchange is the venue the gateway executes on.
	Exchange string
	// Instance disambiguates parallel deployments against the same exchange.
	Instance string
	// Algo names the strategy for downstream attribution.
	Algo string
	// Node is the envelope source tag.
	Node string
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:    encoding.LogLevel{Level: logging.InfoLevel},
		Exchange: "",
		Instance: "1",
		Algo:     "simple-mm",
		Node:     "core",
	}
}
