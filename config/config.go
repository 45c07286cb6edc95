package config

import (
	"os"
	"path/filepath"

	"github.com/tidemark/tradecore/admin"
	"github.com/tidemark/tradecore/agent"
	"github.com/tidemark/tradecore/broker"
	"github.com/tidemark/tradecore/execution"
	"github.com/tidemark/tradecore/gateway"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/markets"
	"github.com/tidemark/tradecore/pricing"
	"github.com/tidemark/tradecore/types"

	"github.com/BurntSushi/toml"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging   logging.Config
	Markets   markets.Config
	Pricing   pricing.Config
	Execution execution.Config
	Gateway   gateway.Config
	Broker    broker.Config
	Admin     admin.Config
	Agent     agent.Config
}

// NewDefaultConfig returns a set of default configs for all packages, as
// specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:   logging.NewDefaultConfig(),
		Markets:   markets.NewDefaultConfig(),
		Pricing:   pricing.NewDefaultConfig(),
		Execution: execution.NewDefaultConfig(),
		Gateway:   gateway.NewDefaultConfig(),
		Broker:    broker.NewDefaultConfig(),
		Admin:     admin.NewDefaultConfig(),
		Agent:     agent.NewDefaultConfig(),
	}
}

// Instruments converts the configured market entries into the immutable
// runtime set.
func (c Config) Instruments() []types.Instrument {
	out := make([]types.Instrument, 0, len(c.Markets.Instruments))
	for _, ic := range c.Markets.Instruments {
		out = append(out, ic.Instrument())
	}
	return out
}

// Read loads config.toml from the given directory over the defaults.
func Read(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, configFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
