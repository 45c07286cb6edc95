package markets

import (
	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/types"
)

const namedLogger = "markets"

// Config holds the instrument set the agent quotes.
type Config struct {
	Level       encoding.LogLevel
	Instruments []InstrumentConfig
}

// InstrumentConfig is the TOML shape of one tradable pair.
type InstrumentConfig struct {
	Symbol          string
	BaseAsset       string
	QuoteAsset      string
	PriceIncrement  num.Decimal
	AmountIncrement num.Decimal
}

// Instrument converts the config entry into the immutable runtime type.
func (c InstrumentConfig) Instrument() types.Instrument {
	return types.Instrument{
		Symbol:          c.Symbol,
		BaseAsset:       c.BaseAsset,
		QuoteAsset:      c.QuoteAsset,
		PriceIncrement:  c.PriceIncrement,
		AmountIncrement: c.AmountIncrement,
	}
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:       encoding.LogLevel{Level: logging.InfoLevel},
		Instruments: []InstrumentConfig{},
	}
}
