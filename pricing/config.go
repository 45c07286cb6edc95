package pricing

import "github.com/tidemark/tradecore/num"

// Config holds the quoting ratios. They are decimals in the TOML file so no
// binary rounding sneaks into price math.
type Config struct {
	// SellRatio > 1 quotes above the average best ask.
	SellRatio num.Decimal
	// BuyRatio < 1 quotes below the average best bid.
	BuyRatio num.Decimal
	// LowerBoundRatio/UpperBoundRatio window the reference price a resting
	// order tolerates before it is re-quoted.
	LowerBoundRatio num.Decimal
	UpperBoundRatio num.Decimal
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		SellRatio:       num.MustDecimalFromString("1.0015"),
		BuyRatio:        num.MustDecimalFromString("0.9985"),
		LowerBoundRatio: num.MustDecimalFromString("0.9995"),
		UpperBoundRatio: num.MustDecimalFromString("1.0005"),
	}
}
