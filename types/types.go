package types

import (
	"fmt"

	"github.com/tidemark/tradecore/num"
)

// Side of the book an order sits on.
type Side int8

const (
	SideUnspecified Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unspecified"
	}
}

// SideFromString parses the wire representation of a side.
func SideFromString(s string) (Side, error) {
	switch s {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return SideUnspecified, fmt.Errorf("unknown side %q", s)
	}
}

// Instrument identifies a tradable pair. Instances are created from the
// configuration at startup and never mutated; a config reload replaces the
// whole set.
type Instrument struct {
	// Symbol is the canonical pair name, e.g. "BTC/USDT".
	Symbol     string
	BaseAsset  string
	QuoteAsset string
	// PriceIncrement and AmountIncrement are the minimum tick sizes computed
	// prices and quantities are truncated to before submission.
	PriceIncrement  num.Decimal
	AmountIncrement num.Decimal
}

// VenueQuote is the best ask/bid one venue currently shows for one
// instrument. Overwritten in place on every orderbook update, never merged.
type VenueQuote struct {
	BestAsk num.Decimal
	BestBid num.Decimal
}

// AggregatedQuote is the cross-venue arithmetic mean of the best ask/bid.
type AggregatedQuote struct {
	Ask num.Decimal
	Bid num.Decimal
}
