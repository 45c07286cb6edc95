package pricing

import (
	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/types"
)

// Bounds is the price window computed at order-creation time. While the
// aggregated reference price stays strictly inside the window the resting
// order is left alone; a price on or outside either edge is a breach.
type Bounds struct {
	Low  num.Decimal
	High num.Decimal
}

func (b Bounds) Contains(v num.Decimal) bool {
	return b.Low.LessThan(v) && v.LessThan(b.High)
}

// Quote is everything the lifecycle tracker needs to decide on one symbol
// for one cycle: target prices, target quantities and acceptance bounds,
// all pre-truncation.
type Quote struct {
	SellPrice    num.Decimal
	BuyPrice     num.Decimal
	SellQuantity num.Decimal
	BuyQuantity  num.Decimal
	AskBounds    Bounds
	BidBounds    Bounds
}

// Quoter derives order prices, sizes and acceptance bounds from aggregated
// quotes and balances using the configured ratios.
type Quoter struct {
	sellRatio  num.Decimal
	buyRatio   num.Decimal
	lowerBound num.Decimal
	upperBound num.Decimal
}

func NewQuoter(cfg Config) *Quoter {
	return &Quoter{
		sellRatio:  cfg.SellRatio,
		buyRatio:   cfg.BuyRatio,
		lowerBound: cfg.LowerBoundRatio,
		upperBound: cfg.UpperBoundRatio,
	}
}

// Price computes the cycle's quote for one instrument.
//
// The sell ratio is > 1 and the buy ratio < 1, biasing both quotes away from
// the touch. The bound ratios window the reference price, not the order
// price: they decide how far the cross-venue average may drift before a
// resting order is stale.
func (q *Quoter) Price(agg types.AggregatedQuote, baseBalance, quoteBalance num.Decimal) Quote {
	sellPrice := agg.Ask.Mul(q.sellRatio)
	buyPrice := agg.Bid.Mul(q.buyRatio)

	buyQuantity := num.DecimalZero()
	if sellPrice.IsPositive() {
		buyQuantity = quoteBalance.Div(sellPrice)
	}

	return Quote{
		SellPrice:    sellPrice,
		BuyPrice:     buyPrice,
		SellQuantity: baseBalance,
		BuyQuantity:  buyQuantity,
		AskBounds: Bounds{
			Low:  agg.Ask.Mul(q.lowerBound),
			High: agg.Ask.Mul(q.upperBound),
		},
		BidBounds: Bounds{
			Low:  agg.Bid.Mul(q.lowerBound),
			High: agg.Bid.Mul(q.upperBound),
		},
	}
}
