package pricing_test

import (
	"testing"

	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/pricing"
	"github.com/tidemark/tradecore/types"

	"github.com/stretchr/testify/assert"
)

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func TestQuoter(t *testing.T) {
	t.Run("prices and quantities from ratios and balances", testQuoterSizing)
	t.Run("acceptance bounds are exact products", testQuoterBounds)
	t.Run("zero sell price yields zero buy quantity", testQuoterZeroPrice)
}

func testQuoterSizing(t *testing.T) {
	q := pricing.NewQuoter(pricing.NewDefaultConfig())

	// single venue at ask 30000 / bid 29990, 0.01 BTC and 300 USDT free
	quote := q.Price(types.AggregatedQuote{Ask: d("30000"), Bid: d("29990")}, d("0.01"), d("300"))

	assert.True(t, d("30045").Equal(quote.SellPrice), "sell price = %s", quote.SellPrice.String())
	assert.True(t, d("29945.015").Equal(quote.BuyPrice), "buy price = %s", quote.BuyPrice.String())
	assert.True(t, d("0.01").Equal(quote.SellQuantity))
	// 300 / 30045
	assert.True(t, d("300").Div(d("30045")).Equal(quote.BuyQuantity))
}

func testQuoterBounds(t *testing.T) {
	q := pricing.NewQuoter(pricing.Config{
		SellRatio:       d("1.0015"),
		BuyRatio:        d("0.9985"),
		LowerBoundRatio: d("0.9995"),
		UpperBoundRatio: d("1.0005"),
	})

	quote := q.Price(types.AggregatedQuote{Ask: d("30000"), Bid: d("29990")}, d("1"), d("1"))

	assert.True(t, d("29985").Equal(quote.AskBounds.Low))
	assert.True(t, d("30015").Equal(quote.AskBounds.High))
	assert.True(t, d("29975.005").Equal(quote.BidBounds.Low))
	assert.True(t, d("30004.995").Equal(quote.BidBounds.High))

	// strictly inside holds, edges and outside breach
	assert.True(t, quote.AskBounds.Contains(d("30000")))
	assert.False(t, quote.AskBounds.Contains(d("30015")))
	assert.False(t, quote.AskBounds.Contains(d("29985")))
	assert.False(t, quote.AskBounds.Contains(d("30500")))
}

func testQuoterZeroPrice(t *testing.T) {
	q := pricing.NewQuoter(pricing.NewDefaultConfig())
	quote := q.Price(types.AggregatedQuote{Ask: d("0"), Bid: d("0")}, d("1"), d("100"))
	assert.True(t, quote.BuyQuantity.IsZero())
}
