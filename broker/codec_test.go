package broker

import (
	"testing"

	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrderbook(t *testing.T) {
	t.Run("top of book is extracted", func(t *testing.T) {
		msg := []byte(`{
			"event": "data", "exchange": "binance", "action": "orderbook",
			"data": {
				"symbol": "BTC/USDT",
				"asks": [[30000.5, 1.2], [30001, 0.4]],
				"bids": [[29990, 2], [29989.5, 1]]
			}
		}`)
		ev, err := decodeEvent(msg)
		require.NoError(t, err)

		ob, ok := ev.(types.OrderbookUpdate)
		require.True(t, ok)
		assert.Equal(t, "binance", ob.Venue)
		assert.Equal(t, "BTC/USDT", ob.Symbol)
		assert.True(t, num.MustDecimalFromString("30000.5").Equal(ob.BestAsk))
		assert.True(t, num.MustDecimalFromString("29990").Equal(ob.BestBid))
	})

	t.Run("missing exchange is rejected", func(t *testing.T) {
		msg := []byte(`{"event":"data","action":"orderbook","data":{"symbol":"BTC/USDT","asks":[[1,1]],"bids":[[1,1]]}}`)
		_, err := decodeEvent(msg)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("missing symbol is rejected", func(t *testing.T) {
		msg := []byte(`{"event":"data","exchange":"binance","action":"orderbook","data":{"asks":[[1,1]],"bids":[[1,1]]}}`)
		_, err := decodeEvent(msg)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("empty book sides are rejected", func(t *testing.T) {
		msg := []byte(`{"event":"data","exchange":"binance","action":"orderbook","data":{"symbol":"BTC/USDT","asks":[],"bids":[[1,1]]}}`)
		_, err := decodeEvent(msg)
		assert.ErrorIs(t, err, ErrMissingField)

		msg = []byte(`{"event":"data","exchange":"binance","action":"orderbook","data":{"symbol":"BTC/USDT","asks":[[1,1]],"bids":[[]]}}`)
		_, err = decodeEvent(msg)
		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestDecodeBalances(t *testing.T) {
	t.Run("free amounts per asset", func(t *testing.T) {
		msg := []byte(`{
			"event": "data", "exchange": "binance", "action": "balances",
			"data": {
				"BTC":  {"free": 0.5,  "locked": 0.1},
				"USDT": {"free": 1200, "locked": 0}
			}
		}`)
		ev, err := decodeEvent(msg)
		require.NoError(t, err)

		bal, ok := ev.(types.BalanceSnapshot)
		require.True(t, ok)
		require.Len(t, bal.Entries, 2)
		assert.True(t, num.MustDecimalFromString("0.5").Equal(bal.Entries["BTC"]))
		assert.True(t, num.MustDecimalFromString("1200").Equal(bal.Entries["USDT"]))
	})

	t.Run("missing free amount is rejected", func(t *testing.T) {
		msg := []byte(`{"event":"data","exchange":"binance","action":"balances","data":{"BTC":{"locked":0.1}}}`)
		_, err := decodeEvent(msg)
		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestDecodeOrderUpdates(t *testing.T) {
	t.Run("creation confirmation", func(t *testing.T) {
		msg := []byte(`{
			"event": "data", "exchange": "binance", "action": "order_created",
			"data": [{"symbol": "BTC/USDT", "side": "sell", "id": "55", "client_id": "cid-1"}]
		}`)
		ev, err := decodeEvent(msg)
		require.NoError(t, err)

		st, ok := ev.(types.OrderStatusEvent)
		require.True(t, ok)
		assert.Equal(t, types.OrderCreated, st.Kind)
		assert.Equal(t, "BTC/USDT", st.Symbol)
		assert.Equal(t, types.SideSell, st.Side)
		assert.Equal(t, "55", st.OrderID)
		assert.Equal(t, "cid-1", st.CorrelationID)
	})

	t.Run("cancellation confirmation", func(t *testing.T) {
		msg := []byte(`{
			"event": "data", "exchange": "binance", "action": "order_cancel",
			"data": [{"symbol": "BTC/USDT", "side": "buy", "id": "56"}]
		}`)
		ev, err := decodeEvent(msg)
		require.NoError(t, err)

		st := ev.(types.OrderStatusEvent)
		assert.Equal(t, types.OrderCancelled, st.Kind)
		assert.Equal(t, types.SideBuy, st.Side)
		assert.Equal(t, "56", st.OrderID)
		assert.Empty(t, st.CorrelationID)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		msg := []byte(`{"event":"data","exchange":"binance","action":"order_created","data":[{"symbol":"BTC/USDT","side":"sell"}]}`)
		_, err := decodeEvent(msg)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("unknown side is rejected", func(t *testing.T) {
		msg := []byte(`{"event":"data","exchange":"binance","action":"order_created","data":[{"symbol":"BTC/USDT","side":"short","id":"57"}]}`)
		_, err := decodeEvent(msg)
		assert.Error(t, err)
	})
}

func TestDecodeRouting(t *testing.T) {
	t.Run("non-data events are ignored", func(t *testing.T) {
		_, err := decodeEvent([]byte(`{"event":"command","action":"create_order","data":null}`))
		assert.ErrorIs(t, err, errIgnoredEvent)
	})

	t.Run("unhandled actions are ignored", func(t *testing.T) {
		_, err := decodeEvent([]byte(`{"event":"data","exchange":"binance","action":"trades","data":[]}`))
		assert.ErrorIs(t, err, errIgnoredEvent)
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		_, err := decodeEvent([]byte(`{"event":`))
		assert.Error(t, err)
	})
}
