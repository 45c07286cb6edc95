package gateway_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tidemark/tradecore/gateway"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent [][]byte
	errs []error
}

func (f *fakeSender) Send(buf []byte) error {
	f.sent = append(f.sent, buf)
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func newPublisher(sender gateway.Sender, opts ...gateway.Option) *gateway.Publisher {
	cfg := gateway.NewDefaultConfig()
	cfg.Exchange = "binance"
	cfg.Algo = "simple-mm"
	opts = append(opts, gateway.WithTimeFunc(func() time.Time {
		return time.Unix(1700000000, 0)
	}))
	return gateway.NewPublisher(logging.NewTestLogger(), cfg, sender, opts...)
}

func TestSubmit(t *testing.T) {
	t.Run("clean send", testSubmitSent)
	t.Run("one retry on backpressure", testSubmitRetryOnce)
	t.Run("second backpressure fails without further retries", testSubmitRetryGivesUp)
	t.Run("not connected fails without retry", testSubmitNoRetryNotConnected)
	t.Run("last sent payload survives a later failure", testSubmitLastSent)
}

func testSubmitSent(t *testing.T) {
	sender := &fakeSender{}
	p := newPublisher(sender)

	outcome, err := p.Submit(types.CancelAllOrders{})
	require.NoError(t, err)
	assert.Equal(t, gateway.Sent, outcome)
	require.Len(t, sender.sent, 1)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(sender.sent[0], &env))
	assert.Equal(t, "command", env["event"])
	assert.Equal(t, "cancel_all_orders", env["action"])
	assert.Equal(t, "binance", env["exchange"])
	assert.Equal(t, "core", env["node"])
	assert.Nil(t, env["data"])
}

func testSubmitRetryOnce(t *testing.T) {
	sender := &fakeSender{errs: []error{gateway.ErrBackpressured}}
	p := newPublisher(sender)

	outcome, err := p.Submit(types.CancelOrder{Symbol: "BTC/USDT", Side: types.SideSell, OrderID: "42"})
	require.NoError(t, err)
	assert.Equal(t, gateway.SentAfterRetry, outcome)
	assert.Len(t, sender.sent, 2)
}

func testSubmitRetryGivesUp(t *testing.T) {
	sender := &fakeSender{errs: []error{gateway.ErrBackpressured, gateway.ErrBackpressured}}
	p := newPublisher(sender)

	outcome, err := p.Submit(types.CancelAllOrders{})
	require.Error(t, err)
	assert.Equal(t, gateway.Failed, outcome)
	// exactly two offers, never a third
	assert.Len(t, sender.sent, 2)
}

func testSubmitNoRetryNotConnected(t *testing.T) {
	sender := &fakeSender{errs: []error{gateway.ErrNotConnected}}
	p := newPublisher(sender)

	outcome, err := p.Submit(types.CancelAllOrders{})
	require.ErrorIs(t, err, gateway.ErrNotConnected)
	assert.Equal(t, gateway.Failed, outcome)
	assert.Len(t, sender.sent, 1)
}

func testSubmitLastSent(t *testing.T) {
	sender := &fakeSender{}
	p := newPublisher(sender)
	assert.Equal(t, "none", p.LastSent())

	_, err := p.Submit(types.CancelAllOrders{})
	require.NoError(t, err)
	first := p.LastSent()
	assert.Contains(t, first, "cancel_all_orders")

	sender.errs = []error{gateway.ErrClosed}
	_, err = p.Submit(types.GetBalances{Assets: []string{"BTC"}})
	require.Error(t, err)
	assert.Equal(t, first, p.LastSent())
}

func TestCreateOrderPayload(t *testing.T) {
	sender := &fakeSender{}
	p := newPublisher(sender)

	_, err := p.Submit(types.CreateOrder{
		Symbol:        "BTC/USDT",
		Side:          types.SideSell,
		Price:         num.MustDecimalFromString("30045"),
		Quantity:      num.MustDecimalFromString("0.01"),
		CorrelationID: "cid-1",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	var env struct {
		Action string `json:"action"`
		Data   []struct {
			Symbol   string      `json:"symbol"`
			Type     string      `json:"type"`
			Side     string      `json:"side"`
			Price    json.Number `json:"price"`
			Amount   json.Number `json:"amount"`
			ClientID string      `json:"client_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sender.sent[0], &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "create_order", env.Action)
	assert.Equal(t, "BTC/USDT", env.Data[0].Symbol)
	assert.Equal(t, "limit", env.Data[0].Type)
	assert.Equal(t, "sell", env.Data[0].Side)
	assert.Equal(t, json.Number("30045"), env.Data[0].Price)
	assert.Equal(t, json.Number("0.01"), env.Data[0].Amount)
	assert.Equal(t, "cid-1", env.Data[0].ClientID)
}

func TestOrderStatusPayload(t *testing.T) {
	sender := &fakeSender{}
	p := newPublisher(sender)

	_, err := p.Submit(types.GetOrderStatus{CorrelationID: "cid-9"})
	require.NoError(t, err)
	assert.Contains(t, string(sender.sent[0]), `"client_id":"cid-9"`)

	_, err = p.Submit(types.GetOrderStatus{OrderID: "77"})
	require.NoError(t, err)
	assert.Contains(t, string(sender.sent[1]), `"id":"77"`)

	_, err = p.Submit(types.GetOrderStatus{})
	assert.Error(t, err)
}

func TestMirror(t *testing.T) {
	sender := &fakeSender{}
	mirror := &fakeSender{}
	p := newPublisher(sender, gateway.WithMirror(mirror))

	_, err := p.Submit(types.CancelAllOrders{})
	require.NoError(t, err)
	require.Len(t, mirror.sent, 1)
	assert.Equal(t, sender.sent[0], mirror.sent[0])

	// mirror failures never affect the submit outcome
	mirror.errs = []error{gateway.ErrClosed}
	outcome, err := p.Submit(types.GetBalances{Assets: []string{"BTC"}})
	require.NoError(t, err)
	assert.Equal(t, gateway.Sent, outcome)
}
