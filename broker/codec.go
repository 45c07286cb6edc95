package broker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/types"
)

var (
	// ErrMissingField marks an inbound message that parsed as JSON but lacks a
	// field the event cannot be built without.
	ErrMissingField = errors.New("missing required field")

	// errIgnoredEvent marks messages that are well formed but not ours to
	// handle, e.g. fill notifications other subscribers consume.
	errIgnoredEvent = errors.New("ignored event")
)

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

// inboundEnvelope mirrors the frame the gateway wraps every message in. Only
// the routing fields are decoded eagerly; data stays raw until the action is
// known.
type inboundEnvelope struct {
	Event    string          `json:"event"`
	Exchange string          `json:"exchange"`
	Action   string          `json:"action"`
	Data     json.RawMessage `json:"data"`
}

type orderbookData struct {
	Symbol string          `json:"symbol"`
	Asks   [][]json.Number `json:"asks"`
	Bids   [][]json.Number `json:"bids"`
}

type balanceData struct {
	Free json.Number `json:"free"`
}

type orderUpdateData struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
}

// decodeEvent turns one raw socket message into a typed event, or
// errIgnoredEvent for messages addressed to other consumers.
func decodeEvent(msg []byte) (interface{}, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	if env.Event != "data" {
		return nil, errIgnoredEvent
	}

	switch env.Action {
	case "orderbook":
		return decodeOrderbook(env)
	case "balances":
		return decodeBalances(env)
	case "order_created":
		return decodeOrderUpdate(env, types.OrderCreated)
	case "order_cancel":
		return decodeOrderUpdate(env, types.OrderCancelled)
	default:
		return nil, errIgnoredEvent
	}
}

func decodeOrderbook(env inboundEnvelope) (types.OrderbookUpdate, error) {
	var ev types.OrderbookUpdate
	if env.Exchange == "" {
		return ev, missingField("exchange")
	}

	var d orderbookData
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return ev, fmt.Errorf("failed to unmarshal orderbook data: %w", err)
	}
	if d.Symbol == "" {
		return ev, missingField("symbol")
	}
	if len(d.Asks) == 0 || len(d.Asks[0]) == 0 {
		return ev, missingField("asks")
	}
	if len(d.Bids) == 0 || len(d.Bids[0]) == 0 {
		return ev, missingField("bids")
	}

	// only the top of book matters, [price, volume] levels below it are
	// ignored
	ask, err := num.DecimalFromString(d.Asks[0][0].String())
	if err != nil {
		return ev, fmt.Errorf("invalid best ask %q: %w", d.Asks[0][0].String(), err)
	}
	bid, err := num.DecimalFromString(d.Bids[0][0].String())
	if err != nil {
		return ev, fmt.Errorf("invalid best bid %q: %w", d.Bids[0][0].String(), err)
	}

	return types.OrderbookUpdate{
		Venue:   env.Exchange,
		Symbol:  d.Symbol,
		BestAsk: ask,
		BestBid: bid,
	}, nil
}

func decodeBalances(env inboundEnvelope) (types.BalanceSnapshot, error) {
	var ev types.BalanceSnapshot

	var d map[string]balanceData
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return ev, fmt.Errorf("failed to unmarshal balances data: %w", err)
	}

	entries := make(map[string]num.Decimal, len(d))
	for asset, b := range d {
		if b.Free == "" {
			return ev, missingField("free")
		}
		free, err := num.DecimalFromString(b.Free.String())
		if err != nil {
			return ev, fmt.Errorf("invalid balance for %s: %w", asset, err)
		}
		entries[asset] = free
	}
	ev.Entries = entries
	return ev, nil
}

func decodeOrderUpdate(env inboundEnvelope, kind types.OrderStatusKind) (types.OrderStatusEvent, error) {
	var ev types.OrderStatusEvent

	var items []orderUpdateData
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return ev, fmt.Errorf("failed to unmarshal order update data: %w", err)
	}
	if len(items) == 0 {
		return ev, missingField("data")
	}
	d := items[0]
	if d.Symbol == "" {
		return ev, missingField("symbol")
	}
	if d.ID == "" {
		return ev, missingField("id")
	}
	side, err := types.SideFromString(d.Side)
	if err != nil {
		return ev, fmt.Errorf("invalid order update: %w", err)
	}

	return types.OrderStatusEvent{
		Kind:          kind,
		Symbol:        d.Symbol,
		Side:          side,
		OrderID:       d.ID,
		CorrelationID: d.ClientID,
	}, nil
}
