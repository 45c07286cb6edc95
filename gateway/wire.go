package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/tidemark/tradecore/types"
)

// envelope is the wire frame every command is wrapped in. Timestamps are
// microseconds since epoch.
type envelope struct {
	Event     string      `json:"event"`
	Exchange  string      `json:"exchange"`
	Node      string      `json:"node"`
	Instance  string      `json:"instance"`
	Action    string      `json:"action"`
	Message   *string     `json:"message"`
	Algo      string      `json:"algo"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type createOrderData struct {
	Symbol   string      `json:"symbol"`
	Type     string      `json:"type"`
	Side     string      `json:"side"`
	Price    json.Number `json:"price"`
	Amount   json.Number `json:"amount"`
	ClientID string      `json:"client_id"`
}

type cancelOrderData struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
}

type orderStatusByID struct {
	ID string `json:"id"`
}

type orderStatusByClientID struct {
	ClientID string `json:"client_id"`
}

type balancesData struct {
	Assets []string `json:"assets"`
}

func (p *Publisher) marshal(cmd types.Command) ([]byte, error) {
	data, err := commandData(cmd)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		Event:     "command",
		Exchange:  p.cfg.Exchange,
		Node:      p.cfg.Node,
		Instance:  p.cfg.Instance,
		Action:    cmd.Action(),
		Algo:      p.cfg.Algo,
		Timestamp: p.now().UnixMicro(),
		Data:      data,
	})
}

func commandData(cmd types.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case types.CreateOrder:
		return []createOrderData{{
			Symbol:   c.Symbol,
			Type:     types.OrderTypeLimit,
			Side:     c.Side.String(),
			Price:    json.Number(c.Price.String()),
			Amount:   json.Number(c.Quantity.String()),
			ClientID: c.CorrelationID,
		}}, nil
	case types.CancelOrder:
		return []cancelOrderData{{ID: c.OrderID, Symbol: c.Symbol}}, nil
	case types.CancelAllOrders:
		return nil, nil
	case types.GetOrderStatus:
		if c.OrderID != "" {
			return []orderStatusByID{{ID: c.OrderID}}, nil
		}
		if c.CorrelationID != "" {
			return []orderStatusByClientID{{ClientID: c.CorrelationID}}, nil
		}
		return nil, fmt.Errorf("order status query needs an order id or a correlation id")
	case types.GetBalances:
		return balancesData{Assets: c.Assets}, nil
	default:
		return nil, fmt.Errorf("unknown command type %T", cmd)
	}
}
