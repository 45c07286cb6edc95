package types

import "github.com/tidemark/tradecore/num"

// OrderTypeLimit is the only order type this core submits.
const OrderTypeLimit = "limit"

// Command is an outbound instruction for the execution gateway.
type Command interface {
	Action() string
}

// CreateOrder submits a resting limit order. CorrelationID is the
// client-generated id the asynchronous creation confirmation is matched by.
type CreateOrder struct {
	Symbol        string
	Side          Side
	Price         num.Decimal
	Quantity      num.Decimal
	CorrelationID string
}

func (CreateOrder) Action() string { return "create_order" }

// CancelOrder cancels a resting order by its gateway-assigned id.
type CancelOrder struct {
	Symbol  string
	Side    Side
	OrderID string
}

func (CancelOrder) Action() string { return "cancel_order" }

// CancelAllOrders is issued once at startup/reconnection as a safety sweep
// over whatever live-order set a previous run may have left behind.
type CancelAllOrders struct{}

func (CancelAllOrders) Action() string { return "cancel_all_orders" }

// GetOrderStatus queries the gateway for a single order, either by its
// gateway id or, for a creation that was never confirmed, by the client
// correlation id.
type GetOrderStatus struct {
	OrderID       string
	CorrelationID string
}

func (GetOrderStatus) Action() string { return "order_status" }

// GetBalances asks the gateway to publish a fresh balance snapshot for the
// configured assets.
type GetBalances struct {
	Assets []string
}

func (GetBalances) Action() string { return "get_balances" }
