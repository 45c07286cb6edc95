package types

import "github.com/tidemark/tradecore/num"

// OrderbookUpdate is the best ask/bid one venue reports for one symbol.
type OrderbookUpdate struct {
	Venue   string
	Symbol  string
	BestAsk num.Decimal
	BestBid num.Decimal
}

// BalanceSnapshot carries the full per-asset free balance list. Snapshots
// replace the previous balances wholesale, they are never deltas.
type BalanceSnapshot struct {
	Entries map[string]num.Decimal
}

// OrderStatusKind discriminates gateway order status events.
type OrderStatusKind int8

const (
	OrderStatusUnspecified OrderStatusKind = iota
	// OrderCreated confirms a create command, matched by correlation id.
	OrderCreated
	// OrderCancelled confirms a cancel (or a fill that removed the order),
	// matched by order id.
	OrderCancelled
)

func (k OrderStatusKind) String() string {
	switch k {
	case OrderCreated:
		return "order_created"
	case OrderCancelled:
		return "order_cancel"
	default:
		return "unspecified"
	}
}

// OrderStatusEvent is an asynchronous creation/cancellation report from the
// gateway. Events may arrive out of order relative to the commands that
// caused them and are matched by explicit id only.
type OrderStatusEvent struct {
	Kind          OrderStatusKind
	Symbol        string
	Side          Side
	OrderID       string
	CorrelationID string
}
