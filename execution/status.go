package execution

import (
	"sort"
	"sync/atomic"
)

// SideStatus is the externally visible state of one (symbol, side), exposed
// through the admin server.
type SideStatus struct {
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	HasOrder   bool   `json:"has_order"`
	OrderID    string `json:"order_id,omitempty"`
	BoundsLow  string `json:"bounds_low,omitempty"`
	BoundsHigh string `json:"bounds_high,omitempty"`
}

// Status is a point-in-time snapshot of the engine.
type Status struct {
	Sides          []SideStatus `json:"sides"`
	PendingCreates int          `json:"pending_creates"`
	PendingCancels int          `json:"pending_cancels"`
}

// statusCache decouples admin reads from the decision goroutine: the engine
// publishes an immutable snapshot after every mutation, readers never touch
// live state.
type statusCache struct {
	v atomic.Value
}

func (e *Engine) updateStatus() {
	sides := make([]SideStatus, 0, len(e.sides))
	for key, st := range e.sides {
		s := SideStatus{
			Symbol:   key.symbol,
			Side:     key.side.String(),
			HasOrder: st.hasOrder,
			OrderID:  st.restingOrderID,
		}
		if st.hasOrder {
			s.BoundsLow = st.bounds.Low.String()
			s.BoundsHigh = st.bounds.High.String()
		}
		sides = append(sides, s)
	}
	sort.Slice(sides, func(i, j int) bool {
		if sides[i].Symbol != sides[j].Symbol {
			return sides[i].Symbol < sides[j].Symbol
		}
		return sides[i].Side < sides[j].Side
	})
	e.status.v.Store(Status{
		Sides:          sides,
		PendingCreates: len(e.pendingCreates),
		PendingCancels: len(e.pendingCancels),
	})
}

// Status returns the latest published snapshot. Safe to call from any
// goroutine.
func (e *Engine) Status() Status {
	if s, ok := e.status.v.Load().(Status); ok {
		return s
	}
	return Status{}
}
