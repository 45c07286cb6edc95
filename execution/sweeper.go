package execution

import (
	"time"

	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/metrics"
	"github.com/tidemark/tradecore/types"
)

// The gateway protocol offers no delivery guarantee, so a confirmation may
// simply never arrive. The sweeper is the only mechanism that unsticks a
// (symbol, side) whose pending create or cancel went unanswered; without it
// the hasOrder guard would block that side forever.
//
// It is invoked on every processing cycle but acts at most once per
// SweepInterval. Per pending entry it does two things:
//
//   - older than FirstTimeout and younger than SecondTimeout: issue exactly
//     one status query (by correlation id for creates, by order id for
//     cancels) and mark the entry, bounding query volume to one per entry
//     per window;
//   - older than SecondTimeout: force the side flat, drop the entry and log
//     the anomaly for operator visibility.
func (e *Engine) maybeSweep(now time.Time) {
	if interval := e.cfg.SweepInterval.Get(); interval > 0 && now.Sub(e.lastSweep) < interval {
		return
	}
	e.lastSweep = now

	e.sweepTable(now, e.pendingCreates, pendingCreate)
	e.sweepTable(now, e.pendingCancels, pendingCancel)
}

type pendingKind int8

const (
	pendingCreate pendingKind = iota
	pendingCancel
)

func (k pendingKind) String() string {
	if k == pendingCreate {
		return "create"
	}
	return "cancel"
}

func (e *Engine) sweepTable(now time.Time, table map[string]*pendingRequest, kind pendingKind) {
	first := e.cfg.FirstTimeout.Get()
	second := e.cfg.SecondTimeout.Get()

	for id, req := range table {
		age := now.Sub(req.submittedAt)
		switch {
		case age > first && age < second && !req.statusRequested:
			req.statusRequested = true
			e.requestStatus(id, kind)
			e.log.Info("pending request unanswered, status requested",
				logging.String("kind", kind.String()),
				logging.String("id", id),
				logging.String("symbol", req.symbol),
				logging.String("side", req.side.String()),
				logging.Duration("age", age))

		case age >= second:
			e.forceReset(id, req, kind, age)
			delete(table, id)
		}
	}
}

func (e *Engine) requestStatus(id string, kind pendingKind) {
	query := types.GetOrderStatus{}
	if kind == pendingCreate {
		query.CorrelationID = id
	} else {
		query.OrderID = id
	}
	if _, err := e.publisher.Submit(query); err != nil {
		e.log.Warn("status query submit failed", logging.String("id", id), logging.Error(err))
	}
}

// forceReset abandons a pending request past the hard timeout. No defensive
// CancelOrder is emitted for an abandoned create: the gateway never assigned
// an id we could cancel by, so the warning below is the operator's cue.
func (e *Engine) forceReset(id string, req *pendingRequest, kind pendingKind, age time.Duration) {
	st, ok := e.sides[sideKey{req.symbol, req.side}]
	if ok && st.hasOrder {
		st.hasOrder = false
		st.restingOrderID = ""
		metrics.LiveOrdersDec()
	}
	metrics.ReconciliationReset(kind.String())

	e.log.Warn("pending request timed out, side force-reset",
		logging.String("kind", kind.String()),
		logging.String("id", id),
		logging.String("symbol", req.symbol),
		logging.String("side", req.side.String()),
		logging.Duration("age", age))
}
