package agent

import (
	"context"
	"sort"
	"time"

	"github.com/tidemark/tradecore/execution"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/types"
)

// EventSource is the agent's view of the broker receiver.
type EventSource interface {
	Orderbooks() <-chan types.OrderbookUpdate
	Balances() <-chan types.BalanceSnapshot
	OrderStatuses() <-chan types.OrderStatusEvent
}

// Agent runs the decision loop. It is the only goroutine that touches the
// engine, so every state transition is serialized without locks.
type Agent struct {
	log       *logging.Logger
	cfg       Config
	engine    *execution.Engine
	publisher execution.CommandPublisher
	source    EventSource

	assets []string
}

func New(
	log *logging.Logger,
	cfg Config,
	engine *execution.Engine,
	publisher execution.CommandPublisher,
	source EventSource,
	instruments []types.Instrument,
) *Agent {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Agent{
		log:       log,
		cfg:       cfg,
		engine:    engine,
		publisher: publisher,
		source:    source,
		assets:    assetSet(instruments),
	}
}

// assetSet collects the distinct assets across all instruments, sorted so
// the startup balance query is deterministic.
func assetSet(instruments []types.Instrument) []string {
	seen := map[string]struct{}{}
	var assets []string
	for _, inst := range instruments {
		for _, a := range []string{inst.BaseAsset, inst.QuoteAsset} {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			assets = append(assets, a)
		}
	}
	sort.Strings(assets)
	return assets
}

// Run blocks until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	a.startup()

	idle := a.cfg.IdleSleep.Get()
	for {
		select {
		case <-ctx.Done():
			a.log.Info("decision loop stopping")
			return ctx.Err()
		default:
		}

		if !a.drain() {
			time.Sleep(idle)
		}
	}
}

// startup clears whatever live orders a previous run may have left on the
// exchange and asks for a fresh balance snapshot. No quoting happens until
// that snapshot arrives, and the engine's own dwell keeps it quiet while the
// cancellations settle.
func (a *Agent) startup() {
	if _, err := a.publisher.Submit(types.CancelAllOrders{}); err != nil {
		a.log.Error("startup cancel-all submit failed", logging.Error(err))
	}
	if _, err := a.publisher.Submit(types.GetBalances{Assets: a.assets}); err != nil {
		a.log.Error("startup balance query submit failed", logging.Error(err))
	}
	a.log.Info("startup commands submitted", logging.Strings("assets", a.assets))
}

// drain empties every event channel once, confirmations first: a freed side
// can then be re-quoted by market data handled in the same pass. Reports
// whether any event was processed.
func (a *Agent) drain() bool {
	worked := false

	for {
		select {
		case ev := <-a.source.OrderStatuses():
			a.engine.OnOrderStatus(ev)
			worked = true
			continue
		default:
		}
		break
	}
	for {
		select {
		case ev := <-a.source.Balances():
			a.engine.OnBalances(ev)
			worked = true
			continue
		default:
		}
		break
	}
	for {
		select {
		case ev := <-a.source.Orderbooks():
			a.engine.OnOrderbook(ev)
			worked = true
			continue
		default:
		}
		break
	}

	return worked
}
