package execution

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tidemark/tradecore/gateway"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/markets"
	"github.com/tidemark/tradecore/metrics"
	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/pricing"
	"github.com/tidemark/tradecore/types"
)

// CommandPublisher is the engine's view of the gateway command publisher.
type CommandPublisher interface {
	Submit(types.Command) (gateway.SubmitOutcome, error)
}

type sideKey struct {
	symbol string
	side   types.Side
}

// sideState is the lifecycle state of one (symbol, side).
//
// hasOrder is the authoritative "do not submit another order" guard: it is
// raised the moment a create command is issued and only lowered when the
// side is confirmed flat (cancel confirmation or sweeper reset). It is
// deliberately decoupled from restingOrderID, which only arrives with the
// asynchronous creation confirmation. Invariant: !hasOrder implies
// restingOrderID == "".
type sideState struct {
	restingOrderID string
	hasOrder       bool
	bounds         pricing.Bounds
}

// pendingRequest tracks one in-flight create (keyed by correlation id) or
// cancel (keyed by order id) awaiting gateway confirmation.
type pendingRequest struct {
	symbol          string
	side            types.Side
	submittedAt     time.Time
	statusRequested bool
}

// Engine owns the per-(symbol, side) order lifecycle. All state is mutated
// from the single decision goroutine only.
type Engine struct {
	log       *logging.Logger
	cfg       Config
	store     *markets.Store
	quoter    *pricing.Quoter
	publisher CommandPublisher

	instruments []types.Instrument

	sides          map[sideKey]*sideState
	pendingCreates map[string]*pendingRequest
	pendingCancels map[string]*pendingRequest

	now   func() time.Time
	newID func() string

	startedAt    time.Time
	lastSweep    time.Time
	lastSnapshot time.Time

	status statusCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeFunc overrides the wall clock, for tests.
func WithTimeFunc(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the correlation id generator, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(
	log *logging.Logger,
	cfg Config,
	store *markets.Store,
	quoter *pricing.Quoter,
	publisher CommandPublisher,
	instruments []types.Instrument,
	opts ...Option,
) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	e := &Engine{
		log:            log,
		cfg:            cfg,
		store:          store,
		quoter:         quoter,
		publisher:      publisher,
		instruments:    instruments,
		sides:          make(map[sideKey]*sideState, 2*len(instruments)),
		pendingCreates: map[string]*pendingRequest{},
		pendingCancels: map[string]*pendingRequest{},
		now:            time.Now,
		newID:          func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, inst := range instruments {
		e.sides[sideKey{inst.Symbol, types.SideBuy}] = &sideState{}
		e.sides[sideKey{inst.Symbol, types.SideSell}] = &sideState{}
	}
	e.startedAt = e.now()
	e.updateStatus()
	return e
}

// OnOrderbook applies one venue's best ask/bid and runs a decision cycle.
// Decisions are skipped until a first balance snapshot arrived: sizing
// against unknown balances would only produce zero-quantity orders.
func (e *Engine) OnOrderbook(ev types.OrderbookUpdate) {
	e.store.UpdateQuote(ev.Venue, ev.Symbol, ev.BestAsk, ev.BestBid)
	if !e.store.HasBalances() {
		return
	}
	e.process()
}

// OnBalances replaces the balance snapshot wholesale. No decisions run here;
// the next orderbook update picks the fresh balances up.
func (e *Engine) OnBalances(ev types.BalanceSnapshot) {
	e.store.ReplaceBalances(ev.Entries)
}

// OnOrderStatus feeds an asynchronous gateway confirmation back into the
// lifecycle. Events are matched by explicit id only, never by arrival order.
func (e *Engine) OnOrderStatus(ev types.OrderStatusEvent) {
	st, ok := e.sides[sideKey{ev.Symbol, ev.Side}]
	if !ok {
		e.log.Warn("order status for unknown symbol/side",
			logging.String("symbol", ev.Symbol),
			logging.String("side", ev.Side.String()))
		return
	}

	switch ev.Kind {
	case types.OrderCreated:
		if !st.hasOrder {
			// a confirmation for a side the sweeper already reset, or one we
			// never asked for; record it anyway so the cancel path can act
			e.log.Error("order created while side flag was down",
				logging.String("symbol", ev.Symbol),
				logging.String("side", ev.Side.String()),
				logging.String("order-id", ev.OrderID))
			st.hasOrder = true
			metrics.LiveOrdersInc()
		}
		st.restingOrderID = ev.OrderID
		delete(e.pendingCreates, ev.CorrelationID)
		e.log.Info("order resting",
			logging.String("symbol", ev.Symbol),
			logging.String("side", ev.Side.String()),
			logging.String("order-id", ev.OrderID),
			logging.String("correlation-id", ev.CorrelationID))

	case types.OrderCancelled:
		// only a cancel carrying the id this side holds, resting or pending
		// cancellation, may flatten it. A stale cancel (say, from a prior
		// run's startup sweep) landing while a create is in flight would
		// otherwise free the side, the next tick would quote again, and the
		// original creation confirmation would leave an untracked live order.
		if _, pending := e.pendingCancels[ev.OrderID]; !pending && ev.OrderID != st.restingOrderID {
			e.log.Warn("cancellation for an order this side does not hold",
				logging.String("symbol", ev.Symbol),
				logging.String("side", ev.Side.String()),
				logging.String("order-id", ev.OrderID))
			return
		}
		st.restingOrderID = ""
		if st.hasOrder {
			st.hasOrder = false
			metrics.LiveOrdersDec()
		}
		delete(e.pendingCancels, ev.OrderID)
		e.log.Info("order side flat",
			logging.String("symbol", ev.Symbol),
			logging.String("side", ev.Side.String()),
			logging.String("order-id", ev.OrderID))

	default:
		e.log.Warn("order status event with unknown kind",
			logging.String("symbol", ev.Symbol))
	}
	e.updateStatus()
}

// process evaluates transition conditions for every instrument. One symbol's
// failure never blocks the others.
func (e *Engine) process() {
	now := e.now()
	if now.Sub(e.startedAt) < e.cfg.StartupDelay.Get() {
		return
	}

	e.maybeSnapshot(now)
	e.maybeSweep(now)

	for _, inst := range e.instruments {
		e.processInstrument(now, inst)
	}
	e.updateStatus()
}

func (e *Engine) processInstrument(now time.Time, inst types.Instrument) {
	agg, err := e.store.Aggregate(inst.Symbol)
	if err != nil {
		if errors.Is(err, markets.ErrNoQuotes) {
			if e.log.GetLevel() <= logging.DebugLevel {
				e.log.Debug("no quotes for symbol, skipping cycle",
					logging.String("symbol", inst.Symbol))
			}
			return
		}
		e.log.Error("quote aggregation failed",
			logging.String("symbol", inst.Symbol), logging.Error(err))
		return
	}

	baseBalance := e.store.Balance(inst.BaseAsset)
	quoteBalance := e.store.Balance(inst.QuoteAsset)
	quote := e.quoter.Price(agg, baseBalance, quoteBalance)

	sell := e.sides[sideKey{inst.Symbol, types.SideSell}]
	buy := e.sides[sideKey{inst.Symbol, types.SideBuy}]

	if !sell.hasOrder && baseBalance.GreaterThan(e.minDeal(inst.BaseAsset)) {
		e.createOrder(now, inst, types.SideSell, quote.SellPrice, quote.SellQuantity, quote.AskBounds)
	}
	if !buy.hasOrder &&
		quoteBalance.GreaterThan(e.minDeal(inst.QuoteAsset)) &&
		quote.BuyQuantity.GreaterThan(inst.AmountIncrement) {
		e.createOrder(now, inst, types.SideBuy, quote.BuyPrice, quote.BuyQuantity, quote.BidBounds)
	}

	// a resting order whose reference price drifted out of the window
	// recorded at creation time is stale; while the id is still unknown the
	// order cannot be cancelled and is left to the sweeper
	if sell.hasOrder && sell.restingOrderID != "" && !sell.bounds.Contains(agg.Ask) {
		e.cancelOrder(now, inst.Symbol, types.SideSell, sell, agg.Ask)
	}
	if buy.hasOrder && buy.restingOrderID != "" && !buy.bounds.Contains(agg.Bid) {
		e.cancelOrder(now, inst.Symbol, types.SideBuy, buy, agg.Bid)
	}
}

func (e *Engine) createOrder(now time.Time, inst types.Instrument, side types.Side, price, quantity num.Decimal, bounds pricing.Bounds) {
	price = num.TruncateToIncrement(price, inst.PriceIncrement)
	quantity = num.TruncateToIncrement(quantity, inst.AmountIncrement)
	if !quantity.IsPositive() || !price.IsPositive() {
		return
	}

	cid := e.newID()
	st := e.sides[sideKey{inst.Symbol, side}]
	st.hasOrder = true
	st.bounds = bounds
	e.pendingCreates[cid] = &pendingRequest{
		symbol:      inst.Symbol,
		side:        side,
		submittedAt: now,
	}
	metrics.LiveOrdersInc()

	// local state stays raised even when the submit fails: if the offer
	// actually landed, resubmitting would duplicate the order; if it did
	// not, the sweeper resets the side after SecondTimeout
	if _, err := e.publisher.Submit(types.CreateOrder{
		Symbol:        inst.Symbol,
		Side:          side,
		Price:         price,
		Quantity:      quantity,
		CorrelationID: cid,
	}); err != nil {
		e.log.Warn("create order submit failed, leaving side state raised",
			logging.String("symbol", inst.Symbol),
			logging.String("side", side.String()),
			logging.Error(err))
		return
	}

	e.log.Info("create order submitted",
		logging.String("symbol", inst.Symbol),
		logging.String("side", side.String()),
		logging.Decimal("price", price),
		logging.Decimal("quantity", quantity),
		logging.Decimal("bounds-low", bounds.Low),
		logging.Decimal("bounds-high", bounds.High),
		logging.String("correlation-id", cid))
}

func (e *Engine) cancelOrder(now time.Time, symbol string, side types.Side, st *sideState, reference num.Decimal) {
	orderID := st.restingOrderID
	// optimistic: the id is dropped right away so the breach does not emit a
	// second cancel next cycle, but hasOrder stays up until confirmation
	st.restingOrderID = ""
	e.pendingCancels[orderID] = &pendingRequest{
		symbol:      symbol,
		side:        side,
		submittedAt: now,
	}

	if _, err := e.publisher.Submit(types.CancelOrder{
		Symbol:  symbol,
		Side:    side,
		OrderID: orderID,
	}); err != nil {
		e.log.Warn("cancel order submit failed, leaving side state raised",
			logging.String("symbol", symbol),
			logging.String("side", side.String()),
			logging.Error(err))
		return
	}

	e.log.Info("cancel order submitted",
		logging.String("symbol", symbol),
		logging.String("side", side.String()),
		logging.String("order-id", orderID),
		logging.Decimal("reference-price", reference),
		logging.Decimal("bounds-low", st.bounds.Low),
		logging.Decimal("bounds-high", st.bounds.High))
}

func (e *Engine) minDeal(asset string) num.Decimal {
	return e.cfg.MinDealAmounts[asset]
}

// maybeSnapshot dumps the lifecycle state to the log once per configured
// interval, so operators can reconcile against the exchange UI.
func (e *Engine) maybeSnapshot(now time.Time) {
	interval := e.cfg.SnapshotInterval.Get()
	if interval <= 0 || now.Sub(e.lastSnapshot) < interval {
		return
	}
	e.lastSnapshot = now
	for key, st := range e.sides {
		e.log.Info("order side state",
			logging.String("symbol", key.symbol),
			logging.String("side", key.side.String()),
			logging.Bool("has-order", st.hasOrder),
			logging.String("order-id", st.restingOrderID))
	}
	e.log.Info("pending requests",
		logging.Int("creates", len(e.pendingCreates)),
		logging.Int("cancels", len(e.pendingCancels)))
}
