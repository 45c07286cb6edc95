package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/metrics"
	"github.com/tidemark/tradecore/types"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol"
	"go.nanomsg.org/mangos/v3/protocol/sub"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

// SocketReceiver subscribes to the upstream market data and confirmation
// feeds and fans decoded events out to buffered channels the decision loop
// drains. Handoff is non-blocking: a full channel drops the event rather than
// stalling the socket, since a stalled subscriber falls arbitrarily far
// behind the market.
type SocketReceiver struct {
	log  *logging.Logger
	sock protocol.Socket

	orderbooks chan types.OrderbookUpdate
	balances   chan types.BalanceSnapshot
	statuses   chan types.OrderStatusEvent
}

func NewSocketReceiver(log *logging.Logger, config Config) (*SocketReceiver, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create sub socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte("")); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, config.Streams.RecvTimeout.Get()); err != nil {
		return nil, fmt.Errorf("failed to set receive deadline: %w", err)
	}

	for _, hostport := range config.Streams.Addresses {
		addr := fmt.Sprintf("%s://%s", config.Streams.TransportType, hostport)
		if err := sock.Dial(addr); err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
		}
		log.Info("event stream connected", logging.String("address", addr))
	}

	return &SocketReceiver{
		log:        log,
		sock:       sock,
		orderbooks: make(chan types.OrderbookUpdate, config.EventBufferSize),
		balances:   make(chan types.BalanceSnapshot, config.EventBufferSize),
		statuses:   make(chan types.OrderStatusEvent, config.EventBufferSize),
	}, nil
}

func (r *SocketReceiver) Orderbooks() <-chan types.OrderbookUpdate {
	return r.orderbooks
}

func (r *SocketReceiver) Balances() <-chan types.BalanceSnapshot {
	return r.balances
}

func (r *SocketReceiver) OrderStatuses() <-chan types.OrderStatusEvent {
	return r.statuses
}

// Receive pulls messages off the sub socket until the context is cancelled.
// The receive deadline bounds how long a quiet feed can delay the context
// check.
func (r *SocketReceiver) Receive(ctx context.Context) error {
	defer r.sock.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := r.sock.Recv()
		if err != nil {
			switch err {
			case mangos.ErrRecvTimeout:
				continue
			case mangos.ErrClosed:
				return fmt.Errorf("event socket closed: %w", err)
			default:
				r.log.Error("failed to receive message", logging.Error(err))
				continue
			}
		}

		ev, err := decodeEvent(msg)
		if err != nil {
			if errors.Is(err, errIgnoredEvent) {
				continue
			}
			r.log.Warn("discarding undecodable message", logging.Error(err))
			continue
		}
		r.dispatch(ev)
	}
}

func (r *SocketReceiver) dispatch(ev interface{}) {
	switch e := ev.(type) {
	case types.OrderbookUpdate:
		metrics.EventReceived("orderbook")
		select {
		case r.orderbooks <- e:
		default:
			// quotes are overwrite-only state, losing one is benign
			metrics.EventDropped("orderbook")
		}
	case types.BalanceSnapshot:
		metrics.EventReceived("balances")
		select {
		case r.balances <- e:
		default:
			metrics.EventDropped("balances")
			r.log.Warn("balance snapshot dropped, channel full")
		}
	case types.OrderStatusEvent:
		metrics.EventReceived("order_status")
		select {
		case r.statuses <- e:
		default:
			// the sweeper recovers the side once the confirmation times out
			metrics.EventDropped("order_status")
			r.log.Warn("order status event dropped, channel full",
				logging.String("symbol", e.Symbol),
				logging.String("order-id", e.OrderID))
		}
	}
}
