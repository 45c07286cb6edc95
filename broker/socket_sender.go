package broker

import (
	"fmt"
	"time"

	"github.com/tidemark/tradecore/gateway"
	"github.com/tidemark/tradecore/logging"

	"github.com/cenkalti/backoff/v4"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol"
	"go.nanomsg.org/mangos/v3/protocol/push"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

const dialMaxRetries = 10

// SocketSender pushes serialized commands at the gateway over a push socket.
// It satisfies gateway.Sender and translates the socket's failure modes into
// the publisher's error taxonomy, so the retry-once contract keys off
// gateway.ErrBackpressured regardless of transport.
type SocketSender struct {
	log  *logging.Logger
	sock protocol.Socket
}

func NewSocketSender(log *logging.Logger, config Config, socket SocketConfig) (*SocketSender, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	if !socket.Enabled {
		return &SocketSender{log: log}, nil
	}

	sock, err := push.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create push socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionSendDeadline, socket.SendTimeout.Get()); err != nil {
		return nil, fmt.Errorf("failed to set send deadline: %w", err)
	}

	addr := socket.addr()
	dial := func() error { return sock.Dial(addr) }
	notify := func(err error, in time.Duration) {
		log.Error("failed to connect to command socket, retrying",
			logging.String("address", addr),
			logging.Duration("retry-in", in),
			logging.Error(err))
	}
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), dialMaxRetries)
	if err := backoff.RetryNotify(dial, bo, notify); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	log.Info("command socket connected", logging.String("address", addr))
	return &SocketSender{log: log, sock: sock}, nil
}

func (s *SocketSender) Send(buf []byte) error {
	if s.sock == nil {
		return gateway.ErrNotConnected
	}
	switch err := s.sock.Send(buf); err {
	case nil:
		return nil
	case mangos.ErrSendTimeout:
		// the deadline fired because no peer drained the pipe in time
		return fmt.Errorf("send deadline exceeded: %w", gateway.ErrBackpressured)
	case mangos.ErrClosed:
		return gateway.ErrClosed
	default:
		return fmt.Errorf("failed to send on socket: %w", err)
	}
}

func (s *SocketSender) Close() error {
	if s.sock == nil {
		return nil
	}
	return s.sock.Close()
}
