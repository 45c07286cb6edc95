package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/metrics"
	"github.com/tidemark/tradecore/types"
)

var (
	// ErrBackpressured signals a transient refusal from the outbound channel.
	// The publisher retries exactly once on it.
	ErrBackpressured = errors.New("offer failed due to back pressure")
	// ErrNotConnected means no peer is listening on the command channel.
	ErrNotConnected = errors.New("offer failed because publisher is not connected")
	// ErrClosed means the command channel was shut down.
	ErrClosed = errors.New("offer failed because publication is closed")
)

// SubmitOutcome makes the publisher's retry contract explicit: the caller can
// tell a clean send from one that needed the single backpressure retry, and a
// Failed submit from either.
type SubmitOutcome int8

const (
	Sent SubmitOutcome = iota
	SentAfterRetry
	Failed
)

func (o SubmitOutcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case SentAfterRetry:
		return "sent_after_retry"
	default:
		return "failed"
	}
}

// Sender pushes one serialized command at the transport. Implemented by the
// broker's push socket in production and by fakes in tests.
type Sender interface {
	Send([]byte) error
}

// Publisher builds outbound gateway command payloads and submits them.
//
// Local state held by callers is optimistic: a Failed submit is logged and
// surfaced but never rolled back, the reconciliation sweeper corrects any
// divergence. Retrying more than once risks duplicating an order whose first
// offer actually landed despite the backpressure signal.
type Publisher struct {
	log    *logging.Logger
	cfg    Config
	sender Sender
	mirror Sender

	now func() time.Time

	// last successfully sent payload, kept for forensic diffing when a later
	// submit fails
	lastSent string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithMirror adds a secondary sender (the log channel) every accepted
// command is copied to, best effort.
func WithMirror(m Sender) Option {
	return func(p *Publisher) { p.mirror = m }
}

// WithTimeFunc overrides the wall clock, for tests.
func WithTimeFunc(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

func NewPublisher(log *logging.Logger, cfg Config, sender Sender, opts ...Option) *Publisher {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	p := &Publisher{
		log:      log,
		cfg:      cfg,
		sender:   sender,
		now:      time.Now,
		lastSent: "none",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LastSent returns the last successfully sent payload. Write-once-per-send
// under the single decision goroutine, read-only elsewhere.
func (p *Publisher) LastSent() string {
	return p.lastSent
}

// Submit serializes the command and offers it to the outbound channel,
// retrying exactly once on backpressure.
func (p *Publisher) Submit(cmd types.Command) (SubmitOutcome, error) {
	buf, err := p.marshal(cmd)
	if err != nil {
		metrics.CommandSubmitted(cmd.Action(), Failed.String())
		return Failed, fmt.Errorf("failed to marshal %s command: %w", cmd.Action(), err)
	}

	outcome := Sent
	if err = p.sender.Send(buf); err != nil {
		if !errors.Is(err, ErrBackpressured) {
			p.fail(cmd, err)
			return Failed, err
		}
		if err = p.sender.Send(buf); err != nil {
			p.fail(cmd, err)
			return Failed, err
		}
		outcome = SentAfterRetry
	}

	p.lastSent = string(buf)
	metrics.CommandSubmitted(cmd.Action(), outcome.String())
	if p.log.GetLevel() <= logging.DebugLevel {
		p.log.Debug("command submitted",
			logging.String("action", cmd.Action()),
			logging.String("outcome", outcome.String()),
			logging.String("payload", p.lastSent))
	}

	if p.mirror != nil {
		if merr := p.mirror.Send(buf); merr != nil {
			p.log.Warn("failed to mirror command to log channel", logging.Error(merr))
		}
	}
	return outcome, nil
}

func (p *Publisher) fail(cmd types.Command, err error) {
	metrics.CommandSubmitted(cmd.Action(), Failed.String())
	p.log.Error("failed to submit command",
		logging.String("action", cmd.Action()),
		logging.String("last-sent", p.lastSent),
		logging.Error(err))
}
