package markets

import (
	"errors"

	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/num"
	"github.com/tidemark/tradecore/types"
)

// ErrNoQuotes is returned by Aggregate when no venue currently has a quote
// for the symbol. Callers skip the symbol for the cycle, they never treat
// this as fatal.
var ErrNoQuotes = errors.New("no venue quotes available for symbol")

// Store is the in-memory market state: the latest best ask/bid per
// (venue, symbol) and the latest balance snapshot. It is owned by the single
// decision goroutine and needs no locking.
type Store struct {
	log *logging.Logger

	// venue -> symbol -> quote
	quotes   map[string]map[string]types.VenueQuote
	balances map[string]num.Decimal

	hasBalances bool

	// assets we already warned about reading before any snapshot carried
	// them, so a missing balance is logged once per transition, not per read
	warned map[string]struct{}
}

func NewStore(log *logging.Logger, cfg Config) *Store {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Store{
		log:      log,
		quotes:   map[string]map[string]types.VenueQuote{},
		balances: map[string]num.Decimal{},
		warned:   map[string]struct{}{},
	}
}

// UpdateQuote overwrites the venue's quote for the symbol.
func (s *Store) UpdateQuote(venue, symbol string, ask, bid num.Decimal) {
	byVenue, ok := s.quotes[venue]
	if !ok {
		byVenue = map[string]types.VenueQuote{}
		s.quotes[venue] = byVenue
	}
	byVenue[symbol] = types.VenueQuote{BestAsk: ask, BestBid: bid}
}

// RemoveQuote drops the venue's quote for the symbol, shrinking the
// aggregation denominator accordingly.
func (s *Store) RemoveQuote(venue, symbol string) {
	if byVenue, ok := s.quotes[venue]; ok {
		delete(byVenue, symbol)
		if len(byVenue) == 0 {
			delete(s.quotes, venue)
		}
	}
}

// ReplaceBalances replaces the balance map wholesale. The feed delivers full
// per-asset lists, never deltas, so nothing is merged.
func (s *Store) ReplaceBalances(entries map[string]num.Decimal) {
	s.balances = make(map[string]num.Decimal, len(entries))
	for asset, free := range entries {
		s.balances[asset] = free
		delete(s.warned, asset)
	}
	if len(s.balances) > 0 {
		s.hasBalances = true
	}
}

// HasBalances reports whether at least one snapshot has been applied. Order
// decisions are pointless before that.
func (s *Store) HasBalances() bool {
	return s.hasBalances
}

// Balance returns the free balance for the asset, zero when unknown. An
// unknown asset is not an error, but it is worth one log line.
func (s *Store) Balance(asset string) num.Decimal {
	if b, ok := s.balances[asset]; ok {
		return b
	}
	if _, ok := s.warned[asset]; !ok {
		s.warned[asset] = struct{}{}
		s.log.Warn("no balance for asset, assuming zero", logging.String("asset", asset))
	}
	return num.DecimalZero()
}

// Aggregate returns the arithmetic mean of the best ask/bid across every
// venue that currently has a quote for the symbol.
func (s *Store) Aggregate(symbol string) (types.AggregatedQuote, error) {
	sumAsk, sumBid := num.DecimalZero(), num.DecimalZero()
	count := int64(0)
	for _, byVenue := range s.quotes {
		q, ok := byVenue[symbol]
		if !ok {
			continue
		}
		sumAsk = sumAsk.Add(q.BestAsk)
		sumBid = sumBid.Add(q.BestBid)
		count++
	}
	if count == 0 {
		return types.AggregatedQuote{}, ErrNoQuotes
	}
	n := num.DecimalFromInt64(count)
	return types.AggregatedQuote{
		Ask: sumAsk.Div(n),
		Bid: sumBid.Div(n),
	}, nil
}
