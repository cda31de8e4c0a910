package folio

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SyncOptions carries the static tables the coordinator needs. They are
// immutable configuration supplied at construction, not inline literals.
type SyncOptions struct {
	// Origin is the watermark used on a first run, before any cursor exists.
	Origin Date
	// WindowDays is the size of one fetch window. The feed is paginated by
	// date windows; 30 days is what the upstream API tolerates well.
	WindowDays int
	// Accounts lists the brokerage account ids to sync.
	Accounts []string
	// DisplayAccounts maps an account id to the display name records are
	// normalized to. A record whose account has no mapping is rejected:
	// downstream consumers require a valid account association.
	DisplayAccounts map[string]string
	// Remaps resolves renamed or relisted tickers to a canonical symbol.
	Remaps map[string]string
	// ManualTrades are corrections for events the feed is missing or
	// misreports. Each is injected only if its content hash is absent.
	ManualTrades []Trade
}

// Syncer drives the incremental, windowed retrieval of brokerage activity and
// reconciles it into the ledger. One Sync call is one batch pass.
type Syncer struct {
	feed  ActivityFeed
	store *Store
	opts  SyncOptions
	log   zerolog.Logger
}

// NewSyncer returns a coordinator over an already initialized feed and store.
func NewSyncer(feed ActivityFeed, store *Store, opts SyncOptions, logger zerolog.Logger) *Syncer {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 30
	}
	return &Syncer{feed: feed, store: store, opts: opts, log: logger}
}

// Sync runs one full pass: resume from the cursor, fetch and merge windows
// sequentially, post-process, persist. A window fetch failure stops the
// window loop without advancing the watermark, so the next invocation retries
// the same window; everything merged so far is still post-processed and
// saved, which is safe because merging is idempotent.
func (s *Syncer) Sync(ctx context.Context) (*Ledger, error) {
	logger := s.log.With().Str("run", uuid.NewString()).Logger()

	ledger, err := s.store.LoadLedger()
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	cursor, err := s.store.LoadCursor(s.opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("could not load sync cursor: %w", err)
	}

	// Complete describes the outcome of a single pass, never a final state: a
	// cursor saved as complete yesterday has fallen behind by today.
	today := Today()
	cursor.Complete = !cursor.Watermark.Before(today)
	for !cursor.Complete {
		// Start one day before the watermark: the overlap is intentional, to
		// tolerate records sitting on a window boundary.
		start := cursor.Watermark.Add(-1)
		end := cursor.Watermark.Add(s.opts.WindowDays)
		if end.After(today) {
			end = today
		}

		if err := s.mergeWindow(ctx, ledger, start, end, logger); err != nil {
			// Watermark untouched: this window replays on the next run.
			logger.Warn().Err(err).Stringer("start", start).Stringer("end", end).
				Msg("window fetch failed, will retry next run")
			break
		}

		cursor.Watermark = end
		if !end.Before(today) {
			cursor.Complete = true
		}
	}

	s.postProcess(ledger, logger)

	// Ledger before cursor: a crash in between leaves the watermark behind,
	// and the idempotent merge absorbs the replay.
	if err := s.store.SaveLedger(ledger); err != nil {
		return nil, fmt.Errorf("could not save ledger: %w", err)
	}
	if err := s.store.SaveCursor(cursor); err != nil {
		return nil, fmt.Errorf("could not save sync cursor: %w", err)
	}

	trades, dividends := ledger.Counts()
	logger.Info().Stringer("watermark", cursor.Watermark).Bool("complete", cursor.Complete).
		Int("trades", trades).Int("dividends", dividends).Msg("sync pass done")
	return ledger, nil
}

// mergeWindow fetches one window for every account and merges the classified
// records. The window must fully merge before the caller may request the next
// one, because each window's start is derived from the prior window's end.
func (s *Syncer) mergeWindow(ctx context.Context, ledger *Ledger, start, end Date, logger zerolog.Logger) error {
	for _, account := range s.opts.Accounts {
		activities, err := s.feed.FetchActivities(ctx, account, start, end)
		if err != nil {
			return fmt.Errorf("account %s window %s..%s: %w", account, start, end, err)
		}
		for _, a := range activities {
			a.Account = account
			trade, dividend, err := s.classify(a)
			if err != nil {
				logger.Error().Err(err).Stringer("date", a.TradeDate).Str("symbol", a.Symbol).
					Msg("record rejected")
				continue
			}
			if trade != nil {
				ledger.AddTrade(trade)
			}
			if dividend != nil {
				ledger.AddDividend(dividend)
			}
		}
	}
	logger.Debug().Stringer("start", start).Stringer("end", end).Msg("window merged")
	return nil
}

// classify maps one raw activity to a Trade or Dividend, or to neither when
// the activity type does not affect positions.
func (s *Syncer) classify(a RawActivity) (*Trade, *Dividend, error) {
	display, ok := s.opts.DisplayAccounts[a.Account]
	if !ok {
		return nil, nil, fmt.Errorf("no display account for %q", a.Account)
	}

	switch a.Type {
	case TypeTrades:
		action := Action(strings.ToLower(a.Action))
		price := a.Price
		if string(action) == actionReinvest {
			// Reinvestment rows report a zero or bogus per-share price;
			// derive it from the net amount instead.
			derived, err := reinvestPrice(a)
			if err != nil {
				return nil, nil, err
			}
			action = Buy
			price = derived
		}
		if action != Buy && action != Sell {
			return nil, nil, fmt.Errorf("unknown trade action %q", a.Action)
		}
		return &Trade{
			Symbol:   a.Symbol,
			SymbolID: a.SymbolID,
			Date:     a.TradeDate,
			Action:   action,
			Quantity: Q(math.Abs(a.Quantity)),
			Price:    M(price, a.Currency),
			Account:  display,
		}, nil, nil

	case TypeReinvestment:
		price, err := reinvestPrice(a)
		if err != nil {
			return nil, nil, err
		}
		return &Trade{
			Symbol:   a.Symbol,
			SymbolID: a.SymbolID,
			Date:     a.TradeDate,
			Action:   Buy,
			Quantity: Q(math.Abs(a.Quantity)),
			Price:    M(price, a.Currency),
			Account:  display,
		}, nil, nil

	case TypeDividends:
		return nil, &Dividend{
			Symbol:  a.Symbol,
			Date:    a.TradeDate,
			Amount:  M(a.NetAmount, a.Currency),
			Account: display,
		}, nil

	default:
		// Interest, deposits, withdrawals, corporate actions, other: none of
		// these represent position-affecting events in this model.
		return nil, nil, nil
	}
}

// reinvestPrice derives a per-share price from the reinvested net amount. A
// zero quantity cannot be priced and rejects the record.
func reinvestPrice(a RawActivity) (float64, error) {
	if a.Quantity == 0 {
		return 0, fmt.Errorf("reinvestment for %s reports zero quantity", a.Symbol)
	}
	return math.Abs(a.NetAmount) / math.Abs(a.Quantity), nil
}

// postProcess runs the once-per-pass corrections: manual trades, symbol
// remaps, stock splits, and a final defensive duplicate filter.
func (s *Syncer) postProcess(ledger *Ledger, logger zerolog.Logger) {
	for i := range s.opts.ManualTrades {
		t := s.opts.ManualTrades[i] // copy; option tables stay immutable
		if ledger.AddTrade(&t) {
			logger.Info().Str("symbol", t.Symbol).Stringer("date", t.Date).
				Msg("manual trade injected")
		}
	}

	if n := ledger.Remap(s.opts.Remaps); n > 0 {
		logger.Info().Int("records", n).Msg("symbols remapped")
	}

	if err := s.applySplits(ledger, logger); err != nil {
		logger.Error().Err(err).Msg("could not apply stock splits")
	}

	if dropped := ledger.Dedupe(); dropped > 0 {
		// The idempotent merge path should make this unreachable; it is a
		// final invariant check against anything that bypassed AddTrade.
		logger.Warn().Int("dropped", dropped).Msg("duplicate trades removed in final filter")
	}
}

// applySplits rescales historical trades for every unapplied split, then
// marks it applied and persists the registry. An applied split is never
// reapplied.
func (s *Syncer) applySplits(ledger *Ledger, logger zerolog.Logger) error {
	splits, err := s.store.LoadSplits()
	if err != nil {
		return err
	}
	var applied int
	for _, split := range splits {
		if split.Applied {
			continue
		}
		for _, t := range ledger.TradesFor(split.Symbol) {
			if t.Date.Before(split.Date) {
				split.apply(t)
			}
		}
		split.Applied = true
		applied++
		logger.Info().Stringer("split", split).Msg("stock split applied")
	}
	if applied == 0 {
		return nil
	}
	return s.store.SaveSplits(splits)
}
