package folio

import (
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger is the deduplicated collection of trade and dividend history.
//
// Records are identified solely by their content hash: adding the same record
// any number of times, in any order, yields the same stored set. Trades are
// kept in chronological order. Mutation goes through Ledger methods only; the
// Ledger is owned and passed around explicitly, never shared as a global.
type Ledger struct {
	trades    []*Trade
	dividends []*Dividend
	tradeIdx  map[string]*Trade
	divIdx    map[string]*Dividend
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		tradeIdx: make(map[string]*Trade),
		divIdx:   make(map[string]*Dividend),
	}
}

// AddTrade merges a trade into the ledger. It computes the content hash if
// the record does not carry one yet, and is a no-op for an already indexed
// hash. It reports whether the trade was actually added.
func (l *Ledger) AddTrade(t *Trade) bool {
	if t.Hash == "" {
		t.Hash = t.ContentHash()
	}
	if _, ok := l.tradeIdx[t.Hash]; ok {
		return false
	}
	l.tradeIdx[t.Hash] = t
	l.trades = append(l.trades, t)
	l.stableSort()
	return true
}

// AddDividend merges a dividend into the ledger, with the same identity rule
// as AddTrade.
func (l *Ledger) AddDividend(d *Dividend) bool {
	if d.Hash == "" {
		d.Hash = d.ContentHash()
	}
	if _, ok := l.divIdx[d.Hash]; ok {
		return false
	}
	l.divIdx[d.Hash] = d
	l.dividends = append(l.dividends, d)
	return true
}

// HasTrade reports whether a trade with this content hash is already merged.
func (l *Ledger) HasTrade(hash string) bool {
	_, ok := l.tradeIdx[hash]
	return ok
}

// Trades returns the chronologically ordered trade records. The slice is
// shared: position passes annotate RealizedPnl through it.
func (l *Ledger) Trades() []*Trade { return l.trades }

// Dividends returns the dividend records, ordered by date.
func (l *Ledger) Dividends() []*Dividend {
	sort.SliceStable(l.dividends, func(i, j int) bool {
		return l.dividends[i].Date.Before(l.dividends[j].Date)
	})
	return l.dividends
}

// TradesFor returns the chronologically ordered trades for one symbol.
func (l *Ledger) TradesFor(symbol string) []*Trade {
	var out []*Trade
	for _, t := range l.trades {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	return out
}

// Symbols iterates over the distinct trade symbols in ticker order.
func (l *Ledger) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, t := range l.trades {
			visited[t.Symbol] = struct{}{}
		}
		symbols := slices.Collect(maps.Keys(visited))
		slices.Sort(symbols)
		for _, s := range symbols {
			if !yield(s) {
				return
			}
		}
	}
}

// Counts returns the number of stored trades and dividends.
func (l *Ledger) Counts() (trades, dividends int) {
	return len(l.trades), len(l.dividends)
}

// Remap rewrites renamed or relisted symbols to their canonical ticker, on
// both trades and dividends. Hashes are untouched: identity comes from the
// pre-merge record. It returns the number of rewritten records.
func (l *Ledger) Remap(aliases map[string]string) int {
	var n int
	for _, t := range l.trades {
		if canonical, ok := aliases[t.Symbol]; ok {
			t.Symbol = canonical
			n++
		}
	}
	for _, d := range l.dividends {
		if canonical, ok := aliases[d.Symbol]; ok {
			d.Symbol = canonical
			n++
		}
	}
	return n
}

// Dedupe drops any trade whose content hash duplicates an earlier one and
// rebuilds the index. Under the idempotent AddTrade path it finds nothing;
// it exists as a defensive invariant check at the end of a sync pass, and
// returns the number of duplicates removed.
func (l *Ledger) Dedupe() int {
	seen := make(map[string]struct{}, len(l.trades))
	kept := l.trades[:0]
	var dropped int
	for _, t := range l.trades {
		if t.Hash == "" {
			t.Hash = t.ContentHash()
		}
		if _, ok := seen[t.Hash]; ok {
			dropped++
			continue
		}
		seen[t.Hash] = struct{}{}
		kept = append(kept, t)
	}
	l.trades = kept
	l.tradeIdx = make(map[string]*Trade, len(kept))
	for _, t := range kept {
		l.tradeIdx[t.Hash] = t
	}
	return dropped
}

// stableSort keeps trades in chronological order; trades on the same day
// keep their relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.trades, func(i, j int) bool {
		return l.trades[i].Date.Before(l.trades[j].Date)
	})
}
