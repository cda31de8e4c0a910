package folio

import (
	"github.com/rs/zerolog"
)

// OversellPolicy names how a sell that exceeds the current holding is
// handled. The stock feed is trusted, so an unbacked sell is treated as a
// data inconsistency and dropped; crypto exchange feeds are noisier, so the
// quantity is clamped at zero and the pass proceeds.
type OversellPolicy int

const (
	// OversellReject skips the sell from position effects entirely.
	OversellReject OversellPolicy = iota
	// OversellClamp floors the resulting quantity at zero.
	OversellClamp
)

// dust is the threshold under which a remaining quantity is snapped to
// exactly zero, absorbing floating drift from exchange feeds.
var dust = Q(0.001)

// Position is a reconstructed holding for one symbol. It is derived entirely
// from the trade ledger plus the latest quote, and never persisted as ground
// truth.
type Position struct {
	Symbol        string
	Currency      string
	Quantity      Quantity
	AvgEntryPrice Valuation
	TotalCost     Valuation
	MarketValue   Valuation
	OpenPnl       Valuation
	// OpeningTrade is the trade that started the position from zero.
	OpeningTrade *Trade
}

// Accountant reconstructs positions from the trade ledger using average-cost
// accounting. All collaborators are injected already initialized.
type Accountant struct {
	Quotes QuoteSource
	Rates  RateSource
	// Exclude removes known bad or discontinued symbols from consideration
	// before accounting begins.
	Exclude map[string]bool
	Log     zerolog.Logger
}

// Positions reconstructs stock positions: average cost per symbol, realized
// P&L written onto each sell trade, valuation against the latest quote.
// Fully closed or degenerate positions (quantity or CAD cost at or below
// zero) are excluded from the result.
func (a *Accountant) Positions(ledger *Ledger) []Position {
	var out []Position
	for symbol := range ledger.Symbols() {
		if a.Exclude[symbol] {
			continue
		}
		pos, ok := a.reconstructStock(symbol, ledger.TradesFor(symbol))
		if !ok {
			continue
		}
		out = append(out, pos)
	}
	return out
}

// reconstructStock runs the average-cost pass over one symbol's trades.
func (a *Accountant) reconstructStock(symbol string, trades []*Trade) (Position, bool) {
	var (
		quantity  Quantity
		totalCost Valuation
		avg       Valuation
		opening   *Trade
		currency  string
	)

	for _, t := range trades {
		if currency == "" {
			currency = t.Currency()
		} else if t.Currency() != currency {
			// A symbol's position has one native currency. A record in
			// another currency is a data inconsistency, isolated like the
			// other per-record ones.
			a.Log.Warn().Str("symbol", symbol).Stringer("date", t.Date).
				Str("currency", t.Currency()).Str("position", currency).
				Msg("trade currency differs from position currency, skipped")
			continue
		}
		conv := a.converterFor(t.Date)

		switch t.Action {
		case Buy:
			if quantity.IsZero() {
				opening = t
			}
			cost := conv.Value(t.Price.Mul(t.Quantity))
			totalCost = totalCost.Add(cost)
			quantity = quantity.Add(t.Quantity)
			avg = totalCost.Div(quantity)

		case Sell:
			if quantity.IsZero() || opening == nil {
				// The feed predates the tracked history for this symbol.
				// Not fatal: the sell has no position effect.
				a.Log.Warn().Str("symbol", symbol).Stringer("date", t.Date).
					Msg("sell without an open position, skipped")
				continue
			}
			sellPrice := conv.Value(t.Price)
			t.RealizedPnl = sellPrice.Sub(avg).Mul(t.Quantity)
			quantity = quantity.Sub(t.Quantity)
			// Average price is unchanged by a sell under the average-cost
			// method; only the total cost shrinks proportionally.
			totalCost = avg.Mul(quantity)
		}
	}

	if !quantity.IsPositive() || !totalCost.CAD.IsPositive() {
		return Position{}, false
	}

	pos := Position{
		Symbol:        symbol,
		Currency:      currency,
		Quantity:      quantity,
		AvgEntryPrice: avg,
		TotalCost:     totalCost,
		OpeningTrade:  opening,
	}

	quote, ok := a.Quotes.Quote(symbol)
	if !ok {
		a.Log.Warn().Str("symbol", symbol).Msg("no quote for held symbol, market value unavailable")
		return pos, true
	}
	conv := NewConverter(a.Rates.TodaysRate())
	pos.MarketValue = conv.Value(M(quote.Price, currency).Mul(quantity))
	pos.OpenPnl = pos.MarketValue.Sub(pos.TotalCost)
	return pos, true
}

// converterFor builds a converter at the historical rate for a day, falling
// back to today's rate when no observation exists for that day.
func (a *Accountant) converterFor(on Date) Converter {
	if rate, ok := a.Rates.Rate(USDCAD, on); ok {
		return NewConverter(rate)
	}
	return NewConverter(a.Rates.TodaysRate())
}
