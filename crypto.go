package folio

// CryptoPositions reconstructs crypto positions. It differs from the stock
// pass in three ways: valuation comes from the trade record itself priced at
// the exchange rate for the trade's date (a trade with no published rate for
// its date is skipped, never silently mis-converted); an over-sell clamps the
// quantity at zero instead of being rejected; and trades from every account
// or exchange unify into a single position per symbol.
func (a *Accountant) CryptoPositions(ledger *Ledger) []Position {
	var out []Position
	for symbol := range ledger.Symbols() {
		if a.Exclude[symbol] {
			continue
		}
		pos, ok := a.reconstructCrypto(symbol, ledger.TradesFor(symbol))
		if !ok {
			continue
		}
		out = append(out, pos)
	}
	return out
}

func (a *Accountant) reconstructCrypto(symbol string, trades []*Trade) (Position, bool) {
	var (
		quantity  Quantity
		totalCost Valuation
		avg       Valuation
		opening   *Trade
		currency  string
		pos       Position
	)

	for _, t := range trades {
		if currency == "" {
			currency = t.Currency()
		} else if t.Currency() != currency {
			a.Log.Warn().Str("symbol", symbol).Stringer("date", t.Date).
				Str("currency", t.Currency()).Str("position", currency).
				Msg("trade currency differs from position currency, skipped")
			continue
		}
		rate, ok := a.Rates.Rate(USDCAD, t.Date)
		if !ok {
			a.Log.Warn().Str("symbol", symbol).Stringer("date", t.Date).
				Msg("no exchange rate for trade date, trade skipped")
			continue
		}
		conv := NewConverter(rate)

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
			if quantity.IsZero() {
				continue
			}
			sellPrice := conv.Value(t.Price)
			t.RealizedPnl = sellPrice.Sub(avg).Mul(t.Quantity)
			quantity = quantity.Sub(t.Quantity)
			// Exchange feeds carry floating dust; snap near-zero (and
			// over-sold) holdings to exactly zero.
			if quantity.IsNegative() || quantity.LessThan(dust) {
				quantity = Q(0)
			}
			totalCost = avg.Mul(quantity)
		}

		pos = Position{
			Symbol:        symbol,
			Currency:      currency,
			Quantity:      quantity,
			AvgEntryPrice: avg,
			TotalCost:     totalCost,
			MarketValue:   conv.Value(t.Price).Mul(quantity),
			OpeningTrade:  opening,
		}
		pos.OpenPnl = pos.MarketValue.Sub(pos.TotalCost)
	}

	if !quantity.IsPositive() || !totalCost.CAD.IsPositive() {
		return Position{}, false
	}
	return pos, true
}
