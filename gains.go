package folio

import "sort"

// CapitalGain is one derived report row: the realized proceeds and cost for
// one symbol in one calendar year. Rows are never persisted; the pass
// re-derives lot cost purely from the trade history and never reuses a
// stored average entry price.
type CapitalGain struct {
	Year     int
	Symbol   string
	Shares   Quantity
	Cost     Money
	Proceeds Money
}

// CapitalGains runs a restricted average-cost pass over the taxable trades
// and buckets each sell's realized cost and proceeds into the calendar year
// the sell occurred, grouped by symbol. The taxable filter selects which
// trades count (typically by account); nil means all trades.
func CapitalGains(ledger *Ledger, taxable func(*Trade) bool) []CapitalGain {
	type bucket struct {
		year   int
		symbol string
	}
	buckets := make(map[bucket]*CapitalGain)

	for symbol := range ledger.Symbols() {
		var (
			quantity  Quantity
			totalCost Money
			avg       Money
			currency  string
		)
		for _, t := range ledger.TradesFor(symbol) {
			if taxable != nil && !taxable(t) {
				continue
			}
			// One currency per symbol; a record in another currency is
			// skipped here just like in the position passes.
			if currency == "" {
				currency = t.Currency()
			} else if t.Currency() != currency {
				continue
			}
			switch t.Action {
			case Buy:
				totalCost = totalCost.Add(t.Price.Mul(t.Quantity))
				quantity = quantity.Add(t.Quantity)
				avg = totalCost.Div(quantity)
			case Sell:
				if quantity.IsZero() {
					continue
				}
				key := bucket{year: t.Date.Year(), symbol: symbol}
				row, ok := buckets[key]
				if !ok {
					row = &CapitalGain{Year: key.year, Symbol: symbol}
					buckets[key] = row
				}
				row.Shares = row.Shares.Add(t.Quantity)
				row.Cost = row.Cost.Add(avg.Mul(t.Quantity))
				row.Proceeds = row.Proceeds.Add(t.Price.Mul(t.Quantity))

				quantity = quantity.Sub(t.Quantity)
				totalCost = avg.Mul(quantity)
			}
		}
	}

	rows := make([]CapitalGain, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Symbol < rows[j].Symbol
	})
	return rows
}
