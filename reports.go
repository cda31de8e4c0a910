package folio

import "sort"

// DividendIncome is one derived report row: total dividends received for one
// symbol in one calendar year, in the three parallel currency forms.
type DividendIncome struct {
	Year   int
	Symbol string
	Amount Valuation
}

// DividendSummary buckets dividend records by calendar year and symbol.
// Conversion uses the supplied converter: dividend reporting is informative,
// so a single rate is good enough.
func DividendSummary(ledger *Ledger, conv Converter) []DividendIncome {
	type bucket struct {
		year   int
		symbol string
	}
	buckets := make(map[bucket]*DividendIncome)

	for _, d := range ledger.Dividends() {
		key := bucket{year: d.Date.Year(), symbol: d.Symbol}
		row, ok := buckets[key]
		if !ok {
			row = &DividendIncome{Year: key.year, Symbol: d.Symbol}
			buckets[key] = row
		}
		row.Amount = row.Amount.Add(conv.Value(d.Amount))
	}

	rows := make([]DividendIncome, 0, len(buckets))
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
