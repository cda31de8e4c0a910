// Package renderer turns the derived reports into markdown documents for the
// CLI to print.
package renderer

import (
	"fmt"
	"strings"

	"github.com/openfolio/folio"
)

// PositionsMarkdown renders the open positions table.
func PositionsMarkdown(positions []folio.Position) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Open Positions\n\n")
	fmt.Fprintln(&b, "| Symbol | Quantity | Avg Price | Total Cost | Market Value | Open P&L (CAD) |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")

	var totalCost, totalValue, totalPnl folio.Money
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			p.Symbol,
			p.Quantity,
			p.AvgEntryPrice.Native,
			p.TotalCost.Native,
			p.MarketValue.Native,
			p.OpenPnl.CAD.SignedString(),
		)
		totalCost = totalCost.Add(p.TotalCost.CAD)
		totalValue = totalValue.Add(p.MarketValue.CAD)
		totalPnl = totalPnl.Add(p.OpenPnl.CAD)
	}
	fmt.Fprintf(&b, "| **Total (CAD)** | | | **%s** | **%s** | **%s** |\n",
		totalCost, totalValue, totalPnl.SignedString())

	return b.String()
}

// GainsMarkdown renders the capital gains rows, one section per year.
func GainsMarkdown(rows []folio.CapitalGain) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Capital Gains Report\n\n")

	year := 0
	for _, r := range rows {
		if r.Year != year {
			year = r.Year
			fmt.Fprintf(&b, "## %d\n\n", year)
			fmt.Fprintln(&b, "| Symbol | Shares | Cost | Proceeds | Gain |")
			fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
		}
		gain := r.Proceeds.Sub(r.Cost)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Symbol, r.Shares, r.Cost, r.Proceeds, gain.SignedString())
	}
	if year == 0 {
		fmt.Fprintln(&b, "No realized gains.")
	}

	return b.String()
}

// DividendsMarkdown renders yearly dividend income per symbol.
func DividendsMarkdown(rows []folio.DividendIncome) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Dividend Income\n\n")

	year := 0
	var yearTotal folio.Money
	flush := func() {
		if year != 0 {
			fmt.Fprintf(&b, "| **Total (CAD)** | **%s** |\n\n", yearTotal)
		}
	}
	for _, r := range rows {
		if r.Year != year {
			flush()
			year = r.Year
			yearTotal = folio.Money{}
			fmt.Fprintf(&b, "## %d\n\n", year)
			fmt.Fprintln(&b, "| Symbol | Amount |")
			fmt.Fprintln(&b, "|:---|---:|")
		}
		fmt.Fprintf(&b, "| %s | %s |\n", r.Symbol, r.Amount.Native)
		yearTotal = yearTotal.Add(r.Amount.CAD)
	}
	flush()
	if year == 0 {
		fmt.Fprintln(&b, "No dividends recorded.")
	}

	return b.String()
}
