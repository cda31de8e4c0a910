package folio

import "context"

// RawActivity is one activity record as reported by a brokerage feed, before
// classification. Paginated feeds may report the same record in two adjacent
// windows; identity is resolved later by content hash.
type RawActivity struct {
	TradeDate Date    `json:"tradeDate"`
	Action    string  `json:"action"`
	Symbol    string  `json:"symbol"`
	SymbolID  int64   `json:"symbolId"`
	Currency  string  `json:"currency"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	NetAmount float64 `json:"netAmount"`
	Type      string  `json:"type"`
	Account   string  `json:"account"`
}

// Activity types and action codes the classifier understands. Everything else
// (interest, deposits, withdrawals, corporate actions) does not affect
// positions and is discarded.
const (
	TypeTrades       = "Trades"
	TypeDividends    = "Dividends"
	TypeReinvestment = "Dividend reinvestment"

	actionReinvest = "rei"
)

// ActivityFeed fetches brokerage activity for one account over a date window.
// Implementations own transport and auth; the sync loop owns windowing and
// retries.
type ActivityFeed interface {
	FetchActivities(ctx context.Context, accountID string, start, end Date) ([]RawActivity, error)
}

// Quote is the latest known price for a symbol.
type Quote struct {
	Symbol   string
	SymbolID int64
	Price    float64
	Currency string
}

// QuoteSource provides the latest quote per symbol for valuation.
type QuoteSource interface {
	Quote(symbol string) (Quote, bool)
}

// StaticQuotes is a QuoteSource over a fixed map, for tests and offline runs.
type StaticQuotes map[string]Quote

func (s StaticQuotes) Quote(symbol string) (Quote, bool) {
	q, ok := s[symbol]
	return q, ok
}
