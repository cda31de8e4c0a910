package folio

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Trade is a single reconciled trade record. Once merged into a Ledger it is
// immutable, except for RealizedPnl which is written once when the trade is
// processed as a sell by a position pass.
type Trade struct {
	Symbol   string
	SymbolID int64
	Date     Date
	Action   Action
	Quantity Quantity
	Price    Money // per-share price in the trade's native currency
	Account  string

	// Hash is the record's identity: two records with the same hash are the
	// same event. It is computed from the canonical serialization of the
	// record at classification time, before any corrective event (split,
	// remap) touches price or quantity.
	Hash string

	RealizedPnl Valuation
}

// Currency returns the trade's native currency.
func (t Trade) Currency() string { return t.Price.Currency() }

// ContentHash returns the canonical content hash of the trade's identity
// fields. RealizedPnl (derived) and Hash itself are excluded.
func (t Trade) ContentHash() string {
	var w jsonObjectWriter
	w.Append("account", t.Account)
	w.Append("action", t.Action)
	w.Append("currency", t.Currency())
	w.Append("date", t.Date)
	w.Append("price", t.Price.value)
	w.Append("quantity", t.Quantity)
	w.Append("symbol", t.Symbol)
	w.Optional("symbolId", t.SymbolID)
	return hashOf(&w)
}

// MarshalJSON writes the trade with a stable, alphabetical field order.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", t.Account)
	w.Append("action", t.Action)
	w.Append("currency", t.Currency())
	w.Append("date", t.Date)
	w.Append("hash", t.Hash)
	w.Append("price", t.Price.value)
	w.Append("quantity", t.Quantity)
	if !t.RealizedPnl.IsZero() {
		w.Append("realizedPnl", t.RealizedPnl)
	}
	w.Append("symbol", t.Symbol)
	w.Optional("symbolId", t.SymbolID)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the two-field price/currency form back into a Money.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var temp struct {
		Account     string          `json:"account"`
		Action      Action          `json:"action"`
		Currency    string          `json:"currency"`
		Date        Date            `json:"date"`
		Hash        string          `json:"hash"`
		Price       decimal.Decimal `json:"price"`
		Quantity    Quantity        `json:"quantity"`
		RealizedPnl Valuation       `json:"realizedPnl"`
		Symbol      string          `json:"symbol"`
		SymbolID    int64           `json:"symbolId"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Trade{
		Symbol:      temp.Symbol,
		SymbolID:    temp.SymbolID,
		Date:        temp.Date,
		Action:      temp.Action,
		Quantity:    temp.Quantity,
		Price:       M(temp.Price, temp.Currency),
		Account:     temp.Account,
		Hash:        temp.Hash,
		RealizedPnl: temp.RealizedPnl,
	}
	return nil
}

// Dividend is a cash dividend record, identified by content hash like a Trade.
type Dividend struct {
	Symbol  string
	Date    Date
	Amount  Money // in the dividend's native currency
	Account string
	Hash    string
}

// Currency returns the dividend's native currency.
func (d Dividend) Currency() string { return d.Amount.Currency() }

// ContentHash returns the canonical content hash of the dividend.
func (d Dividend) ContentHash() string {
	var w jsonObjectWriter
	w.Append("account", d.Account)
	w.Append("amount", d.Amount.value)
	w.Append("currency", d.Currency())
	w.Append("date", d.Date)
	w.Append("symbol", d.Symbol)
	return hashOf(&w)
}

// MarshalJSON writes the dividend with a stable, alphabetical field order.
func (d Dividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", d.Account)
	w.Append("amount", d.Amount.value)
	w.Append("currency", d.Currency())
	w.Append("date", d.Date)
	w.Append("hash", d.Hash)
	w.Append("symbol", d.Symbol)
	return w.MarshalJSON()
}

func (d *Dividend) UnmarshalJSON(data []byte) error {
	var temp struct {
		Account  string          `json:"account"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Date     Date            `json:"date"`
		Hash     string          `json:"hash"`
		Symbol   string          `json:"symbol"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*d = Dividend{
		Symbol:  temp.Symbol,
		Date:    temp.Date,
		Amount:  M(temp.Amount, temp.Currency),
		Account: temp.Account,
		Hash:    temp.Hash,
	}
	return nil
}

// StockSplit is a corrective event that retroactively rescales the price and
// quantity of a symbol's historical trades. Applied must be flipped exactly
// once: an applied split is never reapplied.
type StockSplit struct {
	Symbol  string `json:"symbol"`
	Date    Date   `json:"date"`
	Ratio   int64  `json:"ratio"`
	Reverse bool   `json:"reverse,omitempty"`
	Applied bool   `json:"applied"`
}

// apply rescales a single trade in place. Forward splits multiply quantity
// and divide price; reverse splits do the inverse and floor the quantity.
func (s StockSplit) apply(t *Trade) {
	ratio := Q(s.Ratio)
	if s.Reverse {
		t.Quantity = t.Quantity.Div(ratio).Floor()
		t.Price = t.Price.Mul(ratio)
		return
	}
	t.Quantity = t.Quantity.Mul(ratio)
	t.Price = t.Price.Div(ratio)
}

func (s StockSplit) String() string {
	if s.Reverse {
		return fmt.Sprintf("%s 1:%d reverse split on %s", s.Symbol, s.Ratio, s.Date)
	}
	return fmt.Sprintf("%s %d:1 split on %s", s.Symbol, s.Ratio, s.Date)
}

// hashOf finalizes a canonical object and fingerprints it.
func hashOf(w *jsonObjectWriter) string {
	b, err := w.MarshalJSON()
	if err != nil {
		// The writer only fails on unmarshalable values, which record fields
		// never are.
		panic(err)
	}
	return fmt.Sprintf("%x", sha1.Sum(b))
}
