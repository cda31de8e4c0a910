// Package questrade implements the brokerage ActivityFeed and quote source
// against a Questrade-style REST API. It owns transport concerns only; the
// caller supplies an already valid bearer token, and token refresh stays
// outside this package.
package questrade

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/openfolio/folio"
)

// Client talks to one API host with one bearer token. Requests are
// rate-limited: the upstream API throttles aggressively on burst traffic.
type Client struct {
	host    string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// New returns a client for the given API host and bearer token.
func New(host, token string) *Client {
	return &Client{
		host:    host,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
	}
}

// timeFormat is the timestamp format the activities endpoint expects and
// returns.
const timeFormat = "2006-01-02T15:04:05-07:00"

type activity struct {
	TradeDate string  `json:"tradeDate"`
	Action    string  `json:"action"`
	Symbol    string  `json:"symbol"`
	SymbolID  int64   `json:"symbolId"`
	Currency  string  `json:"currency"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	NetAmount float64 `json:"netAmount"`
	Type      string  `json:"type"`
}

// FetchActivities returns the raw activity records for one account in the
// [start, end] window.
func (c *Client) FetchActivities(ctx context.Context, accountID string, start, end folio.Date) ([]folio.RawActivity, error) {
	addr := fmt.Sprintf("%s/v1/accounts/%s/activities?startTime=%s&endTime=%s",
		c.host, accountID,
		start.Time().Format(timeFormat),
		end.Time().Format(timeFormat))

	var payload struct {
		Activities []activity `json:"activities"`
	}
	if err := c.get(ctx, addr, &payload); err != nil {
		return nil, fmt.Errorf("activities for account %s: %w", accountID, err)
	}

	out := make([]folio.RawActivity, 0, len(payload.Activities))
	for _, a := range payload.Activities {
		on, err := parseTradeDate(a.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("activity for %s: %w", a.Symbol, err)
		}
		out = append(out, folio.RawActivity{
			TradeDate: on,
			Action:    a.Action,
			Symbol:    a.Symbol,
			SymbolID:  a.SymbolID,
			Currency:  a.Currency,
			Quantity:  a.Quantity,
			Price:     a.Price,
			NetAmount: a.NetAmount,
			Type:      a.Type,
			Account:   accountID,
		})
	}
	return out, nil
}

// FetchQuotes snapshots the latest quotes for the given symbol ids and
// returns them as a static lookup usable by the position pass.
func (c *Client) FetchQuotes(ctx context.Context, symbolIDs []int64) (folio.StaticQuotes, error) {
	if len(symbolIDs) == 0 {
		return folio.StaticQuotes{}, nil
	}
	addr := fmt.Sprintf("%s/v1/markets/quotes?ids=%s", c.host, joinIDs(symbolIDs))

	var payload struct {
		Quotes []struct {
			Symbol         string  `json:"symbol"`
			SymbolID       int64   `json:"symbolId"`
			LastTradePrice float64 `json:"lastTradePrice"`
		} `json:"quotes"`
	}
	if err := c.get(ctx, addr, &payload); err != nil {
		return nil, fmt.Errorf("quotes: %w", err)
	}

	quotes := make(folio.StaticQuotes, len(payload.Quotes))
	for _, q := range payload.Quotes {
		quotes[q.Symbol] = folio.Quote{
			Symbol:   q.Symbol,
			SymbolID: q.SymbolID,
			Price:    q.LastTradePrice,
		}
	}
	return quotes, nil
}

// get performs one authenticated, rate-limited JSON GET.
func (c *Client) get(ctx context.Context, addr string, data any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// parseTradeDate accepts both full API timestamps and bare ISO days.
func parseTradeDate(s string) (folio.Date, error) {
	if t, err := time.Parse(timeFormat, s); err == nil {
		return folio.DateOf(t), nil
	}
	return folio.ParseDate(s)
}

func joinIDs(ids []int64) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", id)
	}
	return out
}
