package questrade

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openfolio/folio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchActivities(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"activities":[
			{"tradeDate":"2025-03-10T00:00:00-05:00","action":"Buy","symbol":"XEQT","symbolId":29541996,
			 "currency":"CAD","quantity":100,"price":25.50,"netAmount":-2550.00,"type":"Trades"},
			{"tradeDate":"2025-03-31","symbol":"XEQT","currency":"CAD","netAmount":12.34,"type":"Dividends"}
		]}`)
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	activities, err := client.FetchActivities(context.Background(), "123",
		folio.MustParseDate("2025-03-01"), folio.MustParseDate("2025-03-31"))
	require.NoError(t, err)

	assert.Equal(t, "/v1/accounts/123/activities", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)

	require.Len(t, activities, 2)
	buy := activities[0]
	assert.Equal(t, folio.MustParseDate("2025-03-10"), buy.TradeDate)
	assert.Equal(t, "Buy", buy.Action)
	assert.Equal(t, "XEQT", buy.Symbol)
	assert.EqualValues(t, 29541996, buy.SymbolID)
	assert.Equal(t, "123", buy.Account)
	assert.InDelta(t, 25.50, buy.Price, 1e-9)

	// A bare ISO day parses too.
	assert.Equal(t, folio.MustParseDate("2025-03-31"), activities[1].TradeDate)
	assert.Equal(t, "Dividends", activities[1].Type)
}

func TestClient_FetchActivitiesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, "stale")
	_, err := client.FetchActivities(context.Background(), "123",
		folio.MustParseDate("2025-03-01"), folio.MustParseDate("2025-03-31"))
	assert.Error(t, err)
}

func TestClient_FetchQuotes(t *testing.T) {
	var gotIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		fmt.Fprint(w, `{"quotes":[
			{"symbol":"XEQT","symbolId":29541996,"lastTradePrice":27.10},
			{"symbol":"AAPL","symbolId":8049,"lastTradePrice":190.25}
		]}`)
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	quotes, err := client.FetchQuotes(context.Background(), []int64{29541996, 8049})
	require.NoError(t, err)

	assert.Equal(t, "29541996,8049", gotIDs)
	q, ok := quotes.Quote("XEQT")
	require.True(t, ok)
	assert.InDelta(t, 27.10, q.Price, 1e-9)
	_, ok = quotes.Quote("MSFT")
	assert.False(t, ok)
}

func TestClient_FetchQuotesEmpty(t *testing.T) {
	// No ids means no request at all.
	client := New("http://unreachable.invalid", "tok")
	quotes, err := client.FetchQuotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestParseTradeDate(t *testing.T) {
	on, err := parseTradeDate("2025-03-10T00:00:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, folio.MustParseDate("2025-03-10"), on)

	on, err = parseTradeDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, folio.MustParseDate("2025-03-10"), on)

	_, err = parseTradeDate("next tuesday")
	assert.Error(t, err)
}
