package folio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// valetServer mimics the Valet observations endpoint for the USD/CAD series.
func valetServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Query().Get("recent") == "1" {
			fmt.Fprint(w, `{"observations":[{"d":"2025-06-06","FXUSDCAD":{"v":"1.3702"}}]}`)
			return
		}
		fmt.Fprint(w, `{"observations":[
			{"d":"2024-06-03","FXUSDCAD":{"v":"1.3650"}},
			{"d":"2024-06-04","FXUSDCAD":{"v":"1.3671"}},
			{"d":"bogus","FXUSDCAD":{"v":"1.0"}},
			{"d":"2024-06-05","FXUSDCAD":{"v":"not-a-number"}}
		]}`)
	}))
}

func TestValetClient_FetchTable(t *testing.T) {
	var hits int
	server := valetServer(t, &hits)
	defer server.Close()

	client := NewValetClientAt(server.URL)
	table, err := client.FetchTable(context.Background(), MustParseDate("2024-06-01"), MustParseDate("2024-06-30"))
	if err != nil {
		t.Fatalf("FetchTable() failed: %v", err)
	}

	// Two clean observations; the malformed ones are dropped, not fatal.
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	rate, ok := table.Rate(USDCAD, MustParseDate("2024-06-03"))
	if !ok {
		t.Fatal("Rate() missing for a published day")
	}
	almost(t, "rate", rate, 1.3650)

	if _, ok := table.Rate(USDCAD, MustParseDate("2024-06-10")); ok {
		t.Error("Rate() returned a value for an unpublished day")
	}
	almost(t, "today", table.TodaysRate(), 1.3702)
}

func TestValetClient_LatestIsCached(t *testing.T) {
	var hits int
	server := valetServer(t, &hits)
	defer server.Close()

	client := NewValetClientAt(server.URL)
	first, err := client.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	second, err := client.Latest(context.Background())
	if err != nil {
		t.Fatalf("second Latest() failed: %v", err)
	}
	almost(t, "latest", first, 1.3702)
	almost(t, "cached latest", second, first)
	if hits != 1 {
		t.Errorf("server hit %d times, want the second call served from cache", hits)
	}
}

func TestValetClient_BadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":true}`)
	}))
	defer server.Close()

	client := NewValetClientAt(server.URL)
	if _, err := client.Latest(context.Background()); err == nil {
		t.Error("Latest() accepted a response without observations")
	}
}

func TestRateTable_Set(t *testing.T) {
	table := NewRateTable(1.35)
	on := MustParseDate("2024-06-03")
	table.Set(USDCAD, on, 1.30)
	table.Set(USDCAD, on, 1.31) // later observation replaces the first

	rate, ok := table.Rate(USDCAD, on)
	if !ok {
		t.Fatal("Rate() missing after Set()")
	}
	almost(t, "rate", rate, 1.31)
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}
