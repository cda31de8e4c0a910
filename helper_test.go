package folio

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

// day parses an ISO day for test fixtures.
func day(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) failed: %v", s, err)
	}
	return d
}

// trade builds a trade fixture with the fields the accounting passes care
// about.
func trade(t *testing.T, symbol, on string, action Action, qty, price float64, currency, account string) *Trade {
	t.Helper()
	return &Trade{
		Symbol:   symbol,
		Date:     day(t, on),
		Action:   action,
		Quantity: Q(qty),
		Price:    M(price, currency),
		Account:  account,
	}
}

// almost compares floats with enough tolerance to absorb decimal division
// precision.
func almost(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// testLogger discards all output.
func testLogger() zerolog.Logger { return zerolog.Nop() }
