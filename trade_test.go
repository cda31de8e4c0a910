package folio

import "testing"

func TestTrade_ContentHashIsStable(t *testing.T) {
	a := trade(t, "XEQT", "2025-03-10", Buy, 100, 25.50, CAD, "TFSA")
	b := trade(t, "XEQT", "2025-03-10", Buy, 100, 25.50, CAD, "TFSA")
	if a.ContentHash() != b.ContentHash() {
		t.Error("identical trades produced different hashes")
	}
}

func TestTrade_ContentHashCoversIdentityFields(t *testing.T) {
	base := trade(t, "XEQT", "2025-03-10", Buy, 100, 25.50, CAD, "TFSA")

	variants := []*Trade{
		trade(t, "VEQT", "2025-03-10", Buy, 100, 25.50, CAD, "TFSA"),
		trade(t, "XEQT", "2025-03-11", Buy, 100, 25.50, CAD, "TFSA"),
		trade(t, "XEQT", "2025-03-10", Sell, 100, 25.50, CAD, "TFSA"),
		trade(t, "XEQT", "2025-03-10", Buy, 101, 25.50, CAD, "TFSA"),
		trade(t, "XEQT", "2025-03-10", Buy, 100, 25.51, CAD, "TFSA"),
		trade(t, "XEQT", "2025-03-10", Buy, 100, 25.50, USD, "TFSA"),
		trade(t, "XEQT", "2025-03-10", Buy, 100, 25.50, CAD, "RRSP"),
	}
	for i, v := range variants {
		if v.ContentHash() == base.ContentHash() {
			t.Errorf("variant %d hashed like the base trade", i)
		}
	}
}

func TestTrade_ContentHashIgnoresDerivedFields(t *testing.T) {
	a := trade(t, "XEQT", "2025-03-10", Sell, 100, 25.50, CAD, "TFSA")
	want := a.ContentHash()

	conv := NewConverter(1.35)
	a.RealizedPnl = conv.Value(M(100, CAD))
	a.Hash = "already-set"

	if a.ContentHash() != want {
		t.Error("derived fields leaked into the content hash")
	}
}

func TestDividend_ContentHash(t *testing.T) {
	a := Dividend{Symbol: "XEQT", Date: MustParseDate("2025-06-30"), Amount: M(12.34, CAD), Account: "TFSA"}
	b := Dividend{Symbol: "XEQT", Date: MustParseDate("2025-06-30"), Amount: M(12.34, CAD), Account: "TFSA"}
	if a.ContentHash() != b.ContentHash() {
		t.Error("identical dividends produced different hashes")
	}
	c := Dividend{Symbol: "XEQT", Date: MustParseDate("2025-06-30"), Amount: M(12.35, CAD), Account: "TFSA"}
	if c.ContentHash() == a.ContentHash() {
		t.Error("different amounts hashed the same")
	}
}

func TestStockSplit_Apply(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		tr := trade(t, "AAPL", "2020-01-15", Buy, 100, 400, USD, "Margin")
		split := StockSplit{Symbol: "AAPL", Ratio: 4}
		split.apply(tr)

		almost(t, "quantity", tr.Quantity.AsFloat(), 400)
		almost(t, "price", tr.Price.AsFloat(), 100)
	})

	t.Run("reverse floors the quantity", func(t *testing.T) {
		tr := trade(t, "HUT", "2023-05-01", Buy, 101, 2, CAD, "Margin")
		split := StockSplit{Symbol: "HUT", Ratio: 5, Reverse: true}
		split.apply(tr)

		// 101 / 5 = 20.2, floored to whole shares.
		almost(t, "quantity", tr.Quantity.AsFloat(), 20)
		almost(t, "price", tr.Price.AsFloat(), 10)
	})
}

func TestStockSplit_ApplyKeepsHash(t *testing.T) {
	tr := trade(t, "AAPL", "2020-01-15", Buy, 100, 400, USD, "Margin")
	tr.Hash = tr.ContentHash()
	want := tr.Hash

	StockSplit{Symbol: "AAPL", Ratio: 4}.apply(tr)
	if tr.Hash != want {
		t.Error("split application changed the stored hash")
	}
}
