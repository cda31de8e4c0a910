package folio

import "testing"

func TestConverter_ToCAD(t *testing.T) {
	conv := NewConverter(1.25)

	almost(t, "USD to CAD", conv.ToCAD(M(100, USD)).AsFloat(), 125)
	almost(t, "CAD passthrough", conv.ToCAD(M(100, CAD)).AsFloat(), 100)
	if got := conv.ToCAD(M(100, USD)).Currency(); got != CAD {
		t.Errorf("currency = %q, want CAD", got)
	}
}

func TestConverter_ToUSD(t *testing.T) {
	conv := NewConverter(1.25)

	almost(t, "CAD to USD", conv.ToUSD(M(100, CAD)).AsFloat(), 80)
	almost(t, "USD passthrough", conv.ToUSD(M(100, USD)).AsFloat(), 100)
	if got := conv.ToUSD(M(100, CAD)).Currency(); got != USD {
		t.Errorf("currency = %q, want USD", got)
	}
}

func TestConverter_Value(t *testing.T) {
	conv := NewConverter(1.25)

	v := conv.Value(M(100, USD))
	almost(t, "native", v.Native.AsFloat(), 100)
	almost(t, "cad", v.CAD.AsFloat(), 125)
	almost(t, "usd", v.USD.AsFloat(), 100)
	if v.Native.Currency() != USD {
		t.Errorf("native currency = %q, want USD", v.Native.Currency())
	}
}

func TestValuation_Arithmetic(t *testing.T) {
	conv := NewConverter(1.25)
	a := conv.Value(M(100, USD))
	b := conv.Value(M(50, USD))

	sum := a.Add(b)
	almost(t, "sum native", sum.Native.AsFloat(), 150)
	almost(t, "sum cad", sum.CAD.AsFloat(), 187.5)

	diff := a.Sub(b)
	almost(t, "diff native", diff.Native.AsFloat(), 50)

	scaled := b.Mul(Q(3))
	almost(t, "scaled native", scaled.Native.AsFloat(), 150)
	almost(t, "scaled usd", scaled.USD.AsFloat(), 150)

	split := a.Div(Q(4))
	almost(t, "split native", split.Native.AsFloat(), 25)

	if !(Valuation{}).IsZero() {
		t.Error("zero Valuation not reported as zero")
	}
	if a.IsZero() {
		t.Error("non-zero Valuation reported as zero")
	}
}
