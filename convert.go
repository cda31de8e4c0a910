package folio

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Reporting currencies. Every monetary output field is exposed in its native
// currency plus these two parallel forms.
const (
	CAD = "CAD"
	USD = "USD"
)

// Valuation carries a monetary amount in its native currency alongside its
// CAD and USD conversions.
type Valuation struct {
	Native Money
	CAD    Money
	USD    Money
}

func (v Valuation) IsZero() bool {
	return v.Native.IsZero() && v.CAD.IsZero() && v.USD.IsZero()
}

func (v Valuation) Add(o Valuation) Valuation {
	return Valuation{Native: v.Native.Add(o.Native), CAD: v.CAD.Add(o.CAD), USD: v.USD.Add(o.USD)}
}

func (v Valuation) Sub(o Valuation) Valuation {
	return Valuation{Native: v.Native.Sub(o.Native), CAD: v.CAD.Sub(o.CAD), USD: v.USD.Sub(o.USD)}
}

func (v Valuation) Mul(q Quantity) Valuation {
	return Valuation{Native: v.Native.Mul(q), CAD: v.CAD.Mul(q), USD: v.USD.Mul(q)}
}

func (v Valuation) Div(q Quantity) Valuation {
	return Valuation{Native: v.Native.Div(q), CAD: v.CAD.Div(q), USD: v.USD.Div(q)}
}

// MarshalJSON writes the three parallel amounts with a stable field order.
func (v Valuation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("cad", v.CAD.value)
	w.Optional("currency", v.Native.Currency())
	w.Append("native", v.Native.value)
	w.Append("usd", v.USD.value)
	return w.MarshalJSON()
}

func (v *Valuation) UnmarshalJSON(data []byte) error {
	var temp struct {
		CAD      decimal.Decimal `json:"cad"`
		Currency string          `json:"currency"`
		Native   decimal.Decimal `json:"native"`
		USD      decimal.Decimal `json:"usd"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*v = Valuation{
		Native: M(temp.Native, temp.Currency),
		CAD:    M(temp.CAD, CAD),
		USD:    M(temp.USD, USD),
	}
	return nil
}

// Converter converts amounts between a native currency and the CAD/USD
// reporting pair, given a single USD→CAD rate. It is a pure value: build one
// per rate (today's rate for live valuations, a historical rate for a dated
// trade) and throw it away.
type Converter struct {
	usdCad decimal.Decimal
}

// NewConverter returns a converter for the given USD→CAD rate.
func NewConverter(usdCad float64) Converter {
	return Converter{usdCad: decimal.NewFromFloat(usdCad)}
}

// ToCAD converts a native CAD or USD amount into CAD. Amounts in any other
// currency are passed through unconverted with the CAD label, which keeps the
// maths explicit for the Questrade feed where only CAD and USD occur.
func (c Converter) ToCAD(m Money) Money {
	if m.Currency() == USD {
		return m.Scale(c.usdCad).In(CAD)
	}
	return m.In(CAD)
}

// ToUSD converts a native CAD or USD amount into USD.
func (c Converter) ToUSD(m Money) Money {
	if m.Currency() == USD {
		return m
	}
	return Money{value: m.value.Div(c.usdCad), cur: USD}
}

// Value expands a native amount into its three parallel forms.
func (c Converter) Value(m Money) Valuation {
	return Valuation{Native: m, CAD: c.ToCAD(m), USD: c.ToUSD(m)}
}
