package cryptofolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the code of one of the currencies a trade can be booked in.
type Currency string

const (
	EUR  Currency = "EUR"
	USD  Currency = "USD"
	USDT Currency = "USDT"
)

// moneyPlaces is the number of fractional digits kept by Money.
const moneyPlaces = 8

// eurPeg is the fixed EUR to dollar rate.
var eurPeg = decimal.RequireFromString("1.17")

// ParseCurrency returns the Currency for code, case-insensitive.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	switch c {
	case EUR, USD, USDT:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown currency %q", ErrMalformedRecord, code)
}

// Money is an amount tagged with its currency.
//
// The amount is rounded to 8 fractional digits at construction, negative
// amounts are accepted.
type Money struct {
	value decimal.Decimal
	cur   Currency
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency Currency) Money {
	return Money{value: newDecimal(value).Round(moneyPlaces), cur: currency}
}

// NewMoney parses amount and returns it as Money in currency.
func NewMoney(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q: %v", ErrMalformedRecord, amount, err)
	}
	return M(d, currency), nil
}

// ConvertTo returns the amount of m expressed in the target currency.
//
// EUR is pegged to both USD and USDT at 1.17, USD and USDT are interchangeable.
func (m Money) ConvertTo(target Currency) (decimal.Decimal, error) {
	switch {
	case m.cur == target:
		return m.value, nil
	case m.cur == EUR && (target == USD || target == USDT):
		return m.value.Mul(eurPeg).Round(moneyPlaces), nil
	case (m.cur == USD || m.cur == USDT) && target == EUR:
		return m.value.DivRound(eurPeg, moneyPlaces), nil
	case (m.cur == USD && target == USDT) || (m.cur == USDT && target == USD):
		return m.value, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, m.cur, target)
}

// In returns m converted to the target currency.
func (m Money) In(target Currency) (Money, error) {
	v, err := m.ConvertTo(target)
	if err != nil {
		return Money{}, err
	}
	return M(v, target), nil
}

// String returns the string representation of the money value.
func (m Money) String() string {
	if c := money.GetCurrency(string(m.cur)); c != nil && m.cur != USDT {
		dec := m.value.Shift(int32(c.Fraction))
		return c.Formatter().Format(dec.IntPart())
	}
	return m.value.StringFixed(2) + " " + string(m.cur)
}

func (m Money) Currency() Currency              { return m.cur }
func (m Money) Amount() decimal.Decimal         { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return M(m.value.Mul(n.value), m.cur) }
func (m Money) Div(n Quantity) Money            { return M(m.value.Div(n.value), m.cur) }
func (m Money) AsFloat() float64                { return m.value.InexactFloat64() }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) StringFixed(places int32) string { return m.value.StringFixed(places) }
func (m Money) WithCurrency(c Currency) Money   { return Money{value: m.value, cur: c} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) Currency {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + string(A.cur) + "!=" + string(B.cur))
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", m.value)
	w.Append("currency", m.cur)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var aux struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c, err := ParseCurrency(aux.Currency)
	if err != nil {
		return err
	}
	*m = M(aux.Amount, c)
	return nil
}
