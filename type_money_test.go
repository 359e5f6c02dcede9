package cryptofolio

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_Rounding(t *testing.T) {
	m := M(decimal.RequireFromString("1.123456789"), EUR)
	if want := decimal.RequireFromString("1.12345679"); !m.Decimal().Equal(want) {
		t.Errorf("M() = %v, want %v", m.Decimal(), want)
	}
	if n := M(-3, USD); !n.IsNegative() {
		t.Errorf("M(-3) = %v, want a negative amount", n.Decimal())
	}
}

func TestMoney_ConvertTo(t *testing.T) {
	x := decimal.RequireFromString("123.45")
	tests := []struct {
		name   string
		m      Money
		target Currency
		want   decimal.Decimal
	}{
		{"EUR to EUR", M(x, EUR), EUR, x},
		{"EUR to USD", M(x, EUR), USD, x.Mul(eurPeg).Round(8)},
		{"EUR to USDT", M(x, EUR), USDT, x.Mul(eurPeg).Round(8)},
		{"USD to EUR", M(x, USD), EUR, x.DivRound(eurPeg, 8)},
		{"USDT to EUR", M(10, USDT), EUR, decimal.RequireFromString("8.54700855")},
		{"USDT to USD", M(10, USDT), USD, decimal.NewFromInt(10)},
		{"USD to USDT", M(x, USD), USDT, x},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.m.ConvertTo(tt.target)
			if err != nil {
				t.Fatalf("ConvertTo() unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ConvertTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoney_UnsupportedConversion(t *testing.T) {
	_, err := M(1, Currency("GBP")).ConvertTo(EUR)
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("ConvertTo() error = %v, want %v", err, ErrUnsupportedConversion)
	}
	_, err = M(1, EUR).In(Currency("BTC"))
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("In() error = %v, want %v", err, ErrUnsupportedConversion)
	}
}

func TestParseCurrency(t *testing.T) {
	for _, code := range []string{"eur", "USD", " usdt "} {
		if _, err := ParseCurrency(code); err != nil {
			t.Errorf("ParseCurrency(%q) unexpected error: %v", code, err)
		}
	}
	if _, err := ParseCurrency("BTC"); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("ParseCurrency(BTC) error = %v, want %v", err, ErrMalformedRecord)
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{usd(1234.5), "$1,234.50"},
		{usdt(10), "10.00 USDT"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMoney_JSON(t *testing.T) {
	m := M(decimal.RequireFromString("0.00012345"), USDT)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if want := `{"amount":0.00012345,"currency":"USDT"}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	var got Money
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if !got.Equal(m) {
		t.Errorf("Unmarshal() = %v, want %v", got, m)
	}
}
