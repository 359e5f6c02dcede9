package cryptofolio

import (
	"context"
	"testing"

	"github.com/etnz/cryptofolio/date"
)

// eur is a helper for test to create euro money from const
func eur(v float64) Money { return M(v, EUR) }

// usd is a helper for test to create usd money from const
func usd(v float64) Money { return M(v, USD) }

// usdt is a helper for test to create tether money from const
func usdt(v float64) Money { return M(v, USDT) }

// day returns noon of a day of 2023.
func day(d int) date.Date { return date.New(2023, 1, d, 12, 0, 0) }

// trade is a helper to create a trade from const, the transaction id must be
// unique in a test.
func trade(tx string, on date.Date, action Action, symbol string, amount float64, price Money) Trade {
	return NewTrade(NewOrder(symbol, Q(amount)), NewExchange("1", "test", tx), on, action, price, M(0, price.Currency()))
}

// newTestLedger returns a ledger holding trades.
func newTestLedger(t *testing.T, trades ...Trade) *Ledger {
	t.Helper()
	l := NewLedger()
	for _, tr := range trades {
		if _, err := l.Insert(context.Background(), tr); err != nil {
			t.Fatalf("Insert(%v) unexpected error: %v", tr, err)
		}
	}
	return l
}

// dateOf returns the first of january of a year.
func dateOf(year int) date.Date { return date.New(year, 1, 1, 0, 0, 0) }

func date2024() date.Date { return dateOf(2024) }
