package cryptofolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Match is the part of a sell covered by one buy.
type Match struct {
	Buy       Trade
	Sell      Trade
	Amount    Quantity
	BuyPrice  decimal.Decimal // unit price in EUR
	SellPrice decimal.Decimal // unit price in EUR
}

// Profit returns the profit realized on the match, in EUR.
func (m Match) Profit() Money {
	return M(m.SellPrice.Sub(m.BuyPrice).Mul(m.Amount.value), EUR)
}

// FIFOResult is the outcome of a FIFO pass.
type FIFOResult struct {
	Profit  Money
	Matches []Match
	// Remaining is the balance left on each buy, by position.
	Remaining []Quantity
	// Unmatched is the balance left on each sell, by position. A non zero
	// value means the position was oversold.
	Unmatched []Quantity
}

// Oversold reports whether some sells could not be matched against a buy.
func (r FIFOResult) Oversold() bool {
	for _, q := range r.Unmatched {
		if q.IsPositive() {
			return true
		}
	}
	return false
}

// lot is the scratch state of a trade during a FIFO pass.
type lot struct {
	trade   Trade
	balance Quantity
}

func newLots(trades []Trade) []lot {
	lots := make([]lot, len(trades))
	for i, t := range trades {
		lots[i] = lot{trade: t, balance: t.order.amount}
	}
	return lots
}

func balances(lots []lot) []Quantity {
	q := make([]Quantity, len(lots))
	for i, l := range lots {
		q[i] = l.balance
	}
	return q
}

// eurPrice returns the unit price of t in EUR.
func eurPrice(t Trade) (decimal.Decimal, error) {
	p, err := t.price.ConvertTo(EUR)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price of %v: %w", t.Key(), err)
	}
	return p, nil
}

// FIFO matches sells against buys, both in ascending date order, first in
// first out, and returns the realized profit in EUR.
//
// Every sell consumes the oldest buys with a non zero balance. A sell that
// finds no more inventory is left unmatched and contributes nothing. The
// trades are not modified: balances are private to the call.
func FIFO(buys, sells []Trade) (FIFOResult, error) {
	buyLots, sellLots := newLots(buys), newLots(sells)
	total := decimal.Zero
	var matches []Match

	// buys before first are exhausted.
	first := 0
	for si := range sellLots {
		sell := &sellLots[si]
		remaining := sell.balance
		for bi := first; bi < len(buyLots); bi++ {
			buy := &buyLots[bi]
			if buy.balance.IsZero() {
				if bi == first {
					first++
				}
				continue
			}

			sellPrice, err := eurPrice(sell.trade)
			if err != nil {
				return FIFOResult{}, err
			}
			buyPrice, err := eurPrice(buy.trade)
			if err != nil {
				return FIFOResult{}, err
			}
			diff := sellPrice.Sub(buyPrice)

			if remaining.LessThanOrEqual(buy.balance) {
				total = total.Add(diff.Mul(remaining.value))
				buy.balance = buy.balance.Sub(remaining)
				sell.balance = sell.balance.Sub(remaining)
				if !remaining.IsZero() {
					matches = append(matches, Match{Buy: buy.trade, Sell: sell.trade, Amount: remaining, BuyPrice: buyPrice, SellPrice: sellPrice})
				}
				break
			}

			consumed := buy.balance
			total = total.Add(diff.Mul(consumed.value))
			buy.balance = Quantity{}
			sell.balance = sell.balance.Sub(consumed)
			matches = append(matches, Match{Buy: buy.trade, Sell: sell.trade, Amount: consumed, BuyPrice: buyPrice, SellPrice: sellPrice})
			remaining = sell.balance
		}
	}

	return FIFOResult{
		Profit:    M(total, EUR),
		Matches:   matches,
		Remaining: balances(buyLots),
		Unmatched: balances(sellLots),
	}, nil
}
