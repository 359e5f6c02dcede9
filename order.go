package cryptofolio

import (
	"encoding/json"
	"strings"
)

// Order is an amount of an asset, identified by its ticker.
type Order struct {
	symbol string
	amount Quantity
}

// NewOrder returns an Order with an uppercased, trimmed symbol.
func NewOrder(symbol string, amount Quantity) Order {
	return Order{symbol: strings.ToUpper(strings.TrimSpace(symbol)), amount: amount}
}

func (o Order) Symbol() string   { return o.symbol }
func (o Order) Amount() Quantity { return o.amount }

// canonical returns the amount as used in the natural key: trailing zeros do
// not make two orders different.
func (o Order) canonical() string { return o.amount.value.String() }

func (o Order) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", o.symbol)
	w.Append("amount", o.amount)
	return w.MarshalJSON()
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var aux struct {
		Symbol string   `json:"symbol"`
		Amount Quantity `json:"amount"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = NewOrder(aux.Symbol, aux.Amount)
	return nil
}
