package cryptofolio

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/cryptofolio/date"
	"github.com/google/uuid"
)

// Trade is the canonical record of one executed order.
//
// Total is derived at construction from the order amount and the unit price,
// in the fee currency, and never recomputed.
type Trade struct {
	id       string
	order    Order
	exchange Exchange
	date     date.Date
	action   Action
	price    Money
	fee      Money
	total    Money
}

// NewTrade returns a new Trade with a fresh identity.
func NewTrade(order Order, exchange Exchange, on date.Date, action Action, price, fee Money) Trade {
	return Trade{
		id:       uuid.NewString(),
		order:    order,
		exchange: exchange,
		date:     on,
		action:   action,
		price:    price,
		fee:      fee,
		total:    M(order.amount.value.Mul(price.value), fee.cur),
	}
}

// RestoreTrade rebuilds a persisted trade, keeping its identity and its stored
// total.
func RestoreTrade(id string, order Order, exchange Exchange, on date.Date, action Action, price, fee, total Money) Trade {
	return Trade{
		id:       id,
		order:    order,
		exchange: exchange,
		date:     on,
		action:   action,
		price:    price,
		fee:      fee,
		total:    total,
	}
}

func (t Trade) ID() string         { return t.id }
func (t Trade) Order() Order       { return t.order }
func (t Trade) Symbol() string     { return t.order.symbol }
func (t Trade) Amount() Quantity   { return t.order.amount }
func (t Trade) Exchange() Exchange { return t.exchange }
func (t Trade) Date() date.Date    { return t.date }
func (t Trade) Action() Action     { return t.action }
func (t Trade) Price() Money       { return t.price }
func (t Trade) Fee() Money         { return t.fee }
func (t Trade) Total() Money       { return t.total }

// Key is the natural key of a trade: two trades with the same key are the same
// import.
type Key struct {
	ExchangeID   string
	ExchangeName string
	Transaction  string
	Symbol       string
	Amount       string
}

// Key returns the natural key of t.
func (t Trade) Key() Key {
	return Key{
		ExchangeID:   t.exchange.ID,
		ExchangeName: t.exchange.Name,
		Transaction:  t.exchange.Transaction,
		Symbol:       t.order.symbol,
		Amount:       t.order.canonical(),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s %s %s", k.ExchangeName, k.ExchangeID, k.Transaction, k.Amount, k.Symbol)
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s on %s", t.date, t.action, t.order.amount, t.order.symbol, t.price, t.exchange.Name)
}

// MarshalJSON writes the persisted shape of the trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.id)
	w.Append("order", t.order)
	w.Append("exchange", t.exchange)
	w.Append("date", t.date)
	w.Append("action", t.action)
	w.Append("price", t.price)
	w.Append("fee", t.fee)
	w.Append("total", t.total)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the persisted shape. A missing total is derived, a
// missing id is generated.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID       string    `json:"id"`
		Order    Order     `json:"order"`
		Exchange Exchange  `json:"exchange"`
		Date     date.Date `json:"date"`
		Action   Action    `json:"action"`
		Price    Money     `json:"price"`
		Fee      Money     `json:"fee"`
		Total    *Money    `json:"total"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	restored := NewTrade(aux.Order, aux.Exchange, aux.Date, aux.Action, aux.Price, aux.Fee)
	if aux.ID != "" {
		restored.id = aux.ID
	}
	if aux.Total != nil {
		restored.total = *aux.Total
	}
	*t = restored
	return nil
}
