package importer

import (
	"context"

	"github.com/etnz/cryptofolio"
)

var customHeader = []string{"OrderId", "Date", "Action", "Symbol", "Amount", "Price", "Fees", "To", "Subtotal", "Total", "Exchange"}

// Custom normalizes a hand written export, for platforms with no supported
// format. Each row names its platform, and the currency it is booked in: EUR,
// USD, or USDT for anything else.
type Custom struct{}

func (c *Custom) Exchange() string { return "custom" }
func (c *Custom) Header() []string { return customHeader }

func (c *Custom) Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error) {
	id, _ := r.field("OrderId")
	t, err := c.normalize(r, id)
	if err != nil {
		return nil, wrap(c.Exchange(), r, id, err)
	}
	return []cryptofolio.Trade{t}, nil
}

func (c *Custom) normalize(r Record, id string) (cryptofolio.Trade, error) {
	to, err := r.field("To")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	cur := cryptofolio.USDT
	switch to {
	case "EUR":
		cur = cryptofolio.EUR
	case "USD":
		cur = cryptofolio.USD
	}
	platform, err := r.field("Exchange")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	symbol, err := r.field("Symbol")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	amount, err := r.decimal("Amount")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	price, err := r.decimal("Price")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	fee, err := r.fee("Fees")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	on, err := r.date("Date")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	action, err := r.action("Action")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	return cryptofolio.NewTrade(
		cryptofolio.NewOrder(symbol, cryptofolio.Q(amount)),
		cryptofolio.NewExchange(id, platform, id),
		on,
		action,
		cryptofolio.M(price, cur),
		cryptofolio.M(fee, cur),
	), nil
}
