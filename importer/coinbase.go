package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

var coinbaseHeader = []string{"Timestamp", "Transaction Type", "Asset", "Quantity Transacted", "Spot Price Currency", "Spot Price at Transaction", "Subtotal", "Total (inclusive of fees)", "Fees", "Notes"}

// Coinbase normalizes the transaction report of Coinbase, in EUR.
//
// Sends are skipped, rewards are staking. A conversion becomes a sell of the
// source asset and a buy of the target asset read from the notes, like
// "Converted 0.5 ETH to 120.3 ADA", valued at the subtotal of the row.
//
// The report has no transaction id: it is derived from the timestamp.
type Coinbase struct {
	Config cryptofolio.Config
}

func (c *Coinbase) Exchange() string { return "coinbase" }
func (c *Coinbase) Header() []string { return coinbaseHeader }

func (c *Coinbase) Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error) {
	ts, _ := r.field("Timestamp")
	trades, err := c.normalize(r, ts)
	if err != nil {
		return nil, wrap(c.Exchange(), r, ts, err)
	}
	return trades, nil
}

func (c *Coinbase) normalize(r Record, ts string) ([]cryptofolio.Trade, error) {
	kind, err := r.field("Transaction Type")
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(kind) {
	case "SEND":
		return nil, nil
	case "BUY":
		t, err := c.trade(r, digest(ts), cryptofolio.Buy)
		return []cryptofolio.Trade{t}, err
	case "SELL":
		t, err := c.trade(r, digest(ts), cryptofolio.Sell)
		return []cryptofolio.Trade{t}, err
	case "REWARDS INCOME":
		t, err := c.trade(r, digest(ts), cryptofolio.Staking)
		return []cryptofolio.Trade{t}, err
	case "CONVERT":
		return c.convert(r, ts)
	}
	return nil, fmt.Errorf("%w: transaction type %q", cryptofolio.ErrUnknownAction, kind)
}

func (c *Coinbase) trade(r Record, id string, action cryptofolio.Action) (cryptofolio.Trade, error) {
	asset, err := r.field("Asset")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	quantity, err := r.decimal("Quantity Transacted")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	price, err := r.decimal("Spot Price at Transaction")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	fee, err := r.fee("Fees")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	on, err := r.date("Timestamp")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	return cryptofolio.NewTrade(
		cryptofolio.NewOrder(asset, cryptofolio.Q(quantity)),
		cryptofolio.NewExchange(id, c.Exchange(), id),
		on,
		action,
		cryptofolio.M(price, cryptofolio.EUR),
		cryptofolio.M(fee, cryptofolio.EUR),
	), nil
}

func (c *Coinbase) convert(r Record, ts string) ([]cryptofolio.Trade, error) {
	sell, err := c.trade(r, digest(ts), cryptofolio.Sell)
	if err != nil {
		return nil, err
	}

	notes, err := r.field("Notes")
	if err != nil {
		return nil, err
	}
	// Converted <quantity> <asset> to <quantity> <asset>
	words := strings.Fields(notes)
	if len(words) < 6 {
		return nil, fmt.Errorf("%w: cannot read conversion from notes %q", cryptofolio.ErrMalformedRecord, notes)
	}
	quantity, _, err := parseAmount(words[4])
	if err != nil {
		return nil, err
	}
	subtotal, err := r.decimal("Subtotal")
	if err != nil {
		return nil, err
	}
	price, err := divide(subtotal, quantity, "converted quantity")
	if err != nil {
		return nil, err
	}
	id := digest(ts) + c.Config.ConversionSuffix
	buy := cryptofolio.NewTrade(
		cryptofolio.NewOrder(words[5], cryptofolio.Q(quantity)),
		cryptofolio.NewExchange(id, c.Exchange(), id),
		sell.Date(),
		cryptofolio.Buy,
		cryptofolio.M(price, cryptofolio.EUR),
		cryptofolio.M(0, cryptofolio.EUR),
	)
	return []cryptofolio.Trade{sell, buy}, nil
}
