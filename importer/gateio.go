package importer

import (
	"context"
	"fmt"

	"github.com/etnz/cryptofolio"
)

var gateioHeader = []string{"No", "Order id", "Time", "Trade type", "Pair", "Price", "Amount", "Fee", "Total"}

// GateIO normalizes the trade history export of Gate.io, in USDT.
//
// Fees are either paid in USDT or in the traded asset, in which case they are
// valued at the unit price of the row.
type GateIO struct {
	Config cryptofolio.Config
}

func (g *GateIO) Exchange() string { return "gateio" }
func (g *GateIO) Header() []string { return gateioHeader }

func (g *GateIO) Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error) {
	id, _ := r.field("Order id")
	t, err := g.normalize(r, id)
	if err != nil {
		return nil, wrap(g.Exchange(), r, id, err)
	}
	return []cryptofolio.Trade{t}, nil
}

func (g *GateIO) normalize(r Record, id string) (cryptofolio.Trade, error) {
	pair, err := r.field("Pair")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	symbol, _ := SplitPair(pair, g.Config.QuoteAssets)
	amount, _, err := r.amountOf("Amount", symbol)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	price, err := r.decimal("Price")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	fee, feeUnit, err := r.amountOf("Fee", symbol)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	switch feeUnit {
	case "", string(cryptofolio.USDT):
	case symbol:
		fee = fee.Mul(price)
	default:
		return cryptofolio.Trade{}, fmt.Errorf("%w: %q", cryptofolio.ErrUnsupportedFeeCurrency, feeUnit)
	}
	on, err := r.date("Time")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	action, err := r.action("Trade type")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	return cryptofolio.NewTrade(
		cryptofolio.NewOrder(symbol, cryptofolio.Q(amount)),
		cryptofolio.NewExchange(id, g.Exchange(), id),
		on,
		action,
		cryptofolio.M(price, cryptofolio.USDT),
		cryptofolio.M(fee, cryptofolio.USDT),
	), nil
}
