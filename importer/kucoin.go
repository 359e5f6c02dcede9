package importer

import (
	"context"
	"fmt"

	"github.com/etnz/cryptofolio"
)

var kucoinHeader = []string{"tradeCreatedAt", "orderId", "symbol", "side", "price", "size", "funds", "fee", "liquidity", "feeCurrency", "orderType"}

// Kucoin normalizes the trade history export of KuCoin. Every row is
// imported. The unit price includes the fee, which must be paid in USDT.
type Kucoin struct {
	Config cryptofolio.Config
}

func (k *Kucoin) Exchange() string { return "kucoin" }
func (k *Kucoin) Header() []string { return kucoinHeader }

func (k *Kucoin) Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error) {
	id, _ := r.field("orderId")
	t, err := k.normalize(r, id)
	if err != nil {
		return nil, wrap(k.Exchange(), r, id, err)
	}
	return []cryptofolio.Trade{t}, nil
}

func (k *Kucoin) normalize(r Record, id string) (cryptofolio.Trade, error) {
	feeCurrency, err := r.field("feeCurrency")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	if feeCurrency != string(cryptofolio.USDT) {
		return cryptofolio.Trade{}, fmt.Errorf("%w: %q", cryptofolio.ErrUnsupportedFeeCurrency, feeCurrency)
	}
	pair, err := r.field("symbol")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	symbol, _ := SplitPair(pair, k.Config.QuoteAssets)
	size, err := r.decimal("size")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	funds, err := r.decimal("funds")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	fee, err := r.decimal("fee")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	on, err := r.date("tradeCreatedAt")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	action, err := r.action("side")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	price, err := divide(funds.Add(fee), size, "size")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	return cryptofolio.NewTrade(
		cryptofolio.NewOrder(symbol, cryptofolio.Q(size)),
		cryptofolio.NewExchange(id, k.Exchange(), id),
		on,
		action,
		cryptofolio.M(price, cryptofolio.USDT),
		cryptofolio.M(fee, cryptofolio.USDT),
	), nil
}
