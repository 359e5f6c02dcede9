package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

var binanceHeader = []string{"Date(UTC)", "OrderNo", "Pair", "Type", "Side", "Order Price", "Order Amount", "Time", "Executed", "Average Price", "Trading total", "Status"}

// Binance normalizes the order history export of Binance.
//
// Only filled orders are imported, in USDT. An order whose total is settled in
// one of the settlement assets is expanded into two trades: a conversion trade
// of the settlement asset against USDT at the market close of the order time,
// then the order itself priced from the value of the conversion.
type Binance struct {
	Config cryptofolio.Config
	Prices PriceLookup
}

func (b *Binance) Exchange() string { return "binance" }
func (b *Binance) Header() []string { return binanceHeader }

func (b *Binance) Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error) {
	orderNo, _ := r.field("OrderNo")
	trades, err := b.normalize(ctx, r, orderNo)
	if err != nil {
		return nil, wrap(b.Exchange(), r, orderNo, err)
	}
	return trades, nil
}

func (b *Binance) normalize(ctx context.Context, r Record, orderNo string) ([]cryptofolio.Trade, error) {
	status, err := r.field("Status")
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(status, "FILLED") {
		return nil, nil
	}
	if orderNo == "" {
		return nil, fmt.Errorf("%w: empty OrderNo", cryptofolio.ErrMalformedRecord)
	}
	pair, err := r.field("Pair")
	if err != nil {
		return nil, err
	}
	symbol, _ := SplitPair(pair, b.Config.QuoteAssets)
	executed, _, err := r.amountOf("Executed", symbol)
	if err != nil {
		return nil, err
	}
	on, err := r.date("Date(UTC)")
	if err != nil {
		return nil, err
	}
	action, err := r.action("Side")
	if err != nil {
		return nil, err
	}
	total, unit, err := r.amount("Trading total")
	if err != nil {
		return nil, err
	}

	exchange := cryptofolio.NewExchange(orderNo, b.Exchange(), orderNo)
	fee := cryptofolio.M(0, cryptofolio.USDT)
	order := cryptofolio.NewOrder(symbol, cryptofolio.Q(executed))

	if !b.Config.IsSettlementAsset(unit) {
		price, err := divide(total, executed, "executed amount")
		if err != nil {
			return nil, err
		}
		return []cryptofolio.Trade{
			cryptofolio.NewTrade(order, exchange, on, action, cryptofolio.M(price, cryptofolio.USDT), fee),
		}, nil
	}

	// settled in a volatile asset: record the implied conversion of that asset.
	if b.Prices == nil {
		return nil, fmt.Errorf("%w: no price lookup to convert %s", cryptofolio.ErrPriceLookup, unit)
	}
	rate, err := b.Prices.ClosePrice(ctx, unit+"USDT", on.Millis())
	if err != nil {
		if !errors.Is(err, cryptofolio.ErrPriceLookup) {
			err = fmt.Errorf("%w: %s at %v: %v", cryptofolio.ErrPriceLookup, unit+"USDT", on, err)
		}
		return nil, err
	}
	id := orderNo + b.Config.ConversionSuffix
	conversion := cryptofolio.NewTrade(
		cryptofolio.NewOrder(unit, cryptofolio.Q(total)),
		cryptofolio.NewExchange(id, b.Exchange(), id),
		on,
		opposite(action),
		cryptofolio.M(rate, cryptofolio.USDT),
		fee,
	)
	price, err := divide(conversion.Total().Decimal(), executed, "executed amount")
	if err != nil {
		return nil, err
	}
	original := cryptofolio.NewTrade(order, exchange, on, action, cryptofolio.M(price, cryptofolio.USDT), fee)
	return []cryptofolio.Trade{conversion, original}, nil
}

// opposite returns the side of the conversion implied by a trade: selling an
// asset for a settlement asset buys the settlement asset.
func opposite(a cryptofolio.Action) cryptofolio.Action {
	if a == cryptofolio.Sell {
		return cryptofolio.Buy
	}
	return cryptofolio.Sell
}
