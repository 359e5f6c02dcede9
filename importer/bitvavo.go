package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

var bitvavoHeader = []string{"timestamp", "type", "currency", "amount", "status", "address", "method", "txid"}

// bitvavoLayout reads the first five words of a Bitvavo timestamp, like
// "Tue Mar 14 2023 09:30:15 GMT+0100 (Central European Standard Time)".
const bitvavoLayout = "Mon Jan 02 2006 15:04:05"

// Bitvavo normalizes the deposit and withdrawal export of Bitvavo. Only
// staking rewards are imported, at a zero EUR price.
type Bitvavo struct{}

func (b *Bitvavo) Exchange() string { return "bitvavo" }
func (b *Bitvavo) Header() []string { return bitvavoHeader }

func (b *Bitvavo) Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error) {
	ts, _ := r.field("timestamp")
	kind, err := r.field("type")
	if err != nil {
		return nil, wrap(b.Exchange(), r, ts, err)
	}
	if kind != "staking" {
		return nil, nil
	}
	t, err := b.normalize(r, ts)
	if err != nil {
		return nil, wrap(b.Exchange(), r, ts, err)
	}
	return []cryptofolio.Trade{t}, nil
}

func (b *Bitvavo) normalize(r Record, ts string) (cryptofolio.Trade, error) {
	words := strings.Fields(ts)
	if len(words) < 5 {
		return cryptofolio.Trade{}, fmt.Errorf("%w: invalid timestamp %q", cryptofolio.ErrMalformedRecord, ts)
	}
	on, err := date.ParseLayout(bitvavoLayout, strings.Join(words[:5], " "))
	if err != nil {
		return cryptofolio.Trade{}, fmt.Errorf("%w: %v", cryptofolio.ErrMalformedRecord, err)
	}
	asset, err := r.field("currency")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	amount, err := r.decimal("amount")
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	id := digest(ts)
	return cryptofolio.NewTrade(
		cryptofolio.NewOrder(asset, cryptofolio.Q(amount)),
		cryptofolio.NewExchange(id, b.Exchange(), id),
		on,
		cryptofolio.Staking,
		cryptofolio.M(0, cryptofolio.EUR),
		cryptofolio.M(0, cryptofolio.EUR),
	), nil
}
