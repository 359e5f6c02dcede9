package cryptofolio

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/etnz/cryptofolio/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AccountingSystem computes profits, holdings and fees on top of a Store.
//
// It holds no state of its own: every result is a function of the store
// content at call time.
type AccountingSystem struct {
	Store  Store
	Config Config
}

// NewAccountingSystem creates a new accounting system over store.
func NewAccountingSystem(store Store, cfg Config) (*AccountingSystem, error) {
	if store == nil {
		return nil, fmt.Errorf("nil store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &AccountingSystem{Store: store, Config: cfg}, nil
}

// Create inserts t unless it was already imported.
func (as *AccountingSystem) Create(ctx context.Context, t Trade) (bool, error) {
	return as.Store.Insert(ctx, t)
}

// FromCriteria returns the trades matching c in chronological order.
func (as *AccountingSystem) FromCriteria(ctx context.Context, c Criteria) ([]Trade, error) {
	return as.Store.Find(ctx, c, ByTimestamp)
}

// FromSymbol returns all the trades of an asset.
func (as *AccountingSystem) FromSymbol(ctx context.Context, symbol string) ([]Trade, error) {
	return as.FromCriteria(ctx, BySymbol(symbol))
}

// HoldingsFromCriteria returns the amount bought minus the amount sold among
// the trades matching c. It is never negative.
func (as *AccountingSystem) HoldingsFromCriteria(ctx context.Context, c Criteria) (Quantity, error) {
	bought, err := as.sumAmount(ctx, c.With(FieldAction, Buy))
	if err != nil {
		return Quantity{}, err
	}
	sold, err := as.sumAmount(ctx, c.With(FieldAction, Sell))
	if err != nil {
		return Quantity{}, err
	}
	return bought.Sub(sold).Max(Quantity{}), nil
}

func (as *AccountingSystem) sumAmount(ctx context.Context, c Criteria) (Quantity, error) {
	trades, err := as.Store.Find(ctx, c)
	if err != nil {
		return Quantity{}, err
	}
	var sum Quantity
	for _, t := range trades {
		sum = sum.Add(t.order.amount)
	}
	return sum, nil
}

// HoldingsFromSymbol returns the holding of an asset.
func (as *AccountingSystem) HoldingsFromSymbol(ctx context.Context, symbol string) (Quantity, error) {
	return as.HoldingsFromCriteria(ctx, BySymbol(symbol))
}

// Holdings returns the balance of every asset: sells subtract, buys and
// staking rewards add. Balances are not clamped.
func (as *AccountingSystem) Holdings(ctx context.Context) (map[string]Quantity, error) {
	trades, err := as.Store.Find(ctx, Criteria{})
	if err != nil {
		return nil, err
	}
	holdings := make(map[string]Quantity)
	for _, t := range trades {
		q := holdings[t.order.symbol]
		if t.action == Sell {
			q = q.Sub(t.order.amount)
		} else {
			q = q.Add(t.order.amount)
		}
		holdings[t.order.symbol] = q
	}
	return holdings, nil
}

// FeesFromCriteria returns the sum of the fees of the trades matching c, in
// USD.
func (as *AccountingSystem) FeesFromCriteria(ctx context.Context, c Criteria) (Money, error) {
	return as.sumFees(ctx, c, USD)
}

// FeesFromSymbol returns the fees paid on an asset, in USD.
func (as *AccountingSystem) FeesFromSymbol(ctx context.Context, symbol string) (Money, error) {
	return as.FeesFromCriteria(ctx, BySymbol(symbol))
}

// TotalFees returns the fees paid on all trades, in EUR.
func (as *AccountingSystem) TotalFees(ctx context.Context) (Money, error) {
	return as.sumFees(ctx, Criteria{}, EUR)
}

func (as *AccountingSystem) sumFees(ctx context.Context, c Criteria, cur Currency) (Money, error) {
	trades, err := as.Store.Find(ctx, c)
	if err != nil {
		return Money{}, err
	}
	sum := decimal.Zero
	for _, t := range trades {
		fee, err := t.fee.ConvertTo(cur)
		if err != nil {
			return Money{}, fmt.Errorf("fee of %v: %w", t.Key(), err)
		}
		sum = sum.Add(fee)
	}
	return M(sum, cur), nil
}

// TotalOfTrades returns the number of buys and sells. Staking rewards are not
// counted.
func (as *AccountingSystem) TotalOfTrades(ctx context.Context) (int, error) {
	trades, err := as.Store.Find(ctx, Criteria{FieldAction: In{Buy, Sell}})
	if err != nil {
		return 0, err
	}
	return len(trades), nil
}

// LastTradeDate returns the date of the most recent trade, false on an empty
// store.
func (as *AccountingSystem) LastTradeDate(ctx context.Context) (date.Date, bool, error) {
	return as.lastDate(ctx, Criteria{})
}

func (as *AccountingSystem) lastDate(ctx context.Context, c Criteria) (date.Date, bool, error) {
	trades, err := as.Store.Find(ctx, c, Sort{Field: FieldTimestamp, Desc: true})
	if err != nil {
		return date.Date{}, false, err
	}
	if len(trades) == 0 {
		return date.Date{}, false, nil
	}
	return trades[0].date, true, nil
}

// Symbols returns every asset in the store.
func (as *AccountingSystem) Symbols(ctx context.Context) ([]string, error) {
	return as.Store.Distinct(ctx, FieldSymbol)
}

// Exchanges returns the name of every platform in the store.
func (as *AccountingSystem) Exchanges(ctx context.Context) ([]string, error) {
	return as.Store.Distinct(ctx, FieldExchangeName)
}

// ExchangeTradeCount returns the number of trades imported from a platform.
func (as *AccountingSystem) ExchangeTradeCount(ctx context.Context, exchange string) (int, error) {
	trades, err := as.Store.Find(ctx, ByExchange(exchange))
	if err != nil {
		return 0, err
	}
	return len(trades), nil
}

// ExchangeLastTradeDate returns the date of the last trade imported from a
// platform.
func (as *AccountingSystem) ExchangeLastTradeDate(ctx context.Context, exchange string) (date.Date, bool, error) {
	return as.lastDate(ctx, ByExchange(exchange))
}

// RemoveFromCriteria deletes every trade matching c.
func (as *AccountingSystem) RemoveFromCriteria(ctx context.Context, c Criteria) (int, error) {
	return as.Store.Remove(ctx, c)
}

// NaiveProfitFromSymbol returns what was received from sells minus what was
// spent on buys for an asset, in USD, regardless of the quantities.
func (as *AccountingSystem) NaiveProfitFromSymbol(ctx context.Context, symbol string) (Money, error) {
	trades, err := as.FromSymbol(ctx, symbol)
	if err != nil {
		return Money{}, err
	}
	spent, gained := decimal.Zero, decimal.Zero
	for _, t := range trades {
		if t.action == Staking {
			continue
		}
		v, err := t.total.ConvertTo(USD)
		if err != nil {
			return Money{}, fmt.Errorf("total of %v: %w", t.Key(), err)
		}
		if t.action == Buy {
			spent = spent.Add(v)
		} else {
			gained = gained.Add(v)
		}
	}
	return M(gained.Sub(spent), USD), nil
}

// FIFO returns the full FIFO pass of an asset for a calendar year.
func (as *AccountingSystem) FIFO(ctx context.Context, symbol string, year int) (FIFOResult, error) {
	c := BySymbol(symbol).With(FieldYear, year)
	sells, err := as.Store.Find(ctx, c.With(FieldAction, Sell), ByTimestamp)
	if err != nil {
		return FIFOResult{}, err
	}
	buys, err := as.Store.Find(ctx, c.With(FieldAction, Buy), ByTimestamp)
	if err != nil {
		return FIFOResult{}, err
	}
	res, err := FIFO(buys, sells)
	if err != nil {
		return FIFOResult{}, fmt.Errorf("profit of %s in %d: %w", strings.ToUpper(symbol), year, err)
	}
	if res.Oversold() {
		logrus.WithFields(logrus.Fields{"symbol": symbol, "year": year}).Warn("sells exceed the available buys, the excess is ignored")
	}
	return res, nil
}

// ProfitFIFO returns the realized profit of an asset for a calendar year, in
// EUR.
func (as *AccountingSystem) ProfitFIFO(ctx context.Context, symbol string, year int) (Money, error) {
	res, err := as.FIFO(ctx, symbol, year)
	if err != nil {
		return Money{}, err
	}
	return res.Profit, nil
}

// ProfitsFIFO returns the realized profit of every asset for a calendar year.
// Assets are computed concurrently.
func (as *AccountingSystem) ProfitsFIFO(ctx context.Context, year int) (map[string]Money, error) {
	symbols, err := as.Symbols(ctx)
	if err != nil {
		return nil, err
	}
	var mu sync.Mutex
	profits := make(map[string]Money, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, symbol := range symbols {
		g.Go(func() error {
			p, err := as.ProfitFIFO(ctx, symbol, year)
			if err != nil {
				return err
			}
			mu.Lock()
			profits[symbol] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profits, nil
}

// ProfitFIFOAll returns the realized profit of all assets for a calendar year,
// in EUR.
func (as *AccountingSystem) ProfitFIFOAll(ctx context.Context, year int) (Money, error) {
	profits, err := as.ProfitsFIFO(ctx, year)
	if err != nil {
		return Money{}, err
	}
	total := M(0, EUR)
	for _, p := range profits {
		total = total.Add(p)
	}
	return total, nil
}

// Years returns the range of years covered by the total profit: from the
// configured start year to the year of the last trade.
func (as *AccountingSystem) Years(ctx context.Context) (date.Years, error) {
	last, ok, err := as.LastTradeDate(ctx)
	if err != nil {
		return date.Years{}, err
	}
	if !ok {
		return date.Years{From: as.Config.StartYear, To: as.Config.StartYear - 1}, nil
	}
	return date.Years{From: as.Config.StartYear, To: last.Year()}, nil
}

// TotalProfit returns the realized profit of all assets over all the years,
// in EUR. It is zero on an empty store.
func (as *AccountingSystem) TotalProfit(ctx context.Context) (Money, error) {
	years, err := as.Years(ctx)
	if err != nil {
		return Money{}, err
	}
	total := M(0, EUR)
	for year := range years.All() {
		p, err := as.ProfitFIFOAll(ctx, year)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(p)
	}
	return total, nil
}
