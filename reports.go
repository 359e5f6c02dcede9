package cryptofolio

import (
	"context"
	"slices"
	"strings"

	"github.com/etnz/cryptofolio/date"
)

// Summary is an at-a-glance overview of the ledger.
type Summary struct {
	Trades      int       // buys and sells
	Symbols     int
	Exchanges   int
	LastTrade   date.Date // zero on an empty ledger
	TotalFees   Money     // in EUR
	TotalProfit Money     // in EUR
	Years       []YearProfit
}

// YearProfit is the realized profit of a calendar year.
type YearProfit struct {
	Year   int
	Profit Money
}

// ProfitReport details the realized profit of a calendar year per asset.
type ProfitReport struct {
	Year    int
	Symbols []SymbolProfit // assets with a realized profit, by symbol
	Total   Money
}

// SymbolProfit is the realized profit of one asset.
type SymbolProfit struct {
	Symbol   string
	Profit   Money
	Naive    Money // sells minus buys over all years, in USD
	Oversold bool  // some sells had no buy to match
}

// HoldingsReport lists the balance of every asset.
type HoldingsReport struct {
	Holdings []Holding
}

// Holding is the balance of an asset and the fees paid on it.
type Holding struct {
	Symbol string
	Amount Quantity
	Fees   Money // in USD
}

// ExchangeReport lists the platforms trades were imported from.
type ExchangeReport struct {
	Exchanges []ExchangeStat
}

// ExchangeStat counts the trades of a platform.
type ExchangeStat struct {
	Name      string
	Trades    int
	LastTrade date.Date
}

// NewSummary computes the summary of the whole ledger.
func (as *AccountingSystem) NewSummary(ctx context.Context) (*Summary, error) {
	s := new(Summary)
	var err error
	if s.Trades, err = as.TotalOfTrades(ctx); err != nil {
		return nil, err
	}
	symbols, err := as.Symbols(ctx)
	if err != nil {
		return nil, err
	}
	s.Symbols = len(symbols)
	exchanges, err := as.Exchanges(ctx)
	if err != nil {
		return nil, err
	}
	s.Exchanges = len(exchanges)
	if s.LastTrade, _, err = as.LastTradeDate(ctx); err != nil {
		return nil, err
	}
	if s.TotalFees, err = as.TotalFees(ctx); err != nil {
		return nil, err
	}

	years, err := as.Years(ctx)
	if err != nil {
		return nil, err
	}
	s.TotalProfit = M(0, EUR)
	for year := range years.All() {
		p, err := as.ProfitFIFOAll(ctx, year)
		if err != nil {
			return nil, err
		}
		s.Years = append(s.Years, YearProfit{Year: year, Profit: p})
		s.TotalProfit = s.TotalProfit.Add(p)
	}
	return s, nil
}

// NewProfitReport computes the realized profit of year, restricted to symbols
// when some are given.
func (as *AccountingSystem) NewProfitReport(ctx context.Context, year int, symbols ...string) (*ProfitReport, error) {
	if len(symbols) == 0 {
		var err error
		if symbols, err = as.Symbols(ctx); err != nil {
			return nil, err
		}
	}
	r := &ProfitReport{Year: year, Total: M(0, EUR)}
	for _, symbol := range symbols {
		res, err := as.FIFO(ctx, symbol, year)
		if err != nil {
			return nil, err
		}
		if len(res.Matches) == 0 && !res.Oversold() {
			continue
		}
		naive, err := as.NaiveProfitFromSymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		r.Symbols = append(r.Symbols, SymbolProfit{
			Symbol:   strings.ToUpper(symbol),
			Profit:   res.Profit,
			Naive:    naive,
			Oversold: res.Oversold(),
		})
		r.Total = r.Total.Add(res.Profit)
	}
	slices.SortFunc(r.Symbols, func(a, b SymbolProfit) int { return strings.Compare(a.Symbol, b.Symbol) })
	return r, nil
}

// NewHoldingsReport lists the balance of every asset that is not zero.
func (as *AccountingSystem) NewHoldingsReport(ctx context.Context) (*HoldingsReport, error) {
	holdings, err := as.Holdings(ctx)
	if err != nil {
		return nil, err
	}
	r := new(HoldingsReport)
	for _, symbol := range sortedKeys(holdings) {
		q := holdings[symbol]
		if q.IsZero() {
			continue
		}
		fees, err := as.FeesFromSymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		r.Holdings = append(r.Holdings, Holding{Symbol: symbol, Amount: q, Fees: fees})
	}
	return r, nil
}

// NewExchangeReport lists every platform with its trade count.
func (as *AccountingSystem) NewExchangeReport(ctx context.Context) (*ExchangeReport, error) {
	names, err := as.Exchanges(ctx)
	if err != nil {
		return nil, err
	}
	r := new(ExchangeReport)
	for _, name := range names {
		n, err := as.ExchangeTradeCount(ctx, name)
		if err != nil {
			return nil, err
		}
		last, _, err := as.ExchangeLastTradeDate(ctx, name)
		if err != nil {
			return nil, err
		}
		r.Exchanges = append(r.Exchanges, ExchangeStat{Name: name, Trades: n, LastTrade: last})
	}
	return r, nil
}
