package cryptofolio

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

// setupAccountingTest creates a ledger over two years and two platforms.
func setupAccountingTest(t *testing.T) *AccountingSystem {
	t.Helper()
	kucoin := func(tx string, y int, action Action, symbol string, amount float64, price, fee Money) Trade {
		return NewTrade(NewOrder(symbol, Q(amount)), NewExchange("2", "kucoin", tx), dateOf(y), action, price, fee)
	}
	ledger := newTestLedger(t,
		// 2023, BTC: scenario A
		trade("a1", day(1), Buy, "BTC", 2, eur(10)),
		trade("a2", day(2), Sell, "BTC", 2, eur(15)),
		// 2023, X: scenario B
		trade("b1", day(1), Buy, "X", 5, eur(2)),
		trade("b2", day(2), Buy, "X", 5, eur(4)),
		trade("b3", day(3), Sell, "X", 7, eur(10)),
		trade("st", day(4), Staking, "X", 1, eur(0)),
		// 2024 on kucoin, fees in USDT
		kucoin("k1", 2024, Buy, "ETH", 1, usdt(1000), usdt(10)),
		kucoin("k2", 2024, Sell, "ETH", 0.5, usdt(1170), usdt(5)),
	)
	cfg := DefaultConfig()
	cfg.StartYear = 2022
	as, err := NewAccountingSystem(ledger, cfg)
	if err != nil {
		t.Fatalf("NewAccountingSystem() failed: %v", err)
	}
	return as
}

func TestAccountingSystem_Profit(t *testing.T) {
	ctx := context.Background()
	as := setupAccountingTest(t)

	tests := []struct {
		symbol string
		year   int
		want   Money
	}{
		{"BTC", 2023, eur(10)},
		{"x", 2023, eur(52)},
		{"ETH", 2023, eur(0)},
		// (1170/1.17 - 1000/1.17) * 0.5
		{"ETH", 2024, M(decimal.RequireFromString("72.64957265"), EUR)},
		{"BTC", 2024, eur(0)},
	}
	for _, tt := range tests {
		got, err := as.ProfitFIFO(ctx, tt.symbol, tt.year)
		if err != nil {
			t.Fatalf("ProfitFIFO(%s, %d) unexpected error: %v", tt.symbol, tt.year, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ProfitFIFO(%s, %d) = %v, want %v", tt.symbol, tt.year, got.Decimal(), tt.want.Decimal())
		}
	}

	all, err := as.ProfitFIFOAll(ctx, 2023)
	if err != nil {
		t.Fatalf("ProfitFIFOAll() unexpected error: %v", err)
	}
	if want := eur(62); !all.Equal(want) {
		t.Errorf("ProfitFIFOAll(2023) = %v, want %v", all.Decimal(), want.Decimal())
	}

	total, err := as.TotalProfit(ctx)
	if err != nil {
		t.Fatalf("TotalProfit() unexpected error: %v", err)
	}
	if want := M(decimal.RequireFromString("134.64957265"), EUR); !total.Equal(want) {
		t.Errorf("TotalProfit() = %v, want %v", total.Decimal(), want.Decimal())
	}
}

func TestAccountingSystem_TotalProfitEmpty(t *testing.T) {
	as, err := NewAccountingSystem(NewLedger(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewAccountingSystem() failed: %v", err)
	}
	got, err := as.TotalProfit(context.Background())
	if err != nil {
		t.Fatalf("TotalProfit() unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("TotalProfit() = %v, want 0", got)
	}
}

func TestAccountingSystem_Holdings(t *testing.T) {
	ctx := context.Background()
	as := setupAccountingTest(t)

	tests := []struct {
		symbol string
		want   Quantity
	}{
		{"BTC", Q(0)},
		{"X", Q(3)}, // staking rewards are not part of the FIFO holdings
		{"eth", Q(0.5)},
		{"DOGE", Q(0)},
	}
	for _, tt := range tests {
		got, err := as.HoldingsFromSymbol(ctx, tt.symbol)
		if err != nil {
			t.Fatalf("HoldingsFromSymbol(%s) unexpected error: %v", tt.symbol, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("HoldingsFromSymbol(%s) = %v, want %v", tt.symbol, got, tt.want)
		}
	}

	// clamped at zero when oversold.
	if _, err := as.Create(ctx, trade("o1", day(9), Sell, "BTC", 1, eur(1))); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if got, _ := as.HoldingsFromSymbol(ctx, "BTC"); !got.IsZero() {
		t.Errorf("HoldingsFromSymbol(BTC) = %v, want 0", got)
	}

	all, err := as.Holdings(ctx)
	if err != nil {
		t.Fatalf("Holdings() unexpected error: %v", err)
	}
	want := map[string]Quantity{"BTC": Q(-1), "X": Q(4), "ETH": Q(0.5)}
	if len(all) != len(want) {
		t.Fatalf("Holdings() = %v, want %v", all, want)
	}
	for s, q := range want {
		if !all[s].Equal(q) {
			t.Errorf("Holdings()[%s] = %v, want %v", s, all[s], q)
		}
	}
}

func TestAccountingSystem_Fees(t *testing.T) {
	ctx := context.Background()
	as := setupAccountingTest(t)

	got, err := as.FeesFromSymbol(ctx, "ETH")
	if err != nil {
		t.Fatalf("FeesFromSymbol() unexpected error: %v", err)
	}
	if want := usd(15); !got.Equal(want) {
		t.Errorf("FeesFromSymbol(ETH) = %v, want %v", got, want)
	}

	total, err := as.TotalFees(ctx)
	if err != nil {
		t.Fatalf("TotalFees() unexpected error: %v", err)
	}
	// 10/1.17 + 5/1.17, each rounded
	if want := M(decimal.RequireFromString("12.82051282"), EUR); !total.Equal(want) {
		t.Errorf("TotalFees() = %v, want %v", total.Decimal(), want.Decimal())
	}
}

func TestAccountingSystem_Stats(t *testing.T) {
	ctx := context.Background()
	as := setupAccountingTest(t)

	n, err := as.TotalOfTrades(ctx)
	if err != nil {
		t.Fatalf("TotalOfTrades() unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("TotalOfTrades() = %d, want 7", n)
	}

	last, ok, err := as.LastTradeDate(ctx)
	if err != nil || !ok {
		t.Fatalf("LastTradeDate() = %v, %v, %v", last, ok, err)
	}
	if last != dateOf(2024) {
		t.Errorf("LastTradeDate() = %v, want %v", last, dateOf(2024))
	}

	symbols, _ := as.Symbols(ctx)
	if want := []string{"BTC", "ETH", "X"}; !reflect.DeepEqual(symbols, want) {
		t.Errorf("Symbols() = %v, want %v", symbols, want)
	}
	exchanges, _ := as.Exchanges(ctx)
	if want := []string{"kucoin", "test"}; !reflect.DeepEqual(exchanges, want) {
		t.Errorf("Exchanges() = %v, want %v", exchanges, want)
	}
	if n, _ := as.ExchangeTradeCount(ctx, "kucoin"); n != 2 {
		t.Errorf("ExchangeTradeCount(kucoin) = %d, want 2", n)
	}
	if d, ok, _ := as.ExchangeLastTradeDate(ctx, "test"); !ok || d != day(4) {
		t.Errorf("ExchangeLastTradeDate(test) = %v, want %v", d, day(4))
	}

	naive, err := as.NaiveProfitFromSymbol(ctx, "BTC")
	if err != nil {
		t.Fatalf("NaiveProfitFromSymbol() unexpected error: %v", err)
	}
	if want := usd(11.7); !naive.Equal(want) {
		t.Errorf("NaiveProfitFromSymbol(BTC) = %v, want %v", naive, want)
	}

	removed, err := as.RemoveFromCriteria(ctx, ByExchange("kucoin"))
	if err != nil || removed != 2 {
		t.Errorf("RemoveFromCriteria() = %d, %v, want 2", removed, err)
	}
}

func TestAccountingSystem_ProfitAbortsOnConversion(t *testing.T) {
	ledger := newTestLedger(t,
		trade("a1", day(1), Buy, "BTC", 1, M(1, Currency("GBP"))),
		trade("a2", day(2), Sell, "BTC", 1, eur(2)),
	)
	as, err := NewAccountingSystem(ledger, DefaultConfig())
	if err != nil {
		t.Fatalf("NewAccountingSystem() failed: %v", err)
	}
	if _, err := as.ProfitFIFOAll(context.Background(), 2023); !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("ProfitFIFOAll() error = %v, want %v", err, ErrUnsupportedConversion)
	}
}
