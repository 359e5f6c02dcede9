package prices

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

const kline = `[[1678786200000,"300.1","301.5","299.8","300.7","1234.5",1678786499999,"370000.1",420,"600.2","180000.3","0"]]`

// binanceServer serves klines with handler and counts the calls.
func binanceServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int32)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			http.NotFound(w, r)
			return
		}
		handler(w, r, calls.Add(1))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestBinance(srv *httptest.Server, opts ...Option) *Binance {
	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000, 10),
		WithRetries(2, time.Millisecond, 5*time.Millisecond),
	}, opts...)
	return NewBinance(opts...)
}

func TestBinance_ClosePrice(t *testing.T) {
	srv, calls := binanceServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		q := r.URL.Query()
		if q.Get("symbol") != "BNBUSDT" || q.Get("interval") != "5m" || q.Get("limit") != "1" || q.Get("startTime") != "1678786215000" {
			t.Errorf("unexpected query %v", q)
		}
		fmt.Fprint(w, kline)
	})
	b := newTestBinance(srv)

	got, err := b.ClosePrice(context.Background(), "bnbusdt", 1678786215000)
	if err != nil {
		t.Fatalf("ClosePrice() unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("300.7"); !got.Equal(want) {
		t.Errorf("ClosePrice() = %v, want %v", got, want)
	}

	// memoized
	if _, err := b.ClosePrice(context.Background(), "BNBUSDT", 1678786215000); err != nil {
		t.Fatalf("ClosePrice() unexpected error: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestBinance_Retry(t *testing.T) {
	srv, calls := binanceServer(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		if call == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"code":-1003,"msg":"Too many requests."}`)
			return
		}
		fmt.Fprint(w, kline)
	})
	b := newTestBinance(srv)

	got, err := b.ClosePrice(context.Background(), "BNBUSDT", 1678786215000)
	if err != nil {
		t.Fatalf("ClosePrice() unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("300.7")) {
		t.Errorf("ClosePrice() = %v, want 300.7", got)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server called %d times, want 2", n)
	}
}

func TestBinance_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{"invalid symbol", http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`, 1},
		{"no candle", http.StatusOK, `[]`, 1},
		{"rate limited", http.StatusTooManyRequests, `{"code":-1003,"msg":"Too many requests."}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := binanceServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			b := newTestBinance(srv)
			_, err := b.ClosePrice(context.Background(), "XYZUSDT", 1678786215000)
			if !errors.Is(err, cryptofolio.ErrPriceLookup) {
				t.Errorf("ClosePrice() error = %v, want %v", err, cryptofolio.ErrPriceLookup)
			}
			if n := calls.Load(); n != tt.wantCalls {
				t.Errorf("server called %d times, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestBinance_Canceled(t *testing.T) {
	srv, _ := binanceServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		fmt.Fprint(w, kline)
	})
	b := newTestBinance(srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.ClosePrice(ctx, "BNBUSDT", 1678786215000); !errors.Is(err, cryptofolio.ErrPriceLookup) {
		t.Errorf("ClosePrice() error = %v, want %v", err, cryptofolio.ErrPriceLookup)
	}
}
