// Package prices looks up historical market prices.
package prices

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/etnz/cryptofolio"
	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// codeTooManyRequests is the Binance API error code of a rate limited call.
const codeTooManyRequests = -1003

// Binance reads close prices from the candlesticks of the Binance public
// market data API.
//
// Calls are rate limited and retried with an exponential backoff on transport
// errors and rate limit answers. Answers are memoized for the life of the
// value. Binance is safe for concurrent use.
type Binance struct {
	client  *binance.Client
	limiter *rate.Limiter
	backoff backoff.Backoff // template, copied for each call
	retries int

	mu    sync.Mutex
	known map[string]decimal.Decimal
}

// Option configures a Binance price lookup.
type Option func(*Binance)

// WithBaseURL sets the API endpoint, like "https://api.binance.com".
func WithBaseURL(url string) Option {
	return func(b *Binance) { b.client.BaseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient sets the http client used to reach the API.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Binance) { b.client.HTTPClient = c }
}

// WithAPIKey authenticates calls. Market data does not require it.
func WithAPIKey(key, secret string) Option {
	return func(b *Binance) { b.client.APIKey, b.client.SecretKey = key, secret }
}

// WithRateLimit sets the maximum number of calls per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(b *Binance) { b.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithRetries sets the number of retries and the bounds of the backoff
// between them.
func WithRetries(n int, min, max time.Duration) Option {
	return func(b *Binance) {
		b.retries = n
		b.backoff.Min, b.backoff.Max = min, max
	}
}

// NewBinance returns a price lookup on the Binance API.
func NewBinance(opts ...Option) *Binance {
	b := &Binance{
		client:  binance.NewClient("", ""),
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		backoff: backoff.Backoff{Min: 500 * time.Millisecond, Max: 10 * time.Second, Factor: 2, Jitter: true},
		retries: 3,
		known:   make(map[string]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ClosePrice returns the close price of pair, like "BNBUSDT", on the 5 minutes
// candle opening at atMillis.
//
// Errors are all wrapped with cryptofolio.ErrPriceLookup.
func (b *Binance) ClosePrice(ctx context.Context, pair string, atMillis int64) (decimal.Decimal, error) {
	pair = strings.ToUpper(pair)
	key := fmt.Sprintf("%s@%d", pair, atMillis)
	b.mu.Lock()
	p, ok := b.known[key]
	b.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := b.closePrice(ctx, pair, atMillis)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s at %v: %v", cryptofolio.ErrPriceLookup, pair, time.UnixMilli(atMillis).UTC(), err)
	}
	b.mu.Lock()
	b.known[key] = p
	b.mu.Unlock()
	return p, nil
}

func (b *Binance) closePrice(ctx context.Context, pair string, atMillis int64) (decimal.Decimal, error) {
	log := logrus.WithFields(logrus.Fields{"pair": pair, "at": atMillis})
	bo := b.backoff
	for attempt := 0; ; attempt++ {
		if err := b.limiter.Wait(ctx); err != nil {
			return decimal.Zero, err
		}
		klines, err := b.client.NewKlinesService().
			Symbol(pair).
			Interval("5m").
			StartTime(atMillis).
			Limit(1).
			Do(ctx)
		if err == nil {
			if len(klines) == 0 {
				return decimal.Zero, errors.New("no candle")
			}
			log.WithField("close", klines[0].Close).Debug("close price")
			return decimal.NewFromString(klines[0].Close)
		}
		if attempt >= b.retries || !retryable(err) {
			return decimal.Zero, err
		}
		d := bo.Duration()
		log.WithError(err).WithField("in", d).Warn("price lookup failed, retrying")
		select {
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		case <-time.After(d):
		}
	}
}

// retryable reports whether a failed call may succeed later. API errors are
// final except rate limiting and server errors, that carry no code.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == codeTooManyRequests || apiErr.Code == 0
	}
	return true
}
