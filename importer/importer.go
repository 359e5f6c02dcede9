// Package importer normalizes exchange exports into canonical trades.
//
// Each supported exchange has a [Normalizer] turning one row of its CSV export
// into zero or more [cryptofolio.Trade]. [Import] reads a whole export, checks
// its header and stores the resulting trades.
package importer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	"github.com/shopspring/decimal"
)

var (
	// ErrHeaderMismatch is returned when an export does not have the header of its exchange.
	ErrHeaderMismatch = errors.New("header mismatch")
	// ErrUnknownExchange is returned for an exchange with no normalizer.
	ErrUnknownExchange = errors.New("unknown exchange")
)

// Record is one row of an export, by column name.
type Record map[string]string

// Normalizer maps the records of one exchange export into canonical trades.
type Normalizer interface {
	// Exchange returns the name of the exchange.
	Exchange() string
	// Header returns the expected header of the export, in order.
	Header() []string
	// Normalize returns the trades described by r. The header of r must have
	// been checked.
	Normalize(ctx context.Context, r Record) ([]cryptofolio.Trade, error)
}

// PriceLookup returns the close price of a pair, like "BNBUSDT", at a time.
type PriceLookup interface {
	ClosePrice(ctx context.Context, pair string, atMillis int64) (decimal.Decimal, error)
}

// factories of normalizers by exchange name.
var factories = map[string]func(cryptofolio.Config, PriceLookup) Normalizer{
	"binance":  func(c cryptofolio.Config, p PriceLookup) Normalizer { return &Binance{Config: c, Prices: p} },
	"kucoin":   func(c cryptofolio.Config, p PriceLookup) Normalizer { return &Kucoin{Config: c} },
	"gateio":   func(c cryptofolio.Config, p PriceLookup) Normalizer { return &GateIO{Config: c} },
	"coinbase": func(c cryptofolio.Config, p PriceLookup) Normalizer { return &Coinbase{Config: c} },
	"bitvavo":  func(c cryptofolio.Config, p PriceLookup) Normalizer { return &Bitvavo{} },
	"custom":   func(c cryptofolio.Config, p PriceLookup) Normalizer { return &Custom{} },
}

// Exchanges returns the names of the supported exchanges, sorted.
func Exchanges() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns the normalizer of an exchange. prices is only used by exchanges
// that settle trades in volatile assets and may be nil otherwise.
func New(exchange string, cfg cryptofolio.Config, prices PriceLookup) (Normalizer, error) {
	f, ok := factories[strings.ToLower(strings.TrimSpace(exchange))]
	if !ok {
		return nil, fmt.Errorf("%w: %q, want one of %s", ErrUnknownExchange, exchange, strings.Join(Exchanges(), ", "))
	}
	return f(cfg, prices), nil
}

// CheckHeader returns an ErrHeaderMismatch unless header is the header of n.
func CheckHeader(n Normalizer, header []string) error {
	want := n.Header()
	got := make([]string, len(header))
	for i, h := range header {
		got[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: %s export want %q, got %q", ErrHeaderMismatch, n.Exchange(), want, got)
	}
	return nil
}

// field returns a column of r.
func (r Record) field(name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("%w: missing column %q", cryptofolio.ErrMalformedRecord, name)
	}
	return strings.TrimSpace(v), nil
}

// amount parses a column holding a number, possibly decorated with thousands
// separators, a currency symbol or an asset code, like "1,234.5 USDT" or
// "0.5BTC". It returns the number and the trailing unit, uppercased.
func (r Record) amount(name string) (decimal.Decimal, string, error) {
	s, err := r.field(name)
	if err != nil {
		return decimal.Zero, "", err
	}
	d, unit, err := parseAmount(s)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("column %q: %w", name, err)
	}
	return d, unit, nil
}

// decimal parses a column holding a number, ignoring its unit.
func (r Record) decimal(name string) (decimal.Decimal, error) {
	d, _, err := r.amount(name)
	return d, err
}

// fee parses a column holding a fee, empty meaning none.
func (r Record) fee(name string) (decimal.Decimal, error) {
	if s, _ := r.field(name); s == "" {
		return decimal.Zero, nil
	}
	return r.decimal(name)
}

// date parses a column holding a date.
func (r Record) date(name string) (date.Date, error) {
	s, err := r.field(name)
	if err != nil {
		return date.Date{}, err
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: column %q: %v", cryptofolio.ErrMalformedRecord, name, err)
	}
	return d, nil
}

// action parses a column holding a side.
func (r Record) action(name string) (cryptofolio.Action, error) {
	s, err := r.field(name)
	if err != nil {
		return 0, err
	}
	return cryptofolio.ParseAction(s)
}

// parseAmount reads the number leading s, after an optional currency sign, and
// returns it with the unit following it, uppercased.
func parseAmount(s string) (decimal.Decimal, string, error) {
	start := strings.IndexFunc(s, func(r rune) bool { return unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' })
	if start < 0 {
		return decimal.Zero, "", fmt.Errorf("%w: invalid number %q", cryptofolio.ErrMalformedRecord, s)
	}
	end := numberEnd(s, start)
	unit := strings.ToUpper(strings.TrimSpace(s[end:]))
	clean := strings.NewReplacer(",", "", "\u00a0", "").Replace(s[start:end])
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: invalid number %q", cryptofolio.ErrMalformedRecord, s)
	}
	return d, unit, nil
}

// numberEnd returns the end of the number starting at s[start]: a sign,
// digits with '.' and ',' separators, and an exponent only when nothing but
// spaces follows it.
func numberEnd(s string, start int) int {
	i := start
	if s[i] == '-' || s[i] == '+' {
		i++
	}
	for i < len(s) {
		if c := s[i]; c >= '0' && c <= '9' || c == '.' || c == ',' {
			i++
		} else if strings.HasPrefix(s[i:], "\u00a0") {
			i += len("\u00a0")
		} else {
			break
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j && strings.TrimSpace(s[k:]) == "" {
			i = k
		}
	}
	return i
}

// amountOf parses a column holding an amount that may be suffixed with the
// traded symbol. The symbol is cut first: tickers like 1INCH hold digits the
// number would otherwise swallow.
func (r Record) amountOf(name, symbol string) (decimal.Decimal, string, error) {
	s, err := r.field(name)
	if err != nil {
		return decimal.Zero, "", err
	}
	n := len(s) - len(symbol)
	if symbol == "" || n <= 0 || !strings.EqualFold(s[n:], symbol) {
		return r.amount(name)
	}
	d, unit, err := parseAmount(s[:n])
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("column %q: %w", name, err)
	}
	if unit != "" {
		return decimal.Zero, "", fmt.Errorf("column %q: %w: invalid amount %q", name, cryptofolio.ErrMalformedRecord, s)
	}
	return d, strings.ToUpper(symbol), nil
}

// divide returns a/b, failing on a zero divisor.
func divide(a, b decimal.Decimal, what string) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero %s", cryptofolio.ErrMalformedRecord, what)
	}
	return a.Div(b), nil
}

// digest returns a stable transaction id for exports that have none.
func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// wrap adds the record context to a normalization error.
func wrap(exchange string, r Record, id string, err error) error {
	if id == "" {
		return fmt.Errorf("%s record %v: %w", exchange, map[string]string(r), err)
	}
	return fmt.Errorf("%s record %q: %w", exchange, id, err)
}
