package cryptofolio

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Store is a deduplicating, append-only collection of trades.
//
// Implementations must make Insert atomic with respect to the natural key
// check: two concurrent inserts of the same trade store it once.
type Store interface {
	// Insert stores t unless a trade with the same natural key is already
	// present. It reports whether t was inserted.
	Insert(ctx context.Context, t Trade) (bool, error)
	// Find returns the trades matching c, ordered by sort (by default
	// ascending date.timestamp).
	Find(ctx context.Context, c Criteria, sort ...Sort) ([]Trade, error)
	// Remove deletes every trade matching c and returns how many were removed.
	Remove(ctx context.Context, c Criteria) (int, error)
	// Distinct returns the sorted set of values of a field across all trades.
	Distinct(ctx context.Context, field string) ([]string, error)
}

// Criteria maps a field path of the persisted trade shape (like
// "order.symbol", "date.year" or "action.code") to the value it must equal,
// or to an In set.
//
// The empty Criteria matches every trade.
type Criteria map[string]any

// In matches a field equal to any of its values.
type In []any

// Field paths used by the accounting system.
const (
	FieldSymbol       = "order.symbol"
	FieldAmount       = "order.amount"
	FieldYear         = "date.year"
	FieldTimestamp    = "date.timestamp"
	FieldAction       = "action.code"
	FieldExchangeID   = "exchange.id"
	FieldExchangeName = "exchange.name"
	FieldTransaction  = "exchange.transaction"
)

// Sort orders the result of a Find on a field path.
type Sort struct {
	Field string
	Desc  bool
}

// ByTimestamp is the default ordering.
var ByTimestamp = Sort{Field: FieldTimestamp}

// BySymbol returns the criteria matching an asset, case-insensitive.
func BySymbol(symbol string) Criteria {
	return Criteria{FieldSymbol: strings.ToUpper(strings.TrimSpace(symbol))}
}

// ByExchange returns the criteria matching trades of a platform.
func ByExchange(name string) Criteria { return Criteria{FieldExchangeName: name} }

// With returns a copy of c with one more condition.
func (c Criteria) With(field string, value any) Criteria {
	n := make(Criteria, len(c)+1)
	for k, v := range c {
		n[k] = v
	}
	n[field] = value
	return n
}

func (c Criteria) String() string {
	if len(c) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(c))
	for _, k := range sortedKeys(c) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c[k]))
	}
	return strings.Join(parts, ",")
}

// Values returns the acceptable values of field for a condition, as strings.
func Values(field string, v any) []string {
	if in, ok := v.(In); ok {
		out := make([]string, 0, len(in))
		for _, x := range in {
			out = append(out, Value(field, x))
		}
		return out
	}
	return []string{Value(field, v)}
}

// Value returns the string a value of field compares as. Strings of text
// fields, like ids or symbols, compare as written; everything else is
// normalized.
func Value(field string, v any) string {
	if s, ok := v.(string); ok && !numeric(field) {
		return s
	}
	return Normalize(v)
}

// numeric reports whether field holds a number.
func numeric(field string) bool {
	switch field {
	case FieldAmount, FieldAction:
		return true
	}
	return strings.HasPrefix(field, "date.") || strings.HasSuffix(field, ".amount") || strings.HasSuffix(field, ".code")
}

// Normalize returns the canonical string of a criteria value or of a value
// read from a persisted trade, so that 2, "2", 2.0 and Q(2) compare equal.
func Normalize(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if d, err := decimal.NewFromString(x); err == nil {
			return d.String()
		}
		return x
	case Action:
		return strconv.Itoa(x.Code())
	case Currency:
		return string(x)
	case Quantity:
		return x.value.String()
	case decimal.Decimal:
		return x.String()
	case interface{ String() string }:
		return Normalize(x.String())
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case float32, float64:
		return decimal.NewFromFloat(toFloat(x)).String()
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func toFloat(v any) float64 {
	if f, ok := v.(float32); ok {
		return float64(f)
	}
	return v.(float64)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
