package cryptofolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger is the in-memory Store.
//
// Criteria, sorts and distinct values are evaluated with JSONPath against the
// persisted shape of each trade, so any field of that shape can be queried.
type Ledger struct {
	mu     sync.RWMutex
	trades []Trade
	docs   []any       // persisted JSON document of trades[i]
	keys   map[Key]int // natural key to index in trades

	pathsMu sync.Mutex
	paths   map[string]gval.Evaluable // compiled field paths
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		keys:  make(map[Key]int),
		paths: make(map[string]gval.Evaluable),
	}
}

var _ Store = (*Ledger)(nil)

// Len returns the number of trades in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// Trades returns every trade in insertion order.
func (l *Ledger) Trades() []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.trades)
}

// Insert appends t unless a trade with the same natural key is already in the
// ledger.
func (l *Ledger) Insert(ctx context.Context, t Trade) (bool, error) {
	doc, err := document(t)
	if err != nil {
		return false, err
	}
	k := t.Key()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.keys[k]; exists {
		logrus.WithField("key", k).Debug("trade already in ledger")
		return false, nil
	}
	l.keys[k] = len(l.trades)
	l.trades = append(l.trades, t)
	l.docs = append(l.docs, doc)
	logrus.WithField("key", k).Debug("trade inserted")
	return true, nil
}

// Find returns the trades matching c. Ties keep insertion order.
func (l *Ledger) Find(ctx context.Context, c Criteria, sorts ...Sort) ([]Trade, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, err := l.match(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(sorts) == 0 {
		sorts = []Sort{ByTimestamp}
	}

	// evaluate the sort keys once.
	keys := make([][]string, len(idx))
	for i, ti := range idx {
		keys[i] = make([]string, len(sorts))
		for j, s := range sorts {
			v, _, err := l.value(ctx, s.Field, l.docs[ti])
			if err != nil {
				return nil, err
			}
			keys[i][j] = v
		}
	}
	order := make([]int, len(idx))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for j, s := range sorts {
			c := compareValues(keys[order[a]][j], keys[order[b]][j])
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	res := make([]Trade, 0, len(idx))
	for _, o := range order {
		res = append(res, l.trades[idx[o]])
	}
	return res, nil
}

// Remove deletes all the trades matching c.
func (l *Ledger) Remove(ctx context.Context, c Criteria) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.match(ctx, c)
	if err != nil {
		return 0, err
	}
	if len(idx) == 0 {
		return 0, nil
	}
	removed := make(map[int]bool, len(idx))
	for _, i := range idx {
		removed[i] = true
	}
	trades := make([]Trade, 0, len(l.trades)-len(idx))
	docs := make([]any, 0, len(l.trades)-len(idx))
	keys := make(map[Key]int, len(l.trades)-len(idx))
	for i, t := range l.trades {
		if removed[i] {
			continue
		}
		keys[t.Key()] = len(trades)
		trades = append(trades, t)
		docs = append(docs, l.docs[i])
	}
	l.trades, l.docs, l.keys = trades, docs, keys
	logrus.WithFields(logrus.Fields{"criteria": c.String(), "removed": len(idx)}).Info("trades removed")
	return len(idx), nil
}

// Distinct returns the sorted set of values of field.
func (l *Ledger) Distinct(ctx context.Context, field string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	set := make(map[string]bool)
	for _, doc := range l.docs {
		v, ok, err := l.value(ctx, field, doc)
		if err != nil {
			return nil, err
		}
		if ok {
			set[v] = true
		}
	}
	values := sortedKeys(set)
	slices.SortStableFunc(values, compareValues)
	return values, nil
}

// match returns the indexes of the trades matching c, in insertion order.
func (l *Ledger) match(ctx context.Context, c Criteria) ([]int, error) {
	fields := sortedKeys(c)
	accepted := make(map[string][]string, len(c))
	for _, f := range fields {
		accepted[f] = Values(f, c[f])
	}

	var idx []int
	for i, doc := range l.docs {
		ok := true
		for _, f := range fields {
			v, found, err := l.value(ctx, f, doc)
			if err != nil {
				return nil, err
			}
			if !found || !slices.Contains(accepted[f], v) {
				ok = false
				break
			}
		}
		if ok {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// value evaluates a field path against a persisted document. It reports false
// when the document does not have that field.
func (l *Ledger) value(ctx context.Context, field string, doc any) (string, bool, error) {
	ev, err := l.path(field)
	if err != nil {
		return "", false, err
	}
	v, err := ev(ctx, doc)
	if err != nil {
		// unknown keys are reported as errors by jsonpath.
		return "", false, nil
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return "", false, nil
		}
		v = list[0]
	}
	return Value(field, v), true, nil
}

// path returns the compiled JSONPath of field.
func (l *Ledger) path(field string) (gval.Evaluable, error) {
	l.pathsMu.Lock()
	defer l.pathsMu.Unlock()
	if ev, ok := l.paths[field]; ok {
		return ev, nil
	}
	ev, err := jsonpath.New("$." + field)
	if err != nil {
		return nil, fmt.Errorf("invalid field %q: %w", field, err)
	}
	l.paths[field] = ev
	return ev, nil
}

// compareValues orders numbers numerically and everything else lexically.
func compareValues(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// document returns the persisted JSON shape of t, as generic values.
func document(t Trade) (any, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trade %v: %w", t.Key(), err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode trade %v: %w", t.Key(), err)
	}
	return doc, nil
}
