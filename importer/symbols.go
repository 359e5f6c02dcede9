package importer

import (
	"slices"
	"strings"
)

// SplitPair strips the counter asset of a trading pair, like "BTC/USDT",
// "btc-usdt" or "BTCUSDT", using the known quote assets. Matching is case
// insensitive, the longest quote wins. A pair that cannot be split is returned
// unchanged, with an empty quote.
func SplitPair(pair string, quotes []string) (symbol, quote string) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if i := strings.IndexAny(p, "/-_"); i > 0 {
		base, q := p[:i], p[i+1:]
		if slices.ContainsFunc(quotes, func(s string) bool { return strings.EqualFold(s, q) }) {
			return base, q
		}
		return pair, ""
	}

	sorted := slices.Clone(quotes)
	slices.SortStableFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	for _, q := range sorted {
		q = strings.ToUpper(q)
		if len(p) > len(q) && strings.HasSuffix(p, q) {
			return p[:len(p)-len(q)], q
		}
	}
	return pair, ""
}
