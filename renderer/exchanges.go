package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

// ExchangesMarkdown renders the platforms trades were imported from.
func ExchangesMarkdown(r *cryptofolio.ExchangeReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Exchanges\n\n")
	if len(r.Exchanges) == 0 {
		fmt.Fprintln(&b, "No trades imported yet.")
		return b.String()
	}
	table(&b, "<>^", "Exchange", "Trades", "Last Trade")
	for _, e := range r.Exchanges {
		row(&b, e.Name, e.Trades, day(e.LastTrade))
	}
	return b.String()
}
