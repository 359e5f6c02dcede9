package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

// ProfitMarkdown renders the realized profit of a year per asset.
func ProfitMarkdown(r *cryptofolio.ProfitReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Realized Profit %d (FIFO)\n\n", r.Year)
	if len(r.Symbols) == 0 {
		fmt.Fprintln(&b, "No sells this year.")
		return b.String()
	}
	table(&b, "<>>", "Symbol", "Profit", "Sells - Buys")
	oversold := false
	for _, p := range r.Symbols {
		symbol := p.Symbol
		if p.Oversold {
			symbol += " *"
			oversold = true
		}
		row(&b, symbol, p.Profit.SignedString(), p.Naive.SignedString())
	}
	row(&b, "**Total**", "**"+r.Total.SignedString()+"**", "")
	if oversold {
		fmt.Fprintf(&b, "\n\\* some sells exceed the buys of the year, the excess is not counted.\n")
	}
	return b.String()
}
