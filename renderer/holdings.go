package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

// HoldingsMarkdown renders the balance of every asset.
func HoldingsMarkdown(r *cryptofolio.HoldingsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	if len(r.Holdings) == 0 {
		fmt.Fprintln(&b, "Nothing held.")
		return b.String()
	}
	table(&b, "<>>", "Symbol", "Amount", "Fees")
	for _, h := range r.Holdings {
		row(&b, h.Symbol, h.Amount, h.Fees)
	}
	return b.String()
}
