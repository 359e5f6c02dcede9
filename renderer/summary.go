package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cryptofolio"
)

// SummaryMarkdown renders the overview of the ledger.
func SummaryMarkdown(s *cryptofolio.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary\n\n")
	fmt.Fprintf(&b, "- Trades: %d\n", s.Trades)
	fmt.Fprintf(&b, "- Assets: %d\n", s.Symbols)
	fmt.Fprintf(&b, "- Exchanges: %d\n", s.Exchanges)
	fmt.Fprintf(&b, "- Last trade: %s\n", day(s.LastTrade))
	fmt.Fprintf(&b, "- Fees: %s\n", s.TotalFees)
	fmt.Fprintf(&b, "- Realized profit: %s\n", s.TotalProfit.SignedString())

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n## Profit per Year\n\n")
		table(w, "<>", "Year", "Profit")
		for _, y := range s.Years {
			row(w, y.Year, y.Profit.SignedString())
		}
		return len(s.Years) > 0
	})
	return b.String()
}
