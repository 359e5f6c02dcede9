package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cryptofolio"
)

// TradesMarkdown renders a list of trades, in the given order.
func TradesMarkdown(title string, trades []cryptofolio.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(trades) == 0 {
		fmt.Fprintln(&b, "No trades.")
		return b.String()
	}
	table(&b, "<<^<>>>>", "Date", "Exchange", "Action", "Symbol", "Amount", "Price", "Fee", "Total")
	for _, t := range trades {
		row(&b,
			t.Date(),
			t.Exchange().Name,
			t.Action(),
			t.Symbol(),
			t.Amount(),
			t.Price(),
			t.Fee(),
			t.Total(),
		)
	}
	fmt.Fprintf(&b, "\n%d trades.\n", len(trades))
	return b.String()
}

// MatchesMarkdown renders the lot matching of a FIFO pass.
func MatchesMarkdown(w io.Writer, res cryptofolio.FIFOResult) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Matches\n\n")
		table(w, "<<>>>>", "Bought", "Sold", "Amount", "Buy (EUR)", "Sell (EUR)", "Profit (EUR)")
		for _, m := range res.Matches {
			row(w,
				m.Buy.Date().DayString(),
				m.Sell.Date().DayString(),
				m.Amount,
				m.BuyPrice.StringFixed(2),
				m.SellPrice.StringFixed(2),
				m.Profit().StringFixed(2),
			)
		}
		fmt.Fprintln(w)
		return len(res.Matches) > 0
	})
}
