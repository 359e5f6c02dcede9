package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the balance of every asset" }
func (*holdingsCmd) Usage() string {
	return `cfl holdings

  Displays the balance of every asset still held, with the fees paid on it.
`
}
func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (*holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer commit(false)

	r, err := as.NewHoldingsReport(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingsMarkdown(r))
	return subcommands.ExitSuccess
}

type profitCmd struct {
	year    int
	symbols string
	matches bool
}

func (*profitCmd) Name() string     { return "profit" }
func (*profitCmd) Synopsis() string { return "display the realized FIFO profit of a year" }
func (*profitCmd) Usage() string {
	return `cfl profit [-year <year>] [-symbol <list>] [-matches]

  Displays the profit realized by the sells of a year, per asset, in EUR.
  Sells are matched to the buys of the same year, first in first out.
  The year defaults to the year of the last trade.

Example:
  cfl profit -year 2023
  cfl profit -year 2023 -symbol BTC -matches
`
}

func (c *profitCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Year of the sells")
	f.StringVar(&c.symbols, "symbol", "", "Comma separated list of assets, all by default")
	f.BoolVar(&c.matches, "matches", false, "Display the buy and sell matches of a single asset")
}

func (c *profitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := splitList(c.symbols)
	if c.matches && len(symbols) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -matches requires a single -symbol")
		return subcommands.ExitUsageError
	}
	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer commit(false)

	year := c.year
	if year == 0 {
		last, ok, err := as.LastTradeDate(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading the ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		year = time.Now().Year()
		if ok {
			year = last.Year()
		}
	}

	r, err := as.NewProfitReport(ctx, year, symbols...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing profit: %v\n", err)
		return subcommands.ExitFailure
	}
	var md strings.Builder
	md.WriteString(renderer.ProfitMarkdown(r))
	if c.matches {
		res, err := as.FIFO(ctx, symbols[0], year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing profit: %v\n", err)
			return subcommands.ExitFailure
		}
		md.WriteString("\n")
		renderer.MatchesMarkdown(&md, res)
	}
	printMarkdown(md.String())
	return subcommands.ExitSuccess
}

type exchangesCmd struct{}

func (*exchangesCmd) Name() string     { return "exchanges" }
func (*exchangesCmd) Synopsis() string { return "list the exchanges trades were imported from" }
func (*exchangesCmd) Usage() string {
	return `cfl exchanges

  Lists the exchanges in the ledger with their number of trades and the date
  of their last trade.
`
}
func (*exchangesCmd) SetFlags(*flag.FlagSet) {}

func (*exchangesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer commit(false)

	r, err := as.NewExchangeReport(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing exchanges: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ExchangesMarkdown(r))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a summary of the ledger" }
func (*summaryCmd) Usage() string {
	return `cfl summary

  Displays the number of trades, assets and exchanges, the fees paid and the
  realized profit of every year since $CFL_START_YEAR.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer commit(false)

	s, err := as.NewSummary(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the summary: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}
