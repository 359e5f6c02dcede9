package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type tradesCmd struct {
	filter filterFlags
	desc   bool
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the trades in the ledger" }
func (*tradesCmd) Usage() string {
	return `cfl trades [-symbol <list>] [-exchange <name>] [-year <year>] [-action <action>] [-desc]

  Lists the trades matching all the filters, oldest first.

Example:
  cfl trades -symbol BTC,ETH -year 2024 -action sell
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	c.filter.SetFlags(f)
	f.BoolVar(&c.desc, "desc", false, "List the most recent trades first")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	criteria, err := c.filter.criteria()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer commit(false)

	trades, err := as.Store.Find(ctx, criteria, cryptofolio.Sort{Field: cryptofolio.FieldTimestamp, Desc: c.desc})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.TradesMarkdown("Trades", trades))
	return subcommands.ExitSuccess
}
