package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type removeCmd struct {
	filter filterFlags
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove trades from the ledger" }
func (*removeCmd) Usage() string {
	return `cfl remove [-symbol <list>] [-exchange <name>] [-year <year>] [-action <action>] [-transaction <id>]

  Removes the trades matching all the filters. At least one filter is required.

Example:
  cfl remove -exchange kucoin -year 2022
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) { c.filter.SetFlags(f) }

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	criteria, err := c.filter.criteria()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if len(criteria) == 0 {
		fmt.Fprintln(os.Stderr, "Error: refusing to remove every trade, set at least one filter")
		return subcommands.ExitUsageError
	}

	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	n, err := as.RemoveFromCriteria(ctx, criteria)
	if err != nil {
		commit(false)
		fmt.Fprintf(os.Stderr, "Error removing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := commit(n > 0); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%d trades removed\n", n)
	return subcommands.ExitSuccess
}
