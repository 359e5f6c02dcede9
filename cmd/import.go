package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/importer"
	"github.com/etnz/cryptofolio/prices"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

type importCmd struct {
	exchange string
	lenient  bool
	comma    string
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "import the trades of exchange CSV exports"
}
func (*importCmd) Usage() string {
	return `cfl import -exchange <name> [-lenient] [-comma <c>] <file.csv>...

  Reads the CSV exports of an exchange and adds their trades to the ledger.
  Trades already imported are skipped, so an export can be imported again.

  Supported exchanges: ` + strings.Join(importer.Exchanges(), ", ") + `

  Binance trades settled in BNB, BTC or ETH need the close price of the
  settlement asset, fetched from the Binance API and cached in $CFL_PRICE_CACHE.

Example:
  cfl import -exchange binance binance-2023.csv binance-2024.csv
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exchange, "exchange", "", "Exchange of the exports (required)")
	f.BoolVar(&c.lenient, "lenient", false, "Skip the rows that cannot be imported instead of stopping")
	f.StringVar(&c.comma, "comma", ",", "Field delimiter of the exports, 'tab' for tabulations")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.exchange == "" {
		fmt.Fprintln(os.Stderr, "Error: -exchange is required")
		return subcommands.ExitUsageError
	}
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one file is required")
		return subcommands.ExitUsageError
	}
	comma, err := parseComma(c.comma)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	lookup := prices.NewBinance(
		prices.WithHTTPClient(prices.NewCachedClient(settings.PriceCache)),
		prices.WithAPIKey(settings.BinanceKey, settings.BinanceSecret),
	)
	n, err := importer.New(c.exchange, settings.Config, lookup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	as, commit, err := openAccounting(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := importer.Options{Lenient: c.lenient, Comma: comma}
	var errs []error
	for _, file := range f.Args() {
		stats, err := importFile(ctx, file, n, as.Store, opts)
		fmt.Fprintf(stdout, "%s: %v\n", file, stats)
		if err != nil {
			// the trades before the error are kept.
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			break
		}
	}
	if err := commit(true); err != nil {
		errs = append(errs, fmt.Errorf("could not save the ledger: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func importFile(ctx context.Context, file string, n importer.Normalizer, store cryptofolio.Store, opts importer.Options) (importer.Stats, error) {
	r, err := os.Open(file)
	if err != nil {
		return importer.Stats{}, err
	}
	defer r.Close()
	stats, err := importer.Import(ctx, r, n, store, opts)
	logrus.WithFields(logrus.Fields{"file": file, "exchange": n.Exchange()}).Info(stats)
	return stats, err
}

// parseComma returns the delimiter rune of s.
func parseComma(s string) (rune, error) {
	if s == "tab" || s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("invalid delimiter %q, want a single character", s)
	}
	return r, nil
}
