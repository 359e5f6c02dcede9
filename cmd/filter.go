package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/cryptofolio"
)

// filterFlags selects trades from the command line.
type filterFlags struct {
	symbols     string
	exchange    string
	action      string
	transaction string
	year        int
}

func (ff *filterFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&ff.symbols, "symbol", "", "Comma separated list of assets, like BTC,ETH")
	f.StringVar(&ff.exchange, "exchange", "", "Exchange name")
	f.StringVar(&ff.action, "action", "", "Action (buy, sell or staking)")
	f.StringVar(&ff.transaction, "transaction", "", "Transaction ID on the exchange")
	f.IntVar(&ff.year, "year", 0, "Year of the trades")
}

// criteria returns the criteria of the flags. It is empty when no flag is set.
func (ff *filterFlags) criteria() (cryptofolio.Criteria, error) {
	c := cryptofolio.Criteria{}
	if symbols := splitList(ff.symbols); len(symbols) > 0 {
		in := make(cryptofolio.In, len(symbols))
		for i, s := range symbols {
			in[i] = s
		}
		c[cryptofolio.FieldSymbol] = in
	}
	if ff.exchange != "" {
		c[cryptofolio.FieldExchangeName] = strings.ToLower(ff.exchange)
	}
	if ff.action != "" {
		a, err := cryptofolio.ParseAction(ff.action)
		if err != nil {
			return nil, err
		}
		c[cryptofolio.FieldAction] = a.Code()
	}
	if ff.transaction != "" {
		c[cryptofolio.FieldTransaction] = ff.transaction
	}
	if ff.year != 0 {
		c[cryptofolio.FieldYear] = ff.year
	}
	return c, nil
}

// splitList splits a comma separated list of symbols.
func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.ToUpper(strings.TrimSpace(item)); item != "" {
			list = append(list, item)
		}
	}
	return list
}
