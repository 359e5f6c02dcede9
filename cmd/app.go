// Package cmd implements the CLI application to import crypto trades and
// report on them.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/sqlstore"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "trades")
	c.Register(&tradesCmd{}, "trades")
	c.Register(&removeCmd{}, "trades")

	c.Register(&holdingsCmd{}, "reports")
	c.Register(&profitCmd{}, "reports")
	c.Register(&exchangesCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")

	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format). Defaults to $CFL_LEDGER_FILE or trades.jsonl")
var storeDSN = flag.String("store", "", "SQL store instead of the ledger file, like postgres://user@host/db or sqlite3://trades.db. Defaults to $CFL_STORE")
var outputFormat = flag.String("format", "term", "Output format of reports: term, md or html")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error). Defaults to $CFL_LOG_LEVEL or warn")

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// settings are read by Setup.
var settings = DefaultSettings()

// Setup reads the configuration from the environment and a .env file, applies
// the global flags and configures logging. It must be called after the flags
// are parsed.
func Setup() error {
	if err := LoadEnv(); err != nil {
		return err
	}
	s, err := ReadSettings(os.Getenv)
	if err != nil {
		return err
	}
	if *ledgerFile != "" {
		s.LedgerFile = *ledgerFile
	}
	if *storeDSN != "" {
		s.Store = *storeDSN
	}
	if *logLevel != "" {
		s.LogLevel = *logLevel
	}
	if err := setupLogging(s.LogLevel, s.LogFile); err != nil {
		return err
	}
	settings = s
	return nil
}

// openStore opens the trade store: the SQL database when a store is
// configured, the ledger file otherwise. commit must be called once done,
// with true to persist the changes.
func openStore(ctx context.Context, s Settings) (store cryptofolio.Store, commit func(save bool) error, err error) {
	if s.Store == "" {
		ledger, err := cryptofolio.LoadLedger(s.LedgerFile)
		if err != nil {
			return nil, nil, err
		}
		return ledger, func(save bool) error {
			if !save {
				return nil
			}
			return cryptofolio.SaveLedger(s.LedgerFile, ledger)
		}, nil
	}

	driver, dsn, err := parseDSN(s.Store)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, func(bool) error { return db.Close() }, nil
}

// parseDSN returns the driver and the data source name of a store.
func parseDSN(store string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(store, "postgres://"), strings.HasPrefix(store, "postgresql://"):
		return sqlstore.Postgres, store, nil
	case strings.HasPrefix(store, "sqlite3://"):
		return sqlstore.SQLite, strings.TrimPrefix(store, "sqlite3://"), nil
	}
	return "", "", fmt.Errorf("unsupported store %q, want postgres://... or sqlite3://...", store)
}

// openAccounting opens the store and the accounting system on it.
func openAccounting(ctx context.Context) (*cryptofolio.AccountingSystem, func(save bool) error, error) {
	store, commit, err := openStore(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	as, err := cryptofolio.NewAccountingSystem(store, settings.Config)
	if err != nil {
		return nil, nil, errors.Join(err, commit(false))
	}
	return as, commit, nil
}
