package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/joho/godotenv"
)

// Settings is the configuration of the application.
type Settings struct {
	LedgerFile    string // CFL_LEDGER_FILE
	Store         string // CFL_STORE, SQL store DSN, the ledger file is used when empty
	LogLevel      string // CFL_LOG_LEVEL
	LogFile       string // CFL_LOG_FILE, logs go to stderr when empty
	PriceCache    string // CFL_PRICE_CACHE, directory of the candles cache
	BinanceKey    string // BINANCE_API_KEY
	BinanceSecret string // BINANCE_API_SECRET
	Config        cryptofolio.Config
}

// DefaultSettings returns the settings used when the environment is empty.
func DefaultSettings() Settings {
	return Settings{
		LedgerFile: "trades.jsonl",
		LogLevel:   "warn",
		PriceCache: ".cfl-cache",
		Config:     cryptofolio.DefaultConfig(),
	}
}

// LoadEnv loads the .env files, if they exist, into the environment. Variables
// already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s file: %w", file, err)
		}
	}
	return nil
}

// ReadSettings reads the settings from the environment.
func ReadSettings(getenv func(string) string) (Settings, error) {
	s := DefaultSettings()
	str := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	list := func(dst *[]string, key string) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		var items []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.ToUpper(strings.TrimSpace(item)); item != "" {
				items = append(items, item)
			}
		}
		*dst = items
	}

	str(&s.LedgerFile, "CFL_LEDGER_FILE")
	str(&s.Store, "CFL_STORE")
	str(&s.LogLevel, "CFL_LOG_LEVEL")
	str(&s.LogFile, "CFL_LOG_FILE")
	str(&s.PriceCache, "CFL_PRICE_CACHE")
	str(&s.BinanceKey, "BINANCE_API_KEY")
	str(&s.BinanceSecret, "BINANCE_API_SECRET")
	str(&s.Config.ConversionSuffix, "CFL_CONVERSION_SUFFIX")
	list(&s.Config.QuoteAssets, "CFL_QUOTE_ASSETS")
	list(&s.Config.SettlementAssets, "CFL_SETTLEMENT_ASSETS")

	if v := strings.TrimSpace(getenv("CFL_START_YEAR")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, fmt.Errorf("CFL_START_YEAR: invalid year %q: %w", v, err)
		}
		s.Config.StartYear = year
	}
	if err := s.Config.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}
