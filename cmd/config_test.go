package cmd

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestReadSettings(t *testing.T) {
	env := map[string]string{
		"CFL_START_YEAR":        "2020",
		"CFL_QUOTE_ASSETS":      "usdt, eur ,",
		"CFL_SETTLEMENT_ASSETS": "bnb",
		"CFL_LEDGER_FILE":       "ledger.jsonl",
		"CFL_STORE":             "sqlite3://trades.db",
		"CFL_LOG_LEVEL":         "debug",
		"BINANCE_API_KEY":       "key",
	}
	s, err := ReadSettings(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("ReadSettings() unexpected error: %v", err)
	}
	if s.Config.StartYear != 2020 {
		t.Errorf("StartYear = %d, want 2020", s.Config.StartYear)
	}
	if want := []string{"USDT", "EUR"}; !slices.Equal(s.Config.QuoteAssets, want) {
		t.Errorf("QuoteAssets = %v, want %v", s.Config.QuoteAssets, want)
	}
	if want := []string{"BNB"}; !slices.Equal(s.Config.SettlementAssets, want) {
		t.Errorf("SettlementAssets = %v, want %v", s.Config.SettlementAssets, want)
	}
	if s.LedgerFile != "ledger.jsonl" || s.Store != "sqlite3://trades.db" || s.LogLevel != "debug" || s.BinanceKey != "key" {
		t.Errorf("ReadSettings() = %+v", s)
	}
	// untouched values keep their default.
	if s.PriceCache != DefaultSettings().PriceCache {
		t.Errorf("PriceCache = %q, want %q", s.PriceCache, DefaultSettings().PriceCache)
	}
}

func TestReadSettings_Errors(t *testing.T) {
	tests := []struct {
		name string
		year string
	}{
		{"not a number", "twenty"},
		{"out of range", "1900"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string {
				if k == "CFL_START_YEAR" {
					return tt.year
				}
				return ""
			}
			if _, err := ReadSettings(getenv); err == nil {
				t.Errorf("ReadSettings() with CFL_START_YEAR=%q, want error", tt.year)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("CFL_TEST_LOAD_ENV=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("CFL_TEST_LOAD_ENV") })

	if err := LoadEnv(filepath.Join(dir, "missing.env"), file); err != nil {
		t.Fatalf("LoadEnv() unexpected error: %v", err)
	}
	if got := os.Getenv("CFL_TEST_LOAD_ENV"); got != "loaded" {
		t.Errorf("CFL_TEST_LOAD_ENV = %q, want %q", got, "loaded")
	}
}
