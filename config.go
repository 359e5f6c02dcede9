package cryptofolio

import (
	"fmt"
	"strings"
)

// Config holds the settings the importers and the accounting system depend on.
type Config struct {
	// StartYear is the first year of the total profit rollup.
	StartYear int
	// QuoteAssets are the counter assets stripped from a trading pair to get
	// the traded symbol.
	QuoteAssets []string
	// SettlementAssets are the volatile assets an exchange may settle a trade
	// in. Such trades are expanded with a conversion trade.
	SettlementAssets []string
	// ConversionSuffix is appended to a transaction id to derive the id of its
	// conversion trade.
	ConversionSuffix string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		StartYear:        2021,
		QuoteAssets:      []string{"USDT", "USDC", "BUSD", "ETH", "BTC", "BNB"},
		SettlementAssets: []string{"BNB", "BTC", "ETH"},
		ConversionSuffix: "-conversion",
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.StartYear < 1970 || c.StartYear > 9999 {
		return fmt.Errorf("invalid start year %d", c.StartYear)
	}
	if c.ConversionSuffix == "" {
		return fmt.Errorf("empty conversion suffix")
	}
	return nil
}

// IsSettlementAsset reports whether asset is one of the settlement assets.
func (c Config) IsSettlementAsset(asset string) bool {
	for _, a := range c.SettlementAssets {
		if strings.EqualFold(a, asset) {
			return true
		}
	}
	return false
}
