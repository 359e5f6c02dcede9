package cryptofolio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes trades from a stream of JSONL data, one trade per
// line, and returns them in a Ledger. Duplicated lines are dropped.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var t Trade
		if err := json.Unmarshal(lineBytes, &t); err != nil {
			return nil, fmt.Errorf("line %d: could not decode trade %q: %w", line, string(lineBytes), err)
		}
		if _, err := ledger.Insert(context.Background(), t); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// EncodeTrade marshals a single trade to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeTrade(w io.Writer, t Trade) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal trade %v: %w", t.Key(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write trade: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger to w in JSONL format, ordered by date. The
// sort is stable, trades at the same second keep their insertion order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	trades := ledger.Trades()
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date().Before(trades[j].Date())
	})
	for _, t := range trades {
		if err := EncodeTrade(w, t); err != nil {
			return err
		}
	}
	return nil
}

// LoadLedger reads a ledger file. A missing file is an empty ledger.
func LoadLedger(file string) (*Ledger, error) {
	f, err := os.Open(file)
	if os.IsNotExist(err) {
		logrus.WithField("file", file).Debug("ledger file does not exist yet")
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger %q: %w", file, err)
	}
	defer f.Close()
	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger %q: %w", file, err)
	}
	logrus.WithFields(logrus.Fields{"file": file, "trades": ledger.Len()}).Debug("ledger loaded")
	return ledger, nil
}

// SaveLedger writes the ledger file, replacing it atomically.
func SaveLedger(file string, ledger *Ledger) error {
	tmp := file + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create ledger %q: %w", file, err)
	}
	w := bufio.NewWriter(f)
	if err := EncodeLedger(w, ledger); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger %q: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close ledger %q: %w", file, err)
	}
	return os.Rename(tmp, file)
}
