package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/etnz/cryptofolio"
	"github.com/sirupsen/logrus"
)

// Options tunes an Import.
type Options struct {
	// Lenient skips the rows that cannot be normalized instead of stopping at
	// the first one.
	Lenient bool
	// Comma is the field delimiter, ',' when zero.
	Comma rune
}

// Stats counts what an Import did.
type Stats struct {
	Rows       int // data rows read
	Skipped    int // rows dropped after an error, in lenient mode
	Trades     int // trades normalized
	Inserted   int // trades stored
	Duplicates int // trades already in the store
}

func (s Stats) String() string {
	return fmt.Sprintf("%d rows, %d trades, %d inserted, %d duplicates, %d skipped", s.Rows, s.Trades, s.Inserted, s.Duplicates, s.Skipped)
}

// Import reads a CSV export of n's exchange from r and inserts every trade it
// describes in store. Trades already in the store are counted as duplicates.
//
// The header must be exactly n's header. Import stops at the first row that
// cannot be normalized unless opts.Lenient is set. Rows before the failing one
// stay imported.
func Import(ctx context.Context, r io.Reader, n Normalizer, store cryptofolio.Store, opts Options) (Stats, error) {
	var stats Stats
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return stats, fmt.Errorf("%w: empty %s export", ErrHeaderMismatch, n.Exchange())
	}
	if err != nil {
		return stats, fmt.Errorf("could not read %s export header: %w", n.Exchange(), err)
	}
	if err := CheckHeader(n, header); err != nil {
		return stats, err
	}
	columns := n.Header()

	log := logrus.WithField("exchange", n.Exchange())
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("could not read %s export: %w", n.Exchange(), err)
		}
		stats.Rows++
		line, _ := cr.FieldPos(0)

		if len(row) != len(columns) {
			err := fmt.Errorf("line %d: %w: %d fields, want %d", line, cryptofolio.ErrMalformedRecord, len(row), len(columns))
			if !opts.Lenient {
				return stats, err
			}
			log.WithError(err).Warn("row skipped")
			stats.Skipped++
			continue
		}
		record := make(Record, len(columns))
		for i, c := range columns {
			record[c] = row[i]
		}

		trades, err := n.Normalize(ctx, record)
		if err != nil {
			err = fmt.Errorf("line %d: %w", line, err)
			if !opts.Lenient {
				return stats, err
			}
			log.WithError(err).Warn("row skipped")
			stats.Skipped++
			continue
		}
		stats.Trades += len(trades)
		for _, t := range trades {
			inserted, err := store.Insert(ctx, t)
			if err != nil {
				return stats, fmt.Errorf("line %d: could not store %v: %w", line, t.Key(), err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Duplicates++
			}
		}
	}
	log.WithField("stats", stats.String()).Info("export imported")
	return stats, nil
}
