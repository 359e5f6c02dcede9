// Package sqlstore implements cryptofolio.Store on a SQL database, PostgreSQL
// or SQLite.
//
// Trades are stored in a single table, one column per queryable field. The
// natural key is a unique index, so deduplication is done by the database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Drivers supported by Open.
const (
	Postgres = "postgres"
	SQLite   = "sqlite3"
)

// Store is a cryptofolio.Store on a SQL database.
type Store struct {
	db     *sql.DB
	driver string
}

var _ cryptofolio.Store = (*Store)(nil)

// Open connects to the database at dsn and creates the schema if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != Postgres && driver != SQLite {
		return nil, fmt.Errorf("unsupported driver %q, want %q or %q", driver, Postgres, SQLite)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == SQLite {
		// a single connection keeps in-memory databases alive and serializes writes.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.WithField("driver", driver).Debug("trade store opened")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	seq := "seq BIGSERIAL PRIMARY KEY"
	if s.driver == SQLite {
		seq = "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			` + seq + `,
			id TEXT NOT NULL,
			exchange_id TEXT NOT NULL,
			exchange_name TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			amount TEXT NOT NULL,
			year INTEGER NOT NULL,
			timestamp BIGINT NOT NULL,
			action INTEGER NOT NULL,
			price_amount TEXT NOT NULL,
			price_currency TEXT NOT NULL,
			fee_amount TEXT NOT NULL,
			fee_currency TEXT NOT NULL,
			total_amount TEXT NOT NULL,
			total_currency TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_key ON trades(exchange_id, exchange_name, transaction_id, symbol, amount)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// column is the mapping of a field path to a column.
type column struct {
	name    string
	integer bool
	order   string // ordering expression, name if empty
}

var columns = map[string]column{
	cryptofolio.FieldSymbol:       {name: "symbol"},
	cryptofolio.FieldAmount:       {name: "amount", order: "CAST(amount AS NUMERIC)"},
	cryptofolio.FieldYear:         {name: "year", integer: true},
	cryptofolio.FieldTimestamp:    {name: "timestamp", integer: true},
	cryptofolio.FieldAction:       {name: "action", integer: true},
	cryptofolio.FieldExchangeID:   {name: "exchange_id"},
	cryptofolio.FieldExchangeName: {name: "exchange_name"},
	cryptofolio.FieldTransaction:  {name: "transaction_id"},
	"id":                          {name: "id"},
	"price.currency":              {name: "price_currency"},
	"fee.currency":                {name: "fee_currency"},
	"total.currency":              {name: "total_currency"},
}

func lookup(field string) (column, error) {
	c, ok := columns[field]
	if !ok {
		return column{}, fmt.Errorf("unsupported field %q", field)
	}
	return c, nil
}

// arg converts a normalized criteria value to the column type.
func (c column) arg(v string) (any, error) {
	if !c.integer {
		return v, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", c.name, v, err)
	}
	return i, nil
}

const selectColumns = `id, exchange_id, exchange_name, transaction_id, symbol, amount, timestamp, action, price_amount, price_currency, fee_amount, fee_currency, total_amount, total_currency`

// Insert stores t unless its natural key is already in the table.
func (s *Store) Insert(ctx context.Context, t cryptofolio.Trade) (bool, error) {
	e := t.Exchange()
	query := fmt.Sprintf(`
		INSERT INTO trades (%s, year)
		VALUES (%s)
		ON CONFLICT DO NOTHING
	`, selectColumns, s.placeholders(1, 15))
	res, err := s.db.ExecContext(ctx, query,
		t.ID(),
		e.ID,
		e.Name,
		e.Transaction,
		t.Symbol(),
		t.Key().Amount,
		t.Date().Unix(),
		t.Action().Code(),
		t.Price().Decimal().String(),
		string(t.Price().Currency()),
		t.Fee().Decimal().String(),
		string(t.Fee().Currency()),
		t.Total().Decimal().String(),
		string(t.Total().Currency()),
		t.Date().Year(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert %v: %w", t.Key(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{"key": t.Key(), "inserted": n > 0}).Debug("insert")
	return n > 0, nil
}

// Find returns the trades matching c. Ties keep insertion order.
func (s *Store) Find(ctx context.Context, c cryptofolio.Criteria, sorts ...cryptofolio.Sort) ([]cryptofolio.Trade, error) {
	where, args, err := s.where(c)
	if err != nil {
		return nil, err
	}
	if len(sorts) == 0 {
		sorts = []cryptofolio.Sort{cryptofolio.ByTimestamp}
	}
	order := make([]string, 0, len(sorts)+1)
	for _, o := range sorts {
		col, err := lookup(o.Field)
		if err != nil {
			return nil, err
		}
		expr := col.name
		if col.order != "" {
			expr = col.order
		}
		if o.Desc {
			expr += " DESC"
		}
		order = append(order, expr)
	}
	order = append(order, "seq")

	query := fmt.Sprintf(`SELECT %s FROM trades%s ORDER BY %s`, selectColumns, where, strings.Join(order, ", "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find %v: %w", c, err)
	}
	defer rows.Close()

	var trades []cryptofolio.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Remove deletes the trades matching c.
func (s *Store) Remove(ctx context.Context, c cryptofolio.Criteria) (int, error) {
	where, args, err := s.where(c)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM trades"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to remove %v: %w", c, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"criteria": c.String(), "removed": n}).Info("trades removed")
	return int(n), nil
}

// Distinct returns the sorted set of values of field.
func (s *Store) Distinct(ctx context.Context, field string) ([]string, error) {
	col, err := lookup(field)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT %s FROM trades", col.name))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", field, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, cryptofolio.Value(field, v))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.SortFunc(values, compareValues)
	return values, nil
}

// where returns the WHERE clause matching c, and its arguments.
func (s *Store) where(c cryptofolio.Criteria) (string, []any, error) {
	if len(c) == 0 {
		return "", nil, nil
	}
	fields := make([]string, 0, len(c))
	for f := range c {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	var (
		conds []string
		args  []any
	)
	for _, f := range fields {
		col, err := lookup(f)
		if err != nil {
			return "", nil, err
		}
		values := cryptofolio.Values(f, c[f])
		if len(values) == 0 {
			conds = append(conds, "1 = 0")
			continue
		}
		for _, v := range values {
			a, err := col.arg(v)
			if err != nil {
				return "", nil, err
			}
			args = append(args, a)
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", col.name, s.placeholders(len(args)-len(values)+1, len(values))))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// placeholders returns n comma separated parameters starting at from.
func (s *Store) placeholders(from, n int) string {
	p := make([]string, n)
	for i := range p {
		if s.driver == Postgres {
			p[i] = "$" + strconv.Itoa(from+i)
		} else {
			p[i] = "?"
		}
	}
	return strings.Join(p, ", ")
}

func scanTrade(rows *sql.Rows) (cryptofolio.Trade, error) {
	var (
		id, exchangeID, exchangeName, transaction, symbol, amount string
		timestamp                                                 int64
		action                                                    int
		price, priceCur, fee, feeCur, total, totalCur             string
	)
	err := rows.Scan(&id, &exchangeID, &exchangeName, &transaction, &symbol, &amount, &timestamp, &action, &price, &priceCur, &fee, &feeCur, &total, &totalCur)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	q, err := cryptofolio.ParseQuantity(amount)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	a, err := cryptofolio.ActionFromCode(action)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	var m [3]cryptofolio.Money
	for i, v := range [3][2]string{{price, priceCur}, {fee, feeCur}, {total, totalCur}} {
		cur, err := cryptofolio.ParseCurrency(v[1])
		if err != nil {
			return cryptofolio.Trade{}, err
		}
		if m[i], err = cryptofolio.NewMoney(v[0], cur); err != nil {
			return cryptofolio.Trade{}, err
		}
	}
	return cryptofolio.RestoreTrade(
		id,
		cryptofolio.NewOrder(symbol, q),
		cryptofolio.NewExchange(exchangeID, exchangeName, transaction),
		date.FromEpoch(timestamp),
		a,
		m[0], m[1], m[2],
	), nil
}

// compareValues orders numbers numerically and everything else lexically.
func compareValues(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	return strings.Compare(a, b)
}
