package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sbilibin2017/gw-price-converter/internal/logger"
	"github.com/sbilibin2017/gw-price-converter/internal/models"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var schemas = map[string]string{
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS converted_prices (
			id INTEGER PRIMARY KEY,
			currency VARCHAR NOT NULL,
			rate FLOAT NOT NULL,
			price_in_pln FLOAT NOT NULL,
			date VARCHAR NOT NULL
		)
	`,
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS converted_prices (
			id SERIAL PRIMARY KEY,
			currency VARCHAR NOT NULL,
			rate FLOAT NOT NULL,
			price_in_pln FLOAT NOT NULL,
			date VARCHAR NOT NULL
		)
	`,
}

// Opener opens a database connection; sqlx.ConnectContext by default.
type Opener func(ctx context.Context, driver, dsn string) (*sqlx.DB, error)

// SQLRepository stores records in the converted_prices table.
// Every call opens its own connection, bootstraps the schema and closes the connection.
type SQLRepository[T any] struct {
	driver string
	dsn    string
	mapper models.Mapper[T]
	open   Opener
}

// NewSQLRepository creates a repository for driver and dsn.
func NewSQLRepository[T any](driver, dsn string, mapper models.Mapper[T]) (*SQLRepository[T], error) {
	if _, ok := schemas[driver]; !ok {
		return nil, fmt.Errorf("%w: SQL_DRIVER=%q, expected %q or %q", models.ErrInvalidConfig, driver, DriverSQLite, DriverPostgres)
	}
	return &SQLRepository[T]{
		driver: driver,
		dsn:    dsn,
		mapper: mapper,
		open:   sqlx.ConnectContext,
	}, nil
}

// WithOpener replaces the connection opener.
func (r *SQLRepository[T]) WithOpener(open Opener) *SQLRepository[T] {
	r.open = open
	return r
}

func (r *SQLRepository[T]) connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := r.open(ctx, r.driver, r.dsn)
	if err != nil {
		logger.Log.Errorw("failed to connect to database", "driver", r.driver, "error", err)
		return nil, fmt.Errorf("connecting to %s: %w", r.driver, err)
	}

	schema := schemas[r.driver]
	_, err = db.ExecContext(ctx, schema)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(schema), " "),
		"error", err,
	)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// Save inserts item in a transaction and returns the new id.
// Any failure rolls the transaction back.
func (r *SQLRepository[T]) Save(ctx context.Context, item T) (int64, error) {
	db, err := r.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	row := r.mapper.Serialize(item)
	query := db.Rebind(`
		INSERT INTO converted_prices (currency, rate, price_in_pln, date)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	args := []any{row.Currency, row.Rate.InexactFloat64(), row.PriceInPLN.InexactFloat64(), row.Date}

	var id int64
	err = withTx(ctx, db, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &id, query, args...)
	})

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", id,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetAll returns every stored record ordered by id.
func (r *SQLRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	db, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	const query = `SELECT id, currency, rate, price_in_pln, date FROM converted_prices ORDER BY id`

	var rows []models.ConvertedPriceRow
	err = db.SelectContext(ctx, &rows, query)

	logger.Log.Infow(
		"query", query,
		"result", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := r.mapper.Deserialize(row)
		if err != nil {
			logger.Log.Errorw("failed to decode stored record", "id", row.ID, "error", err)
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID returns the record with id.
func (r *SQLRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T

	db, err := r.connect(ctx)
	if err != nil {
		return zero, err
	}
	defer db.Close()

	query := db.Rebind(`SELECT id, currency, rate, price_in_pln, date FROM converted_prices WHERE id = ?`)

	var row models.ConvertedPriceRow
	err = db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		err = notFound(r.mapper.Entity, id)
		logger.Log.Errorw("record not found", "query", query, "id", id, "error", err)
		return zero, err
	}
	if err != nil {
		logger.Log.Errorw("failed to get record", "query", query, "id", id, "error", err)
		return zero, err
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{id},
		"result", row.ID,
	)

	return r.mapper.Deserialize(row)
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Errorw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Log.Errorw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}
	return nil
}
