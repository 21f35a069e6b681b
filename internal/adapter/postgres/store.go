// Package postgres stores earthquakes in PostgreSQL. Loads go through a
// single pgx connection: rows are written inside one transaction and each
// insert runs under its own savepoint so a rejected row does not abort the
// rows around it. Reads of the loaded table go through a Catalog pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-data-loader/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TableName is the table recreated by every load.
const TableName = "earthquakes"

const (
	dropTableSQL   = `DROP TABLE IF EXISTS earthquakes`
	createTableSQL = `
	CREATE TABLE IF NOT EXISTS earthquakes (
		id SERIAL PRIMARY KEY,
		time TIMESTAMP,
		latitude FLOAT,
		longitude FLOAT,
		depth FLOAT,
		magnitude FLOAT,
		place TEXT,
		alert TEXT,
		tsunami INT,
		url TEXT
	)`
	insertSQL = `
	INSERT INTO earthquakes (time, latitude, longitude, depth, magnitude, place, alert, tsunami, url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	countSQL = `SELECT count(*) FROM earthquakes`
)

var (
	// ErrNoTransaction is returned by Insert and Commit before Begin.
	ErrNoTransaction = errors.New("no open transaction")
	// ErrTransactionOpen is returned by Begin while a transaction is active.
	ErrTransactionOpen = errors.New("transaction already open")
)

// conn is the subset of *pgx.Conn the store uses.
type conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close(ctx context.Context) error
}

// Store owns one connection and at most one open transaction.
type Store struct {
	conn   conn
	tx     pgx.Tx
	logger *slog.Logger
}

// Connect dials dsn and returns a Store. The caller must Close it.
func Connect(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newStore(c, logger), nil
}

func newStore(c conn, logger *slog.Logger) *Store {
	return &Store{conn: c, logger: logger}
}

// DropTable removes the earthquakes table if present.
func (s *Store) DropTable(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, dropTableSQL); err != nil {
		return fmt.Errorf("drop %s table: %w", TableName, err)
	}
	return nil
}

// CreateTable creates the earthquakes table with the fixed schema.
func (s *Store) CreateTable(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create %s table: %w", TableName, err)
	}
	return nil
}

// Begin opens the load transaction.
func (s *Store) Begin(ctx context.Context) error {
	if s.tx != nil {
		return ErrTransactionOpen
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// Insert writes one record under a savepoint. On failure the savepoint is
// rolled back and the outer transaction stays usable.
func (s *Store) Insert(ctx context.Context, e domain.Earthquake) error {
	if s.tx == nil {
		return ErrNoTransaction
	}

	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}

	_, err = sp.Exec(ctx, insertSQL,
		e.Time, e.Latitude, e.Longitude, e.Depth, e.Magnitude,
		e.Place, e.Alert, e.Tsunami, e.URL,
	)
	if err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			s.logger.Warn("rollback to savepoint failed", "error", rbErr)
		}
		return fmt.Errorf("insert earthquake: %w", err)
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

// Commit commits the load transaction. The transaction is closed afterwards
// whether or not the commit succeeded.
func (s *Store) Commit(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of rows currently in the earthquakes table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", TableName, err)
	}
	return n, nil
}

// Close rolls back any uncommitted transaction and closes the connection.
func (s *Store) Close(ctx context.Context) error {
	if s.tx != nil {
		if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Warn("rollback on close failed", "error", err)
		}
		s.tx = nil
	}
	return s.conn.Close(ctx)
}
