package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/quake-data-loader/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectSQL = `SELECT id, time, latitude, longitude, depth, magnitude, place, alert, tsunami, url FROM earthquakes`

// rowQuerier is satisfied by *pgx.Conn and *pgxpool.Pool.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Query returns the rows of the earthquakes table matching f, ordered by id.
func (s *Store) Query(ctx context.Context, f domain.Filter) ([]domain.Earthquake, error) {
	return queryEarthquakes(ctx, s.conn, f)
}

// Catalog serves concurrent read queries over a connection pool.
type Catalog struct {
	pool *pgxpool.Pool
}

// OpenCatalog creates a pool for dsn. Connections are dialed lazily; use
// CheckReadiness to verify the database is reachable.
func OpenCatalog(ctx context.Context, dsn string) (*Catalog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	return &Catalog{pool: pool}, nil
}

// Query returns the rows of the earthquakes table matching f, ordered by id.
func (c *Catalog) Query(ctx context.Context, f domain.Filter) ([]domain.Earthquake, error) {
	return queryEarthquakes(ctx, c.pool, f)
}

// CheckReadiness pings the database.
func (c *Catalog) CheckReadiness(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Catalog) Close() {
	c.pool.Close()
}

func queryEarthquakes(ctx context.Context, q rowQuerier, f domain.Filter) ([]domain.Earthquake, error) {
	sql, args := buildQuery(f)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", TableName, err)
	}
	earthquakes, err := pgx.CollectRows(rows, scanEarthquake)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", TableName, err)
	}
	if earthquakes == nil {
		earthquakes = []domain.Earthquake{}
	}
	return earthquakes, nil
}

func scanEarthquake(row pgx.CollectableRow) (domain.Earthquake, error) {
	var e domain.Earthquake
	err := row.Scan(&e.ID, &e.Time, &e.Latitude, &e.Longitude, &e.Depth,
		&e.Magnitude, &e.Place, &e.Alert, &e.Tsunami, &e.URL)
	e.Time = e.Time.UTC()
	return e, err
}

// buildQuery renders f as a parameterized SELECT. Conditions appear in a
// fixed column order so the SQL text is stable for a given set of bounds.
func buildQuery(f domain.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	bound := func(column, op string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s %s $%d", column, op, len(args)))
	}

	if f.TimeStart != nil {
		bound("time", ">=", f.TimeStart.UTC())
	}
	if f.TimeEnd != nil {
		bound("time", "<=", f.TimeEnd.UTC())
	}
	for _, r := range []struct {
		column   string
		min, max *float64
	}{
		{"depth", f.DepthMin, f.DepthMax},
		{"magnitude", f.MagnitudeMin, f.MagnitudeMax},
		{"longitude", f.LongitudeMin, f.LongitudeMax},
		{"latitude", f.LatitudeMin, f.LatitudeMax},
	} {
		if r.min != nil {
			bound(r.column, ">=", *r.min)
		}
		if r.max != nil {
			bound(r.column, "<=", *r.max)
		}
	}

	sql := selectSQL
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	return sql + " ORDER BY id", args
}
