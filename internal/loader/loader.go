// Package loader runs the earthquake load: connect, reset the table, read the
// CSV, insert every convertible row in one transaction, commit, close.
package loader

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-data-loader/internal/domain"
	"github.com/couchcryptid/quake-data-loader/internal/observability"
	"github.com/jonboulle/clockwork"
)

// progressEvery is the row-index interval between progress log lines.
const progressEvery = 100

// Store is a connected earthquake table with a single load transaction.
type Store interface {
	DropTable(ctx context.Context) error
	CreateTable(ctx context.Context) error
	Begin(ctx context.Context) error
	Insert(ctx context.Context, e domain.Earthquake) error
	Commit(ctx context.Context) error
	Close(ctx context.Context) error
}

// Connector opens a Store for a connection target.
type Connector interface {
	Connect(ctx context.Context, target string) (Store, error)
}

// ConnectFunc adapts a function to Connector.
type ConnectFunc func(ctx context.Context, target string) (Store, error)

func (f ConnectFunc) Connect(ctx context.Context, target string) (Store, error) {
	return f(ctx, target)
}

// RowSource reads every row of an input file, header included.
type RowSource interface {
	ReadAll(path string) ([][]string, error)
}

// Publisher forwards committed earthquakes downstream.
type Publisher interface {
	Publish(ctx context.Context, earthquakes []domain.Earthquake) error
}

// Outcome summarises a load run.
type Outcome struct {
	RowsRead  int // data rows, header excluded
	Inserted  int // rows made durable by the commit
	Failed    int
	Failures  []RowFailure
	Committed bool
	Published int
	Duration  time.Duration
}

// Loader runs load operations against one store backend.
type Loader struct {
	connector Connector
	source    RowSource
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// New creates a Loader. Pass a nil publisher to skip publishing and a nil
// clock to use real time.
func New(c Connector, src RowSource, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Loader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loader{
		connector: c,
		source:    src,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// Load recreates the earthquakes table at target and fills it from the CSV at
// path. Row conversion and insert failures are logged and counted in the
// Outcome; they never end the run. Any returned error is a *PhaseError.
func (l *Loader) Load(ctx context.Context, target, path string) (out Outcome, err error) {
	start := l.clock.Now()
	l.logger.Info("starting to load earthquake data", "path", path)
	l.metrics.LoadRunning.Set(1)
	defer func() {
		out.Duration = l.clock.Since(start)
		l.metrics.LoadRunning.Set(0)
		l.metrics.LoadDuration.Observe(out.Duration.Seconds())
		l.report(out, err)
	}()

	store, err := l.connector.Connect(ctx, target)
	if err != nil {
		l.logger.Error("error connecting to the database", "error", err)
		return out, &PhaseError{Phase: PhaseConnect, Err: err}
	}
	l.logger.Info("database connection successful")
	defer func() {
		if cerr := store.Close(ctx); cerr != nil {
			l.logger.Warn("error closing database connection", "error", cerr)
			return
		}
		l.logger.Info("database connection closed")
	}()

	if err := l.resetSchema(ctx, store); err != nil {
		return out, err
	}

	rows, err := l.source.ReadAll(path)
	if err != nil {
		l.logger.Error("error reading CSV file", "path", path, "error", err)
		return out, &PhaseError{Phase: PhaseRead, Err: err}
	}
	total := len(rows)
	if total > 0 {
		rows = rows[1:]
	}
	out.RowsRead = len(rows)
	l.metrics.RowsRead.Add(float64(len(rows)))
	l.logger.Info("read records from the CSV file", "count", len(rows), "with_header", total)

	if err := store.Begin(ctx); err != nil {
		l.logger.Error("error starting transaction", "error", err)
		return out, &PhaseError{Phase: PhaseBegin, Err: err}
	}

	inserted := l.insertRows(ctx, store, rows, &out)

	if err := store.Commit(ctx); err != nil {
		l.logger.Error("error committing transaction", "error", err)
		return out, &PhaseError{Phase: PhaseCommit, Err: err}
	}
	out.Committed = true
	out.Inserted = len(inserted)
	l.metrics.RowsInserted.Add(float64(len(inserted)))
	l.metrics.LastSuccess.Set(float64(l.clock.Now().Unix()))
	l.logger.Info("transaction committed", "inserted", len(inserted))

	out.Published = l.publish(ctx, inserted)
	return out, nil
}

func (l *Loader) resetSchema(ctx context.Context, store Store) error {
	if err := store.DropTable(ctx); err != nil {
		l.logger.Error("error dropping earthquakes table", "error", err)
		return &PhaseError{Phase: PhaseSchema, Err: err}
	}
	l.logger.Info("dropped existing earthquakes table")

	if err := store.CreateTable(ctx); err != nil {
		l.logger.Error("error creating earthquakes table", "error", err)
		return &PhaseError{Phase: PhaseSchema, Err: err}
	}
	l.logger.Info("created earthquakes table")
	return nil
}

// insertRows converts and inserts each data row in file order and returns the
// records the store accepted.
func (l *Loader) insertRows(ctx context.Context, store Store, rows [][]string, out *Outcome) []domain.Earthquake {
	inserted := make([]domain.Earthquake, 0, len(rows))
	for i, row := range rows {
		eq, err := domain.ParseRow(row)
		if err != nil {
			l.rowFailed(out, i, StageParse, err)
			continue
		}
		if err := store.Insert(ctx, eq); err != nil {
			l.rowFailed(out, i, StageInsert, err)
			continue
		}
		inserted = append(inserted, eq)
		if i%progressEvery == 0 {
			l.logger.Info("inserted records", "count", i)
		}
	}
	return inserted
}

func (l *Loader) rowFailed(out *Outcome, index int, stage string, err error) {
	l.logger.Error("error inserting record", "record", index, "stage", stage, "error", err)
	out.Failed++
	out.Failures = append(out.Failures, RowFailure{Index: index, Stage: stage, Err: err})
	l.metrics.RowFailures.WithLabelValues(stage).Inc()
}

// publish forwards committed records. Failures are logged and leave the load result unchanged.
func (l *Loader) publish(ctx context.Context, inserted []domain.Earthquake) int {
	if l.publisher == nil || len(inserted) == 0 {
		return 0
	}
	if err := l.publisher.Publish(ctx, inserted); err != nil {
		l.logger.Warn("error publishing earthquakes", "count", len(inserted), "error", err)
		l.metrics.PublishErrors.Inc()
		return 0
	}
	l.metrics.EventsPublished.Add(float64(len(inserted)))
	l.logger.Info("published earthquakes", "count", len(inserted))
	return len(inserted)
}

func (l *Loader) report(out Outcome, err error) {
	attrs := []any{
		"read", out.RowsRead,
		"inserted", out.Inserted,
		"failed", out.Failed,
		"duration", out.Duration,
	}
	switch {
	case err != nil:
		l.logger.Error("earthquake data load did not complete", append(attrs, "error", err)...)
	case out.Failed > 0:
		l.logger.Warn("earthquake data loaded with skipped records", attrs...)
	default:
		l.logger.Info("earthquake data loaded successfully", attrs...)
	}
}
