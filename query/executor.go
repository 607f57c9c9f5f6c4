package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/csvql/internal/metrics"
)

// Loader materializes a table's rows, keyed by bare column name. Rows
// returned by a Loader are never modified by the executor.
type Loader interface {
	Load(ctx context.Context, table string) ([]map[string]interface{}, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, table string) ([]map[string]interface{}, error)

// Load calls f
func (f LoaderFunc) Load(ctx context.Context, table string) ([]map[string]interface{}, error) {
	return f(ctx, table)
}

// Executor runs queries against tables provided by a Loader. It keeps no
// state between executions and is safe for concurrent use.
type Executor struct {
	loader          Loader
	logger          *slog.Logger
	metrics         *metrics.Recorder
	concurrentLoads bool
	distinct        bool
}

// Option configures an Executor
type Option func(*Executor)

// WithLogger sets the logger used for per-execution diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records every execution on r
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Executor) { e.metrics = r }
}

// WithConcurrentLoads loads the base and join tables concurrently
func WithConcurrentLoads(enabled bool) Option {
	return func(e *Executor) { e.concurrentLoads = enabled }
}

// WithDistinct makes SELECT DISTINCT remove duplicate result rows. Without
// it DISTINCT is accepted by the parser and has no effect.
func WithDistinct(enabled bool) Option {
	return func(e *Executor) { e.distinct = enabled }
}

// NewExecutor creates an executor reading tables from l
func NewExecutor(l Loader, opts ...Option) *Executor {
	e := &Executor{
		loader: l,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute parses and runs sql. Any failure is returned as an
// *ExecutionError wrapping the cause, and no rows are returned with it.
func (e *Executor) Execute(ctx context.Context, sql string) ([]Row, error) {
	start := time.Now()
	log := e.logger.With("exec_id", uuid.NewString())

	rows, err := e.execute(ctx, log, sql)
	e.metrics.Observe(err, time.Since(start), len(rows))

	if err != nil {
		log.Debug("query failed", "error", err)
		return nil, &ExecutionError{Err: err}
	}
	log.Debug("query executed", "rows", len(rows), "elapsed", time.Since(start))
	return rows, nil
}

// ExecuteQuery runs an already parsed query
func (e *Executor) ExecuteQuery(ctx context.Context, q *Query) ([]Row, error) {
	start := time.Now()
	log := e.logger.With("exec_id", uuid.NewString())

	rows, err := e.run(ctx, log, q)
	e.metrics.Observe(err, time.Since(start), len(rows))

	if err != nil {
		log.Debug("query failed", "error", err)
		return nil, &ExecutionError{Err: err}
	}
	return rows, nil
}

func (e *Executor) execute(ctx context.Context, log *slog.Logger, sql string) ([]Row, error) {
	q, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	log.Debug("query parsed",
		"table", q.TableName,
		"fields", q.Fields,
		"join", q.JoinType.String(),
		"conditions", len(q.Conditions))
	return e.run(ctx, log, q)
}

// run executes the pipeline: load, join, filter, distinct, project
func (e *Executor) run(ctx context.Context, log *slog.Logger, q *Query) ([]Row, error) {
	if err := validateDescriptor(q); err != nil {
		return nil, err
	}

	baseRows, joinRows, err := e.load(ctx, q)
	if err != nil {
		return nil, err
	}

	tables := []string{q.TableName}
	rows := Qualify(q.TableName, baseRows)

	if q.JoinType != JoinNone {
		tables = append(tables, q.JoinTable)
		rows, err = Join(q.TableName, rows, q.JoinTable, Qualify(q.JoinTable, joinRows), *q.JoinCondition, q.JoinType)
		if err != nil {
			return nil, err
		}
		log.Debug("join applied", "type", q.JoinType.String(), "rows", len(rows))
	}

	resolver := Resolver{Tables: tables}

	if q.HasOr() {
		log.Warn("OR in WHERE clause is evaluated as AND", "table", q.TableName)
	}
	rows, err = ApplyFilter(rows, q.Conditions, resolver)
	if err != nil {
		return nil, err
	}

	projected := Project(rows, q.Fields, resolver)

	if q.Distinct {
		if e.distinct {
			projected = ApplyDistinct(projected)
		} else {
			log.Debug("DISTINCT ignored")
		}
	}

	return projected, nil
}

// load reads the base table and, for joins, the join table
func (e *Executor) load(ctx context.Context, q *Query) (base, join []Row, err error) {
	if q.JoinType == JoinNone {
		base, err = e.loader.Load(ctx, q.TableName)
		return base, nil, err
	}

	if !e.concurrentLoads {
		if base, err = e.loader.Load(ctx, q.TableName); err != nil {
			return nil, nil, err
		}
		if join, err = e.loader.Load(ctx, q.JoinTable); err != nil {
			return nil, nil, err
		}
		return base, join, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = e.loader.Load(gctx, q.TableName)
		return err
	})
	g.Go(func() error {
		var err error
		join, err = e.loader.Load(gctx, q.JoinTable)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return base, join, nil
}

// validateDescriptor checks the invariants of a programmatically built query
func validateDescriptor(q *Query) error {
	if q == nil {
		return fmt.Errorf("nil query")
	}
	if len(q.Fields) == 0 {
		return fmt.Errorf("query selects no fields")
	}
	if err := ValidateTableName(q.TableName); err != nil {
		return err
	}
	switch q.JoinType {
	case JoinNone:
		return nil
	case JoinInner, JoinLeft, JoinRight:
		if q.JoinTable == "" || q.JoinCondition == nil {
			return fmt.Errorf("%s JOIN requires a join table and an ON condition", q.JoinType)
		}
		return nil
	default:
		return &UnsupportedJoinTypeError{JoinType: q.JoinType.String()}
	}
}
