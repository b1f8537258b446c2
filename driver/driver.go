// Package driver implements the dispatch base (§4.10): a template method
// that takes a compiled statement and a cursor and routes to single/many/
// script execution, extracts rows or row counts, and returns a normalized
// SQLResult. Concrete adapters (a specific database wire protocol) plug in
// by implementing Hooks; this package never imports a concrete driver.
// Adapters named as external collaborators in spec.md §1 — e.g.
// github.com/jackc/pgx/v5, github.com/go-sql-driver/mysql, and
// github.com/mattn/go-sqlite3 — are expected to live outside this module;
// no adapter for any of them is included in this repository.
package driver

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/observability"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// Cursor is the minimal scoped handle an adapter acquires per dispatch
// call and is responsible for releasing on every exit path.
type Cursor interface {
	Close() error
}

// Row is one result row, keyed by column name, matching the SQLResult
// row-map shape named in §3.
type Row map[string]any

// SQLResult is the normalized value every dispatch call returns.
type SQLResult struct {
	OperationKind        statement.OperationKind
	Rows                 []Row
	ColumnNames          []string
	RowsAffected         int64
	ScriptStatementCount int
	Metadata             map[string]any
}

// Hooks is the small set of adapter-specific operations the template
// method (Dispatcher.Dispatch) calls out to. Each hook corresponds 1:1 to
// a §4.10 bullet.
type Hooks interface {
	// WithCursor scopes cursor acquisition for one dispatch call; fn runs
	// with the cursor and its return value/error is propagated. The hook
	// guarantees cursor release (e.g. via defer) on every exit path.
	WithCursor(ctx context.Context, conn any, fn func(Cursor) (*SQLResult, error)) (*SQLResult, error)

	// Begin, Commit, Rollback are transaction primitives exposed
	// explicitly; the engine never auto-manages transactions per §5.
	Begin(ctx context.Context, conn any) error
	Commit(ctx context.Context, conn any) error
	Rollback(ctx context.Context, conn any) error

	// TrySpecialHandling allows database-specific short-circuits (e.g.
	// COPY). A nil result with no error means "fall through to the
	// standard path".
	TrySpecialHandling(ctx context.Context, cursor Cursor, sql *statement.SQL) (*SQLResult, error)

	ExecuteSingle(ctx context.Context, cursor Cursor, compiled *statement.CompiledSQL) error
	ExecuteMany(ctx context.Context, cursor Cursor, compiled *statement.CompiledSQL, batches [][]parameter.TypedParameter) error
	ExecuteScript(ctx context.Context, cursor Cursor, compiled *statement.CompiledSQL, statements []string) error

	ExtractSelected(ctx context.Context, cursor Cursor) (rows []Row, columnNames []string, count int, err error)
	ExtractRowCount(ctx context.Context, cursor Cursor) (int64, error)
}

// Dispatcher runs the template method against a concrete Hooks
// implementation and a Compiler (normally *processor.Processor) shared
// with the SQL objects it dispatches.
type Dispatcher struct {
	Hooks       Hooks
	TargetStyle parameter.Style
	// Name identifies this dispatcher's driver in emitted events (e.g.
	// "postgres", "sqlite"); left blank it still emits, just unattributed.
	Name string
	// Events is optional: nil emits nothing, the zero-cost disabled path
	// from §4.11.
	Events *observability.Dispatcher
}

// New builds a Dispatcher.
func New(hooks Hooks, targetStyle parameter.Style) *Dispatcher {
	return &Dispatcher{Hooks: hooks, TargetStyle: targetStyle}
}

// Dispatch implements the §4.10 template method: compile, acquire cursor,
// offer special-case handling, route by operation kind, extract results.
func (d *Dispatcher) Dispatch(ctx context.Context, sql *statement.SQL, conn any) (*SQLResult, error) {
	correlationID := observability.NewCorrelationID()
	start := time.Now()
	d.emitExecuteEvent(correlationID, sql, observability.PhaseStart, 0, nil)

	result, err := d.dispatch(ctx, sql, conn)

	phase := observability.PhaseComplete
	if err != nil {
		phase = observability.PhaseError
	}
	d.emitExecuteEvent(correlationID, sql, phase, time.Since(start), err)
	return result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, sql *statement.SQL, conn any) (*SQLResult, error) {
	compiled, err := sql.Compile(d.TargetStyle)
	if err != nil {
		return nil, err
	}

	return d.Hooks.WithCursor(ctx, conn, func(cursor Cursor) (*SQLResult, error) {
		if special, err := d.Hooks.TrySpecialHandling(ctx, cursor, sql); err != nil {
			return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
		} else if special != nil {
			return special, nil
		}

		switch sql.OperationKind {
		case statement.Many:
			return d.dispatchMany(ctx, cursor, sql, compiled)
		case statement.Script:
			return d.dispatchScript(ctx, cursor, sql, compiled)
		default:
			return d.dispatchSingle(ctx, cursor, sql, compiled)
		}
	})
}

// emitExecuteEvent reports one point in a dispatch call's lifecycle
// through the configured observability.Dispatcher; a no-op when none was
// configured.
func (d *Dispatcher) emitExecuteEvent(correlationID uuid.UUID, sql *statement.SQL, phase observability.Phase, elapsed time.Duration, err error) {
	if d.Events == nil {
		return
	}
	d.Events.Emit(observability.StatementExecuteEvent{
		Event: observability.Event{
			CorrelationID:  correlationID,
			Driver:         d.Name,
			OperationKind:  sql.OperationKind,
			SQLFingerprint: sql.FiltersFingerprint(),
			ParameterCount: len(sql.Positional),
			Duration:       elapsed,
		},
		Phase: phase,
		Err:   err,
	})
}

func (d *Dispatcher) dispatchSingle(ctx context.Context, cursor Cursor, sql *statement.SQL, compiled *statement.CompiledSQL) (*SQLResult, error) {
	if err := d.Hooks.ExecuteSingle(ctx, cursor, compiled); err != nil {
		return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
	}
	if sql.ReturnsRows() {
		rows, cols, count, err := d.Hooks.ExtractSelected(ctx, cursor)
		if err != nil {
			return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
		}
		return &SQLResult{OperationKind: statement.Single, Rows: rows, ColumnNames: cols, RowsAffected: int64(count)}, nil
	}
	count, err := d.Hooks.ExtractRowCount(ctx, cursor)
	if err != nil {
		return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
	}
	return &SQLResult{OperationKind: statement.Single, RowsAffected: count}, nil
}

func (d *Dispatcher) dispatchMany(ctx context.Context, cursor Cursor, sql *statement.SQL, compiled *statement.CompiledSQL) (*SQLResult, error) {
	batches := sql.ManyParams
	if raw, ok := compiled.Metadata["parameter_batches"]; ok {
		if typed, ok := raw.([][]parameter.TypedParameter); ok {
			batches = typed
		}
	}
	if err := d.Hooks.ExecuteMany(ctx, cursor, compiled, batches); err != nil {
		return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
	}
	count, err := d.Hooks.ExtractRowCount(ctx, cursor)
	if err != nil {
		return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
	}
	return &SQLResult{OperationKind: statement.Many, RowsAffected: count}, nil
}

func (d *Dispatcher) dispatchScript(ctx context.Context, cursor Cursor, sql *statement.SQL, compiled *statement.CompiledSQL) (*SQLResult, error) {
	var statements []string
	if compiled.ParameterStyle == parameter.Static {
		statements = []string{compiled.SQL}
	} else {
		statements = astfacade.SplitScript(compiled.SQL)
	}
	if err := d.Hooks.ExecuteScript(ctx, cursor, compiled, statements); err != nil {
		return nil, &sqlspec.ExecutionError{SQL: compiled.SQL, Cause: err}
	}
	return &SQLResult{OperationKind: statement.Script, ScriptStatementCount: len(statements)}, nil
}
