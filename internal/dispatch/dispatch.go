// Package dispatch turns a confirmed dialog into the matching mutation and
// reports the result back as an Outcome the UI can toast.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"dbdeck/internal/confirm"
	"dbdeck/internal/debug"
	"dbdeck/internal/domain"
	appErrors "dbdeck/internal/errors"
	"dbdeck/internal/meta"
	"dbdeck/internal/querycache"
	"dbdeck/internal/urlstate"

	"golang.org/x/sync/errgroup"
)

// ColumnDeleter drops columns.
type ColumnDeleter interface {
	DeleteColumn(ctx context.Context, req meta.ColumnDeleteRequest) error
}

// TableDeleter drops tables. A non-empty response Error is a failure.
type TableDeleter interface {
	DeleteTable(ctx context.Context, id int64, cascade bool) (meta.TableDeleteResponse, error)
}

// RowDeleter runs the three row mutations.
type RowDeleter interface {
	DeleteRows(ctx context.Context, m meta.RowMutation) error
	DeleteAllRows(ctx context.Context, m meta.RowMutation) error
	TruncateRows(ctx context.Context, m meta.RowMutation) error
}

// TableLister refreshes the table list of a schema.
type TableLister interface {
	GetTables(ctx context.Context, schema string) ([]domain.Table, error)
}

// Invalidator drops cached queries under a key prefix.
type Invalidator interface {
	Invalidate(ctx context.Context, key querycache.Key) error
}

// URLState exposes the grid's filter and sort params.
type URLState interface {
	Read() urlstate.Params
	RemoveColumn(column string)
}

// RoleSource reports the impersonated role for row mutations.
type RoleSource interface {
	ImpersonatedRole() domain.Role
}

// Deps are the collaborators of a Dispatcher. All are required.
type Deps struct {
	Columns ColumnDeleter
	Tables  TableDeleter
	Rows    RowDeleter
	Lister  TableLister
	Cache   Invalidator
	URL     URLState
	Roles   RoleSource
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// withAfterDeleteTable registers fn to receive the refreshed table list
// after a successful table delete. Callers outside the package read
// Outcome.Tables instead.
func withAfterDeleteTable(fn func([]domain.Table)) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.afterDeleteTable = fn
		}
	}
}

// WithLogger overrides the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Dispatcher routes confirmed dialogs to mutations.
type Dispatcher struct {
	deps             Deps
	afterDeleteTable func([]domain.Table)
	logger           *slog.Logger
}

// New builds a Dispatcher.
func New(deps Deps, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		deps:             deps,
		afterDeleteTable: func([]domain.Table) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return debug.Logger()
}

// Target is what the confirmed dialog acts on.
type Target struct {
	Project *domain.Project
	Table   *domain.Table
	Schema  string
}

// Level is the severity of the notice an Outcome produces.
type Level int

const (
	// LevelNone means nothing should be shown (validation aborts).
	LevelNone Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "none"
	}
}

// Outcome reports a dispatched confirmation. The dialog closes whatever
// the outcome.
type Outcome struct {
	Kind    confirm.Kind
	Level   Level
	Message string
	// Tables is the refreshed table list after a successful table delete.
	Tables []domain.Table
	Err    error
}

// Confirm runs the mutation for state. It blocks until the mutation and
// its follow-up work finish.
func (d *Dispatcher) Confirm(ctx context.Context, target Target, state confirm.State) Outcome {
	switch st := state.(type) {
	case confirm.ColumnDelete:
		return d.deleteColumn(ctx, target, st)
	case confirm.TableDelete:
		return d.deleteTable(ctx, target, st)
	case confirm.RowDelete:
		return d.deleteRows(ctx, target, st)
	default:
		return Outcome{Kind: confirm.KindNone}
	}
}

func (d *Dispatcher) abort(kind confirm.Kind, msg string) Outcome {
	d.log().Error("confirmation aborted", slog.String("kind", kind.String()), slog.String("reason", msg))
	return Outcome{
		Kind:  kind,
		Level: LevelNone,
		Err:   appErrors.New(appErrors.CodeValidation, msg, nil),
	}
}

func failure(kind confirm.Kind, prefix string, err error) Outcome {
	return Outcome{
		Kind:    kind,
		Level:   LevelError,
		Message: prefix + appErrors.Message(err),
		Err:     err,
	}
}

func (d *Dispatcher) deleteColumn(ctx context.Context, target Target, st confirm.ColumnDelete) Outcome {
	if target.Project == nil {
		return d.abort(confirm.KindColumn, "Project ref is required")
	}
	if st.Column.ID == "" {
		return d.abort(confirm.KindColumn, "Column is required")
	}

	err := d.deps.Columns.DeleteColumn(ctx, meta.ColumnDeleteRequest{
		ID:               st.Column.ID,
		Cascade:          st.Cascade,
		ProjectRef:       target.Project.Ref,
		ConnectionString: target.Project.ConnectionString,
		Table:            target.Table,
	})
	if err != nil {
		return failure(confirm.KindColumn, fmt.Sprintf("Failed to delete %s: ", st.Column.Name), asMutation(err))
	}

	d.deps.URL.RemoveColumn(st.Column.Name)
	return Outcome{
		Kind:    confirm.KindColumn,
		Level:   LevelSuccess,
		Message: fmt.Sprintf("Successfully deleted column \"%s\"", st.Column.Name),
	}
}

func (d *Dispatcher) deleteTable(ctx context.Context, target Target, st confirm.TableDelete) Outcome {
	if target.Table == nil {
		return d.abort(confirm.KindTable, "Selected table required")
	}
	table := *target.Table
	prefix := fmt.Sprintf("Failed to delete %s: ", table.Name)

	resp, err := d.deps.Tables.DeleteTable(ctx, table.ID, st.Cascade)
	if err != nil {
		return failure(confirm.KindTable, prefix, asMutation(err))
	}
	if resp.Error != "" {
		return failure(confirm.KindTable, prefix, appErrors.New(appErrors.CodeResponse, resp.Error, nil))
	}

	tables, err := d.deps.Lister.GetTables(ctx, target.Schema)
	if err != nil {
		return failure(confirm.KindTable, prefix, asMutation(err))
	}

	ref := ""
	if target.Project != nil {
		ref = target.Project.Ref
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.deps.Cache.Invalidate(gctx, querycache.EntityTypeList(ref))
	})
	if target.Schema != "" {
		g.Go(func() error {
			return d.deps.Cache.Invalidate(gctx, querycache.ViewListBySchema(ref, target.Schema))
		})
	}
	g.Go(func() error {
		return d.deps.Cache.Invalidate(gctx, querycache.View(ref, table.ID))
	})
	if err := g.Wait(); err != nil {
		return failure(confirm.KindTable, prefix, asMutation(err))
	}

	d.afterDeleteTable(tables)
	return Outcome{
		Kind:    confirm.KindTable,
		Level:   LevelSuccess,
		Message: fmt.Sprintf("Successfully deleted table \"%s\"", table.Name),
		Tables:  tables,
	}
}

func (d *Dispatcher) deleteRows(ctx context.Context, target Target, st confirm.RowDelete) Outcome {
	if target.Project == nil {
		return d.abort(confirm.KindRow, "Project ref is required")
	}
	if target.Table == nil {
		return d.abort(confirm.KindRow, "Selected table required")
	}

	m := meta.RowMutation{
		ProjectRef:       target.Project.Ref,
		ConnectionString: target.Project.ConnectionString,
		Table:            *target.Table,
		Role:             d.deps.Roles.ImpersonatedRole(),
	}

	var (
		err     error
		success string
		prefix  = "Failed to delete rows: "
	)
	switch {
	case st.AllSelected:
		filters := d.deps.URL.Read().Filters()
		if len(filters) == 0 {
			err = d.deps.Rows.TruncateRows(ctx, m)
			success = "Successfully deleted all rows from table"
		} else {
			m.Filters = filters
			err = d.deps.Rows.DeleteAllRows(ctx, m)
			success = "Successfully deleted selected rows"
		}
	default:
		m.Rows = st.Rows
		err = d.deps.Rows.DeleteRows(ctx, m)
		success = "Successfully deleted selected row(s)"
		prefix = "Failed to delete row: "
	}
	if err != nil {
		return failure(confirm.KindRow, prefix, asMutation(err))
	}

	if st.Callback != nil {
		st.Callback()
	}
	return Outcome{Kind: confirm.KindRow, Level: LevelSuccess, Message: success}
}

// asMutation tags uncoded errors as mutation failures.
func asMutation(err error) error {
	if appErrors.CodeOf(err) != appErrors.CodeUnknown {
		return err
	}
	return appErrors.Wrap(appErrors.CodeMutation, err)
}
