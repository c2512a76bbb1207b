// Package meta reads the database catalog and runs the destructive
// mutations behind dbdeck's confirmation dialogs.
package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"dbdeck/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver
)

// Client talks to one database through database/sql.
type Client struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Open connects to the database described by opts and pings it.
func Open(ctx context.Context, opts Options) (*Client, error) {
	d, err := dialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}
	if opts.URL == "" {
		return nil, validationError("database url is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("connecting", slog.String("driver", d.name()))

	db, err := sql.Open(d.sqlDriver(), d.dsn(opts.URL))
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", d.name(), err)
	}
	if d.name() == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name(), err)
	}
	return &Client{db: db, dialect: d, logger: logger}, nil
}

// NewWithDB wraps an already-open handle. Close closes db.
func NewWithDB(db *sql.DB, driver string, logger *slog.Logger) (*Client, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{db: db, dialect: d, logger: logger}, nil
}

// Driver returns the dialect name.
func (c *Client) Driver() string {
	return c.dialect.name()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// GetTables lists base tables in schema. SQLite has a single schema and
// ignores it.
func (c *Client) GetTables(ctx context.Context, schema string) ([]domain.Table, error) {
	return c.listRelations(ctx, c.dialect.tablesQuery(), schema)
}

// ListViews lists views and materialized views in schema.
func (c *Client) ListViews(ctx context.Context, schema string) ([]domain.Table, error) {
	return c.listRelations(ctx, c.dialect.viewsQuery(), schema)
}

func (c *Client) listRelations(ctx context.Context, query, schema string) ([]domain.Table, error) {
	rows, err := c.db.QueryContext(ctx, query, c.dialect.schemaArgs(schema)...)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTable(s scanner) (domain.Table, error) {
	var (
		t    domain.Table
		kind string
	)
	if err := s.Scan(&t.ID, &t.Schema, &t.Name, &kind); err != nil {
		return domain.Table{}, fmt.Errorf("scan table: %w", err)
	}
	t.Kind = domain.KindTable
	if kind == string(domain.KindView) {
		t.Kind = domain.KindView
	}
	return t, nil
}

// TableByID resolves a table or view by its catalog id.
func (c *Client) TableByID(ctx context.Context, id int64) (domain.Table, error) {
	row := c.db.QueryRowContext(ctx, c.dialect.tableByIDQuery(), id)
	t, err := scanTable(row)
	if err != nil {
		if isNoRows(err) {
			return domain.Table{}, notFoundError(fmt.Sprintf("table %d", id))
		}
		return domain.Table{}, err
	}
	return t, nil
}

// Columns lists the columns of table in ordinal order.
func (c *Client) Columns(ctx context.Context, table domain.Table) ([]domain.Column, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.columnsQuery(), c.dialect.tableArg(table))
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table.QualifiedName(), err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var cols []domain.Column
	for rows.Next() {
		col := domain.Column{TableID: table.ID}
		if err := rows.Scan(&col.Position, &col.Name, &col.DataType, &col.Nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.ID = domain.ColumnID(table.ID, col.Position)
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// PrimaryKeys returns the primary key column names of table in key order.
func (c *Client) PrimaryKeys(ctx context.Context, table domain.Table) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.primaryKeysQuery(), c.dialect.tableArg(table))
	if err != nil {
		return nil, fmt.Errorf("query primary keys of %s: %w", table.QualifiedName(), err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan primary key: %w", err)
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}

// Rows returns one page of rows matching q.
func (c *Client) Rows(ctx context.Context, q RowsQuery) ([]domain.Row, error) {
	where, args, err := buildWhere(c.dialect, q.Filters, 1)
	if err != nil {
		return nil, err
	}
	query := "SELECT * FROM " + quoteTable(q.Table)
	if where != "" {
		query += " WHERE " + where
	}
	if order := buildOrderBy(q.Sorts); order != "" {
		query += " ORDER BY " + order
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", q.Offset)
	}
	c.logger.Debug("select rows", slog.String("sql", query))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows of %s: %w", q.Table.QualifiedName(), err)
	}
	defer func() {
		_ = rows.Close()
	}()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	var out []domain.Row
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := domain.Row{Index: q.Offset + len(out), Values: make(map[string]any, len(names))}
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				row.Values[name] = string(b)
				continue
			}
			row.Values[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountRows counts the rows of table matching filters.
func (c *Client) CountRows(ctx context.Context, table domain.Table, filters []domain.Filter) (int, error) {
	where, args, err := buildWhere(c.dialect, filters, 1)
	if err != nil {
		return 0, err
	}
	query := "SELECT COUNT(*) FROM " + quoteTable(table)
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table.QualifiedName(), err)
	}
	return n, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
