package meta

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"dbdeck/internal/domain"
)

// DeleteColumn drops the column identified by req.ID.
func (c *Client) DeleteColumn(ctx context.Context, req ColumnDeleteRequest) error {
	tableID, position, err := domain.ParseColumnID(req.ID)
	if err != nil {
		return err
	}
	if req.Cascade && !c.dialect.supportsCascade() {
		return unsupportedError(c.dialect.name() + " does not support dropping with cascade")
	}
	table, err := c.TableByID(ctx, tableID)
	if err != nil {
		return mutationError("resolve table", err)
	}
	cols, err := c.Columns(ctx, table)
	if err != nil {
		return mutationError("resolve column", err)
	}
	var column *domain.Column
	for i := range cols {
		if cols[i].Position == position {
			column = &cols[i]
			break
		}
	}
	if column == nil {
		return notFoundError(fmt.Sprintf("column %s", req.ID))
	}

	stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteTable(table), quoteIdent(column.Name))
	if req.Cascade {
		stmt += " CASCADE"
	}
	return mutationError("drop column", c.exec(ctx, stmt))
}

// DeleteTable drops the table or view with the given id. Failures are
// reported in the response's Error field; the returned error is only set
// when ctx is already done.
func (c *Client) DeleteTable(ctx context.Context, id int64, cascade bool) (TableDeleteResponse, error) {
	if err := ctx.Err(); err != nil {
		return TableDeleteResponse{}, err
	}
	if cascade && !c.dialect.supportsCascade() {
		return TableDeleteResponse{Error: c.dialect.name() + " does not support dropping with cascade"}, nil
	}
	table, err := c.TableByID(ctx, id)
	if err != nil {
		return TableDeleteResponse{Error: dbMessage(err)}, nil
	}

	kind := "TABLE"
	if table.Kind == domain.KindView {
		kind = "VIEW"
	}
	stmt := fmt.Sprintf("DROP %s %s", kind, quoteTable(table))
	if cascade {
		stmt += " CASCADE"
	}
	if err := c.exec(ctx, stmt); err != nil {
		return TableDeleteResponse{Error: dbMessage(err)}, nil
	}
	return TableDeleteResponse{}, nil
}

// DeleteRows deletes m.Rows by primary key in one transaction.
func (c *Client) DeleteRows(ctx context.Context, m RowMutation) error {
	if len(m.Rows) == 0 {
		return nil
	}
	keys, err := c.PrimaryKeys(ctx, m.Table)
	if err != nil {
		return mutationError("resolve primary keys", err)
	}
	if len(keys) == 0 {
		return unsupportedError("Please add a primary key column to your table to update or delete rows")
	}

	clauses := make([]string, len(keys))
	for i, k := range keys {
		clauses[i] = fmt.Sprintf("%s = %s", quoteIdent(k), c.dialect.placeholder(i+1))
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteTable(m.Table), strings.Join(clauses, " AND "))

	return mutationError("delete rows", c.withRole(ctx, m.Role, func(tx *sql.Tx) error {
		for _, row := range m.Rows {
			args := row.Key(keys)
			for i, v := range args {
				if v == nil {
					return validationError(fmt.Sprintf("row %d is missing primary key %q", row.Index, keys[i]))
				}
			}
			c.logger.Debug("exec", slog.String("sql", stmt), slog.Any("key", args))
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return err
			}
		}
		return nil
	}))
}

// DeleteAllRows deletes every row matching m.Filters.
func (c *Client) DeleteAllRows(ctx context.Context, m RowMutation) error {
	where, args, err := buildWhere(c.dialect, m.Filters, 1)
	if err != nil {
		return err
	}
	stmt := "DELETE FROM " + quoteTable(m.Table)
	if where != "" {
		stmt += " WHERE " + where
	}
	return mutationError("delete all rows", c.withRole(ctx, m.Role, func(tx *sql.Tx) error {
		c.logger.Debug("exec", slog.String("sql", stmt))
		_, err := tx.ExecContext(ctx, stmt, args...)
		return err
	}))
}

// TruncateRows removes every row of m.Table.
func (c *Client) TruncateRows(ctx context.Context, m RowMutation) error {
	stmt := c.dialect.truncate(m.Table)
	return mutationError("truncate", c.withRole(ctx, m.Role, func(tx *sql.Tx) error {
		c.logger.Debug("exec", slog.String("sql", stmt))
		_, err := tx.ExecContext(ctx, stmt)
		return err
	}))
}

func (c *Client) exec(ctx context.Context, stmt string) error {
	c.logger.Debug("exec", slog.String("sql", stmt))
	_, err := c.db.ExecContext(ctx, stmt)
	return err
}

// withRole runs fn in a transaction, switching to role first when one is
// impersonated.
func (c *Client) withRole(ctx context.Context, role domain.Role, fn func(tx *sql.Tx) error) error {
	if !role.IsZero() && !c.dialect.supportsRoles() {
		return unsupportedError(c.dialect.name() + " does not support role impersonation")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if !role.IsZero() {
		if _, err := tx.ExecContext(ctx, "SET LOCAL ROLE "+quoteIdent(role.Name)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
