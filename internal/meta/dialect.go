package meta

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"dbdeck/internal/domain"

	"github.com/lib/pq"
)

// dialect captures the catalog queries and statement shapes that differ
// between postgres and sqlite.
type dialect interface {
	name() string
	sqlDriver() string
	dsn(raw string) string
	placeholder(n int) string
	operator(op domain.Operator) string
	filterArg(op domain.Operator, value string) any
	supportsCascade() bool
	supportsRoles() bool
	schemaArgs(schema string) []any
	tableArg(t domain.Table) any

	tablesQuery() string
	viewsQuery() string
	tableByIDQuery() string
	columnsQuery() string
	primaryKeysQuery() string
	truncate(table domain.Table) string
}

func quoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func quoteTable(t domain.Table) string {
	if t.Schema == "" {
		return quoteIdent(t.Name)
	}
	return quoteIdent(t.Schema) + "." + quoteIdent(t.Name)
}

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres, "postgresql", "pgx":
		return postgresDialect{}, nil
	case DriverSQLite, "sqlite3":
		return sqliteDialect{}, nil
	default:
		return nil, unsupportedError(fmt.Sprintf("unknown database driver %q", driver))
	}
}

type postgresDialect struct{}

func (postgresDialect) name() string { return DriverPostgres }
func (postgresDialect) sqlDriver() string { return "pgx" }
func (postgresDialect) dsn(raw string) string { return raw }
func (postgresDialect) placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (postgresDialect) supportsCascade() bool { return true }
func (postgresDialect) supportsRoles() bool { return true }
func (postgresDialect) schemaArgs(schema string) []any {
	if schema == "" {
		schema = "public"
	}
	return []any{schema}
}
func (postgresDialect) tableArg(t domain.Table) any { return t.ID }
func (postgresDialect) operator(op domain.Operator) string {
	return op.Symbol()
}
func (postgresDialect) filterArg(_ domain.Operator, value string) any { return value }

func (postgresDialect) tablesQuery() string {
	return `
		SELECT c.oid::bigint, n.nspname, c.relname, 'table'
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p')
		ORDER BY c.relname`
}

func (postgresDialect) viewsQuery() string {
	return `
		SELECT c.oid::bigint, n.nspname, c.relname, 'view'
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('v', 'm')
		ORDER BY c.relname`
}

func (postgresDialect) tableByIDQuery() string {
	return `
		SELECT c.oid::bigint, n.nspname, c.relname,
			CASE WHEN c.relkind IN ('v', 'm') THEN 'view' ELSE 'table' END
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE c.oid::bigint = $1`
}

func (postgresDialect) columnsQuery() string {
	return `
		SELECT a.attnum, a.attname, pg_catalog.format_type(a.atttypid, a.atttypmod), NOT a.attnotnull
		FROM pg_catalog.pg_attribute a
		WHERE a.attrelid::bigint = $1 AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum`
}

func (postgresDialect) primaryKeysQuery() string {
	return `
		SELECT a.attname
		FROM pg_catalog.pg_index i
		JOIN pg_catalog.pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		WHERE i.indrelid::bigint = $1 AND i.indisprimary
		ORDER BY array_position(i.indkey::int2[], a.attnum)`
}

func (postgresDialect) truncate(t domain.Table) string {
	return "TRUNCATE " + quoteTable(t)
}

type sqliteDialect struct{}

func (sqliteDialect) name() string { return DriverSQLite }
func (sqliteDialect) sqlDriver() string { return "sqlite" }
func (sqliteDialect) placeholder(int) string { return "?" }
func (sqliteDialect) supportsCascade() bool { return false }
func (sqliteDialect) supportsRoles() bool { return false }
func (sqliteDialect) schemaArgs(string) []any { return nil }
func (sqliteDialect) tableArg(t domain.Table) any { return t.Name }
// operator keeps like case-sensitive as on postgres: SQLite's LIKE folds
// ASCII case, so like is rendered as GLOB and only ilike uses LIKE.
func (sqliteDialect) operator(op domain.Operator) string {
	switch op {
	case domain.OpLike:
		return "GLOB"
	case domain.OpILike:
		return "LIKE"
	default:
		return op.Symbol()
	}
}

func (sqliteDialect) filterArg(op domain.Operator, value string) any {
	if op == domain.OpLike {
		return likeToGlob(value)
	}
	return value
}

// likeToGlob rewrites a LIKE pattern with the same meaning in GLOB syntax.
func likeToGlob(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteByte('*')
		case '_':
			b.WriteByte('?')
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dsn turns a file path into a WAL DSN; ":memory:" and file: URLs pass through.
func (sqliteDialect) dsn(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == ":memory:" || strings.HasPrefix(trimmed, "file:") {
		return trimmed
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(trimmed)}
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(3000)")
	q.Add("_pragma", "foreign_keys(1)")
	u.RawQuery = q.Encode()
	return u.String()
}

func (sqliteDialect) tablesQuery() string {
	return `
		SELECT rowid, '', name, 'table'
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
}

func (sqliteDialect) viewsQuery() string {
	return `
		SELECT rowid, '', name, 'view'
		FROM sqlite_master
		WHERE type = 'view'
		ORDER BY name`
}

func (sqliteDialect) tableByIDQuery() string {
	return `
		SELECT rowid, '', name, type
		FROM sqlite_master
		WHERE rowid = ? AND type IN ('table', 'view')`
}

// columnsQuery takes the table name; cid is zero-based.
func (sqliteDialect) columnsQuery() string {
	return `SELECT cid + 1, name, type, "notnull" = 0 FROM pragma_table_info(?) ORDER BY cid`
}

func (sqliteDialect) primaryKeysQuery() string {
	return `SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`
}

func (sqliteDialect) truncate(t domain.Table) string {
	return "DELETE FROM " + quoteTable(t)
}
