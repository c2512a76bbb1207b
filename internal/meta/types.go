package meta

import (
	"log/slog"

	"dbdeck/internal/domain"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures Open.
type Options struct {
	// Driver is DriverPostgres or DriverSQLite.
	Driver string
	// URL is a postgres connection string or a sqlite file path.
	URL string
	// Logger receives statement-level debug logs. Nil discards them.
	Logger *slog.Logger
}

// ColumnDeleteRequest identifies a column to drop. Table is optional; the
// column id already carries its table.
type ColumnDeleteRequest struct {
	ID               string
	Cascade          bool
	ProjectRef       string
	ConnectionString string
	Table            *domain.Table
}

// TableDeleteResponse mirrors the metadata API: a non-empty Error means the
// drop failed.
type TableDeleteResponse struct {
	Error string
}

// RowMutation describes a row delete, delete-all or truncate. Rows is used
// by DeleteRows, Filters by DeleteAllRows.
type RowMutation struct {
	ProjectRef       string
	ConnectionString string
	Table            domain.Table
	Rows             []domain.Row
	Filters          []domain.Filter
	Role             domain.Role
}

// RowsQuery selects a page of rows for the grid.
type RowsQuery struct {
	Table   domain.Table
	Filters []domain.Filter
	Sorts   []domain.Sort
	Limit   int
	Offset  int
}
