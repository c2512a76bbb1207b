package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Project identifies the database the dashboard is connected to.
type Project struct {
	Ref              string
	ConnectionString string
}

// TableKind distinguishes base tables from views.
type TableKind string

const (
	KindTable TableKind = "table"
	KindView  TableKind = "view"
)

// Table references an entity owned by the database catalog. dbdeck never
// mutates a Table value; it only passes the identity to the data layer.
type Table struct {
	ID     int64
	Schema string
	Name   string
	Kind   TableKind
}

// QualifiedName returns schema.name, or just name when the schema is empty.
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column describes one column of a table.
type Column struct {
	ID       string
	TableID  int64
	Name     string
	Position int
	DataType string
	Nullable bool
}

// ColumnID builds the opaque column identifier "<tableID>.<position>".
func ColumnID(tableID int64, position int) string {
	return fmt.Sprintf("%d.%d", tableID, position)
}

// ParseColumnID splits an identifier produced by ColumnID.
func ParseColumnID(id string) (int64, int, error) {
	tablePart, posPart, ok := strings.Cut(id, ".")
	if !ok {
		return 0, 0, invalidColumnIDError(id, nil)
	}
	tableID, err := strconv.ParseInt(tablePart, 10, 64)
	if err != nil {
		return 0, 0, invalidColumnIDError(id, err)
	}
	position, err := strconv.Atoi(posPart)
	if err != nil || position <= 0 {
		return 0, 0, invalidColumnIDError(id, err)
	}
	return tableID, position, nil
}

// Row is one record as displayed in the grid. Index is its position in the
// loaded page and is only meaningful for selection.
type Row struct {
	Index  int
	Values map[string]any
}

// Key returns the values of the given columns, in order.
func (r Row) Key(columns []string) []any {
	out := make([]any, 0, len(columns))
	for _, c := range columns {
		out = append(out, r.Values[c])
	}
	return out
}

// ColumnNames returns the row's column names sorted alphabetically.
func (r Row) ColumnNames() []string {
	names := make([]string, 0, len(r.Values))
	for name := range r.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Role is a database role used for permission-scoped execution.
// The zero value means "no impersonation".
type Role struct {
	Name string
}

// IsZero reports whether no role is being impersonated.
func (r Role) IsZero() bool {
	return strings.TrimSpace(r.Name) == ""
}
