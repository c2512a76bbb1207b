// Package confirm holds the single active-confirmation slot that gates every
// destructive mutation in dbdeck.
package confirm

import "dbdeck/internal/domain"

// Kind tags the active confirmation variant.
type Kind int

const (
	KindNone Kind = iota
	KindColumn
	KindTable
	KindRow
)

func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindTable:
		return "table"
	case KindRow:
		return "row"
	default:
		return "none"
	}
}

// State is one of None, ColumnDelete, TableDelete or RowDelete.
type State interface {
	Kind() Kind
	isState()
}

// None means no dialog is open.
type None struct{}

func (None) Kind() Kind { return KindNone }
func (None) isState()   {}

// ColumnDelete asks to drop Column from the selected table.
type ColumnDelete struct {
	Column  domain.Column
	Cascade bool
}

func (ColumnDelete) Kind() Kind { return KindColumn }
func (ColumnDelete) isState()   {}

// TableDelete asks to drop the selected table.
type TableDelete struct {
	Cascade bool
}

func (TableDelete) Kind() Kind { return KindTable }
func (TableDelete) isState()   {}

// RowDelete asks to delete rows of the selected table. When AllSelected is
// set, Rows is ignored and NumRows carries the total row count.
type RowDelete struct {
	Rows        []domain.Row
	AllSelected bool
	NumRows     int
	// Callback runs after a successful delete, typically to clear the
	// grid selection. It may be nil.
	Callback func()
}

func (RowDelete) Kind() Kind { return KindRow }
func (RowDelete) isState()   {}

// Count returns the number of rows the dialog talks about.
func (r RowDelete) Count() int {
	if r.AllSelected {
		return r.NumRows
	}
	return len(r.Rows)
}
