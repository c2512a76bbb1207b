package confirm

import (
	"fmt"

	"dbdeck/internal/domain"
)

// Prompt is the copy shown by a confirmation modal.
type Prompt struct {
	Header         string
	Body           string
	ConfirmLabel   string
	BusyLabel      string
	CascadeOption  *CascadeOption
	CascadeWarning *CascadeWarning
}

// CascadeOption describes the cascade checkbox.
type CascadeOption struct {
	Label       string
	Description string
	Checked     bool
}

// CascadeWarning is shown while cascade is checked.
type CascadeWarning struct {
	Title string
	Body  string
}

const (
	cascadeWarningTitle = "Warning: Dropping with cascade may result in unintended consequences"
	cascadeWarningBody  = "All dependent objects will be removed, as will any objects that depend on them, recursively."
)

// PromptFor returns the modal copy for state. table is the selected table
// and may be nil for row and None states.
func PromptFor(state State, table *domain.Table) Prompt {
	switch st := state.(type) {
	case ColumnDelete:
		p := Prompt{
			Header:       fmt.Sprintf("Confirm deletion of column \"%s\"", st.Column.Name),
			Body:         "Are you sure you want to delete the selected column? This action cannot be undone.",
			ConfirmLabel: "Delete",
			BusyLabel:    "Deleting",
			CascadeOption: &CascadeOption{
				Label:       "Drop column with cascade?",
				Description: "Deletes the column and its dependent objects",
				Checked:     st.Cascade,
			},
		}
		if st.Cascade {
			p.CascadeWarning = &CascadeWarning{Title: cascadeWarningTitle, Body: cascadeWarningBody}
		}
		return p
	case TableDelete:
		name := ""
		if table != nil {
			name = table.Name
		}
		p := Prompt{
			Header:       fmt.Sprintf("Confirm deletion of table \"%s\"", name),
			Body:         "Are you sure you want to delete the selected table? This action cannot be undone.",
			ConfirmLabel: "Delete",
			BusyLabel:    "Deleting",
			CascadeOption: &CascadeOption{
				Label:       "Drop table with cascade?",
				Description: "Deletes the table and its dependent objects",
				Checked:     st.Cascade,
			},
		}
		if st.Cascade {
			p.CascadeWarning = &CascadeWarning{Title: cascadeWarningTitle, Body: cascadeWarningBody}
		}
		return p
	case RowDelete:
		n := st.Count()
		header := "Confirm to delete the selected row"
		if n > 1 {
			header += "s"
		}
		return Prompt{
			Header:       header,
			Body:         rowBody(st, n),
			ConfirmLabel: "Delete",
			BusyLabel:    "Deleting",
		}
	default:
		return Prompt{}
	}
}

func rowBody(st RowDelete, n int) string {
	which := "the selected"
	if st.AllSelected {
		which = "all"
	}
	count := ""
	if n > 1 {
		count = fmt.Sprintf("%d ", n)
	}
	plural := ""
	if n > 1 {
		plural = "s"
	}
	return fmt.Sprintf("Are you sure you want to delete %s %srow%s? This action cannot be undone.", which, count, plural)
}
