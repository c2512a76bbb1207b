package main

import (
	"fmt"
	"io"
	"os"

	"dbdeck/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	var withViews bool
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the schema",
		Example: `  dbdeck tables --driver sqlite --db-url ./app.db
  dbdeck tables --schema billing --views`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			opts := loadOptions()
			client, err := connect(ctx, opts, io.Discard)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			tables, err := client.GetTables(ctx, opts.schema)
			if err != nil {
				return fmt.Errorf("list tables: %w", err)
			}
			if withViews {
				views, err := client.ListViews(ctx, opts.schema)
				if err != nil {
					return fmt.Errorf("list views: %w", err)
				}
				tables = append(tables, views...)
			}
			renderTables(cmd.OutOrStdout(), tables, isTerminal(os.Stdout))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withViews, "views", false, "Include views")
	return cmd
}

func renderTables(w io.Writer, tables []domain.Table, tty bool) {
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(w, "(0 tables)")
		return
	}
	t := newTableWriter(w, tty)
	t.AppendHeader(table.Row{"ID", "Name", "Kind"})
	for _, tbl := range tables {
		t.AppendRow(table.Row{tbl.ID, tbl.QualifiedName(), string(tbl.Kind)})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d %s)\n", len(tables), pluralize(len(tables), "table", "tables"))
}

// newTableWriter draws box characters on a terminal and plain ASCII
// otherwise.
func newTableWriter(w io.Writer, tty bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if tty {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	return t
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
