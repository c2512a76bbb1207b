package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"dbdeck/internal/notifications"

	"github.com/charmbracelet/x/ansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const titleWidth = 60

func newNotificationsCmd() *cobra.Command {
	var (
		statuses   []string
		priorities []string
		limit      int
		all        bool
	)
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notices"},
		Short:   "Print the notification feed",
		Example: `  dbdeck notifications --api-url https://api.example.com
  dbdeck notifications --status archived --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := loadOptions()
			if len(statuses) > 0 {
				opts.statuses = nil
				for _, s := range statuses {
					opts.statuses = append(opts.statuses, notifications.Status(strings.TrimSpace(s)))
				}
			}
			if len(priorities) > 0 {
				opts.priorities = nil
				for _, p := range priorities {
					opts.priorities = append(opts.priorities, notifications.Priority(strings.TrimSpace(p)))
				}
			}
			if limit > 0 {
				opts.notificationsLimit = limit
			}

			feed := notifications.NewFeed(notificationsClient(opts), notificationsQuery(opts))
			ctx := cmd.Context()
			for {
				if _, err := feed.Next(ctx); err != nil {
					return fmt.Errorf("load notifications: %w", err)
				}
				if !all || !feed.HasNext() {
					break
				}
			}
			renderNotifications(cmd.OutOrStdout(), feed.Items(), isTerminal(os.Stdout))
			if !all && feed.HasNext() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "More notifications available, use --all to load every page.")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Statuses to include (new, seen, archived); default new,seen")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Priorities to include (Critical, Warning, Info)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().BoolVar(&all, "all", false, "Load every page")
	return cmd
}

func notificationsClient(opts options) *notifications.Client {
	return notifications.NewClient(opts.apiURL, notifications.WithToken(opts.apiToken))
}

func notificationsQuery(opts options) notifications.Query {
	return notifications.Query{
		Limit:    opts.notificationsLimit,
		Status:   opts.statuses,
		Priority: opts.priorities,
	}
}

func renderNotifications(w io.Writer, items []notifications.Notification, tty bool) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No notifications.")
		return
	}
	t := newTableWriter(w, tty)
	t.AppendHeader(table.Row{"Priority", "Status", "Inserted", "Title"})
	for _, n := range items {
		inserted := ""
		if !n.InsertedAt.IsZero() {
			inserted = n.InsertedAt.Local().Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{
			string(n.Priority),
			string(n.Status),
			inserted,
			ansi.Truncate(n.Data.Title, titleWidth, "…"),
		})
	}
	t.Render()
}

