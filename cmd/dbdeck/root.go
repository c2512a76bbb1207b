package main

import (
	"fmt"
	"strings"

	"dbdeck/internal/config"
	"dbdeck/internal/debug"
	"dbdeck/internal/notifications"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = map[string]string{
	"driver":        config.KeyDatabaseDriver,
	"db-url":        config.KeyDatabaseURL,
	"schema":        config.KeyDatabaseSchema,
	"project":       config.KeyProjectRef,
	"api-url":       config.KeyAPIURL,
	"role":          config.KeyImpersonateRole,
	"output-format": config.KeyOutputFormat,
	"theme":         config.KeyTheme,
	"debug":         config.KeyDebug,
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dbdeck",
		Short: "Terminal table browser for Postgres and SQLite",
		Long: `dbdeck browses the tables of a database schema, lets you filter and sort
rows, and runs destructive changes (drop column, drop table, delete rows,
truncate) behind a confirmation dialog.

Run without a subcommand to open the interactive browser.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			debug.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowser(cmd.Context(), loadOptions(), cmd.ErrOrStderr())
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.String("driver", "", "Database driver (postgres, sqlite)")
	flags.String("db-url", "", "Postgres connection string or SQLite file path")
	flags.String("schema", "", "Schema to browse (default public)")
	flags.String("project", "", "Project ref used for cache keys and mutations")
	flags.String("api-url", "", "Base URL of the platform API serving notifications")
	flags.String("role", "", "Database role row mutations run as")
	flags.String("output-format", "", "Markdown style for notifications (rich, light, plain)")
	flags.String("theme", "", "Color theme")
	flags.Bool("debug", false, "Write a debug log to ~/.dbdeck/debug.log")
	flags.Bool("no-color", false, "Disable colors")

	_ = root.RegisterFlagCompletionFunc("driver", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"postgres", "sqlite"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newTablesCmd())
	root.AddCommand(newNotificationsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}
	if err := config.ApplyOverrides(changedOverrides(cmd.Flags())); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if err := debug.Init(config.GetBool(config.KeyDebug)); err != nil {
		return fmt.Errorf("initialize debug log: %w", err)
	}
	return nil
}

// changedOverrides collects only flags set on the command line so that
// config files and environment keep their say over flag defaults.
func changedOverrides(flags *pflag.FlagSet) map[string]any {
	overrides := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if f.Value.Type() == "bool" {
			overrides[key] = f.Value.String() == "true"
			return
		}
		overrides[key] = strings.TrimSpace(f.Value.String())
	})
	return overrides
}

// options is the resolved configuration of one invocation.
type options struct {
	driver       string
	dbURL        string
	schema       string
	projectRef   string
	apiURL       string
	apiToken     string
	role         string
	outputFormat string
	theme        string

	notificationsLimit int
	statuses           []notifications.Status
	priorities         []notifications.Priority
}

func loadOptions() options {
	schema := strings.TrimSpace(config.GetString(config.KeyDatabaseSchema))
	if schema == "" {
		schema = config.DefaultSchema
	}
	limit := config.GetInt(config.KeyNotificationsLimit)
	if limit <= 0 {
		limit = config.DefaultNotificationsLimit
	}
	opts := options{
		driver:             strings.TrimSpace(config.GetString(config.KeyDatabaseDriver)),
		dbURL:              strings.TrimSpace(config.GetString(config.KeyDatabaseURL)),
		schema:             schema,
		projectRef:         strings.TrimSpace(config.GetString(config.KeyProjectRef)),
		apiURL:             strings.TrimSpace(config.GetString(config.KeyAPIURL)),
		apiToken:           config.GetString(config.KeyAPIToken),
		role:               strings.TrimSpace(config.GetString(config.KeyImpersonateRole)),
		outputFormat:       strings.TrimSpace(config.GetString(config.KeyOutputFormat)),
		theme:              strings.TrimSpace(config.GetString(config.KeyTheme)),
		notificationsLimit: limit,
	}
	for _, s := range splitList(config.GetString(config.KeyNotificationsStatus)) {
		opts.statuses = append(opts.statuses, notifications.Status(s))
	}
	for _, p := range splitList(config.GetString(config.KeyNotificationsPriority)) {
		opts.priorities = append(opts.priorities, notifications.Priority(p))
	}
	return opts
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
