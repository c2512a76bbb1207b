package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"dbdeck/internal/config"
	"dbdeck/internal/debug"
	"dbdeck/internal/dispatch"
	"dbdeck/internal/domain"
	"dbdeck/internal/meta"
	"dbdeck/internal/notifications"
	"dbdeck/internal/querycache"
	"dbdeck/internal/role"
	"dbdeck/internal/ui"
	"dbdeck/internal/ui/theme"
	"dbdeck/internal/urlstate"

	tea "github.com/charmbracelet/bubbletea"
)

const connectTimeout = 15 * time.Second

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

func runBrowser(ctx context.Context, opts options, stderr io.Writer) error {
	start := time.Now()
	client, err := connect(ctx, opts, stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	cfg := appConfig(opts, client)
	err = runProgram(ctx, cfg, ui.NewApp, func(app *ui.App) programRunner {
		return tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	})
	if err != nil {
		return err
	}
	printExitSummary(stderr, exitSummary{
		Version: Version,
		Target:  targetLabel(opts),
		Elapsed: time.Since(start),
	})
	return nil
}

// connect opens the database behind a spinner when stderr is a terminal.
func connect(ctx context.Context, opts options, stderr io.Writer) (*meta.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var display *StartupDisplay
	if isTerminal(stderr) {
		display = NewStartupDisplay(stderr)
		display.Stage(fmt.Sprintf("Connecting to %s", targetLabel(opts)))
	}
	client, err := meta.Open(ctx, meta.Options{
		Driver: opts.driver,
		URL:    opts.dbURL,
		Logger: debug.Logger(),
	})
	if display != nil {
		display.Stop()
	}
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return client, nil
}

// appConfig wires the browser's collaborators around client.
func appConfig(opts options, client *meta.Client) ui.Config {
	cache := querycache.New()
	url := urlstate.New()
	roles := role.New(opts.role)

	dispatcher := dispatch.New(dispatch.Deps{
		Columns: client,
		Tables:  client,
		Rows:    client,
		Lister:  client,
		Cache:   cache,
		URL:     url,
		Roles:   roles,
	}, dispatch.WithLogger(debug.Logger()))

	if opts.theme != "" && !theme.Set(opts.theme) {
		debug.Logf("unknown theme %q, keeping %s", opts.theme, theme.CurrentName())
	}

	cfg := ui.Config{
		Project:      &domain.Project{Ref: opts.projectRef, ConnectionString: opts.dbURL},
		Schema:       opts.schema,
		Driver:       client.Driver(),
		Browser:      client,
		Dispatcher:   dispatcher,
		URL:          url,
		Cache:        cache,
		Role:         roles.ImpersonatedRole,
		OutputFormat: opts.outputFormat,
		Version:      Version,
		SaveTheme:    config.SaveTheme,
	}
	if opts.apiURL != "" {
		api := notificationsClient(opts)
		cfg.Feed = notifications.NewFeed(api, notificationsQuery(opts))
		cfg.Notices = api
	}
	return cfg
}

func runProgram(ctx context.Context, cfg ui.Config, builder func(context.Context, ui.Config) (*ui.App, error), factory programFactory) error {
	app, err := builder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize UI: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	prog := factory(app)
	if prog == nil {
		return fmt.Errorf("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

func targetLabel(opts options) string {
	if opts.projectRef != "" && opts.projectRef != "default" {
		return opts.projectRef
	}
	if opts.driver != "" {
		return opts.driver + " database"
	}
	return "database"
}
