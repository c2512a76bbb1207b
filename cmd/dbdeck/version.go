package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"

	"dbdeck/internal/config"
	"dbdeck/internal/update"

	"github.com/spf13/cobra"
)

const versionCheckTimeout = 5 * time.Second

// Version information, injected at build time via ldflags.
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = ""
)

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the dbdeck version, build and platform.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printVersion(cmd.OutOrStdout())
			if !check {
				return nil
			}
			checker := update.NewChecker(config.GetString(config.KeyReleasesURL), versionCheckTimeout)
			return printUpdateCheck(cmd.Context(), cmd.OutOrStdout(), checker, Version)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")
	return cmd
}

func printUpdateCheck(ctx context.Context, w io.Writer, checker *update.Checker, current string) error {
	info, err := checker.Check(ctx, current)
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	switch {
	case info == nil:
		_, _ = fmt.Fprintln(w, "Update check skipped for development builds.")
	case info.UpdateAvailable:
		_, _ = fmt.Fprintf(w, "Update available: %s -> %s\n", info.Current, info.Latest)
		if info.ReleaseURL != "" {
			_, _ = fmt.Fprintln(w, info.ReleaseURL)
		}
	default:
		_, _ = fmt.Fprintf(w, "dbdeck %s is up to date.\n", info.Current)
	}
	return nil
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "dbdeck version %s", Version)
	if Build != "unknown" && Build != "" {
		_, _ = fmt.Fprintf(w, " (build: %s)", Build)
	}
	if BuildTime != "" {
		_, _ = fmt.Fprintf(w, " [%s]", BuildTime)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" && len(setting.Value) > 7 {
					_, _ = fmt.Fprintf(w, "Commit: %s\n", setting.Value[:7])
					break
				}
			}
		}
	}
}
