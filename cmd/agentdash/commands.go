package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const appName = "agentdash"

type commandWiring struct {
	stdout     io.Writer
	stderr     io.Writer
	newClient  clientFactory
	runDaemon  func(ctx context.Context, background bool) error
	runMigrate func(ctx context.Context, action string, out io.Writer) error
	runUI      func(ctx context.Context, route string) error
	version    string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	version := buildVersion()
	return commandWiring{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newDashClient,
		runDaemon: func(ctx context.Context, background bool) error {
			return runDaemonProcess(ctx, background, stderr, version)
		},
		runMigrate: runMigrations,
		runUI:      runUIProcess,
		version:    version,
	}
}

func newRootCommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Dashboard for AI agent conversations",
		Long:          "agentdash runs a local daemon over Postgres and a terminal dashboard for browsing agent threads.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.Version = wiring.version
	cmd.SetVersionTemplate(appName + " version {{.Version}}\n")
	cmd.SetOut(wiring.stdout)
	cmd.SetErr(wiring.stderr)

	cmd.AddCommand(
		newDaemonCommand(wiring),
		newMigrateCommand(wiring),
		newUICommand(wiring),
		newThreadsCommand(wiring),
		newSettingsCommand(wiring),
		newFeedbackCommand(wiring),
		newHealthCommand(wiring),
	)
	return cmd
}
