package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"agentdash/internal/app"
	"agentdash/internal/client"
	"agentdash/internal/config"
	"agentdash/internal/events"
	"agentdash/internal/logging"
	"agentdash/internal/store"
	"agentdash/internal/types"
)

func newUICommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			route, _ := cmd.Flags().GetString("route")
			return wiring.runUI(cmd.Context(), route)
		},
	}
	cmd.Flags().String("route", "/", "initial route, e.g. /agents/<thread-id>")
	return cmd
}

func runUIProcess(ctx context.Context, rawRoute string) error {
	route, err := app.ParseRoute(rawRoute)
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	coreCfg, err := config.LoadCoreConfig()
	if err != nil {
		return err
	}
	uiCfg, err := config.LoadUIConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if logPath, err := config.UILogPath(); err == nil {
		if file, err := openAppendLog(logPath); err == nil {
			defer file.Close()
			logOut = file
		}
	}
	logger := logging.New(logOut, logging.ParseLevel(coreCfg.LogLevel())).With(logging.F("component", "ui"))

	dash, err := client.New(coreCfg)
	if err != nil {
		return err
	}
	if err := dash.EnsureDaemon(ctx); err != nil {
		return err
	}

	bindings := app.DefaultKeybindings()
	if path, err := uiCfg.ResolveKeybindingsPath(); err == nil {
		loaded, err := app.LoadKeybindings(path)
		if err != nil {
			logger.Warn("keybindings_load_failed", logging.F("path", path), logging.F("error", err))
		} else {
			bindings = loaded
		}
	}

	var prefs store.UIPrefsStore
	var initial *types.UIPrefs
	if path, err := config.UIPrefsPath(); err == nil {
		boltPrefs, err := store.NewBboltPrefsStore(path)
		if err != nil {
			logger.Warn("ui_prefs_open_failed", logging.F("path", path), logging.F("error", err))
		} else {
			defer boltPrefs.Close()
			prefs = boltPrefs
			if loaded, err := boltPrefs.Load(ctx); err == nil {
				initial = loaded
			} else {
				logger.Warn("ui_prefs_load_failed", logging.F("error", err))
			}
		}
	}

	api := app.NewClientAPI(dash)
	return app.Run(app.Options{
		Health:       api,
		Threads:      api,
		Feedback:     api,
		UI:           uiCfg,
		Keybindings:  bindings,
		Prefs:        prefs,
		InitialPrefs: initial,
		Bus:          events.NewBus[app.SidebarToggled](),
		Logger:       logger,
		Route:        route,
	})
}
