package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"agentdash/internal/config"
	"agentdash/internal/daemon"
	"agentdash/internal/logging"
	"agentdash/internal/store"
)

func newDaemonCommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the API daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			background, _ := cmd.Flags().GetBool("background")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return wiring.runDaemon(ctx, background)
		},
	}
	cmd.Flags().Bool("background", false, "run in background (logs to file)")
	return cmd
}

func runDaemonProcess(ctx context.Context, background bool, stderr io.Writer, buildVersion string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = stderr
	if background {
		if logPath, err := config.DaemonLogPath(); err == nil {
			if file, err := openAppendLog(logPath); err == nil {
				defer file.Close()
				logOut = file
			}
		}
	}
	logger := logging.New(logOut, logging.ParseLevel(cfg.LogLevel()))

	tokenPath, err := config.TokenPath()
	if err != nil {
		return err
	}
	adminTokenPath, err := config.AdminTokenPath()
	if err != nil {
		return err
	}
	tokens, err := daemon.LoadTokens(tokenPath, adminTokenPath)
	if err != nil {
		return err
	}

	db, err := store.OpenPostgres(store.PostgresOptions{
		URL:          cfg.DatabaseURL(),
		MaxOpenConns: cfg.MaxOpenConns(),
		SettingsRole: cfg.SettingsRole(),
	})
	if err != nil {
		return err
	}
	defer db.Close()
	// An unreachable database is reported through /api/health rather than
	// keeping the daemon down.
	if err := store.Migrate(ctx, db); err != nil {
		logger.Warn("migrations_failed", logging.F("error", err))
	}

	repo := store.NewPostgresRepository(db, cfg.SettingsRole())
	threads := repo.Threads()
	checks := map[string]daemon.Pinger{"postgres": repo}
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		threads = store.NewCachedThreadStore(threads, rdb, cfg.ThreadCacheTTL(), logger)
		checks["redis"] = daemon.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	d := daemon.New(daemon.Options{
		Address:  cfg.DaemonAddress(),
		Tokens:   tokens,
		Version:  buildVersion,
		Threads:  threads,
		Settings: repo.Settings(),
		Feedback: repo.Feedback(),
		Checks:   checks,
		Logger:   logger,
	})
	return d.Run(ctx)
}
