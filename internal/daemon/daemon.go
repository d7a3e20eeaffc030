package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"agentdash/internal/logging"
	"agentdash/internal/store"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Address  string
	Tokens   Tokens
	Version  string
	Threads  store.ThreadStore
	Settings store.SettingsStore
	Feedback store.FeedbackStore
	// Checks are pinged by /api/health, keyed by dependency name.
	Checks map[string]Pinger
	Logger logging.Logger
}

type Daemon struct {
	opts       Options
	instanceID string
	logger     logging.Logger
	server     *http.Server
}

func New(opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Daemon{
		opts:       opts,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

func (d *Daemon) InstanceID() string {
	return d.instanceID
}

func (d *Daemon) Handler() http.Handler {
	settings := NewSettingsService(d.opts.Settings)
	api := &API{
		Version:  d.opts.Version,
		Tokens:   d.opts.Tokens,
		Threads:  NewThreadService(d.opts.Threads),
		Settings: settings,
		Feedback: NewFeedbackService(d.opts.Feedback),
		Health:   NewHealthService(d.instanceID, d.opts.Version, d.opts.Checks, settings, d.logger),
		Logger:   d.logger,
	}
	return api.Routes()
}

// Run serves until ctx is canceled, then shuts the server down gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", d.opts.Address)
	if err != nil {
		return err
	}
	return d.Serve(ctx, listener)
}

func (d *Daemon) Serve(ctx context.Context, listener net.Listener) error {
	d.server = &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		d.logger.Info("daemon_listening",
			logging.F("addr", listener.Addr().String()),
			logging.F("instance_id", d.instanceID),
			logging.F("version", d.opts.Version),
		)
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		d.logger.Info("daemon_stopped")
		return nil
	})
	return group.Wait()
}
