package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Repository interface {
	Threads() ThreadStore
	Settings() SettingsStore
	Feedback() FeedbackStore
	Ping(ctx context.Context) error
	Close() error
}

type PostgresOptions struct {
	URL             string
	MaxOpenConns    int
	SettingsRole    string
	ConnMaxLifetime time.Duration
}

type postgresRepository struct {
	db       *sql.DB
	threads  ThreadStore
	settings SettingsStore
	feedback FeedbackStore
}

// OpenPostgres opens a pgx-backed pool. It does not dial; callers decide
// whether an unreachable database is fatal.
func OpenPostgres(opts PostgresOptions) (*sql.DB, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("database url is required")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(1, maxOpen/5))
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetConnMaxLifetime(lifetime)
	return db, nil
}

func NewPostgresRepository(db *sql.DB, settingsRole string) Repository {
	return &postgresRepository{
		db:       db,
		threads:  NewPostgresThreadStore(db),
		settings: NewPostgresSettingsStore(db, settingsRole),
		feedback: NewPostgresFeedbackStore(db),
	}
}

func (r *postgresRepository) Threads() ThreadStore {
	return r.threads
}

func (r *postgresRepository) Settings() SettingsStore {
	return r.settings
}

func (r *postgresRepository) Feedback() FeedbackStore {
	return r.feedback
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("database not opened")
	}
	return r.db.PingContext(ctx)
}

func (r *postgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
