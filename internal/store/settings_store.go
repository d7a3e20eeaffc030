package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"agentdash/internal/types"
)

type SettingsStore interface {
	List(ctx context.Context) ([]*types.Setting, error)
	Get(ctx context.Context, key string) (*types.Setting, bool, error)
	Insert(ctx context.Context, key string, value json.RawMessage) (*types.Setting, error)
	Upsert(ctx context.Context, entries []types.Setting) ([]*types.Setting, error)
}

// PostgresSettingsStore runs every statement inside a transaction that first
// assumes the configured privileged role, so the table's row level security
// policy is the only path to the rows.
type PostgresSettingsStore struct {
	db   *sql.DB
	role string
}

func NewPostgresSettingsStore(db *sql.DB, role string) *PostgresSettingsStore {
	return &PostgresSettingsStore{db: db, role: strings.TrimSpace(role)}
}

const settingsColumns = "key, value, created_at, updated_at"

func (s *PostgresSettingsStore) List(ctx context.Context) ([]*types.Setting, error) {
	var out []*types.Setting
	err := s.withPrivilegedTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT "+settingsColumns+" FROM settings ORDER BY key")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			setting, err := scanSetting(rows)
			if err != nil {
				return err
			}
			out = append(out, setting)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return out, nil
}

func (s *PostgresSettingsStore) Get(ctx context.Context, key string) (*types.Setting, bool, error) {
	var setting *types.Setting
	err := s.withPrivilegedTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, "SELECT "+settingsColumns+" FROM settings WHERE key = $1", key)
		var err error
		setting, err = scanSetting(row)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return setting, true, nil
}

// Insert adds a new key. An existing key fails with ErrDuplicateKey and the
// stored row is left untouched.
func (s *PostgresSettingsStore) Insert(ctx context.Context, key string, value json.RawMessage) (*types.Setting, error) {
	var setting *types.Setting
	err := s.withPrivilegedTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			"INSERT INTO settings (key, value) VALUES ($1, $2) RETURNING "+settingsColumns,
			key, jsonbArg(value))
		var err error
		setting, err = scanSetting(row)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert setting %q: %w", key, errors.Join(ErrDuplicateKey, err))
		}
		return nil, fmt.Errorf("insert setting %q: %w", key, err)
	}
	return setting, nil
}

func (s *PostgresSettingsStore) Upsert(ctx context.Context, entries []types.Setting) ([]*types.Setting, error) {
	out := make([]*types.Setting, 0, len(entries))
	err := s.withPrivilegedTx(ctx, func(tx *sql.Tx) error {
		for _, entry := range entries {
			row := tx.QueryRowContext(ctx,
				"INSERT INTO settings (key, value) VALUES ($1, $2) "+
					"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value "+
					"RETURNING "+settingsColumns,
				entry.Key, jsonbArg(entry.Value))
			setting, err := scanSetting(row)
			if err != nil {
				return fmt.Errorf("upsert %q: %w", entry.Key, err)
			}
			out = append(out, setting)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return out, nil
}

func (s *PostgresSettingsStore) withPrivilegedTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s == nil || s.db == nil {
		return errors.New("database not opened")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if s.role != "" {
		if _, err := tx.ExecContext(ctx, "SET LOCAL ROLE "+pgx.Identifier{s.role}.Sanitize()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("assume role %s: %w", s.role, err)
		}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSetting(row rowScanner) (*types.Setting, error) {
	var (
		setting   types.Setting
		value     []byte
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	if err := row.Scan(&setting.Key, &value, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if value != nil {
		setting.Value = json.RawMessage(append([]byte(nil), value...))
	}
	setting.CreatedAt = nullTimePtr(createdAt)
	setting.UpdatedAt = nullTimePtr(updatedAt)
	return &setting, nil
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

// jsonbArg returns nil for SQL NULL and the JSON text otherwise. A JSON
// null literal is stored as SQL NULL, matching the seeded rows.
func jsonbArg(value json.RawMessage) any {
	text := strings.TrimSpace(string(value))
	if text == "" || text == "null" {
		return nil
	}
	return text
}
