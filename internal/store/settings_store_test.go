package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdash/internal/types"
)

var settingsRowColumns = []string{"key", "value", "created_at", "updated_at"}

func newSettingsStoreWithMock(t *testing.T, role string) (*PostgresSettingsStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresSettingsStore(db, role), mock
}

func TestPostgresSettingsStore_ListAssumesRole(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL ROLE "service_role"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT key, value, created_at, updated_at FROM settings ORDER BY key").
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).
			AddRow("feature.new_tool_system_enabled", []byte("true"), now, now).
			AddRow("llm.openai_api_key", nil, now, now))
	mock.ExpectCommit()

	settings, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, json.RawMessage("true"), settings[0].Value)
	assert.True(t, settings[1].IsNull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_EmptyRoleSkipsRoleSwitch(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT key, value").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(settingsRowColumns))
	mock.ExpectRollback()

	setting, ok, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, setting)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_InsertDuplicateKey(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL ROLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO settings").
		WithArgs("llm.openai_api_key", "\"sk-test\"").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := store.Insert(context.Background(), "llm.openai_api_key", json.RawMessage(`"sk-test"`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_InsertNullValue(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL ROLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO settings").
		WithArgs("feature.x", nil).
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow("feature.x", nil, now, now))
	mock.ExpectCommit()

	setting, err := store.Insert(context.Background(), "feature.x", nil)
	require.NoError(t, err)
	assert.True(t, setting.IsNull())
	require.NotNil(t, setting.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_UpsertJSONNullStoresSQLNull(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL ROLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs("llm.openai_api_key", nil).
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow("llm.openai_api_key", nil, now, now))
	mock.ExpectCommit()

	out, err := store.Upsert(context.Background(), []types.Setting{
		{Key: "llm.openai_api_key", Value: json.RawMessage(" null ")},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsNull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_UpsertRunsInOneTransaction(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL ROLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs("feature.a", "true").
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow("feature.a", []byte("true"), now, now))
	mock.ExpectQuery("ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs("feature.b", "{\"x\":1}").
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow("feature.b", []byte(`{"x":1}`), now, now))
	mock.ExpectCommit()

	out, err := store.Upsert(context.Background(), []types.Setting{
		{Key: "feature.a", Value: json.RawMessage("true")},
		{Key: "feature.b", Value: json.RawMessage(`{"x":1}`)},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "feature.b", out[1].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_UpsertRollsBackOnFailure(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL ROLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO settings").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := store.Upsert(context.Background(), []types.Setting{{Key: "feature.a", Value: json.RawMessage("1")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsStore_RoleFailureAborts(t *testing.T) {
	store, mock := newSettingsStoreWithMock(t, "service_role")

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL ROLE").WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied to set role"})
	mock.ExpectRollback()

	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assume role service_role")
	assert.NoError(t, mock.ExpectationsWereMet())
}
