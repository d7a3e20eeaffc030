package store

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdash/internal/types"
)

var (
	threadRowColumns  = []string{"thread_id", "name", "icon_name", "metadata", "created_at", "updated_at"}
	messageRowColumns = []string{"message_id", "thread_id", "type", "content", "is_llm_message", "created_at"}
)

func newThreadStoreWithMock(t *testing.T) (*PostgresThreadStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresThreadStore(db), mock
}

func TestPostgresThreadStore_ListThreadsPaginates(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM threads ORDER BY created_at DESC LIMIT").
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(threadRowColumns).
			AddRow("t2", "Second", "code", []byte(`{"pinned":true}`), now, now).
			AddRow("t1", "First", "bot", []byte(`{}`), now.Add(-time.Hour), now))

	threads, err := store.ListThreads(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "t2", threads[0].ThreadID)
	assert.Equal(t, true, threads[0].Metadata["pinned"])
	assert.Nil(t, threads[1].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresThreadStore_ListThreadsRejectsOverflowingPage(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)

	_, err := store.ListThreads(context.Background(), math.MaxInt, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query may reach postgres")
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, limit int
		want        int
		wantErr     bool
	}{
		{page: 1, limit: 100, want: 0},
		{page: 3, limit: 10, want: 20},
		{page: 0, limit: 10, want: 0},
		{page: math.MaxInt/10 + 1, limit: 10, want: math.MaxInt / 10 * 10},
		{page: math.MaxInt/10 + 2, limit: 10, wantErr: true},
		{page: math.MaxInt, limit: 2, wantErr: true},
	}
	for _, tc := range cases {
		got, err := PageOffset(tc.page, tc.limit)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrOutOfRange, "page=%d limit=%d", tc.page, tc.limit)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "page=%d limit=%d", tc.page, tc.limit)
		assert.GreaterOrEqual(t, got, 0)
	}
}

func TestPostgresThreadStore_GetThreadNotFound(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)

	mock.ExpectQuery("FROM threads WHERE thread_id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(threadRowColumns))

	_, err := store.GetThread(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresThreadStore_CreateThreadDefaultsIcon(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO threads").
		WithArgs("t1", "Research", "bot", "{}").
		WillReturnRows(sqlmock.NewRows(threadRowColumns).AddRow("t1", "Research", "bot", []byte(`{}`), now, now))

	created, err := store.CreateThread(context.Background(), &types.Thread{ThreadID: "t1", Name: "Research"})
	require.NoError(t, err)
	assert.Equal(t, "bot", created.IconName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresThreadStore_DeleteMissingThread(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)

	mock.ExpectExec("DELETE FROM threads").WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteThread(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresThreadStore_ListMessagesOrder(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("ORDER BY created_at DESC LIMIT").
		WithArgs("t1", 50).
		WillReturnRows(sqlmock.NewRows(messageRowColumns).
			AddRow("m2", "t1", "assistant", []byte(`"hi"`), true, now))

	messages, err := store.ListMessages(context.Background(), "t1", MessageQuery{Order: MessageOrderDesc, Limit: 50})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, types.MessageTypeAssistant, messages[0].Type)
	assert.Equal(t, "hi", messages[0].Text())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresThreadStore_CreateMessageTouchesThread(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE threads SET updated_at").WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO messages").
		WithArgs("m1", "t1", "user", `"hello"`, false).
		WillReturnRows(sqlmock.NewRows(messageRowColumns).AddRow("m1", "t1", "user", []byte(`"hello"`), false, now))
	mock.ExpectCommit()

	created, err := store.CreateMessage(context.Background(), &types.Message{
		MessageID: "m1",
		ThreadID:  "t1",
		Type:      types.MessageTypeUser,
		Content:   json.RawMessage(`"hello"`),
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", created.MessageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresThreadStore_CreateMessageMissingThread(t *testing.T) {
	store, mock := newThreadStoreWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE threads SET updated_at").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.CreateMessage(context.Background(), &types.Message{MessageID: "m1", ThreadID: "gone", Type: types.MessageTypeUser})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
