package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"agentdash/internal/types"
)

type MessageOrder string

const (
	MessageOrderAsc  MessageOrder = "asc"
	MessageOrderDesc MessageOrder = "desc"
)

type MessageQuery struct {
	Order MessageOrder
	Limit int
}

type ThreadStore interface {
	ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error)
	GetThread(ctx context.Context, threadID string) (*types.Thread, error)
	CreateThread(ctx context.Context, thread *types.Thread) (*types.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	ListMessages(ctx context.Context, threadID string, query MessageQuery) ([]*types.Message, error)
	CreateMessage(ctx context.Context, message *types.Message) (*types.Message, error)
}

type PostgresThreadStore struct {
	db *sql.DB
}

func NewPostgresThreadStore(db *sql.DB) *PostgresThreadStore {
	return &PostgresThreadStore{db: db}
}

const threadColumns = "thread_id, name, icon_name, metadata, created_at, updated_at"
const messageColumns = "message_id, thread_id, type, content, is_llm_message, created_at"

// PageOffset converts a 1-based page into a row offset. Pages whose offset
// does not fit in an int fail with ErrOutOfRange.
func PageOffset(page, limit int) (int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if page-1 > math.MaxInt/limit {
		return 0, fmt.Errorf("page %d with limit %d: %w", page, limit, ErrOutOfRange)
	}
	return (page - 1) * limit, nil
}

func (s *PostgresThreadStore) ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	if limit < 1 {
		limit = 1
	}
	offset, err := PageOffset(page, limit)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+threadColumns+" FROM threads ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()
	out := make([]*types.Thread, 0, limit)
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		out = append(out, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return out, nil
}

func (s *PostgresThreadStore) GetThread(ctx context.Context, threadID string) (*types.Thread, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+threadColumns+" FROM threads WHERE thread_id = $1", threadID)
	thread, err := scanThread(row)
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", threadID, translateError(err))
	}
	return thread, nil
}

func (s *PostgresThreadStore) CreateThread(ctx context.Context, thread *types.Thread) (*types.Thread, error) {
	if thread == nil {
		return nil, errors.New("thread is required")
	}
	metadata, err := marshalMetadata(thread.Metadata)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		"INSERT INTO threads (thread_id, name, icon_name, metadata) VALUES ($1, $2, $3, $4) RETURNING "+threadColumns,
		thread.ThreadID, thread.Name, thread.Icon(), metadata)
	created, err := scanThread(row)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", translateError(err))
	}
	return created, nil
}

func (s *PostgresThreadStore) DeleteThread(ctx context.Context, threadID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM threads WHERE thread_id = $1", threadID)
	if err != nil {
		return fmt.Errorf("delete thread %s: %w", threadID, translateError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete thread %s: %w", threadID, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete thread %s: %w", threadID, ErrNotFound)
	}
	return nil
}

func (s *PostgresThreadStore) ListMessages(ctx context.Context, threadID string, query MessageQuery) ([]*types.Message, error) {
	order := "ASC"
	if query.Order == MessageOrderDesc {
		order = "DESC"
	}
	limit := query.Limit
	if limit < 1 {
		limit = 1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE thread_id = $1 ORDER BY created_at "+order+" LIMIT $2",
		threadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", translateError(err))
	}
	defer rows.Close()
	out := make([]*types.Message, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

// CreateMessage inserts the message and bumps the owning thread's updated_at
// in one transaction. A missing thread yields ErrNotFound.
func (s *PostgresThreadStore) CreateMessage(ctx context.Context, message *types.Message) (*types.Message, error) {
	if message == nil {
		return nil, errors.New("message is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, "UPDATE threads SET updated_at = now() WHERE thread_id = $1", message.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", translateError(err))
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	} else if affected == 0 {
		return nil, fmt.Errorf("create message: thread %s: %w", message.ThreadID, ErrNotFound)
	}

	content := message.Content
	if len(content) == 0 {
		content = json.RawMessage(`""`)
	}
	row := tx.QueryRowContext(ctx,
		"INSERT INTO messages (message_id, thread_id, type, content, is_llm_message) VALUES ($1, $2, $3, $4, $5) RETURNING "+messageColumns,
		message.MessageID, message.ThreadID, string(message.Type), string(content), message.IsLLMMessage)
	created, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", translateError(err))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return created, nil
}

func scanThread(row rowScanner) (*types.Thread, error) {
	var (
		thread   types.Thread
		metadata []byte
	)
	if err := row.Scan(&thread.ThreadID, &thread.Name, &thread.IconName, &metadata, &thread.CreatedAt, &thread.UpdatedAt); err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(metadata, &decoded); err == nil && len(decoded) > 0 {
			thread.Metadata = decoded
		}
	}
	thread.CreatedAt = thread.CreatedAt.UTC()
	thread.UpdatedAt = thread.UpdatedAt.UTC()
	return &thread, nil
}

func scanMessage(row rowScanner) (*types.Message, error) {
	var (
		message     types.Message
		messageType string
		content     []byte
		createdAt   time.Time
	)
	if err := row.Scan(&message.MessageID, &message.ThreadID, &messageType, &content, &message.IsLLMMessage, &createdAt); err != nil {
		return nil, err
	}
	message.Type = types.MessageType(strings.TrimSpace(messageType))
	message.Content = json.RawMessage(append([]byte(nil), content...))
	message.CreatedAt = createdAt.UTC()
	return &message, nil
}

func marshalMetadata(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode thread metadata: %w", err)
	}
	return string(raw), nil
}
