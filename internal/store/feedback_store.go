package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agentdash/internal/types"
)

type FeedbackFilter struct {
	ThreadID  string
	MessageID string
	Limit     int
}

type FeedbackStore interface {
	Submit(ctx context.Context, feedback *types.Feedback) (*types.Feedback, error)
	List(ctx context.Context, filter FeedbackFilter) ([]*types.Feedback, error)
}

type PostgresFeedbackStore struct {
	db *sql.DB
}

func NewPostgresFeedbackStore(db *sql.DB) *PostgresFeedbackStore {
	return &PostgresFeedbackStore{db: db}
}

const feedbackColumns = "feedback_id, thread_id, message_id, rating, feedback_text, help_improve, created_at, updated_at"

// Submit inserts feedback, or replaces the existing row for the same message.
// A message rated without a thread inherits the message's thread.
func (s *PostgresFeedbackStore) Submit(ctx context.Context, feedback *types.Feedback) (*types.Feedback, error) {
	if feedback == nil {
		return nil, errors.New("feedback is required")
	}
	row := s.db.QueryRowContext(ctx, `INSERT INTO feedback (feedback_id, thread_id, message_id, rating, feedback_text, help_improve)
VALUES ($1, COALESCE($2::uuid, (SELECT thread_id FROM messages WHERE message_id = $3::uuid)), $3, $4, $5, $6)
ON CONFLICT (message_id) WHERE message_id IS NOT NULL DO UPDATE SET
    rating = EXCLUDED.rating,
    feedback_text = EXCLUDED.feedback_text,
    help_improve = EXCLUDED.help_improve,
    thread_id = COALESCE(EXCLUDED.thread_id, feedback.thread_id),
    updated_at = now()
RETURNING `+feedbackColumns,
		feedback.FeedbackID, nullString(feedback.ThreadID), nullString(feedback.MessageID),
		feedback.Rating, nullString(feedback.FeedbackText), feedback.HelpImprove)
	saved, err := scanFeedback(row)
	if err != nil {
		return nil, fmt.Errorf("submit feedback: %w", translateError(err))
	}
	return saved, nil
}

func (s *PostgresFeedbackStore) List(ctx context.Context, filter FeedbackFilter) ([]*types.Feedback, error) {
	limit := filter.Limit
	if limit < 1 {
		limit = 1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+feedbackColumns+` FROM feedback
WHERE ($1::uuid IS NULL OR thread_id = $1::uuid) AND ($2::uuid IS NULL OR message_id = $2::uuid)
ORDER BY created_at DESC LIMIT $3`,
		nullString(filter.ThreadID), nullString(filter.MessageID), limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", translateError(err))
	}
	defer rows.Close()
	out := make([]*types.Feedback, 0)
	for rows.Next() {
		feedback, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, feedback)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}

func scanFeedback(row rowScanner) (*types.Feedback, error) {
	var (
		feedback  types.Feedback
		threadID  sql.NullString
		messageID sql.NullString
		text      sql.NullString
	)
	if err := row.Scan(&feedback.FeedbackID, &threadID, &messageID, &feedback.Rating, &text,
		&feedback.HelpImprove, &feedback.CreatedAt, &feedback.UpdatedAt); err != nil {
		return nil, err
	}
	feedback.ThreadID = threadID.String
	feedback.MessageID = messageID.String
	feedback.FeedbackText = text.String
	feedback.CreatedAt = feedback.CreatedAt.UTC()
	feedback.UpdatedAt = feedback.UpdatedAt.UTC()
	return &feedback, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
