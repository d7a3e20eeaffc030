package types

import "time"

const (
	MinFeedbackRating = 0
	MaxFeedbackRating = 5
)

// Feedback is a rating on a thread or on a single message. At most one row
// exists per message.
type Feedback struct {
	FeedbackID   string    `json:"feedback_id"`
	ThreadID     string    `json:"thread_id,omitempty"`
	MessageID    string    `json:"message_id,omitempty"`
	Rating       float64   `json:"rating"`
	FeedbackText string    `json:"feedback_text,omitempty"`
	HelpImprove  bool      `json:"help_improve"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
