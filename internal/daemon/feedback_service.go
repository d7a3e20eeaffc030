package daemon

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"agentdash/internal/store"
	"agentdash/internal/types"
)

const (
	defaultFeedbackListLimit = 100
	maxFeedbackListLimit     = 1000
	maxFeedbackTextLength    = 4000
)

type SubmitFeedbackRequest struct {
	Rating       *float64 `json:"rating"`
	FeedbackText string   `json:"feedback_text,omitempty"`
	HelpImprove  *bool    `json:"help_improve,omitempty"`
	ThreadID     string   `json:"thread_id,omitempty"`
	MessageID    string   `json:"message_id,omitempty"`
}

type FeedbackService struct {
	feedback store.FeedbackStore
	newID    func() string
}

func NewFeedbackService(feedback store.FeedbackStore) *FeedbackService {
	return &FeedbackService{feedback: feedback, newID: uuid.NewString}
}

func (s *FeedbackService) Submit(ctx context.Context, req *SubmitFeedbackRequest) (*types.Feedback, error) {
	if s == nil || s.feedback == nil {
		return nil, unavailableError("feedback store not available", nil)
	}
	if req == nil {
		return nil, invalidError("feedback payload is required", nil)
	}
	if req.Rating == nil {
		return nil, invalidError("rating is required", nil)
	}
	rating := *req.Rating
	if math.IsNaN(rating) || rating < types.MinFeedbackRating || rating > types.MaxFeedbackRating {
		return nil, invalidError("rating must be between 0 and 5", nil)
	}
	threadID, err := optionalUUID(req.ThreadID, "thread_id")
	if err != nil {
		return nil, err
	}
	messageID, err := optionalUUID(req.MessageID, "message_id")
	if err != nil {
		return nil, err
	}
	if threadID == "" && messageID == "" {
		return nil, invalidError("thread_id or message_id is required", nil)
	}
	text := strings.TrimSpace(req.FeedbackText)
	if len(text) > maxFeedbackTextLength {
		return nil, invalidError("feedback text is too long", nil)
	}
	helpImprove := true
	if req.HelpImprove != nil {
		helpImprove = *req.HelpImprove
	}
	saved, err := s.feedback.Submit(ctx, &types.Feedback{
		FeedbackID:   s.newID(),
		ThreadID:     threadID,
		MessageID:    messageID,
		Rating:       rating,
		FeedbackText: text,
		HelpImprove:  helpImprove,
	})
	if err != nil {
		return nil, storeError("thread or message", err)
	}
	return saved, nil
}

func (s *FeedbackService) List(ctx context.Context, threadID, messageID string, limit int) ([]*types.Feedback, error) {
	if s == nil || s.feedback == nil {
		return nil, unavailableError("feedback store not available", nil)
	}
	threadID, err := optionalUUID(threadID, "thread_id")
	if err != nil {
		return nil, err
	}
	messageID, err = optionalUUID(messageID, "message_id")
	if err != nil {
		return nil, err
	}
	rows, err := s.feedback.List(ctx, store.FeedbackFilter{ThreadID: threadID, MessageID: messageID, Limit: limit})
	if err != nil {
		return nil, storeError("feedback", err)
	}
	if rows == nil {
		rows = []*types.Feedback{}
	}
	return rows, nil
}

func optionalUUID(raw, name string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", invalidError(name+" must be a uuid", err)
	}
	return parsed.String(), nil
}
