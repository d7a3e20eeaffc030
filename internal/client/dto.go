package client

import (
	"encoding/json"

	"agentdash/internal/types"
)

type ThreadsResponse struct {
	Threads []*types.Thread `json:"threads"`
}

type MessagesResponse struct {
	Messages []*types.Message `json:"messages"`
}

type CreateThreadRequest struct {
	Name     string         `json:"name"`
	IconName string         `json:"icon_name,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type CreateMessageRequest struct {
	Type         types.MessageType `json:"type"`
	Content      json.RawMessage   `json:"content"`
	IsLLMMessage bool              `json:"is_llm_message,omitempty"`
}

type DeleteThreadResponse struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type SubmitFeedbackRequest struct {
	Rating       float64 `json:"rating"`
	FeedbackText string  `json:"feedback_text,omitempty"`
	HelpImprove  *bool   `json:"help_improve,omitempty"`
	ThreadID     string  `json:"thread_id,omitempty"`
	MessageID    string  `json:"message_id,omitempty"`
}

type FeedbackQuery struct {
	ThreadID  string
	MessageID string
	Limit     int
}

type FeedbackResponse struct {
	Feedback []*types.Feedback `json:"feedback"`
}

type SettingEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type SettingsResponse struct {
	Settings []SettingEntry `json:"settings"`
}

type UpdateSettingsRequest struct {
	Settings []SettingEntry `json:"settings"`
}
