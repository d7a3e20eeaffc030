package daemon

import (
	"agentdash/internal/logging"
	"agentdash/internal/types"
)

type API struct {
	Version  string
	Tokens   Tokens
	Threads  *ThreadService
	Settings *SettingsService
	Feedback *FeedbackService
	Health   *HealthService
	Logger   logging.Logger
}

type ThreadsResponse struct {
	Threads []*types.Thread `json:"threads"`
}

type MessagesResponse struct {
	Messages []*types.Message `json:"messages"`
}

type SettingsResponse struct {
	Settings []SettingEntry `json:"settings"`
}

type FeedbackResponse struct {
	Feedback []*types.Feedback `json:"feedback"`
}

type DeleteThreadResponse struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}
