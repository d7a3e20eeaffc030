package app

import (
	"time"

	"agentdash/internal/types"
)

type healthMsg struct {
	seq    int
	health *types.Health
	err    error
}

type healthPollMsg struct {
	seq int
}

type threadsMsg struct {
	seq     int
	threads []*types.Thread
	err     error
}

type threadLoadedMsg struct {
	route    Route
	thread   *types.Thread
	messages []*types.Message
	err      error
}

type threadCreatedMsg struct {
	thread *types.Thread
	err    error
}

type messageSentMsg struct {
	threadID string
	text     string
	message  *types.Message
	err      error
}

type feedbackSavedMsg struct {
	threadID  string
	messageID string
	rating    float64
	err       error
}

type prefsSavedMsg struct {
	err error
}

type toastExpiredMsg struct {
	at time.Time
}
