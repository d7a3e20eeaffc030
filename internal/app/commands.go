package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"agentdash/internal/store"
	"agentdash/internal/types"
)

const (
	requestTimeout      = 4 * time.Second
	messageListLimit    = 1000
	threadListFirstPage = 1
	ratingGood          = 5
	ratingBad           = 1
)

func fetchHealthCmd(api HealthAPI, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		health, err := api.Health(ctx)
		return healthMsg{seq: seq, health: health, err: err}
	}
}

func healthPollCmd(interval time.Duration, seq int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return healthPollMsg{seq: seq}
	})
}

func fetchThreadsCmd(api ThreadAPI, seq, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		threads, err := api.ListThreads(ctx, threadListFirstPage, limit)
		return threadsMsg{seq: seq, threads: threads, err: err}
	}
}

// loadThreadCmd fetches a thread and its messages under the navigation scope
// so a newer navigation cancels it.
func loadThreadCmd(parent context.Context, api ThreadAPI, route Route) tea.Cmd {
	threadID, _ := route.ThreadID()
	order := route.MessageOrder()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		thread, err := api.GetThread(ctx, threadID)
		if err != nil {
			return threadLoadedMsg{route: route, err: err}
		}
		messages, err := api.ListMessages(ctx, threadID, order, messageListLimit)
		return threadLoadedMsg{route: route, thread: thread, messages: messages, err: err}
	}
}

func createThreadCmd(api ThreadAPI, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		thread, err := api.CreateThread(ctx, name)
		return threadCreatedMsg{thread: thread, err: err}
	}
}

func sendMessageCmd(parent context.Context, api ThreadAPI, threadID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		message, err := api.SendMessage(ctx, threadID, text)
		return messageSentMsg{threadID: threadID, text: text, message: message, err: err}
	}
}

func rateMessageCmd(api FeedbackAPI, threadID, messageID string, rating float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := api.RateMessage(ctx, threadID, messageID, rating)
		return feedbackSavedMsg{threadID: threadID, messageID: messageID, rating: rating, err: err}
	}
}

func savePrefsCmd(prefs store.UIPrefsStore, snapshot types.UIPrefs) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return prefsSavedMsg{err: prefs.Save(ctx, &snapshot)}
	}
}

func toastExpiryCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(at time.Time) tea.Msg {
		return toastExpiredMsg{at: at}
	})
}
