package main

import (
	"context"

	"agentdash/internal/client"
	"agentdash/internal/config"
	"agentdash/internal/types"
)

type clientFactory func() (commandClient, error)

type commandClient interface {
	EnsureDaemon(ctx context.Context) error
	Health(ctx context.Context) (*types.Health, error)
	ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error)
	CreateThread(ctx context.Context, req client.CreateThreadRequest) (*types.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	ListSettings(ctx context.Context) ([]client.SettingEntry, error)
	UpdateSettings(ctx context.Context, entries []client.SettingEntry) ([]client.SettingEntry, error)
	SubmitFeedback(ctx context.Context, req client.SubmitFeedbackRequest) (*types.Feedback, error)
	ListFeedback(ctx context.Context, query client.FeedbackQuery) ([]*types.Feedback, error)
}

// newDashClient builds a daemon client from the core config. *client.Client
// satisfies commandClient directly.
func newDashClient() (commandClient, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return nil, err
	}
	c, err := client.New(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}
