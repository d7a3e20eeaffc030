package app

import (
	"context"
	"encoding/json"

	"agentdash/internal/client"
	"agentdash/internal/types"
)

type HealthAPI interface {
	Health(ctx context.Context) (*types.Health, error)
}

type ThreadAPI interface {
	ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error)
	GetThread(ctx context.Context, threadID string) (*types.Thread, error)
	CreateThread(ctx context.Context, name string) (*types.Thread, error)
	ListMessages(ctx context.Context, threadID, order string, limit int) ([]*types.Message, error)
	SendMessage(ctx context.Context, threadID, text string) (*types.Message, error)
}

type FeedbackAPI interface {
	RateMessage(ctx context.Context, threadID, messageID string, rating float64) (*types.Feedback, error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) Health(ctx context.Context) (*types.Health, error) {
	return a.client.Health(ctx)
}

func (a *ClientAPI) ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	return a.client.ListThreads(ctx, page, limit)
}

func (a *ClientAPI) GetThread(ctx context.Context, threadID string) (*types.Thread, error) {
	return a.client.GetThread(ctx, threadID)
}

func (a *ClientAPI) CreateThread(ctx context.Context, name string) (*types.Thread, error) {
	return a.client.CreateThread(ctx, client.CreateThreadRequest{Name: name})
}

func (a *ClientAPI) ListMessages(ctx context.Context, threadID, order string, limit int) ([]*types.Message, error) {
	return a.client.ListMessages(ctx, threadID, order, limit)
}

func (a *ClientAPI) SendMessage(ctx context.Context, threadID, text string) (*types.Message, error) {
	content, err := json.Marshal(text)
	if err != nil {
		return nil, err
	}
	return a.client.CreateMessage(ctx, threadID, client.CreateMessageRequest{
		Type:    types.MessageTypeUser,
		Content: content,
	})
}

func (a *ClientAPI) RateMessage(ctx context.Context, threadID, messageID string, rating float64) (*types.Feedback, error) {
	return a.client.SubmitFeedback(ctx, client.SubmitFeedbackRequest{
		Rating:    rating,
		ThreadID:  threadID,
		MessageID: messageID,
	})
}
