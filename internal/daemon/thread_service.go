package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"agentdash/internal/store"
	"agentdash/internal/types"
)

const (
	defaultThreadPageLimit  = 100
	maxThreadPageLimit      = 1000
	defaultMessageListLimit = 1000
	maxMessageListLimit     = 2000
	maxThreadNameLength     = 200
	maxThreadIconNameLength = 64
	defaultThreadName       = "New conversation"
)

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

type ThreadService struct {
	threads store.ThreadStore
	newID   func() string
}

func NewThreadService(threads store.ThreadStore) *ThreadService {
	return &ThreadService{threads: threads, newID: uuid.NewString}
}

func (s *ThreadService) List(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	if s == nil || s.threads == nil {
		return nil, unavailableError("thread store not available", nil)
	}
	if _, err := store.PageOffset(page, limit); err != nil {
		return nil, invalidError("page is too large", err)
	}
	threads, err := s.threads.ListThreads(ctx, page, limit)
	if err != nil {
		return nil, storeError("thread", err)
	}
	if threads == nil {
		threads = []*types.Thread{}
	}
	return threads, nil
}

func (s *ThreadService) Get(ctx context.Context, threadID string) (*types.Thread, error) {
	if s == nil || s.threads == nil {
		return nil, unavailableError("thread store not available", nil)
	}
	threadID, err := normalizeThreadID(threadID)
	if err != nil {
		return nil, err
	}
	thread, err := s.threads.GetThread(ctx, threadID)
	if err != nil {
		return nil, storeError("thread", err)
	}
	return thread, nil
}

func (s *ThreadService) Create(ctx context.Context, req *CreateThreadRequest) (*types.Thread, error) {
	if s == nil || s.threads == nil {
		return nil, unavailableError("thread store not available", nil)
	}
	if req == nil {
		return nil, invalidError("thread payload is required", nil)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultThreadName
	}
	if len(name) > maxThreadNameLength {
		return nil, invalidError("thread name is too long", nil)
	}
	icon := strings.TrimSpace(req.IconName)
	if len(icon) > maxThreadIconNameLength {
		return nil, invalidError("icon name is too long", nil)
	}
	thread, err := s.threads.CreateThread(ctx, &types.Thread{
		ThreadID: s.newID(),
		Name:     name,
		IconName: icon,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, storeError("thread", err)
	}
	return thread, nil
}

func (s *ThreadService) Delete(ctx context.Context, threadID string) error {
	if s == nil || s.threads == nil {
		return unavailableError("thread store not available", nil)
	}
	threadID, err := normalizeThreadID(threadID)
	if err != nil {
		return err
	}
	if err := s.threads.DeleteThread(ctx, threadID); err != nil {
		return storeError("thread", err)
	}
	return nil
}

func (s *ThreadService) ListMessages(ctx context.Context, threadID string, order store.MessageOrder, limit int) ([]*types.Message, error) {
	if s == nil || s.threads == nil {
		return nil, unavailableError("thread store not available", nil)
	}
	threadID, err := normalizeThreadID(threadID)
	if err != nil {
		return nil, err
	}
	if _, err := s.threads.GetThread(ctx, threadID); err != nil {
		return nil, storeError("thread", err)
	}
	messages, err := s.threads.ListMessages(ctx, threadID, store.MessageQuery{Order: order, Limit: limit})
	if err != nil {
		return nil, storeError("thread", err)
	}
	if messages == nil {
		messages = []*types.Message{}
	}
	return messages, nil
}

func (s *ThreadService) CreateMessage(ctx context.Context, threadID string, req *CreateMessageRequest) (*types.Message, error) {
	if s == nil || s.threads == nil {
		return nil, unavailableError("thread store not available", nil)
	}
	threadID, err := normalizeThreadID(threadID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, invalidError("message payload is required", nil)
	}
	if !req.Type.Valid() {
		return nil, invalidError("message type must be one of user, assistant, system, tool", nil)
	}
	if len(req.Content) == 0 || !json.Valid(req.Content) {
		return nil, invalidError("message content must be valid json", nil)
	}
	content, err := types.WrapContent(req.Type, req.Content)
	if err != nil {
		return nil, invalidError("message content must be valid json", err)
	}
	message, err := s.threads.CreateMessage(ctx, &types.Message{
		MessageID:    s.newID(),
		ThreadID:     threadID,
		Type:         req.Type,
		Content:      content,
		IsLLMMessage: req.IsLLMMessage,
	})
	if err != nil {
		return nil, storeError("thread", err)
	}
	return message, nil
}

func normalizeThreadID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalidError("thread id is required", nil)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", notFoundError("thread not found", store.ErrNotFound)
	}
	return parsed.String(), nil
}

func storeError(resource string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFoundError(resource+" not found", err)
	case errors.Is(err, store.ErrDuplicateKey):
		return conflictError(resource+" already exists", err)
	case errors.Is(err, store.ErrOutOfRange):
		return invalidError(resource+" request out of range", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return unavailableError("request canceled", err)
	default:
		return unavailableError(resource+" store failed", err)
	}
}

// parseBoundedInt reads an optional positive query integer, returning
// fallback when absent and an invalid error when out of [1, max].
func parseBoundedInt(raw, name string, fallback, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidError(name+" must be an integer", err)
	}
	if val < 1 || (max > 0 && val > max) {
		if max > 0 {
			return 0, invalidError(name+" must be between 1 and "+strconv.Itoa(max), nil)
		}
		return 0, invalidError(name+" must be at least 1", nil)
	}
	return val, nil
}

func parseMessageOrder(raw string) (store.MessageOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(store.MessageOrderAsc):
		return store.MessageOrderAsc, nil
	case string(store.MessageOrderDesc):
		return store.MessageOrderDesc, nil
	default:
		return "", invalidError("order must be asc or desc", nil)
	}
}
