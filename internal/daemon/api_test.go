package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agentdash/internal/store"
	"agentdash/internal/types"
)

const (
	testUserToken  = "user-token"
	testAdminToken = "admin-token"
)

type memoryThreadStore struct {
	mu       sync.Mutex
	threads  []*types.Thread
	messages map[string][]*types.Message
	clock    time.Time
}

func newMemoryThreadStore() *memoryThreadStore {
	return &memoryThreadStore{
		messages: map[string][]*types.Message{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memoryThreadStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memoryThreadStore) ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := append([]*types.Thread(nil), s.threads...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	start := (page - 1) * limit
	if start >= len(sorted) {
		return []*types.Thread{}, nil
	}
	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], nil
}

func (s *memoryThreadStore) GetThread(ctx context.Context, threadID string) (*types.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, thread := range s.threads {
		if thread.ThreadID == threadID {
			return thread, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memoryThreadStore) CreateThread(ctx context.Context, thread *types.Thread) (*types.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	created := *thread
	created.IconName = thread.Icon()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.threads = append(s.threads, &created)
	return &created, nil
}

func (s *memoryThreadStore) DeleteThread(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, thread := range s.threads {
		if thread.ThreadID == threadID {
			s.threads = append(s.threads[:i], s.threads[i+1:]...)
			delete(s.messages, threadID)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *memoryThreadStore) ListMessages(ctx context.Context, threadID string, query store.MessageQuery) ([]*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := append([]*types.Message(nil), s.messages[threadID]...)
	if query.Order == store.MessageOrderDesc {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	if query.Limit > 0 && len(messages) > query.Limit {
		messages = messages[:query.Limit]
	}
	return messages, nil
}

func (s *memoryThreadStore) messageThread(messageID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for threadID, messages := range s.messages {
		for _, message := range messages {
			if message.MessageID == messageID {
				return threadID, true
			}
		}
	}
	return "", false
}

func (s *memoryThreadStore) CreateMessage(ctx context.Context, message *types.Message) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, thread := range s.threads {
		if thread.ThreadID == message.ThreadID {
			thread.UpdatedAt = s.tick()
			found = true
		}
	}
	if !found {
		return nil, store.ErrNotFound
	}
	created := *message
	created.CreatedAt = s.tick()
	s.messages[message.ThreadID] = append(s.messages[message.ThreadID], &created)
	return &created, nil
}

type memoryFeedbackStore struct {
	mu      sync.Mutex
	threads *memoryThreadStore
	rows    []*types.Feedback
}

func (s *memoryFeedbackStore) Submit(ctx context.Context, feedback *types.Feedback) (*types.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *feedback
	if saved.MessageID != "" {
		threadID, ok := s.threads.messageThread(saved.MessageID)
		if !ok {
			return nil, store.ErrNotFound
		}
		if saved.ThreadID == "" {
			saved.ThreadID = threadID
		}
		for _, row := range s.rows {
			if row.MessageID == saved.MessageID {
				saved.FeedbackID = row.FeedbackID
				saved.CreatedAt = row.CreatedAt
				saved.UpdatedAt = s.threads.tick()
				*row = saved
				out := *row
				return &out, nil
			}
		}
	} else if _, err := s.threads.GetThread(ctx, saved.ThreadID); err != nil {
		return nil, err
	}
	saved.CreatedAt = s.threads.tick()
	saved.UpdatedAt = saved.CreatedAt
	s.rows = append(s.rows, &saved)
	out := saved
	return &out, nil
}

func (s *memoryFeedbackStore) List(ctx context.Context, filter store.FeedbackFilter) ([]*types.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*types.Feedback{}
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if filter.ThreadID != "" && row.ThreadID != filter.ThreadID {
			continue
		}
		if filter.MessageID != "" && row.MessageID != filter.MessageID {
			continue
		}
		out = append(out, row)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

type memorySettingsStore struct {
	mu      sync.Mutex
	rows    map[string]json.RawMessage
	listErr error
}

func newMemorySettingsStore() *memorySettingsStore {
	return &memorySettingsStore{rows: map[string]json.RawMessage{
		"llm.openai_api_key":              nil,
		"llm.anthropic_api_key":           nil,
		"feature.new_tool_system_enabled": json.RawMessage("true"),
	}}
}

func (s *memorySettingsStore) List(ctx context.Context) ([]*types.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	keys := make([]string, 0, len(s.rows))
	for key := range s.rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]*types.Setting, 0, len(keys))
	for _, key := range keys {
		out = append(out, &types.Setting{Key: key, Value: s.rows[key]})
	}
	return out, nil
}

func (s *memorySettingsStore) Get(ctx context.Context, key string) (*types.Setting, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, false, s.listErr
	}
	value, ok := s.rows[key]
	if !ok {
		return nil, false, nil
	}
	return &types.Setting{Key: key, Value: value}, true, nil
}

func (s *memorySettingsStore) Insert(ctx context.Context, key string, value json.RawMessage) (*types.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[key]; ok {
		return nil, store.ErrDuplicateKey
	}
	s.rows[key] = value
	return &types.Setting{Key: key, Value: value}, nil
}

func (s *memorySettingsStore) Upsert(ctx context.Context, entries []types.Setting) ([]*types.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Setting, 0, len(entries))
	for _, entry := range entries {
		s.rows[entry.Key] = entry.Value
		out = append(out, &types.Setting{Key: entry.Key, Value: entry.Value})
	}
	return out, nil
}

type testServer struct {
	*httptest.Server
	threads  *memoryThreadStore
	settings *memorySettingsStore
	feedback *memoryFeedbackStore
	checks   map[string]Pinger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		threads:  newMemoryThreadStore(),
		settings: newMemorySettingsStore(),
		checks:   map[string]Pinger{},
	}
	ts.feedback = &memoryFeedbackStore{threads: ts.threads}
	d := New(Options{
		Tokens:   Tokens{User: testUserToken, Admin: testAdminToken},
		Version:  "test",
		Threads:  ts.threads,
		Settings: ts.settings,
		Feedback: ts.feedback,
		Checks:   ts.checks,
	})
	ts.Server = httptest.NewServer(d.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func decodeBody[T any](t *testing.T, payload []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(payload, &out), string(payload))
	return out
}
