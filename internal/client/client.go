package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"agentdash/internal/config"
	"agentdash/internal/types"
)

const defaultRequestTimeout = 10 * time.Second

type authLevel int

const (
	authNone authLevel = iota
	authUser
	authAdmin
)

type Client struct {
	baseURL        string
	tokenPath      string
	adminTokenPath string
	token          string
	adminToken     string
	http           *http.Client
}

func New(cfg config.CoreConfig) (*Client, error) {
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	adminTokenPath, err := config.AdminTokenPath()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:        strings.TrimRight(cfg.DaemonBaseURL(), "/"),
		tokenPath:      tokenPath,
		adminTokenPath: adminTokenPath,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
	_ = c.loadToken()
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

// WithAdminToken returns a copy of the client that signs admin-only
// requests with token.
func (c *Client) WithAdminToken(token string) *Client {
	clone := *c
	clone.adminToken = strings.TrimSpace(token)
	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports daemon health. A 503 with a health body is a valid answer
// (degraded or maintenance), not an error.
func (c *Client) Health(ctx context.Context) (*types.Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable {
		var health types.Health
		if err := json.Unmarshal(body, &health); err == nil && health.Status != "" {
			return &health, nil
		}
	}
	return nil, apiErrorFromBody(resp, body)
}

func (c *Client) ListThreads(ctx context.Context, page, limit int) ([]*types.Thread, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp ThreadsResponse
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/api/threads", query), nil, authUser, &resp); err != nil {
		return nil, err
	}
	return resp.Threads, nil
}

func (c *Client) GetThread(ctx context.Context, threadID string) (*types.Thread, error) {
	var resp types.Thread
	if err := c.doJSON(ctx, http.MethodGet, threadPath(threadID), nil, authUser, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateThread(ctx context.Context, req CreateThreadRequest) (*types.Thread, error) {
	var resp types.Thread
	if err := c.doJSON(ctx, http.MethodPost, "/api/threads", req, authUser, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	return c.doJSON(ctx, http.MethodDelete, threadPath(threadID), nil, authUser, nil)
}

func (c *Client) ListMessages(ctx context.Context, threadID, order string, limit int) ([]*types.Message, error) {
	query := url.Values{}
	if order != "" {
		query.Set("order", order)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp MessagesResponse
	if err := c.doJSON(ctx, http.MethodGet, withQuery(threadPath(threadID)+"/messages", query), nil, authUser, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) CreateMessage(ctx context.Context, threadID string, req CreateMessageRequest) (*types.Message, error) {
	var resp types.Message
	if err := c.doJSON(ctx, http.MethodPost, threadPath(threadID)+"/messages", req, authUser, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, req SubmitFeedbackRequest) (*types.Feedback, error) {
	var resp types.Feedback
	if err := c.doJSON(ctx, http.MethodPost, "/api/feedback", req, authUser, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListFeedback(ctx context.Context, q FeedbackQuery) ([]*types.Feedback, error) {
	query := url.Values{}
	if q.ThreadID != "" {
		query.Set("thread_id", q.ThreadID)
	}
	if q.MessageID != "" {
		query.Set("message_id", q.MessageID)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	var resp FeedbackResponse
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/api/feedback", query), nil, authUser, &resp); err != nil {
		return nil, err
	}
	return resp.Feedback, nil
}

func (c *Client) ListSettings(ctx context.Context) ([]SettingEntry, error) {
	var resp SettingsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/settings", nil, authUser, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, entries []SettingEntry) ([]SettingEntry, error) {
	if len(entries) == 0 {
		return nil, errors.New("at least one setting is required")
	}
	var resp SettingsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/settings", UpdateSettingsRequest{Settings: entries}, authAdmin, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

// EnsureDaemon starts a background daemon when nothing answers the health
// endpoint. A degraded daemon is still a running daemon.
func (c *Client) EnsureDaemon(ctx context.Context) error {
	if _, err := c.Health(ctx); err == nil {
		return nil
	}

	if err := startBackgroundDaemon(); err != nil {
		return err
	}

	deadline := time.Now().Add(4 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		_, err := c.Health(ctx)
		if err == nil {
			_ = c.loadToken()
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(150 * time.Millisecond):
		}
	}
	if lastErr == nil {
		lastErr = errors.New("daemon not reachable after start")
	}
	return lastErr
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, auth authLevel, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch auth {
	case authUser:
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	case authAdmin:
		if err := c.ensureAdminToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	httpClient := c.http
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		if err := c.loadToken(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.token) == "" {
		return errors.New("token not found; is the daemon running?")
	}
	return nil
}

func (c *Client) ensureAdminToken() error {
	if strings.TrimSpace(c.adminToken) == "" && c.adminTokenPath != "" {
		token, err := readTokenFile(c.adminTokenPath)
		if err != nil {
			return err
		}
		c.adminToken = token
	}
	if strings.TrimSpace(c.adminToken) == "" {
		return errors.New("admin token not found; settings writes need the daemon's admin token")
	}
	return nil
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	token, err := readTokenFile(c.tokenPath)
	if err != nil {
		return err
	}
	c.token = token
	return nil
}

func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func threadPath(threadID string) string {
	return "/api/threads/" + url.PathEscape(strings.TrimSpace(threadID))
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return apiErrorFromBody(resp, body)
}

func apiErrorFromBody(resp *http.Response, body []byte) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.Unmarshal(body, &payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the daemon.
func IsNotFound(err error) bool {
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusNotFound
}
