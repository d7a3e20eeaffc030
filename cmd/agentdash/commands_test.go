package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"agentdash/internal/client"
	"agentdash/internal/types"
)

type fakeCommandClient struct {
	ensureDaemonCalls int
	ensureDaemonErr   error
	health            *types.Health
	threads           []*types.Thread
	listPage          int
	listLimit         int
	createRequests    []client.CreateThreadRequest
	deleted           []string
	settings          []client.SettingEntry
	updates           [][]client.SettingEntry
	feedback          []*types.Feedback
	feedbackQuery     client.FeedbackQuery
	submitted         []client.SubmitFeedbackRequest
}

func (f *fakeCommandClient) EnsureDaemon(context.Context) error {
	f.ensureDaemonCalls++
	return f.ensureDaemonErr
}

func (f *fakeCommandClient) Health(context.Context) (*types.Health, error) {
	return f.health, nil
}

func (f *fakeCommandClient) ListThreads(_ context.Context, page, limit int) ([]*types.Thread, error) {
	f.listPage = page
	f.listLimit = limit
	return f.threads, nil
}

func (f *fakeCommandClient) CreateThread(_ context.Context, req client.CreateThreadRequest) (*types.Thread, error) {
	f.createRequests = append(f.createRequests, req)
	return &types.Thread{ThreadID: "thread-123", Name: req.Name}, nil
}

func (f *fakeCommandClient) DeleteThread(_ context.Context, threadID string) error {
	f.deleted = append(f.deleted, threadID)
	return nil
}

func (f *fakeCommandClient) ListSettings(context.Context) ([]client.SettingEntry, error) {
	return f.settings, nil
}

func (f *fakeCommandClient) UpdateSettings(_ context.Context, entries []client.SettingEntry) ([]client.SettingEntry, error) {
	f.updates = append(f.updates, entries)
	return entries, nil
}

func (f *fakeCommandClient) SubmitFeedback(_ context.Context, req client.SubmitFeedbackRequest) (*types.Feedback, error) {
	f.submitted = append(f.submitted, req)
	return &types.Feedback{FeedbackID: "feedback-1", ThreadID: req.ThreadID, MessageID: req.MessageID, Rating: req.Rating}, nil
}

func (f *fakeCommandClient) ListFeedback(_ context.Context, query client.FeedbackQuery) ([]*types.Feedback, error) {
	f.feedbackQuery = query
	return f.feedback, nil
}

func fixedFactory(c commandClient) clientFactory {
	return func() (commandClient, error) {
		return c, nil
	}
}

func testWiring(fake *fakeCommandClient) (commandWiring, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	return commandWiring{
		stdout:    stdout,
		stderr:    &bytes.Buffer{},
		newClient: fixedFactory(fake),
		runDaemon: func(context.Context, bool) error { return errors.New("unexpected daemon run") },
		runMigrate: func(context.Context, string, io.Writer) error {
			return errors.New("unexpected migrate run")
		},
		runUI:   func(context.Context, string) error { return errors.New("unexpected ui run") },
		version: "test",
	}, stdout
}

func executeCommand(wiring commandWiring, args ...string) error {
	cmd := newRootCommand(wiring)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestDaemonCommandBackgroundFlag(t *testing.T) {
	wiring, _ := testWiring(&fakeCommandClient{})
	var gotBackground bool
	wiring.runDaemon = func(_ context.Context, background bool) error {
		gotBackground = background
		return nil
	}
	if err := executeCommand(wiring, "daemon", "--background"); err != nil {
		t.Fatalf("expected daemon run to succeed, got err=%v", err)
	}
	if !gotBackground {
		t.Fatalf("expected background flag passed through")
	}
}

func TestMigrateCommandPassesAction(t *testing.T) {
	wiring, stdout := testWiring(&fakeCommandClient{})
	var actions []string
	wiring.runMigrate = func(_ context.Context, action string, out io.Writer) error {
		actions = append(actions, action)
		_, err := io.WriteString(out, "schema version 2\n")
		return err
	}
	if err := executeCommand(wiring, "migrate", "up"); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := executeCommand(wiring, "migrate", "status"); err != nil {
		t.Fatalf("migrate status: %v", err)
	}
	if strings.Join(actions, ",") != "up,status" {
		t.Fatalf("unexpected actions: %v", actions)
	}
	if !strings.Contains(stdout.String(), "schema version 2") {
		t.Fatalf("expected version output, got %q", stdout.String())
	}
}

func TestUICommandPassesRoute(t *testing.T) {
	wiring, _ := testWiring(&fakeCommandClient{})
	var gotRoute string
	wiring.runUI = func(_ context.Context, route string) error {
		gotRoute = route
		return nil
	}
	if err := executeCommand(wiring, "ui", "--route", "/agents/t1"); err != nil {
		t.Fatalf("ui: %v", err)
	}
	if gotRoute != "/agents/t1" {
		t.Fatalf("unexpected route %q", gotRoute)
	}
}

func TestThreadsListPrintsTable(t *testing.T) {
	fake := &fakeCommandClient{
		threads: []*types.Thread{
			{ThreadID: "t1", Name: "Research", IconName: "search", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
			{ThreadID: "t2"},
		},
	}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "threads", "list", "--limit", "5"); err != nil {
		t.Fatalf("threads list: %v", err)
	}
	if fake.ensureDaemonCalls != 1 {
		t.Fatalf("expected ensure daemon once, got %d", fake.ensureDaemonCalls)
	}
	if fake.listPage != 1 || fake.listLimit != 5 {
		t.Fatalf("unexpected paging: page=%d limit=%d", fake.listPage, fake.listLimit)
	}
	out := stdout.String()
	for _, want := range []string{"ID", "NAME", "t1", "Research", "search", "2026-01-02T03:04:05Z", "t2", "bot"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestThreadsCreateWritesID(t *testing.T) {
	fake := &fakeCommandClient{}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "threads", "create", " demo ", "--icon", "code"); err != nil {
		t.Fatalf("threads create: %v", err)
	}
	if len(fake.createRequests) != 1 {
		t.Fatalf("expected one create request, got %d", len(fake.createRequests))
	}
	req := fake.createRequests[0]
	if req.Name != "demo" || req.IconName != "code" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if got := stdout.String(); got != "thread-123\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestThreadsDelete(t *testing.T) {
	fake := &fakeCommandClient{}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "threads", "delete", "t9"); err != nil {
		t.Fatalf("threads delete: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "t9" {
		t.Fatalf("unexpected deletes: %v", fake.deleted)
	}
	if got := stdout.String(); got != "deleted t9\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestThreadsCommandStopsWhenDaemonUnavailable(t *testing.T) {
	fake := &fakeCommandClient{ensureDaemonErr: errors.New("connection refused")}
	wiring, _ := testWiring(fake)
	err := executeCommand(wiring, "threads", "list")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected daemon error, got %v", err)
	}
}

func TestSettingsSetValidatesJSON(t *testing.T) {
	fake := &fakeCommandClient{}
	wiring, _ := testWiring(fake)
	if err := executeCommand(wiring, "settings", "set", "system.maintenance_mode", "yes please"); err == nil {
		t.Fatalf("expected invalid JSON to fail")
	}
	if len(fake.updates) != 0 {
		t.Fatalf("expected no update for invalid JSON")
	}
}

func TestSettingsSetSendsEntry(t *testing.T) {
	fake := &fakeCommandClient{}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "settings", "set", "system.maintenance_mode", "true"); err != nil {
		t.Fatalf("settings set: %v", err)
	}
	if len(fake.updates) != 1 || fake.updates[0][0].Key != "system.maintenance_mode" {
		t.Fatalf("unexpected updates: %#v", fake.updates)
	}
	if string(fake.updates[0][0].Value) != "true" {
		t.Fatalf("unexpected value %s", fake.updates[0][0].Value)
	}
	if !strings.Contains(stdout.String(), "system.maintenance_mode") {
		t.Fatalf("expected settings table, got %q", stdout.String())
	}
}

func TestSettingsListPrintsNullForMissingValue(t *testing.T) {
	fake := &fakeCommandClient{settings: []client.SettingEntry{
		{Key: "feature.new_tool_system_enabled", Value: json.RawMessage("true")},
		{Key: "ui.banner"},
	}}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "settings", "list"); err != nil {
		t.Fatalf("settings list: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "feature.new_tool_system_enabled") || !strings.Contains(out, "null") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHealthCommandFailsWhenNotOK(t *testing.T) {
	fake := &fakeCommandClient{health: &types.Health{
		Status:     types.HealthStatusDegraded,
		InstanceID: "i-1",
		Checks:     map[string]string{"redis": "ok", "postgres": "connection refused"},
	}}
	wiring, stdout := testWiring(fake)
	err := executeCommand(wiring, "health")
	if err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Fatalf("expected degraded error, got %v", err)
	}
	out := stdout.String()
	if strings.Index(out, "check postgres") > strings.Index(out, "check redis") {
		t.Fatalf("expected checks sorted by name, got %q", out)
	}
	if fake.ensureDaemonCalls != 0 {
		t.Fatalf("expected health not to start a daemon")
	}
}

func TestHealthCommandOK(t *testing.T) {
	fake := &fakeCommandClient{health: &types.Health{Status: types.HealthStatusOK, InstanceID: "i-1", Version: "v1"}}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "health"); err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(stdout.String(), "status: ok") || !strings.Contains(stdout.String(), "version: v1") {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}

func TestRootCommandUnknownSubcommand(t *testing.T) {
	wiring, _ := testWiring(&fakeCommandClient{})
	if err := executeCommand(wiring, "bogus"); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestFeedbackRateSendsRequest(t *testing.T) {
	fake := &fakeCommandClient{}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "feedback", "rate", "4.5", "--message", "m1", "--text", "helpful", "--help-improve=false"); err != nil {
		t.Fatalf("feedback rate: %v", err)
	}
	if len(fake.submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(fake.submitted))
	}
	req := fake.submitted[0]
	if req.Rating != 4.5 || req.MessageID != "m1" || req.FeedbackText != "helpful" {
		t.Fatalf("unexpected request %#v", req)
	}
	if req.HelpImprove == nil || *req.HelpImprove {
		t.Fatalf("expected help_improve=false to be sent")
	}
	if strings.TrimSpace(stdout.String()) != "feedback-1" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}

func TestFeedbackRateRequiresTargetAndNumber(t *testing.T) {
	fake := &fakeCommandClient{}
	wiring, _ := testWiring(fake)
	if err := executeCommand(wiring, "feedback", "rate", "5"); err == nil {
		t.Fatalf("expected missing target to fail")
	}
	if err := executeCommand(wiring, "feedback", "rate", "great", "--thread", "t1"); err == nil {
		t.Fatalf("expected non-numeric rating to fail")
	}
	if len(fake.submitted) != 0 {
		t.Fatalf("expected no submissions, got %#v", fake.submitted)
	}
}

func TestFeedbackListPrintsTable(t *testing.T) {
	fake := &fakeCommandClient{feedback: []*types.Feedback{
		{FeedbackID: "f1", ThreadID: "t1", MessageID: "m1", Rating: 5, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}}
	wiring, stdout := testWiring(fake)
	if err := executeCommand(wiring, "feedback", "list", "--thread", "t1", "--limit", "5"); err != nil {
		t.Fatalf("feedback list: %v", err)
	}
	if fake.feedbackQuery.ThreadID != "t1" || fake.feedbackQuery.Limit != 5 {
		t.Fatalf("unexpected query %#v", fake.feedbackQuery)
	}
	out := stdout.String()
	for _, want := range []string{"RATING", "f1", "m1", "2024-01-02T03:04:05Z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
