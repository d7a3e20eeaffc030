package types

import (
	"encoding/json"
	"testing"
)

func TestThreadIconDefaultsToBot(t *testing.T) {
	cases := []struct {
		name   string
		thread *Thread
		want   string
	}{
		{name: "nil", thread: nil, want: "bot"},
		{name: "empty", thread: &Thread{}, want: "bot"},
		{name: "blank", thread: &Thread{IconName: "  "}, want: "bot"},
		{name: "set", thread: &Thread{IconName: "code"}, want: "code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.thread.Icon(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMessageText(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "string", content: `"hello"`, want: "hello"},
		{name: "content field", content: `{"role":"user","content":"hi there"}`, want: "hi there"},
		{name: "text field", content: `{"text":"plain"}`, want: "plain"},
		{name: "other", content: `{"tool":"search"}`, want: `{"tool":"search"}`},
		{name: "envelope around object", content: `{"role":"tool","content":{"text":"ok"}}`, want: "ok"},
		{name: "envelope around other", content: `{"role":"tool","content":{"tool":"search"}}`, want: `{"tool":"search"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := &Message{Content: json.RawMessage(tc.content)}
			if got := msg.Text(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestWrapContentStoresRoleAndPayload(t *testing.T) {
	raw, err := WrapContent(MessageTypeAssistant, json.RawMessage(`"done"`))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if string(raw) != `{"role":"assistant","content":"done"}` {
		t.Fatalf("unexpected envelope %s", raw)
	}
	msg := &Message{Content: raw}
	if got := msg.Text(); got != "done" {
		t.Fatalf("expected done, got %q", got)
	}
}

func TestSettingNullAndBool(t *testing.T) {
	if !(&Setting{}).IsNull() {
		t.Fatalf("expected empty value to be null")
	}
	if !(&Setting{Value: json.RawMessage("null")}).IsNull() {
		t.Fatalf("expected json null to be null")
	}
	if !(&Setting{Value: json.RawMessage("true")}).Bool() {
		t.Fatalf("expected true")
	}
	if (&Setting{Value: json.RawMessage(`"true"`)}).Bool() {
		t.Fatalf("expected string value to not be a bool")
	}
}
