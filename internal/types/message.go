package types

import (
	"encoding/json"
	"strings"
	"time"
)

type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
	MessageTypeSystem    MessageType = "system"
	MessageTypeTool      MessageType = "tool"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeUser, MessageTypeAssistant, MessageTypeSystem, MessageTypeTool:
		return true
	default:
		return false
	}
}

type Message struct {
	MessageID    string          `json:"message_id"`
	ThreadID     string          `json:"thread_id"`
	Type         MessageType     `json:"type"`
	Content      json.RawMessage `json:"content"`
	IsLLMMessage bool            `json:"is_llm_message"`
	CreatedAt    time.Time       `json:"created_at"`
}

// messageEnvelope is the stored shape of message content: the message type
// repeated as role next to the posted payload.
type messageEnvelope struct {
	Role    MessageType     `json:"role"`
	Content json.RawMessage `json:"content"`
}

// WrapContent builds the stored content for a posted payload.
func WrapContent(messageType MessageType, payload json.RawMessage) (json.RawMessage, error) {
	raw, err := json.Marshal(messageEnvelope{Role: messageType, Content: payload})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Text extracts displayable text from the message content. Content is either
// a JSON string or an object carrying a "content" or "text" field, which may
// itself be nested one envelope deep.
func (m *Message) Text() string {
	if m == nil || len(m.Content) == 0 {
		return ""
	}
	return contentText(m.Content, 2)
}

func contentText(raw json.RawMessage, depth int) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var obj map[string]json.RawMessage
	if depth > 0 && json.Unmarshal(raw, &obj) == nil {
		for _, key := range []string{"content", "text"} {
			if value, ok := obj[key]; ok {
				return contentText(value, depth-1)
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
