package types

import (
	"strings"
	"time"
)

const DefaultThreadIcon = "bot"

type Thread struct {
	ThreadID  string         `json:"thread_id"`
	Name      string         `json:"name"`
	IconName  string         `json:"icon_name,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (t *Thread) Icon() string {
	if t == nil {
		return DefaultThreadIcon
	}
	icon := strings.TrimSpace(t.IconName)
	if icon == "" {
		return DefaultThreadIcon
	}
	return icon
}

func (t *Thread) DisplayName() string {
	if t == nil {
		return ""
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return t.ThreadID
	}
	return name
}
