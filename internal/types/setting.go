package types

import (
	"encoding/json"
	"time"
)

type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// IsNull reports whether the stored value is SQL NULL or JSON null.
func (s *Setting) IsNull() bool {
	if s == nil {
		return true
	}
	return len(s.Value) == 0 || string(s.Value) == "null"
}

func (s *Setting) Bool() bool {
	if s == nil || s.IsNull() {
		return false
	}
	var out bool
	if err := json.Unmarshal(s.Value, &out); err != nil {
		return false
	}
	return out
}
