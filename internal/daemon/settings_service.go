package daemon

import (
	"context"
	"encoding/json"
	"strings"

	"agentdash/internal/store"
	"agentdash/internal/types"
)

// SensitiveSettingKeys are never returned by the public settings read.
var SensitiveSettingKeys = map[string]struct{}{
	"llm.openai_api_key":    {},
	"llm.anthropic_api_key": {},
}

const (
	maintenanceSettingKey = "system.maintenance_mode"
	maxSettingKeyLength   = 255
)

type SettingEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type UpdateSettingsRequest struct {
	Settings []SettingEntry `json:"settings"`
}

// SettingsService is the only path to the settings table. Reads are public
// minus sensitive keys, writes need the admin role.
type SettingsService struct {
	settings store.SettingsStore
}

func NewSettingsService(settings store.SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) ListPublic(ctx context.Context) ([]SettingEntry, error) {
	if s == nil || s.settings == nil {
		return nil, unavailableError("settings store not available", nil)
	}
	rows, err := s.settings.List(ctx)
	if err != nil {
		return nil, unavailableError("list settings failed", err)
	}
	out := make([]SettingEntry, 0, len(rows))
	for _, row := range rows {
		if row == nil || isSensitiveSetting(row.Key) {
			continue
		}
		out = append(out, SettingEntry{Key: row.Key, Value: publicValue(row.Value)})
	}
	return out, nil
}

func (s *SettingsService) Update(ctx context.Context, role Role, req *UpdateSettingsRequest) ([]SettingEntry, error) {
	if s == nil || s.settings == nil {
		return nil, unavailableError("settings store not available", nil)
	}
	if role != RoleAdmin {
		return nil, forbiddenError("admin token required", nil)
	}
	if req == nil || len(req.Settings) == 0 {
		return nil, invalidError("settings are required", nil)
	}
	entries := make([]types.Setting, 0, len(req.Settings))
	seen := make(map[string]struct{}, len(req.Settings))
	for _, entry := range req.Settings {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			return nil, invalidError("setting key is required", nil)
		}
		if len(key) > maxSettingKeyLength {
			return nil, invalidError("setting key is too long", nil)
		}
		if _, dup := seen[key]; dup {
			return nil, invalidError("duplicate setting key: "+key, nil)
		}
		seen[key] = struct{}{}
		if len(entry.Value) > 0 && !json.Valid(entry.Value) {
			return nil, invalidError("setting value must be valid json: "+key, nil)
		}
		entries = append(entries, types.Setting{Key: key, Value: entry.Value})
	}
	if _, err := s.settings.Upsert(ctx, entries); err != nil {
		return nil, storeError("setting", err)
	}
	return s.ListPublic(ctx)
}

// MaintenanceMode reports whether system.maintenance_mode is JSON true.
func (s *SettingsService) MaintenanceMode(ctx context.Context) (bool, error) {
	if s == nil || s.settings == nil {
		return false, unavailableError("settings store not available", nil)
	}
	setting, ok, err := s.settings.Get(ctx, maintenanceSettingKey)
	if err != nil {
		return false, err
	}
	return ok && setting.Bool(), nil
}

func isSensitiveSetting(key string) bool {
	_, ok := SensitiveSettingKeys[key]
	return ok
}

func publicValue(value json.RawMessage) json.RawMessage {
	if len(value) == 0 {
		return json.RawMessage("null")
	}
	return value
}
