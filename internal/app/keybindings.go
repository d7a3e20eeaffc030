package app

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
)

const (
	KeyCommandToggleSidebar = "ui.toggleSidebar"
	KeyCommandOpenMobileNav = "ui.openMobileNav"
	KeyCommandFocusNext     = "ui.focusNext"
	KeyCommandMoveUp        = "ui.moveUp"
	KeyCommandMoveDown      = "ui.moveDown"
	KeyCommandOpenThread    = "ui.openThread"
	KeyCommandCopyLink      = "ui.copyLink"
	KeyCommandNewThread     = "ui.newThread"
	KeyCommandRefresh       = "ui.refresh"
	KeyCommandToggleOrder   = "ui.toggleOrder"
	KeyCommandHistoryBack   = "ui.historyBack"
	KeyCommandHistoryFwd    = "ui.historyForward"
	KeyCommandToggleTheme   = "ui.toggleTheme"
	KeyCommandRateUp        = "ui.rateUp"
	KeyCommandRateDown      = "ui.rateDown"
	KeyCommandQuit          = "ui.quit"
)

var defaultKeybindingByCommand = map[string]string{
	KeyCommandToggleSidebar: "ctrl+b",
	KeyCommandOpenMobileNav: "ctrl+o",
	KeyCommandFocusNext:     "tab",
	KeyCommandMoveUp:        "up",
	KeyCommandMoveDown:      "down",
	KeyCommandOpenThread:    "enter",
	KeyCommandCopyLink:      "alt+enter",
	KeyCommandNewThread:     "ctrl+n",
	KeyCommandRefresh:       "r",
	KeyCommandToggleOrder:   "o",
	KeyCommandHistoryBack:   "alt+left",
	KeyCommandHistoryFwd:    "alt+right",
	KeyCommandToggleTheme:   "alt+t",
	KeyCommandRateUp:        "+",
	KeyCommandRateDown:      "-",
	KeyCommandQuit:          "q",
}

// Secondary keys that keep working unless their command is remapped.
var keybindingAliases = map[string][]string{
	KeyCommandToggleSidebar: {"super+b"},
	KeyCommandMoveUp:        {"k"},
	KeyCommandMoveDown:      {"j"},
}

type Keybindings struct {
	byCommand map[string]string
	remap     map[string]string
}

type keybindingEntry struct {
	Command string `json:"command"`
	Key     string `json:"key"`
}

func DefaultKeybindings() *Keybindings {
	return NewKeybindings(nil)
}

// NewKeybindings applies overrides on top of the defaults. An override key is
// remapped to the command's default key so handlers only match canonical
// keys; a key claimed by two overrides is ambiguous and ignored.
func NewKeybindings(overrides map[string]string) *Keybindings {
	byCommand := make(map[string]string, len(defaultKeybindingByCommand))
	for command, key := range defaultKeybindingByCommand {
		byCommand[command] = key
	}
	for command, key := range overrides {
		command = strings.TrimSpace(command)
		key = strings.TrimSpace(key)
		if _, ok := defaultKeybindingByCommand[command]; !ok || key == "" {
			continue
		}
		byCommand[command] = key
	}
	remap := map[string]string{}
	ambiguous := map[string]struct{}{}
	for _, command := range KnownKeybindingCommands() {
		defaultKey := defaultKeybindingByCommand[command]
		key := byCommand[command]
		if key == defaultKey {
			continue
		}
		if _, bad := ambiguous[key]; bad {
			continue
		}
		if existing, ok := remap[key]; ok && existing != defaultKey {
			delete(remap, key)
			ambiguous[key] = struct{}{}
			continue
		}
		remap[key] = defaultKey
	}
	return &Keybindings{byCommand: byCommand, remap: remap}
}

func LoadKeybindings(path string) (*Keybindings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultKeybindings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultKeybindings(), nil
		}
		return nil, err
	}
	overrides, err := parseKeybindingOverrides(data)
	if err != nil {
		return nil, err
	}
	return NewKeybindings(overrides), nil
}

func (k *Keybindings) KeyFor(command string) string {
	if k != nil {
		if key := strings.TrimSpace(k.byCommand[command]); key != "" {
			return key
		}
	}
	return defaultKeybindingByCommand[command]
}

func (k *Keybindings) Remap(key string) string {
	if k != nil {
		if canonical, ok := k.remap[key]; ok && canonical != "" {
			return canonical
		}
	}
	return key
}

// Matches reports whether msg triggers command, honoring overrides and the
// command's aliases while it still has its default key.
func (k *Keybindings) Matches(msg tea.KeyMsg, command string) bool {
	pressed := msg.String()
	bound := k.KeyFor(command)
	if pressed == bound {
		return true
	}
	if bound != defaultKeybindingByCommand[command] {
		return false
	}
	for _, alias := range keybindingAliases[command] {
		if pressed == alias {
			return true
		}
	}
	return false
}

func parseKeybindingOverrides(data []byte) (map[string]string, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, nil
	}
	raw := map[string]string{}
	if data[0] == '[' {
		var entries []keybindingEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			raw[entry.Command] = entry.Key
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for command, key := range raw {
		command = strings.TrimSpace(command)
		key = strings.TrimSpace(key)
		if _, ok := defaultKeybindingByCommand[command]; !ok || key == "" {
			continue
		}
		out[command] = key
	}
	return out, nil
}

func KnownKeybindingCommands() []string {
	keys := make([]string, 0, len(defaultKeybindingByCommand))
	for command := range defaultKeybindingByCommand {
		keys = append(keys, command)
	}
	sort.Strings(keys)
	return keys
}
