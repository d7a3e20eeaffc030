package app

import "strings"

type HotkeyContext int

const (
	HotkeyGlobal HotkeyContext = iota
	HotkeySidebar
	HotkeyCompose
)

type Hotkey struct {
	Command string
	Key     string
	Label   string
	Context HotkeyContext
}

func DefaultHotkeys() []Hotkey {
	return []Hotkey{
		{Command: KeyCommandToggleSidebar, Label: "sidebar", Context: HotkeyGlobal},
		{Command: KeyCommandFocusNext, Label: "focus", Context: HotkeyGlobal},
		{Command: KeyCommandOpenThread, Label: "open", Context: HotkeySidebar},
		{Command: KeyCommandCopyLink, Label: "copy link", Context: HotkeySidebar},
		{Command: KeyCommandNewThread, Label: "new", Context: HotkeySidebar},
		{Command: KeyCommandRefresh, Label: "refresh", Context: HotkeySidebar},
		{Command: KeyCommandToggleOrder, Label: "order", Context: HotkeySidebar},
		{Command: KeyCommandRateUp, Label: "good", Context: HotkeySidebar},
		{Command: KeyCommandRateDown, Label: "bad", Context: HotkeySidebar},
		{Command: KeyCommandQuit, Label: "quit", Context: HotkeySidebar},
		{Key: "enter", Label: "send", Context: HotkeyCompose},
		{Key: "esc", Label: "leave input", Context: HotkeyCompose},
	}
}

// ResolveHotkeys fills in each hint's key from the active bindings.
func ResolveHotkeys(hotkeys []Hotkey, bindings *Keybindings) []Hotkey {
	out := make([]Hotkey, 0, len(hotkeys))
	for _, hotkey := range hotkeys {
		if hotkey.Command != "" {
			hotkey.Key = bindings.KeyFor(hotkey.Command)
		}
		out = append(out, hotkey)
	}
	return out
}

func renderHotkeyHints(hotkeys []Hotkey, contexts ...HotkeyContext) string {
	active := map[HotkeyContext]bool{}
	for _, context := range contexts {
		active[context] = true
	}
	parts := make([]string, 0, len(hotkeys))
	for _, hotkey := range hotkeys {
		if !active[hotkey.Context] || hotkey.Key == "" {
			continue
		}
		parts = append(parts, hotkey.Key+" "+hotkey.Label)
	}
	return strings.Join(parts, " · ")
}
