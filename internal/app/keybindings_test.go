package app

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestLoadKeybindingsDefaultsWhenMissing(t *testing.T) {
	bindings, err := LoadKeybindings(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadKeybindings: %v", err)
	}
	if got := bindings.KeyFor(KeyCommandToggleSidebar); got != "ctrl+b" {
		t.Fatalf("unexpected default binding: %q", got)
	}
}

func TestLoadKeybindingsArrayOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.json")
	data := []byte(`[
  {"command":"ui.toggleSidebar","key":"alt+b"},
  {"command":"ui.refresh","key":"f5"},
  {"command":"ui.unknown","key":"x"}
]`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	bindings, err := LoadKeybindings(path)
	if err != nil {
		t.Fatalf("LoadKeybindings: %v", err)
	}
	if got := bindings.KeyFor(KeyCommandToggleSidebar); got != "alt+b" {
		t.Fatalf("unexpected sidebar binding: %q", got)
	}
	if got := bindings.KeyFor(KeyCommandRefresh); got != "f5" {
		t.Fatalf("unexpected refresh binding: %q", got)
	}
	if got := bindings.Remap("alt+b"); got != "ctrl+b" {
		t.Fatalf("expected remap to canonical key, got %q", got)
	}
}

func TestLoadKeybindingsMapOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.json")
	if err := os.WriteFile(path, []byte(`{"ui.toggleTheme":"ctrl+t"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	bindings, err := LoadKeybindings(path)
	if err != nil {
		t.Fatalf("LoadKeybindings: %v", err)
	}
	if got := bindings.KeyFor(KeyCommandToggleTheme); got != "ctrl+t" {
		t.Fatalf("unexpected theme binding: %q", got)
	}
}

func TestLoadKeybindingsRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.json")
	if err := os.WriteFile(path, []byte(`{"ui.quit":`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadKeybindings(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestKeybindingsAmbiguousOverrideIsIgnored(t *testing.T) {
	bindings := NewKeybindings(map[string]string{
		KeyCommandRefresh:     "f5",
		KeyCommandToggleOrder: "f5",
	})
	if got := bindings.Remap("f5"); got != "f5" {
		t.Fatalf("expected ambiguous key to stay unmapped, got %q", got)
	}
}

func TestKeybindingsMatchesAliases(t *testing.T) {
	bindings := DefaultKeybindings()
	superB := tea.KeyPressMsg{Code: 'b', Mod: tea.ModSuper}
	if !bindings.Matches(superB, KeyCommandToggleSidebar) {
		t.Fatalf("expected super+b to toggle the sidebar")
	}
	j := tea.KeyPressMsg{Code: 'j', Text: "j"}
	if !bindings.Matches(j, KeyCommandMoveDown) {
		t.Fatalf("expected j to move down")
	}

	remapped := NewKeybindings(map[string]string{KeyCommandToggleSidebar: "alt+b"})
	if remapped.Matches(superB, KeyCommandToggleSidebar) {
		t.Fatalf("expected alias dropped once the command is remapped")
	}
	if !remapped.Matches(tea.KeyPressMsg{Code: 'b', Mod: tea.ModAlt}, KeyCommandToggleSidebar) {
		t.Fatalf("expected alt+b to toggle the sidebar")
	}
}

func TestResolveHotkeysUsesBindings(t *testing.T) {
	bindings := NewKeybindings(map[string]string{KeyCommandToggleSidebar: "alt+b"})
	hotkeys := ResolveHotkeys(DefaultHotkeys(), bindings)
	if hotkeys[0].Key != "alt+b" {
		t.Fatalf("expected overridden hotkey, got %q", hotkeys[0].Key)
	}
	hints := renderHotkeyHints(hotkeys, HotkeyGlobal)
	if hints != "alt+b sidebar · tab focus" {
		t.Fatalf("unexpected hints: %q", hints)
	}
}
