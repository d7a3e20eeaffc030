package app

import (
	tea "charm.land/bubbletea/v2"

	"agentdash/internal/i18n"
)

func (m *Model) reduceKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if !m.health.Healthy() {
		switch {
		case m.keybindings.Matches(msg, KeyCommandQuit):
			return tea.Quit
		case m.keybindings.Matches(msg, KeyCommandRefresh):
			return m.requestHealth()
		}
		return nil
	}
	if m.page != nil && m.page.ComposeFocused() {
		if handled, cmd := m.reduceComposeKey(msg); handled {
			return cmd
		}
	}
	if handled, cmd := m.reduceGlobalKey(msg); handled {
		return cmd
	}
	if m.focus == focusSidebar {
		return m.reduceSidebarKey(msg)
	}
	if m.page != nil {
		return m.page.UpdateViewport(msg)
	}
	return nil
}

// reduceComposeKey gives the compose input first claim on keys so editing
// shortcuts like ctrl+b keep their input meaning while typing.
func (m *Model) reduceComposeKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return true, m.sendDraft()
	case "esc":
		m.page.BlurCompose()
		if m.sidebarFocusable() {
			m.focus = focusSidebar
		}
		return true, nil
	}
	if m.page.ComposeConsumes(msg) {
		return true, m.page.UpdateCompose(msg)
	}
	return false, nil
}

func (m *Model) reduceGlobalKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch {
	case m.keybindings.Matches(msg, KeyCommandToggleSidebar):
		m.sidebar.ToggleExpanded()
		return true, nil
	case m.keybindings.Matches(msg, KeyCommandOpenMobileNav):
		if m.sidebar.IsMobile() {
			m.sidebar.OpenMobile()
			m.relayout()
			m.focusSidebar()
		}
		return true, nil
	case m.keybindings.Matches(msg, KeyCommandFocusNext):
		return true, m.focusNext()
	case m.keybindings.Matches(msg, KeyCommandToggleTheme):
		m.toggleTheme()
		return true, nil
	case m.keybindings.Matches(msg, KeyCommandHistoryBack):
		if raw, ok := m.history.Back(nil); ok {
			return true, m.navigateToRaw(raw)
		}
		return true, nil
	case m.keybindings.Matches(msg, KeyCommandHistoryFwd):
		if raw, ok := m.history.Forward(nil); ok {
			return true, m.navigateToRaw(raw)
		}
		return true, nil
	case m.keybindings.Matches(msg, KeyCommandNewThread):
		return true, createThreadCmd(m.threadAPI, m.printer.Sprintf(i18n.NewConversationName))
	case m.keybindings.Matches(msg, KeyCommandRefresh):
		cmds := []tea.Cmd{m.requestThreads()}
		if m.page != nil {
			cmds = append(cmds, m.loadCurrentThread())
		}
		return true, tea.Batch(cmds...)
	case m.keybindings.Matches(msg, KeyCommandToggleOrder):
		if m.page == nil {
			return false, nil
		}
		order := orderDesc
		if m.route.MessageOrder() == orderDesc {
			order = orderAsc
		}
		return true, m.navigate(m.route.WithMessageOrder(order))
	case m.keybindings.Matches(msg, KeyCommandRateUp), m.keybindings.Matches(msg, KeyCommandRateDown):
		if m.page == nil || m.feedbackAPI == nil {
			return false, nil
		}
		rating := float64(ratingGood)
		if m.keybindings.Matches(msg, KeyCommandRateDown) {
			rating = ratingBad
		}
		return true, m.rateLatestReply(rating)
	case m.keybindings.Matches(msg, KeyCommandQuit):
		return true, tea.Quit
	case msg.String() == "esc" && m.sidebar.ViewState() == SidebarMobileOpen:
		m.sidebar.CloseMobile()
		m.relayout()
		return true, nil
	}
	return false, nil
}

func (m *Model) reduceSidebarKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case m.keybindings.Matches(msg, KeyCommandMoveUp):
		m.threads.MoveCursor(-1)
	case m.keybindings.Matches(msg, KeyCommandMoveDown):
		m.threads.MoveCursor(1)
	case m.keybindings.Matches(msg, KeyCommandCopyLink):
		if thread := m.threads.Selected(); thread != nil {
			return m.activateThread(thread.ThreadID, true)
		}
	case m.keybindings.Matches(msg, KeyCommandOpenThread):
		if thread := m.threads.Selected(); thread != nil {
			return m.activateThread(thread.ThreadID, false)
		}
	case msg.String() == "right" && m.sidebar.ViewState() == SidebarCollapsed:
		// The focused rail shows the expand affordance; right activates it.
		m.sidebar.ForceExpand()
	}
	return nil
}

func (m *Model) focusSidebar() {
	if m.page != nil {
		m.page.BlurCompose()
	}
	m.focus = focusSidebar
}

func (m *Model) focusNext() tea.Cmd {
	if m.focus == focusSidebar {
		m.focus = focusContent
		if m.page != nil {
			return m.page.FocusCompose()
		}
		return nil
	}
	if !m.sidebarFocusable() {
		return nil
	}
	m.focusSidebar()
	return nil
}

func (m *Model) navigateToRaw(raw string) tea.Cmd {
	route, err := ParseRoute(raw)
	if err != nil {
		return nil
	}
	return m.navigate(route)
}
