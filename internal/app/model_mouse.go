package app

import tea "charm.land/bubbletea/v2"

const commandModifiers = tea.ModCtrl | tea.ModAlt | tea.ModSuper

func (m *Model) reduceMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft || !m.health.Healthy() {
		return nil
	}
	layout := m.layout
	if mouse.Y >= layout.bodyHeight {
		return nil
	}
	if layout.inReopenAffordance(mouse.X, mouse.Y) {
		m.sidebar.OpenMobile()
		m.relayout()
		m.focusSidebar()
		return nil
	}
	if layout.inSidebar(mouse.X) {
		return m.reduceSidebarClick(mouse.X, mouse.Y, mouse.Mod&commandModifiers != 0)
	}
	if layout.state == SidebarMobileOpen {
		m.sidebar.CloseMobile()
		m.relayout()
		return nil
	}
	return m.reduceContentClick(mouse.Y)
}

func (m *Model) reduceSidebarClick(x, y int, modified bool) tea.Cmd {
	if y == 0 {
		if m.layout.state == SidebarCollapsed {
			m.sidebar.ForceExpand()
			return nil
		}
		if m.sidebar.IsMobile() {
			m.sidebar.CloseMobile()
			m.relayout()
		}
		return m.navigate(HomeRoute())
	}
	if y < sidebarHeaderRows {
		return nil
	}
	thread, ok := m.threads.ThreadAtRow(y - sidebarHeaderRows)
	if !ok {
		return nil
	}
	m.focusSidebar()
	m.threads.SelectThread(thread.ThreadID)
	return m.activateThread(thread.ThreadID, modified)
}

func (m *Model) reduceContentClick(y int) tea.Cmd {
	if m.page == nil {
		m.focus = focusContent
		return nil
	}
	top := 0
	if m.layout.showReopen {
		top = 1
	}
	composeRow := top + m.layout.pageHeight() - 1
	m.focus = focusContent
	if y == composeRow {
		return m.page.FocusCompose()
	}
	return nil
}

func (m *Model) reduceMouseMotion(msg tea.MouseMotionMsg) {
	mouse := msg.Mouse()
	m.railHover = m.layout.state == SidebarCollapsed && mouse.Y == 0 && mouse.X >= 0 && mouse.X < railWidth
}
