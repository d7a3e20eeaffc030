package app

import "agentdash/internal/events"

type SidebarViewState string

const (
	SidebarExpanded     SidebarViewState = "expanded"
	SidebarCollapsed    SidebarViewState = "collapsed"
	SidebarMobileOpen   SidebarViewState = "mobile-open"
	SidebarMobileClosed SidebarViewState = "mobile-closed"
)

// SidebarToggled is broadcast whenever the desktop expanded flag changes.
type SidebarToggled struct {
	Expanded bool
}

// SidebarState owns the navigation panel state. The desktop flag and the
// mobile overlay flag are independent; the view state is derived from both
// plus the current viewport class.
type SidebarState struct {
	breakpoint      int
	mobile          bool
	sized           bool
	desktopExpanded bool
	mobileOpen      bool
	bus             *events.Bus[SidebarToggled]
}

func NewSidebarState(breakpoint int, defaultExpanded bool, bus *events.Bus[SidebarToggled]) *SidebarState {
	return &SidebarState{
		breakpoint:      breakpoint,
		desktopExpanded: defaultExpanded,
		bus:             bus,
	}
}

func (s *SidebarState) ViewState() SidebarViewState {
	if s.mobile {
		if s.mobileOpen {
			return SidebarMobileOpen
		}
		return SidebarMobileClosed
	}
	if s.desktopExpanded {
		return SidebarExpanded
	}
	return SidebarCollapsed
}

func (s *SidebarState) IsMobile() bool        { return s.mobile }
func (s *SidebarState) DesktopExpanded() bool { return s.desktopExpanded }
func (s *SidebarState) MobileOpen() bool      { return s.mobileOpen }

// SetDesktopPreference restores a persisted preference without broadcasting.
func (s *SidebarState) SetDesktopPreference(expanded bool) {
	s.desktopExpanded = expanded
}

// Resize reclassifies the viewport. It reports whether the mobile class
// changed. Entering mobile always closes the overlay; entering desktop falls
// back to the desktop preference, which was never touched while mobile.
func (s *SidebarState) Resize(width int) bool {
	mobile := width < s.breakpoint
	if s.sized && mobile == s.mobile {
		return false
	}
	s.sized = true
	s.mobile = mobile
	s.mobileOpen = false
	return true
}

func (s *SidebarState) ToggleExpanded() {
	s.desktopExpanded = !s.desktopExpanded
	s.publish()
}

// ForceExpand is the collapsed rail's expand affordance.
func (s *SidebarState) ForceExpand() {
	if s.desktopExpanded {
		return
	}
	s.desktopExpanded = true
	s.publish()
}

func (s *SidebarState) SetMobileOpen(open bool) {
	s.mobileOpen = open
}

func (s *SidebarState) OpenMobile()  { s.SetMobileOpen(true) }
func (s *SidebarState) CloseMobile() { s.SetMobileOpen(false) }

// RouteChanged closes the mobile overlay after a navigation.
func (s *SidebarState) RouteChanged(prev, next Route) {
	if !s.mobile || prev.Equal(next) {
		return
	}
	s.mobileOpen = false
}

func (s *SidebarState) publish() {
	s.bus.Publish(SidebarToggled{Expanded: s.desktopExpanded})
}
