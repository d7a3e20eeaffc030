package types

type UIPrefs struct {
	SidebarExpanded *bool  `json:"sidebar_expanded,omitempty"`
	Theme           string `json:"theme,omitempty"`
}
