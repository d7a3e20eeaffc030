package app

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const (
	themeDark  = "dark"
	themeLight = "light"
)

type palette struct {
	accent  color.Color
	text    color.Color
	muted   color.Color
	faint   color.Color
	active  color.Color
	focusBg color.Color
	divider color.Color
	danger  color.Color
	ok      color.Color
}

var darkPalette = palette{
	accent:  lipgloss.Color("63"),
	text:    lipgloss.Color("252"),
	muted:   lipgloss.Color("245"),
	faint:   lipgloss.Color("238"),
	active:  lipgloss.Color("114"),
	focusBg: lipgloss.Color("236"),
	divider: lipgloss.Color("238"),
	danger:  lipgloss.Color("203"),
	ok:      lipgloss.Color("29"),
}

var lightPalette = palette{
	accent:  lipgloss.Color("57"),
	text:    lipgloss.Color("235"),
	muted:   lipgloss.Color("242"),
	faint:   lipgloss.Color("250"),
	active:  lipgloss.Color("28"),
	focusBg: lipgloss.Color("254"),
	divider: lipgloss.Color("250"),
	danger:  lipgloss.Color("160"),
	ok:      lipgloss.Color("29"),
}

type uiStyles struct {
	brand        lipgloss.Style
	header       lipgloss.Style
	row          lipgloss.Style
	rowActive    lipgloss.Style
	rowFocused   lipgloss.Style
	skeleton     lipgloss.Style
	muted        lipgloss.Style
	errorText    lipgloss.Style
	divider      lipgloss.Style
	affordance   lipgloss.Style
	userLabel    lipgloss.Style
	agentLabel   lipgloss.Style
	title        lipgloss.Style
	toastInfo    lipgloss.Style
	toastError   lipgloss.Style
	maintenance  lipgloss.Style
	spinner      lipgloss.Style
	composeFrame lipgloss.Style
}

func newStyles(theme string) uiStyles {
	p := darkPalette
	if theme == themeLight {
		p = lightPalette
	}
	return uiStyles{
		brand:        lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		header:       lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		row:          lipgloss.NewStyle().Foreground(p.text),
		rowActive:    lipgloss.NewStyle().Foreground(p.active).Bold(true),
		rowFocused:   lipgloss.NewStyle().Foreground(p.text).Background(p.focusBg),
		skeleton:     lipgloss.NewStyle().Foreground(p.faint),
		muted:        lipgloss.NewStyle().Foreground(p.muted),
		errorText:    lipgloss.NewStyle().Foreground(p.danger),
		divider:      lipgloss.NewStyle().Foreground(p.divider),
		affordance:   lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true),
		userLabel:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		agentLabel:   lipgloss.NewStyle().Bold(true).Foreground(p.active),
		title:        lipgloss.NewStyle().Bold(true).Foreground(p.text),
		toastInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(p.ok).Bold(true),
		toastError:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(p.danger).Bold(true),
		maintenance:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(1, 3),
		spinner:      lipgloss.NewStyle().Foreground(p.accent),
		composeFrame: lipgloss.NewStyle().BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(p.divider),
	}
}

func normalizeTheme(theme string) string {
	if theme == themeLight {
		return themeLight
	}
	return themeDark
}
