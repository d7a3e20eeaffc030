package app

import (
	"strings"

	"charm.land/lipgloss/v2"

	"agentdash/internal/i18n"
)

func renderHomePage(width, height int, styles uiStyles, printer *i18n.Printer, newThreadKey, hints string) string {
	width = max(1, width)
	body := []string{
		styles.title.Render(printer.Sprintf(i18n.WelcomeTitle)),
		"",
		styles.muted.Render(lipgloss.NewStyle().Width(min(width, 60)).Render(printer.Sprintf(i18n.WelcomeBody, newThreadKey))),
	}
	if hints != "" {
		body = append(body, "", styles.muted.Render(lipgloss.NewStyle().Width(min(width, 60)).Render(hints)))
	}
	return lipgloss.Place(width, max(1, height), lipgloss.Center, lipgloss.Center, strings.Join(body, "\n"))
}

func renderMaintenance(width, height int, styles uiStyles, printer *i18n.Printer, interval string) string {
	boxWidth := min(max(20, width-4), 64)
	text := lipgloss.NewStyle().Width(boxWidth - 8).Render(strings.Join([]string{
		styles.title.Render(printer.Sprintf(i18n.MaintenanceTitle)),
		"",
		printer.Sprintf(i18n.MaintenanceBody),
		"",
		styles.muted.Render(printer.Sprintf(i18n.MaintenanceRetry, interval)),
	}, "\n"))
	return lipgloss.Place(max(1, width), max(1, height), lipgloss.Center, lipgloss.Center, styles.maintenance.Render(text))
}
