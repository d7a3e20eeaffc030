package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	minSidebarWidth   = 24
	maxSidebarWidth   = 36
	railWidth         = 4
	sidebarHeaderRows = 2
	statusLineRows    = 1
	minContentHeight  = 3
	reopenAffordance  = "☰"
	railBrandMark     = "◆"
	railExpandMark    = "»"
)

// shellLayout is the column split for one frame. Widths exclude the one
// column divider drawn between sidebar and content.
type shellLayout struct {
	width        int
	height       int
	state        SidebarViewState
	sidebarWidth int
	divider      bool
	overlay      bool
	contentX     int
	contentWidth int
	bodyHeight   int
	showReopen   bool
}

func computeShellLayout(width, height int, state SidebarViewState) shellLayout {
	layout := shellLayout{
		width:      max(0, width),
		height:     max(0, height),
		state:      state,
		bodyHeight: max(minContentHeight, height-statusLineRows),
	}
	switch state {
	case SidebarExpanded:
		layout.sidebarWidth = clamp(width/4, minSidebarWidth, maxSidebarWidth)
		layout.divider = true
	case SidebarCollapsed:
		layout.sidebarWidth = railWidth
		layout.divider = true
	case SidebarMobileOpen:
		layout.sidebarWidth = min(max(1, width-1), maxSidebarWidth)
		layout.divider = layout.sidebarWidth < width
		layout.overlay = true
	case SidebarMobileClosed:
		layout.showReopen = true
	}
	if !layout.overlay && layout.sidebarWidth > 0 {
		layout.contentX = layout.sidebarWidth + 1
	}
	layout.contentWidth = max(1, layout.width-layout.contentX)
	return layout
}

// listRows is how many thread rows fit below the sidebar header.
func (l shellLayout) listRows() int {
	return max(0, l.bodyHeight-sidebarHeaderRows)
}

// pageHeight is the content height left for the routed page.
func (l shellLayout) pageHeight() int {
	if l.showReopen {
		return max(1, l.bodyHeight-1)
	}
	return l.bodyHeight
}

func (l shellLayout) inSidebar(x int) bool {
	return l.sidebarWidth > 0 && x >= 0 && x < l.sidebarWidth
}

func (l shellLayout) inReopenAffordance(x, y int) bool {
	return l.showReopen && y == 0 && x >= 0 && x < 2
}

// combineColumns places left and right side by side with a divider column.
func combineColumns(left, right string, leftWidth, height int, divider string) string {
	leftLines := fitLines(strings.Split(left, "\n"), height)
	rightLines := fitLines(strings.Split(right, "\n"), height)
	out := make([]string, height)
	for i := 0; i < height; i++ {
		out[i] = padToWidth(truncateToWidth(leftLines[i], leftWidth), leftWidth) + divider + rightLines[i]
	}
	return strings.Join(out, "\n")
}

// overlayLeft draws block over the left edge of base, keeping whatever of
// base lies to the right of the block.
func overlayLeft(base, block string, blockWidth, width, height int, divider string) string {
	baseLines := fitLines(strings.Split(base, "\n"), height)
	blockLines := fitLines(strings.Split(block, "\n"), height)
	covered := blockWidth + xansi.StringWidth(divider)
	out := make([]string, height)
	for i := 0; i < height; i++ {
		left := padToWidth(truncateToWidth(blockLines[i], blockWidth), blockWidth) + divider
		rest := ""
		if covered < width {
			rest = xansi.Cut(padToWidth(baseLines[i], width), covered, width)
		}
		out[i] = left + rest
	}
	return strings.Join(out, "\n")
}

func fitLines(lines []string, height int) []string {
	if len(lines) >= height {
		return lines[:height]
	}
	out := make([]string, height)
	copy(out, lines)
	return out
}
