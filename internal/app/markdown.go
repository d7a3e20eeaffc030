package app

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"

	"agentdash/internal/types"
)

const defaultMarkdownWidth = 80

// messageRenderers caches one glamour renderer per (width, palette).
type messageRenderers struct {
	mu    sync.Mutex
	dark  bool
	byKey map[rendererKey]*glamour.TermRenderer
}

type rendererKey struct {
	width int
	dark  bool
}

var bodyRenderers = &messageRenderers{dark: true, byKey: map[rendererKey]*glamour.TermRenderer{}}

// renderMessageBody renders one message for the thread page. User text is
// wrapped as typed; agent replies are rendered as markdown.
func renderMessageBody(message *types.Message, width int) string {
	text := strings.TrimSpace(message.Text())
	if text == "" {
		return ""
	}
	if width <= 0 {
		width = defaultMarkdownWidth
	}
	if message.Type == types.MessageTypeUser {
		return xansi.Wrap(text, width, "")
	}
	return bodyRenderers.render(text, width)
}

func (r *messageRenderers) render(text string, width int) string {
	renderer := r.renderer(width)
	if renderer == nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return xansi.Hardwrap(strings.Trim(out, "\n"), width, true)
}

func (r *messageRenderers) renderer(width int) *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rendererKey{width: width, dark: r.dark}
	if cached := r.byKey[key]; cached != nil {
		return cached
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(messageStyle(key.dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	r.byKey[key] = renderer
	return renderer
}

func markdownBackgroundDark() bool {
	bodyRenderers.mu.Lock()
	defer bodyRenderers.mu.Unlock()
	return bodyRenderers.dark
}

// setMarkdownBackgroundDark reports whether the palette changed.
func setMarkdownBackgroundDark(dark bool) bool {
	bodyRenderers.mu.Lock()
	defer bodyRenderers.mu.Unlock()
	changed := bodyRenderers.dark != dark
	bodyRenderers.dark = dark
	return changed
}

func messageStyle(dark bool) glamouransi.StyleConfig {
	style := styles.LightStyleConfig
	if dark {
		style = styles.DarkStyleConfig
	}
	// Spacing between messages comes from the page layout.
	style.Document.StylePrimitive.BlockPrefix = ""
	style.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	style.Document.Margin = &zero
	return style
}
