package app

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"agentdash/internal/i18n"
	"agentdash/internal/types"
)

const (
	threadPageHeaderRows  = 2
	threadPageComposeRows = 2
	composeCharLimit      = 8000
	messageTimeLayout     = "Jan 2 15:04"
)

// threadPage is the /agents/{id} page: a scrollable transcript plus a
// single-line compose input.
type threadPage struct {
	route    Route
	threadID string
	thread   *types.Thread
	messages []*types.Message
	ratings  map[string]float64
	loading  bool
	err      error
	sending  bool
	width    int
	height   int
	viewport viewport.Model
	compose  textinput.Model
}

func newThreadPage(route Route, placeholder string) *threadPage {
	threadID, _ := route.ThreadID()
	compose := textinput.New()
	compose.Placeholder = placeholder
	compose.CharLimit = composeCharLimit
	compose.Prompt = "› "
	return &threadPage{
		route:    route,
		threadID: threadID,
		loading:  true,
		viewport: viewport.New(viewport.WithWidth(minSidebarWidth), viewport.WithHeight(minContentHeight)),
		compose:  compose,
	}
}

func (p *threadPage) SetSize(width, height int) {
	p.width = max(1, width)
	p.height = max(1, height)
	p.viewport.SetWidth(p.width)
	p.viewport.SetHeight(max(1, p.height-threadPageHeaderRows-threadPageComposeRows))
	p.compose.SetWidth(max(1, p.width-3))
}

// Apply installs a load result for this page's route.
func (p *threadPage) Apply(msg threadLoadedMsg, styles uiStyles, printer *i18n.Printer) {
	p.loading = false
	p.err = msg.err
	if msg.err == nil {
		p.thread = msg.thread
		p.messages = msg.messages
	}
	p.renderTranscript(styles, printer)
	if p.route.MessageOrder() == orderAsc {
		p.viewport.GotoBottom()
	} else {
		p.viewport.GotoTop()
	}
}

func (p *threadPage) AppendMessage(message *types.Message, styles uiStyles, printer *i18n.Printer) {
	if message == nil {
		return
	}
	if p.route.MessageOrder() == orderDesc {
		p.messages = append([]*types.Message{message}, p.messages...)
	} else {
		p.messages = append(p.messages, message)
	}
	p.renderTranscript(styles, printer)
	if p.route.MessageOrder() == orderAsc {
		p.viewport.GotoBottom()
	}
}

func (p *threadPage) renderTranscript(styles uiStyles, printer *i18n.Printer) {
	width := max(1, p.width)
	switch {
	case p.loading:
		p.viewport.SetContent(styles.muted.Render(printer.Sprintf(i18n.ConversationNotLoaded)))
		return
	case p.err != nil:
		p.viewport.SetContent(styles.errorText.Render(truncateToWidth(printer.Sprintf(i18n.OpenFailed, p.err), width)))
		return
	case len(p.messages) == 0:
		p.viewport.SetContent(styles.muted.Render(printer.Sprintf(i18n.NoMessages)))
		return
	}
	blocks := make([]string, 0, len(p.messages))
	for _, message := range p.messages {
		if message == nil {
			continue
		}
		label := styles.agentLabel.Render(string(message.Type))
		if message.Type == types.MessageTypeUser {
			label = styles.userLabel.Render(string(message.Type))
		}
		if !message.CreatedAt.IsZero() {
			label += styles.muted.Render(" · " + message.CreatedAt.Local().Format(messageTimeLayout))
		}
		if rating, ok := p.ratings[message.MessageID]; ok {
			label += styles.muted.Render(" · " + ratingMark(rating))
		}
		blocks = append(blocks, label+"\n"+renderMessageBody(message, width))
	}
	p.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

// RatingTarget is the newest message not written by the user.
func (p *threadPage) RatingTarget() *types.Message {
	newestFirst := p.route.MessageOrder() == orderDesc
	for i := range p.messages {
		index := len(p.messages) - 1 - i
		if newestFirst {
			index = i
		}
		message := p.messages[index]
		if message != nil && message.MessageID != "" && message.Type != types.MessageTypeUser {
			return message
		}
	}
	return nil
}

func (p *threadPage) SetRating(messageID string, rating float64, styles uiStyles, printer *i18n.Printer) {
	if p.ratings == nil {
		p.ratings = map[string]float64{}
	}
	p.ratings[messageID] = rating
	p.renderTranscript(styles, printer)
}

func ratingMark(rating float64) string {
	if rating >= ratingGood {
		return "▲"
	}
	return "▼"
}

func (p *threadPage) Title() string {
	if p.thread != nil {
		return p.thread.DisplayName()
	}
	return p.threadID
}

func (p *threadPage) View(styles uiStyles, printer *i18n.Printer) string {
	width := max(1, p.width)
	header := styles.title.Render(truncateName(p.Title(), width))
	if p.thread != nil {
		meta := " · " + printer.Sprintf(i18n.MessageCount, len(p.messages)) + " · " + p.route.MessageOrder()
		header += styles.muted.Render(truncateName(meta, max(0, width-xansi.StringWidth(header))))
	}
	divider := styles.divider.Render(strings.Repeat("─", width))
	lines := []string{header, divider, p.viewport.View(), divider, p.compose.View()}
	return strings.Join(lines, "\n")
}

func (p *threadPage) FocusCompose() tea.Cmd {
	return p.compose.Focus()
}

func (p *threadPage) BlurCompose() {
	p.compose.Blur()
}

func (p *threadPage) ComposeFocused() bool {
	return p.compose.Focused()
}

// ComposeConsumes reports whether the focused compose input has its own use
// for msg, in which case global shortcuts must not fire.
func (p *threadPage) ComposeConsumes(msg tea.KeyMsg) bool {
	if !p.compose.Focused() {
		return false
	}
	if press, ok := msg.(tea.KeyPressMsg); ok && press.Text != "" && press.Mod&commandModifiers == 0 {
		return true
	}
	km := p.compose.KeyMap
	return key.Matches(msg,
		km.CharacterForward, km.CharacterBackward,
		km.WordForward, km.WordBackward,
		km.DeleteWordBackward, km.DeleteWordForward,
		km.DeleteAfterCursor, km.DeleteBeforeCursor,
		km.DeleteCharacterBackward, km.DeleteCharacterForward,
		km.LineStart, km.LineEnd, km.Paste,
	)
}

func (p *threadPage) UpdateCompose(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.compose, cmd = p.compose.Update(msg)
	return cmd
}

func (p *threadPage) UpdateViewport(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// RestoreDraft puts back text whose send failed. Anything typed since is kept
// after it.
func (p *threadPage) RestoreDraft(text string) {
	if text == "" {
		return
	}
	if current := strings.TrimSpace(p.compose.Value()); current != "" {
		text += " " + current
	}
	p.compose.SetValue(text)
	p.compose.CursorEnd()
}

// TakeDraft returns the trimmed compose text and clears the input.
func (p *threadPage) TakeDraft() string {
	text := strings.TrimSpace(p.compose.Value())
	if text == "" {
		return ""
	}
	p.compose.Reset()
	return text
}
