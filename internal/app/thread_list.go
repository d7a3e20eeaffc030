package app

import (
	"strings"

	"agentdash/internal/i18n"
	"agentdash/internal/types"
)

type ThreadListState int

const (
	ThreadListLoading ThreadListState = iota
	ThreadListPopulated
	ThreadListEmpty
	ThreadListError
)

func (s ThreadListState) String() string {
	switch s {
	case ThreadListPopulated:
		return "populated"
	case ThreadListEmpty:
		return "empty"
	case ThreadListError:
		return "error"
	default:
		return "loading"
	}
}

const (
	activeMatchSegment   = "segment"
	activeMatchSubstring = "substring"

	threadListSkeletonRows = 3
)

var threadIcons = map[string]string{
	"bot":    "●",
	"code":   "λ",
	"search": "⌕",
	"chat":   "¶",
	"brain":  "✱",
	"tool":   "⚑",
	"file":   "▤",
	"globe":  "○",
}

var skeletonFractions = [threadListSkeletonRows]int{70, 50, 85}

func threadIcon(name string) string {
	if icon, ok := threadIcons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return threadIcons[types.DefaultThreadIcon]
}

// ThreadClick describes what a row activation asks the shell to do.
type ThreadClick struct {
	ThreadID    string
	Navigate    bool
	Route       Route
	CopyLink    string
	CloseMobile bool
}

// ThreadList holds the fetched threads and the per-row navigation marker.
// Fetch results are applied last-request-wins by sequence number.
type ThreadList struct {
	threads     []*types.Thread
	loaded      bool
	err         error
	issuedSeq   int
	appliedSeq  int
	loadingID   string
	activeMatch string
	cursor      int
	offset      int
	visibleRows int
}

func NewThreadList(activeMatch string) *ThreadList {
	if activeMatch != activeMatchSubstring {
		activeMatch = activeMatchSegment
	}
	return &ThreadList{activeMatch: activeMatch}
}

// NextSeq reserves the sequence number for a new fetch.
func (l *ThreadList) NextSeq() int {
	l.issuedSeq++
	return l.issuedSeq
}

// Apply records a fetch result. Results older than the newest applied one are
// dropped. A failed refetch keeps the data already shown.
func (l *ThreadList) Apply(seq int, threads []*types.Thread, err error) bool {
	if seq < l.appliedSeq {
		return false
	}
	l.appliedSeq = seq
	if err != nil {
		if !l.loaded {
			l.err = err
		}
		return true
	}
	l.err = nil
	l.loaded = true
	l.threads = threads
	l.cursor = clamp(l.cursor, 0, max(0, len(threads)-1))
	l.ensureCursorVisible()
	return true
}

func (l *ThreadList) State() ThreadListState {
	if !l.loaded {
		if l.err != nil {
			return ThreadListError
		}
		return ThreadListLoading
	}
	if len(l.threads) == 0 {
		return ThreadListEmpty
	}
	return ThreadListPopulated
}

func (l *ThreadList) Threads() []*types.Thread {
	return l.threads
}

func (l *ThreadList) Err() error {
	return l.err
}

func (l *ThreadList) MarkedID() string {
	return l.loadingID
}

func (l *ThreadList) ClearMarker() {
	l.loadingID = ""
}

// Click resolves a row activation. A plain click marks the row and navigates;
// a modified click only yields the link to copy.
func (l *ThreadList) Click(threadID string, modified, mobile bool) ThreadClick {
	threadID = strings.TrimSpace(threadID)
	click := ThreadClick{ThreadID: threadID, CloseMobile: mobile}
	if threadID == "" {
		return click
	}
	if modified {
		click.CopyLink = ThreadLink(threadID)
		return click
	}
	l.loadingID = threadID
	click.Navigate = true
	click.Route = ThreadRoute(threadID)
	return click
}

func (l *ThreadList) IsActive(threadID string, route Route) bool {
	if threadID == "" {
		return false
	}
	if l.activeMatch == activeMatchSubstring {
		return strings.Contains(route.String(), threadID)
	}
	for _, segment := range route.Segments() {
		if segment == threadID {
			return true
		}
	}
	return false
}

func (l *ThreadList) Cursor() int {
	return l.cursor
}

func (l *ThreadList) Selected() *types.Thread {
	if l.cursor < 0 || l.cursor >= len(l.threads) {
		return nil
	}
	return l.threads[l.cursor]
}

func (l *ThreadList) MoveCursor(delta int) {
	if len(l.threads) == 0 {
		l.cursor = 0
		return
	}
	l.cursor = clamp(l.cursor+delta, 0, len(l.threads)-1)
	l.ensureCursorVisible()
}

func (l *ThreadList) SelectThread(threadID string) {
	for i, thread := range l.threads {
		if thread != nil && thread.ThreadID == threadID {
			l.cursor = i
			l.ensureCursorVisible()
			return
		}
	}
}

func (l *ThreadList) SetVisibleRows(rows int) {
	l.visibleRows = max(0, rows)
	l.ensureCursorVisible()
}

// ThreadAtRow maps a row relative to the top of the list to a thread.
func (l *ThreadList) ThreadAtRow(row int) (*types.Thread, bool) {
	if l.State() != ThreadListPopulated || row < 0 {
		return nil, false
	}
	if l.visibleRows > 0 && row >= l.visibleRows {
		return nil, false
	}
	index := l.offset + row
	if index >= len(l.threads) || l.threads[index] == nil {
		return nil, false
	}
	return l.threads[index], true
}

func (l *ThreadList) ensureCursorVisible() {
	if l.visibleRows <= 0 {
		l.offset = 0
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.visibleRows {
		l.offset = l.cursor - l.visibleRows + 1
	}
	maxOffset := max(0, len(l.threads)-l.visibleRows)
	l.offset = clamp(l.offset, 0, maxOffset)
}

type threadListRender struct {
	width   int
	route   Route
	spinner string
	focused bool
	styles  uiStyles
	printer *i18n.Printer
}

// Lines renders the expanded list body.
func (l *ThreadList) Lines(opts threadListRender) []string {
	width := max(1, opts.width)
	switch l.State() {
	case ThreadListLoading:
		lines := make([]string, 0, threadListSkeletonRows)
		for _, fraction := range skeletonFractions {
			bar := max(3, (width-3)*fraction/100)
			lines = append(lines, opts.styles.skeleton.Render(" ░ "+strings.Repeat("░", bar)))
		}
		return lines
	case ThreadListError:
		return []string{opts.styles.errorText.Render(truncateToWidth(" ! "+opts.printer.Sprintf(i18n.ConversationsFailed), width))}
	case ThreadListEmpty:
		return []string{opts.styles.muted.Render(truncateToWidth(" "+opts.printer.Sprintf(i18n.NoConversations), width))}
	}
	end := len(l.threads)
	if l.visibleRows > 0 {
		end = min(end, l.offset+l.visibleRows)
	}
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		thread := l.threads[i]
		if thread == nil {
			lines = append(lines, "")
			continue
		}
		icon := threadIcon(thread.Icon())
		if thread.ThreadID == l.loadingID && opts.spinner != "" {
			icon = opts.spinner
		}
		text := " " + icon + " " + truncateName(thread.DisplayName(), width-3)
		style := opts.styles.row
		if l.IsActive(thread.ThreadID, opts.route) {
			style = opts.styles.rowActive
		}
		if opts.focused && i == l.cursor {
			style = style.Background(opts.styles.rowFocused.GetBackground())
			text = padToWidth(text, width)
		}
		lines = append(lines, style.Render(text))
	}
	return lines
}

// IconLines renders the collapsed rail body: one icon per visible thread.
func (l *ThreadList) IconLines(opts threadListRender) []string {
	if l.State() != ThreadListPopulated {
		return nil
	}
	end := len(l.threads)
	if l.visibleRows > 0 {
		end = min(end, l.offset+l.visibleRows)
	}
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		thread := l.threads[i]
		if thread == nil {
			lines = append(lines, "")
			continue
		}
		icon := threadIcon(thread.Icon())
		if thread.ThreadID == l.loadingID && opts.spinner != "" {
			icon = opts.spinner
		}
		style := opts.styles.muted
		if l.IsActive(thread.ThreadID, opts.route) {
			style = opts.styles.rowActive
		}
		if opts.focused && i == l.cursor {
			style = style.Background(opts.styles.rowFocused.GetBackground())
		}
		lines = append(lines, style.Render(" "+icon+" "))
	}
	return lines
}
