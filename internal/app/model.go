package app

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"agentdash/internal/config"
	"agentdash/internal/events"
	"agentdash/internal/i18n"
	"agentdash/internal/logging"
	"agentdash/internal/store"
	"agentdash/internal/types"
)

const windowTitle = "agentdash"

type focusArea int

const (
	focusSidebar focusArea = iota
	focusContent
)

type Options struct {
	Health      HealthAPI
	Threads     ThreadAPI
	Feedback    FeedbackAPI
	UI          config.UIConfig
	Keybindings *Keybindings
	Prefs       store.UIPrefsStore
	// InitialPrefs are the prefs loaded before start; nil means defaults.
	InitialPrefs *types.UIPrefs
	Bus          *events.Bus[SidebarToggled]
	Logger       logging.Logger
	Route        Route
	Now          func() time.Time
}

type Model struct {
	healthAPI   HealthAPI
	threadAPI   ThreadAPI
	feedbackAPI FeedbackAPI
	ui          config.UIConfig
	keybindings *Keybindings
	hotkeys     []Hotkey
	prefs       store.UIPrefsStore
	bus         *events.Bus[SidebarToggled]
	unsubscribe []func()
	logger      logging.Logger
	printer     *i18n.Printer
	styles      uiStyles
	theme       string
	now         func() time.Time

	width      int
	height     int
	layout     shellLayout
	sidebar    *SidebarState
	threads    *ThreadList
	health     healthGate
	route      Route
	history    RouteHistory
	page       *threadPage
	focus      focusArea
	railHover  bool
	loader     spinner.Model
	prefsDirty bool

	requestScopes map[string]requestScope

	toastText    string
	toastLevel   toastLevel
	toastUntil   time.Time
	toastPending bool
}

func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	bindings := opts.Keybindings
	if bindings == nil {
		bindings = DefaultKeybindings()
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus[SidebarToggled]()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	theme := opts.UI.Theme()
	expanded := opts.UI.SidebarDefaultExpanded()
	if opts.InitialPrefs != nil {
		if opts.InitialPrefs.Theme != "" {
			theme = normalizeTheme(opts.InitialPrefs.Theme)
		}
		if opts.InitialPrefs.SidebarExpanded != nil {
			expanded = *opts.InitialPrefs.SidebarExpanded
		}
	}
	route := opts.Route
	if route.Path == "" {
		route = HomeRoute()
	}
	styles := newStyles(theme)
	setMarkdownBackgroundDark(theme == themeDark)

	m := &Model{
		healthAPI:   opts.Health,
		threadAPI:   opts.Threads,
		feedbackAPI: opts.Feedback,
		ui:          opts.UI,
		keybindings: bindings,
		hotkeys:     ResolveHotkeys(DefaultHotkeys(), bindings),
		prefs:       opts.Prefs,
		bus:         bus,
		logger:      logger,
		printer:     i18n.NewPrinter(opts.UI.Locale()),
		styles:      styles,
		theme:       theme,
		now:         now,
		sidebar:     NewSidebarState(opts.UI.MobileBreakpoint(), expanded, bus),
		threads:     NewThreadList(opts.UI.ActiveMatch()),
		route:       route,
		history:     NewRouteHistory(0),
		loader:      spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.spinner)),
	}
	m.history.Visit(route.String())
	if _, ok := route.ThreadID(); ok {
		m.page = newThreadPage(route, m.printer.Sprintf(i18n.ComposePlaceholder))
	}
	m.unsubscribe = append(m.unsubscribe,
		bus.Subscribe(m.onSidebarToggledLayout),
		bus.Subscribe(m.onSidebarToggledPrefs),
	)
	return m
}

// Run starts the terminal UI and blocks until it exits.
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.Close()
	_, err := tea.NewProgram(m).Run()
	return err
}

// Close releases bus subscriptions and cancels in-flight requests.
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil
	m.cancelAllRequestScopes()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.requestHealth(), m.loader.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.prefsDirty {
		m.prefsDirty = false
		cmd = tea.Batch(cmd, savePrefsCmd(m.prefs, m.prefsSnapshot()))
	}
	if m.toastPending {
		m.toastPending = false
		cmd = tea.Batch(cmd, toastExpiryCmd(toastDuration))
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sidebar.Resize(msg.Width)
		m.relayout()
		return nil
	case healthMsg:
		return m.reduceHealth(msg)
	case healthPollMsg:
		if msg.seq != m.health.appliedSeq {
			return nil
		}
		return m.requestHealth()
	case threadsMsg:
		m.reduceThreads(msg)
		return nil
	case threadLoadedMsg:
		m.reduceThreadLoaded(msg)
		return nil
	case threadCreatedMsg:
		return m.reduceThreadCreated(msg)
	case messageSentMsg:
		m.reduceMessageSent(msg)
		return nil
	case feedbackSavedMsg:
		m.reduceFeedbackSaved(msg)
		return nil
	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("ui_prefs_save_failed", logging.F("error", msg.err))
		}
		return nil
	case toastExpiredMsg:
		if !m.toastActive(msg.at) {
			m.clearToast()
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return cmd
	case tea.KeyPressMsg:
		return m.reduceKey(msg)
	case tea.MouseClickMsg:
		return m.reduceMouseClick(msg)
	case tea.MouseMotionMsg:
		m.reduceMouseMotion(msg)
		return nil
	case tea.MouseWheelMsg:
		if m.page != nil && m.health.Healthy() {
			return m.page.UpdateViewport(msg)
		}
		return nil
	}
	if m.page != nil && m.page.ComposeFocused() {
		return m.page.UpdateCompose(msg)
	}
	return nil
}

func (m *Model) requestHealth() tea.Cmd {
	return fetchHealthCmd(m.healthAPI, m.health.NextSeq())
}

func (m *Model) requestThreads() tea.Cmd {
	return fetchThreadsCmd(m.threadAPI, m.threads.NextSeq(), m.ui.ThreadListLimit())
}

func (m *Model) reduceHealth(msg healthMsg) tea.Cmd {
	wasHealthy := m.health.Healthy()
	if !m.health.Apply(msg.seq, msg.health, msg.err) {
		return nil
	}
	cmds := []tea.Cmd{healthPollCmd(m.ui.HealthPollInterval(), msg.seq)}
	switch {
	case m.health.Healthy() && !wasHealthy:
		m.logger.Info("health_ok")
		cmds = append(cmds, m.requestThreads())
		if m.page != nil {
			cmds = append(cmds, m.loadCurrentThread())
		}
	case !m.health.Healthy():
		fields := []logging.Field{logging.F("status", string(m.health.status))}
		if msg.err != nil {
			fields = append(fields, logging.F("error", msg.err))
		}
		m.logger.Warn("health_gate_closed", fields...)
	}
	return tea.Batch(cmds...)
}

func (m *Model) reduceThreads(msg threadsMsg) {
	if !m.threads.Apply(msg.seq, msg.threads, msg.err) {
		m.logger.Debug("threads_response_dropped", logging.F("seq", msg.seq))
		return
	}
	if msg.err == nil {
		if id, ok := m.route.ThreadID(); ok {
			m.threads.SelectThread(id)
		}
		return
	}
	m.logger.Warn("threads_fetch_failed", logging.F("error", msg.err))
	if m.threads.State() != ThreadListError {
		m.showErrorToast(m.printer.Sprintf(i18n.RefreshFailed, msg.err))
	}
}

func (m *Model) reduceThreadLoaded(msg threadLoadedMsg) {
	if !msg.route.Equal(m.route) || isCanceledRequestError(msg.err) {
		return
	}
	m.threads.ClearMarker()
	if m.page == nil {
		return
	}
	m.page.Apply(msg, m.styles, m.printer)
	if msg.err != nil {
		m.logger.Warn("thread_load_failed", logging.F("route", msg.route.String()), logging.F("error", msg.err))
		m.showErrorToast(m.printer.Sprintf(i18n.OpenFailed, msg.err))
	}
}

func (m *Model) reduceThreadCreated(msg threadCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("thread_create_failed", logging.F("error", msg.err))
		m.showErrorToast(m.printer.Sprintf(i18n.CreateFailed, msg.err))
		return nil
	}
	if msg.thread == nil {
		return m.requestThreads()
	}
	return tea.Batch(m.requestThreads(), m.navigate(ThreadRoute(msg.thread.ThreadID)))
}

func (m *Model) reduceMessageSent(msg messageSentMsg) {
	if m.page != nil {
		m.page.sending = false
	}
	if msg.err != nil {
		if isCanceledRequestError(msg.err) {
			return
		}
		m.logger.Warn("message_send_failed", logging.F("thread_id", msg.threadID), logging.F("error", msg.err))
		m.showErrorToast(m.printer.Sprintf(i18n.SendFailed, msg.err))
		if m.page != nil && m.page.threadID == msg.threadID {
			m.page.RestoreDraft(msg.text)
		}
		return
	}
	if m.page != nil && m.page.threadID == msg.threadID {
		m.page.AppendMessage(msg.message, m.styles, m.printer)
	}
}

// rateLatestReply rates the newest non-user message of the open thread.
func (m *Model) rateLatestReply(rating float64) tea.Cmd {
	target := m.page.RatingTarget()
	if target == nil {
		m.showInfoToast(m.printer.Sprintf(i18n.NothingToRate))
		return nil
	}
	return rateMessageCmd(m.feedbackAPI, m.page.threadID, target.MessageID, rating)
}

func (m *Model) reduceFeedbackSaved(msg feedbackSavedMsg) {
	if msg.err != nil {
		m.logger.Warn("feedback_save_failed", logging.F("message_id", msg.messageID), logging.F("error", msg.err))
		m.showErrorToast(m.printer.Sprintf(i18n.FeedbackFailed, msg.err))
		return
	}
	if m.page != nil && m.page.threadID == msg.threadID {
		m.page.SetRating(msg.messageID, msg.rating, m.styles, m.printer)
	}
	m.showInfoToast(m.printer.Sprintf(i18n.FeedbackSaved))
}

// navigate moves to next. Navigating to the current route completes at once.
func (m *Model) navigate(next Route) tea.Cmd {
	prev := m.route
	if prev.Equal(next) {
		m.threads.ClearMarker()
		return nil
	}
	m.route = next
	m.history.Visit(next.String())
	m.sidebar.RouteChanged(prev, next)
	m.relayout()
	return m.enterRoute()
}

func (m *Model) enterRoute() tea.Cmd {
	threadID, ok := m.route.ThreadID()
	if !ok {
		m.cancelRequestScope(requestScopeThreadLoad)
		m.page = nil
		m.threads.ClearMarker()
		if m.focus == focusContent && m.sidebarFocusable() {
			m.focus = focusSidebar
		}
		return nil
	}
	if m.page == nil || m.page.threadID != threadID {
		if m.page != nil {
			m.cancelRequestScope(requestScopeSend)
		}
		m.page = newThreadPage(m.route, m.printer.Sprintf(i18n.ComposePlaceholder))
	} else {
		m.page.route = m.route
		m.page.loading = true
	}
	m.page.SetSize(m.layout.contentWidth, m.layout.pageHeight())
	m.page.renderTranscript(m.styles, m.printer)
	m.threads.SelectThread(threadID)
	return m.loadCurrentThread()
}

func (m *Model) loadCurrentThread() tea.Cmd {
	ctx := m.replaceRequestScope(requestScopeThreadLoad)
	return loadThreadCmd(ctx, m.threadAPI, m.route)
}

func (m *Model) activateThread(threadID string, modified bool) tea.Cmd {
	click := m.threads.Click(threadID, modified, m.sidebar.IsMobile())
	if click.CloseMobile {
		m.sidebar.CloseMobile()
		m.relayout()
	}
	if click.CopyLink != "" {
		m.copyLink(click.CopyLink)
		return nil
	}
	if !click.Navigate {
		return nil
	}
	return m.navigate(click.Route)
}

func (m *Model) sendDraft() tea.Cmd {
	if m.page == nil || m.page.sending {
		return nil
	}
	text := m.page.TakeDraft()
	if text == "" {
		return nil
	}
	m.page.sending = true
	ctx := m.replaceRequestScope(requestScopeSend)
	return sendMessageCmd(ctx, m.threadAPI, m.page.threadID, text)
}

func (m *Model) toggleTheme() {
	if m.theme == themeDark {
		m.theme = themeLight
	} else {
		m.theme = themeDark
	}
	m.styles = newStyles(m.theme)
	m.loader.Style = m.styles.spinner
	setMarkdownBackgroundDark(m.theme == themeDark)
	if m.page != nil {
		m.page.renderTranscript(m.styles, m.printer)
	}
	m.prefsDirty = true
}

func (m *Model) relayout() {
	m.layout = computeShellLayout(m.width, m.height, m.sidebar.ViewState())
	m.threads.SetVisibleRows(m.layout.listRows())
	if m.page != nil {
		prevWidth := m.page.width
		m.page.SetSize(m.layout.contentWidth, m.layout.pageHeight())
		if prevWidth != m.page.width {
			m.page.renderTranscript(m.styles, m.printer)
		}
	}
	if m.focus == focusSidebar && !m.sidebarFocusable() {
		m.focus = focusContent
	}
	if m.layout.state != SidebarCollapsed {
		m.railHover = false
	}
}

func (m *Model) sidebarFocusable() bool {
	return m.sidebar.ViewState() != SidebarMobileClosed
}

func (m *Model) onSidebarToggledLayout(SidebarToggled) {
	m.relayout()
}

func (m *Model) onSidebarToggledPrefs(event SidebarToggled) {
	m.logger.Debug("sidebar_toggled", logging.F("expanded", event.Expanded))
	m.prefsDirty = true
}

func (m *Model) prefsSnapshot() types.UIPrefs {
	expanded := m.sidebar.DesktopExpanded()
	return types.UIPrefs{SidebarExpanded: &expanded, Theme: m.theme}
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.WindowTitle = windowTitle
	return v
}

func (m *Model) render() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch m.health.Phase() {
	case healthPending:
		return ""
	case healthMaintenance:
		return renderMaintenance(m.width, m.height, m.styles, m.printer, m.ui.HealthPollInterval().String())
	}
	return m.renderShell()
}

func (m *Model) renderShell() string {
	layout := m.layout
	content := m.renderContent()
	divider := ""
	if layout.divider {
		divider = m.styles.divider.Render("│")
	}
	var body string
	switch layout.state {
	case SidebarExpanded, SidebarCollapsed:
		body = combineColumns(m.renderSidebar(), content, layout.sidebarWidth, layout.bodyHeight, divider)
	case SidebarMobileOpen:
		body = overlayLeft(content, m.renderSidebar(), layout.sidebarWidth, layout.width, layout.bodyHeight, divider)
	default:
		body = padLines(fitLines(strings.Split(content, "\n"), layout.bodyHeight), layout.width)
	}
	return body + "\n" + m.statusLine()
}

func (m *Model) renderSidebar() string {
	width := m.layout.sidebarWidth
	opts := threadListRender{
		width:   width,
		route:   m.route,
		spinner: m.loader.View(),
		focused: m.focus == focusSidebar,
		styles:  m.styles,
		printer: m.printer,
	}
	if m.layout.state == SidebarCollapsed {
		brand := m.styles.brand.Render(" " + railBrandMark)
		if m.railAffordanceVisible() {
			brand = " " + m.styles.affordance.Render(railExpandMark)
		}
		lines := []string{brand, m.styles.divider.Render(strings.Repeat("─", width))}
		return strings.Join(append(lines, m.threads.IconLines(opts)...), "\n")
	}
	lines := []string{
		m.styles.brand.Render(truncateToWidth(" "+railBrandMark+" "+windowTitle, width)),
		m.styles.header.Render(truncateToWidth(" "+m.printer.Sprintf(i18n.ThreadsHeading), width)),
	}
	return strings.Join(append(lines, m.threads.Lines(opts)...), "\n")
}

func (m *Model) renderContent() string {
	width := m.layout.contentWidth
	height := m.layout.pageHeight()
	var page string
	if m.page != nil {
		page = m.page.View(m.styles, m.printer)
	} else {
		hints := renderHotkeyHints(m.hotkeys, HotkeyGlobal, HotkeySidebar)
		page = renderHomePage(width, height, m.styles, m.printer, m.keybindings.KeyFor(KeyCommandNewThread), hints)
	}
	if !m.layout.showReopen {
		return page
	}
	reopen := m.styles.affordance.Render(reopenAffordance) + " " + m.styles.muted.Render(m.printer.Sprintf(i18n.OpenNavigation))
	return reopen + "\n" + page
}

func (m *Model) statusLine() string {
	if line := m.toastLine(m.width); line != "" {
		return line
	}
	contexts := []HotkeyContext{HotkeyGlobal, HotkeySidebar}
	if m.page != nil && m.page.ComposeFocused() {
		contexts = []HotkeyContext{HotkeyGlobal, HotkeyCompose}
	}
	hints := " " + renderHotkeyHints(m.hotkeys, contexts...)
	if m.railAffordanceVisible() {
		label := " " + railExpandMark + " " + m.printer.Sprintf(i18n.ExpandSidebar)
		return m.styles.affordance.Render(label) + m.styles.muted.Render(truncateToWidth(" ·"+hints, max(0, m.width-xansi.StringWidth(label))))
	}
	return m.styles.muted.Render(truncateToWidth(hints, m.width))
}

// railAffordanceVisible reports whether the collapsed rail shows its expand
// mark in place of the brand.
func (m *Model) railAffordanceVisible() bool {
	return m.layout.state == SidebarCollapsed && (m.railHover || m.focus == focusSidebar)
}
