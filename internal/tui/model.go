package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/skiva/tidvis/internal/app"
	"github.com/skiva/tidvis/internal/domain"
	"github.com/skiva/tidvis/internal/timeline"
)

// Service represents service data used by this package.
type Service interface {
	RefreshOrFallback(context.Context) (app.Snapshot, bool, error)
	Now() time.Time
}

// Tab indexes in display order.
const (
	tabClients = iota
	tabTimeline
	tabUsers
	tabCount
)

// tabNames stores the tab labels in display order.
var tabNames = [tabCount]string{"Clients", "Timeline", "Users"}

// logLevel classifies one event panel entry.
type logLevel int

const (
	logInfo logLevel = iota
	logSuccess
	logWarn
	logError
)

// glyph returns the one-rune marker rendered before an entry.
func (l logLevel) glyph() rune {
	switch l {
	case logSuccess:
		return '✓'
	case logWarn:
		return '⚠'
	case logError:
		return '✗'
	default:
		return 'ℹ'
	}
}

// logEntry is one line in the event panel.
type logEntry struct {
	at    time.Time
	level logLevel
	text  string
}

// Fixed chrome dimensions and limits.
const (
	headerHeight   = 3
	logPanelHeight = 5
	logCapacity    = 100

	fastScrollColumns = 7

	popupTimeout     = 5 * time.Second
	particleInterval = 100 * time.Millisecond
)

// Model represents model data used by this package.
type Model struct {
	svc Service

	ready   bool
	width   int
	height  int
	loading bool

	theme    Theme
	keys     keyMap
	help     help.Model
	spin     spinner.Model
	markdown markdownRenderer

	activeTab int
	showHelp  bool

	snapshot app.Snapshot
	stale    bool
	loaded   bool

	intervals []timeline.Interval
	layout    timeline.Layout
	vp        timeline.Viewport
	today     int
	centered  bool

	clientIndex int
	userIndex   int

	tickSpacing int
	renderer    *timeline.Renderer

	particles    *particleField
	particleMode particleMode
	particleSeed int64

	popup    string
	popupSeq int

	events []logEntry

	writeClipboard func(string) error
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	snapshot app.Snapshot
	stale    bool
	err      error
}

// particleTickMsg advances the background animation one frame.
type particleTickMsg time.Time

// popupExpiredMsg dismisses the popup raised with the same sequence.
type popupExpiredMsg int

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	m := Model{
		svc:            svc,
		theme:          DefaultTheme(),
		keys:           newKeyMap(),
		help:           h,
		spin:           sp,
		activeTab:      tabTimeline,
		vp:             timeline.Viewport{Zoom: timeline.DefaultZoom},
		tickSpacing:    timeline.DefaultTickSpacing,
		particleMode:   particlesRain,
		particleSeed:   time.Now().UnixNano(),
		loading:        true,
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.spin.Style = lipgloss.NewStyle().Foreground(m.theme.Cyan)
	m.renderer = timeline.NewRenderer(m.theme.palette(), m.tickSpacing)
	m.particles = newParticleField(m.particleMode, m.particleSeed)
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadData, m.spin.Tick}
	if m.particles.mode != particlesOff {
		cmds = append(cmds, particleTick())
	}
	return tea.Batch(cmds...)
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.particles.resize(m.canvasWidth(), m.canvasHeight())
		m.centerIfNeeded()
		return m, nil

	case loadedMsg:
		return m.applyLoaded(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case particleTickMsg:
		if m.particles.mode == particlesOff {
			return m, nil
		}
		m.particles.step()
		return m, particleTick()

	case popupExpiredMsg:
		if int(msg) == m.popupSeq {
			m.popup = ""
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// applyLoaded folds one fetch result into the model.
func (m Model) applyLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil && msg.snapshot.IsEmpty() {
		m.appendEvent(logError, "sync failed: "+msg.err.Error())
		return m.raisePopup("sync failed: " + msg.err.Error())
	}

	m.snapshot = msg.snapshot
	m.stale = msg.stale
	m.loaded = true
	m.intervals = timeline.FromProjects(m.snapshot.Projects)
	m.layout.Invalidate()
	m.today = timeline.DayIndex(m.svc.Now())
	m.vp.ClampSelection(len(m.intervals))
	m.clientIndex = clamp(m.clientIndex, 0, len(m.snapshot.Clients)-1)
	m.userIndex = clamp(m.userIndex, 0, len(m.snapshot.Users)-1)
	m.centerIfNeeded()

	switch {
	case msg.err == nil:
		m.appendEvent(logSuccess, fmt.Sprintf("synced %d projects, %d clients, %d users",
			len(m.snapshot.Projects), len(m.snapshot.Clients), len(m.snapshot.Users)))
	case msg.stale:
		m.appendEvent(logWarn, "upstream unreachable: "+msg.err.Error())
		return m.raisePopup("upstream unreachable, showing snapshot from " +
			m.snapshot.SyncedAt.UTC().Format("2006-01-02 15:04"))
	default:
		m.appendEvent(logWarn, "synced, but caching failed: "+msg.err.Error())
	}
	return m, nil
}

// handleKey handles normal mode key.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		if m.popup != "" {
			m.popup = ""
			return m, nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		m.appendEvent(logInfo, "refreshing from upstream")
		return m, tea.Batch(m.loadData, m.spin.Tick)
	case key.Matches(msg, m.keys.nextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.clientsTab):
		m.activeTab = tabClients
		return m, nil
	case key.Matches(msg, m.keys.timelineTab):
		m.activeTab = tabTimeline
		return m, nil
	case key.Matches(msg, m.keys.usersTab):
		m.activeTab = tabUsers
		return m, nil
	case key.Matches(msg, m.keys.cycleParticles):
		m.particles.setMode(m.particles.mode.next())
		m.appendEvent(logInfo, "particles: "+m.particles.mode.String())
		if m.particles.mode != particlesOff {
			return m, particleTick()
		}
		return m, nil
	case key.Matches(msg, m.keys.yank):
		m.yankSelection()
		return m, nil
	}
	if m.activeTab == tabTimeline {
		return m.handleTimelineKey(msg)
	}
	return m.handleListKey(msg)
}

// handleTimelineKey maps keys onto viewport transitions.
func (m Model) handleTimelineKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.scrollLeft):
		m.vp.Scroll(-1)
	case key.Matches(msg, m.keys.scrollRight):
		m.vp.Scroll(1)
	case key.Matches(msg, m.keys.scrollLeftFast):
		m.vp.Scroll(-fastScrollColumns)
	case key.Matches(msg, m.keys.scrollRightFast):
		m.vp.Scroll(fastScrollColumns)
	case key.Matches(msg, m.keys.zoomIn):
		m.vp.ZoomIn(m.canvasWidth())
	case key.Matches(msg, m.keys.zoomOut):
		m.vp.ZoomOut(m.canvasWidth())
	case key.Matches(msg, m.keys.selectNext):
		m.vp.SelectNext(len(m.intervals))
	case key.Matches(msg, m.keys.selectPrev):
		m.vp.SelectPrevious(len(m.intervals))
	case key.Matches(msg, m.keys.centerToday):
		m.vp.CenterOnToday(m.today, m.canvasWidth())
	case key.Matches(msg, m.keys.jumpStart):
		m.vp.JumpToStart()
	}
	return m, nil
}

// handleListKey moves the selection on the clients and users tabs.
func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	limit := len(m.snapshot.Clients)
	idx := &m.clientIndex
	if m.activeTab == tabUsers {
		limit = len(m.snapshot.Users)
		idx = &m.userIndex
	}
	switch {
	case key.Matches(msg, m.keys.selectNext):
		if *idx < limit-1 {
			*idx++
		}
	case key.Matches(msg, m.keys.selectPrev):
		if *idx > 0 {
			*idx--
		}
	}
	return m, nil
}

// handleMouseWheel handles mouse wheel.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	if m.activeTab == tabTimeline {
		switch msg.Button {
		case tea.MouseWheelUp:
			m.vp.Scroll(-1)
		case tea.MouseWheelDown:
			m.vp.Scroll(1)
		}
		return m, nil
	}

	limit := len(m.snapshot.Clients)
	idx := &m.clientIndex
	if m.activeTab == tabUsers {
		limit = len(m.snapshot.Users)
		idx = &m.userIndex
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if *idx > 0 {
			*idx--
		}
	case tea.MouseWheelDown:
		if *idx < limit-1 {
			*idx++
		}
	}
	return m, nil
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	snap, stale, err := m.svc.RefreshOrFallback(context.Background())
	return loadedMsg{snapshot: snap, stale: stale, err: err}
}

// particleTick schedules the next animation frame.
func particleTick() tea.Cmd {
	return tea.Tick(particleInterval, func(t time.Time) tea.Msg {
		return particleTickMsg(t)
	})
}

// raisePopup shows the popup and arms its auto-dismiss timer.
func (m Model) raisePopup(text string) (tea.Model, tea.Cmd) {
	m.popup = text
	m.popupSeq++
	seq := m.popupSeq
	return m, tea.Tick(popupTimeout, func(time.Time) tea.Msg {
		return popupExpiredMsg(seq)
	})
}

// appendEvent records one entry in the bounded event log.
func (m *Model) appendEvent(level logLevel, text string) {
	m.events = append(m.events, logEntry{at: m.svc.Now(), level: level, text: text})
	if len(m.events) > logCapacity {
		m.events = m.events[len(m.events)-logCapacity:]
	}
}

// yankSelection copies the selected row to the system clipboard.
func (m *Model) yankSelection() {
	text, ok := m.selectionText()
	if !ok {
		m.appendEvent(logWarn, "nothing selected to copy")
		return
	}
	if err := m.writeClipboard(text); err != nil {
		m.appendEvent(logError, "clipboard: "+err.Error())
		return
	}
	m.appendEvent(logSuccess, "copied: "+truncate(text, 48))
}

// selectionText renders the selected row of the active tab as a line of
// plain text.
func (m Model) selectionText() (string, bool) {
	switch m.activeTab {
	case tabTimeline:
		idx, ok := m.vp.Selection()
		if !ok || idx < 0 || idx >= len(m.intervals) {
			return "", false
		}
		iv := m.intervals[idx]
		return fmt.Sprintf("%s  %s → %s (%s)", iv.Label,
			timeline.DayDate(iv.Start).Format("2006-01-02"),
			timeline.DayDate(iv.End).Format("2006-01-02"),
			iv.Status(m.today)), true
	case tabClients:
		if len(m.snapshot.Clients) == 0 || m.clientIndex >= len(m.snapshot.Clients) {
			return "", false
		}
		return clientRowText(m.snapshot.Clients[m.clientIndex]), true
	case tabUsers:
		if len(m.snapshot.Users) == 0 || m.userIndex >= len(m.snapshot.Users) {
			return "", false
		}
		return userRowText(m.snapshot.Users[m.userIndex]), true
	}
	return "", false
}

// clientRowText formats one client list row.
func clientRowText(c domain.Client) string {
	address := c.Address
	if address == "" {
		address = "—"
	}
	return fmt.Sprintf("%s │ %s │ Projects: %d/%d", c.Name, address, c.ProjectsCompleted, c.ProjectsTotal)
}

// userRowText formats one user list row.
func userRowText(u domain.User) string {
	login := u.Login
	if login == "" {
		login = "—"
	}
	return fmt.Sprintf("%s │ %s │ %s", u.Name, login, u.Role)
}

// centerIfNeeded centers the viewport on today exactly once, as soon as
// both the window size and the first snapshot are known.
func (m *Model) centerIfNeeded() {
	if m.centered || !m.ready || !m.loaded {
		return
	}
	m.vp.CenterOnToday(m.today, m.canvasWidth())
	m.centered = true
}

// contentHeight is the rows left for the active tab between the header
// and the event panel.
func (m Model) contentHeight() int {
	return max(0, m.height-headerHeight-logPanelHeight)
}

// canvasWidth is the drawable width inside the content border.
func (m Model) canvasWidth() int {
	return max(0, m.width-2)
}

// canvasHeight leaves room for the border and the status line.
func (m Model) canvasHeight() int {
	return max(0, m.contentHeight()-3)
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// max returns the larger of the provided values.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
