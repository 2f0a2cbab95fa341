package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/skiva/tidvis/internal/timeline"
)

// View renders the requested view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	sections := []string{m.renderHeader(), m.renderContent(), m.renderLogPanel()}
	screen := strings.Join(sections, "\n")

	if overlay := m.renderOverlay(); overlay != "" {
		overlayHeight := lipgloss.Height(screen)
		if m.height > 0 {
			overlayHeight = m.height
		}
		screen = overlayOnContent(screen, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(screen)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderHeader renders the title, the tab strip, and the sync state.
func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Magenta)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.TextDim)
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.BgDark).Background(m.theme.Cyan)

	line := titleStyle.Render(" tidvis ")
	for i, name := range tabNames {
		label := fmt.Sprintf(" %d:%s ", i+1, name)
		if i == m.activeTab {
			line += activeStyle.Render(label)
		} else {
			line += dimStyle.Render(label)
		}
	}

	status := m.headerStatus()
	if gap := m.width - 2 - lipgloss.Width(line) - lipgloss.Width(status); gap > 0 {
		line += strings.Repeat(" ", gap) + status
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Width(max(0, m.width-2)).
		Render(line)
}

// headerStatus returns the right-aligned sync summary for the header.
func (m Model) headerStatus() string {
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.TextDim)
	switch {
	case m.loading:
		return m.spin.View() + dimStyle.Render(" syncing ")
	case m.stale:
		return lipgloss.NewStyle().Foreground(m.theme.Yellow).
			Render("⚠ cached " + m.snapshot.SyncedAt.UTC().Format("2006-01-02 15:04") + " ")
	case m.loaded:
		stats := m.snapshot.Stats(m.svc.Now())
		return dimStyle.Render(fmt.Sprintf("%d active · %d done · %d overdue ",
			stats.Active, stats.Completed, stats.Overdue))
	default:
		return ""
	}
}

// renderContent renders the active tab's panel.
func (m Model) renderContent() string {
	h := m.contentHeight()
	switch m.activeTab {
	case tabClients:
		return m.renderClients(h)
	case tabUsers:
		return m.renderUsers(h)
	default:
		return m.renderTimeline(h)
	}
}

// renderTimeline paints the Gantt canvas plus its status line into a
// bordered box of exactly h rows.
func (m Model) renderTimeline(h int) string {
	innerH := h - 2
	innerW := m.canvasWidth()
	if innerH < 2 || innerW < 1 {
		return fitLines("", h)
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border)

	if !m.loaded {
		waiting := m.spin.View() + " loading portfolio..."
		return boxStyle.Render(lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, waiting))
	}

	canvasH := innerH - 1
	c := timeline.NewCanvas(innerW, canvasH)
	lanes := m.layout.LanesFor(m.intervals)
	m.renderer.Draw(c, m.intervals, lanes, m.vp, m.today)
	if m.particles.mode != particlesOff {
		particleStyle := lipgloss.NewStyle().Foreground(m.theme.BorderDim)
		m.particles.drawInto(c, &particleStyle)
	}

	lines := c.Lines()
	lines = append(lines, m.renderStatusLine(innerW))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderStatusLine styles the viewport summary segments, truncating at
// the canvas width.
func (m Model) renderStatusLine(w int) string {
	var b strings.Builder
	used := 0
	for _, seg := range timeline.StatusSegments(m.vp, m.intervals, m.today) {
		text := seg.Text
		tw := runewidth.StringWidth(text)
		if used+tw > w {
			remain := w - used
			if remain <= 0 {
				break
			}
			text = runewidth.Truncate(text, remain, "…")
			tw = runewidth.StringWidth(text)
		}
		b.WriteString(m.theme.segmentStyle(seg.Emphasis).Render(text))
		used += tw
		if used >= w {
			break
		}
	}
	if used < w {
		b.WriteString(strings.Repeat(" ", w-used))
	}
	return b.String()
}

// renderClients renders the client list tab.
func (m Model) renderClients(h int) string {
	innerH := h - 2
	innerW := m.canvasWidth()
	if innerH < 1 || innerW < 1 {
		return fitLines("", h)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Cyan)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.TextDim)
	selectedStyle := lipgloss.NewStyle().Foreground(m.theme.BgDark).Background(m.theme.Cyan)

	lines := []string{titleStyle.Render(fmt.Sprintf("Clients (%d)", len(m.snapshot.Clients)))}
	if len(m.snapshot.Clients) == 0 {
		lines = append(lines, dimStyle.Render("no clients in snapshot"))
	} else {
		rows := max(1, innerH-1)
		start := 0
		if m.clientIndex >= rows {
			start = m.clientIndex - rows + 1
		}
		for i := start; i < len(m.snapshot.Clients) && i-start < rows; i++ {
			row := truncate(clientRowText(m.snapshot.Clients[i]), max(1, innerW-2))
			if i == m.clientIndex {
				lines = append(lines, selectedStyle.Render("▸ "+row))
			} else {
				lines = append(lines, "  "+row)
			}
		}
	}

	content := fitLines(strings.Join(lines, "\n"), innerH)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Width(innerW).
		Render(content)
}

// renderUsers renders the user list tab. Admin rows get the warning
// color so operators stand out at a glance.
func (m Model) renderUsers(h int) string {
	innerH := h - 2
	innerW := m.canvasWidth()
	if innerH < 1 || innerW < 1 {
		return fitLines("", h)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Cyan)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.TextDim)
	selectedStyle := lipgloss.NewStyle().Foreground(m.theme.BgDark).Background(m.theme.Cyan)
	adminStyle := lipgloss.NewStyle().Foreground(m.theme.Yellow)

	lines := []string{titleStyle.Render(fmt.Sprintf("Users (%d)", len(m.snapshot.Users)))}
	if len(m.snapshot.Users) == 0 {
		lines = append(lines, dimStyle.Render("no users in snapshot"))
	} else {
		rows := max(1, innerH-1)
		start := 0
		if m.userIndex >= rows {
			start = m.userIndex - rows + 1
		}
		for i := start; i < len(m.snapshot.Users) && i-start < rows; i++ {
			u := m.snapshot.Users[i]
			row := truncate(userRowText(u), max(1, innerW-2))
			switch {
			case i == m.userIndex:
				lines = append(lines, selectedStyle.Render("▸ "+row))
			case u.IsAdmin():
				lines = append(lines, "  "+adminStyle.Render(row))
			default:
				lines = append(lines, "  "+row)
			}
		}
	}

	content := fitLines(strings.Join(lines, "\n"), innerH)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Width(innerW).
		Render(content)
}

// renderLogPanel renders the bottom event strip.
func (m Model) renderLogPanel() string {
	rows := logPanelHeight - 2
	innerW := m.canvasWidth()
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.TextDim)

	levelStyles := map[logLevel]lipgloss.Style{
		logInfo:    lipgloss.NewStyle().Foreground(m.theme.Cyan),
		logSuccess: lipgloss.NewStyle().Foreground(m.theme.Green),
		logWarn:    lipgloss.NewStyle().Foreground(m.theme.Yellow),
		logError:   lipgloss.NewStyle().Foreground(m.theme.Red),
	}

	events := m.events
	if len(events) > rows {
		events = events[len(events)-rows:]
	}
	lines := make([]string, 0, rows)
	for _, e := range events {
		lines = append(lines, levelStyles[e.level].Render(string(e.level.glyph()))+" "+
			dimStyle.Render(e.at.Format("15:04:05"))+" "+
			truncate(e.text, max(1, innerW-12)))
	}

	content := fitLines(strings.Join(lines, "\n"), rows)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderDim).
		Width(max(0, m.width-2)).
		Render(content)
}

// renderOverlay returns the centered overlay, if any. The popup takes
// priority over help so errors are never hidden behind it.
func (m Model) renderOverlay() string {
	if m.popup != "" {
		return m.renderPopup()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return ""
}

// renderPopup renders popup.
func (m Model) renderPopup() string {
	width := clamp(m.width-8, 24, 64)
	body := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Red).Render(m.popup)
	hint := lipgloss.NewStyle().Foreground(m.theme.TextDim).Render("esc to dismiss")
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(m.theme.Red).
		Background(m.theme.PopupBg).
		Padding(0, 2).
		Width(width).
		Render(body + "\n" + hint)
}

// renderHelp renders help.
func (m Model) renderHelp() string {
	width := clamp(m.width-8, 48, 80)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	about := m.markdown.render(helpMarkdown, width-4)
	lines := []string{
		about,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(m.theme.TextDim).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Cyan).
		Background(m.theme.BgMedium).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(lines, "\n"))
}
