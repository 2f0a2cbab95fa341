package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	refresh    key.Binding

	nextTab     key.Binding
	prevTab     key.Binding
	clientsTab  key.Binding
	timelineTab key.Binding
	usersTab    key.Binding

	scrollLeft      key.Binding
	scrollRight     key.Binding
	scrollLeftFast  key.Binding
	scrollRightFast key.Binding
	zoomIn          key.Binding
	zoomOut         key.Binding
	selectNext      key.Binding
	selectPrev      key.Binding
	centerToday     key.Binding
	jumpStart       key.Binding

	cycleParticles key.Binding
	yank           key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		nextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
		clientsTab:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "clients")),
		timelineTab: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "timeline")),
		usersTab:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "users")),

		scrollLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "scroll left")),
		scrollRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "scroll right")),
		scrollLeftFast:  key.NewBinding(key.WithKeys("H", "shift+h"), key.WithHelp("H", "scroll left fast")),
		scrollRightFast: key.NewBinding(key.WithKeys("L", "shift+l"), key.WithHelp("L", "scroll right fast")),
		zoomIn:          key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		zoomOut:         key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		selectNext:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next row")),
		selectPrev:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous row")),
		centerToday:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "center on today")),
		jumpStart:       key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "jump to start")),

		cycleParticles: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle particles")),
		yank:           key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selected row")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.scrollLeft, k.scrollRight, k.zoomIn, k.zoomOut, k.selectNext, k.centerToday, k.refresh, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.scrollLeft, k.scrollRight, k.scrollLeftFast, k.scrollRightFast, k.zoomIn, k.zoomOut, k.selectNext, k.selectPrev, k.centerToday, k.jumpStart},
		{k.clientsTab, k.timelineTab, k.usersTab, k.nextTab, k.prevTab},
		{k.refresh, k.yank, k.cycleParticles, k.toggleHelp, k.quit},
	}
}
