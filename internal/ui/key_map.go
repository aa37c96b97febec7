package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up           key.Binding
	down         key.Binding
	section      key.Binding
	search       key.Binding
	users        key.Binding
	hideWatched  key.Binding
	hideUpcoming key.Binding
	add          key.Binding
	discard      key.Binding
	flag         key.Binding
	sort         key.Binding
	reverse      key.Binding
	content      key.Binding
	pageSize     key.Binding
	nextPage     key.Binding
	prevPage     key.Binding
	view         key.Binding
	theme        key.Binding
	refresh      key.Binding
	login        key.Binding
	logout       key.Binding
	enter        key.Binding
	back         key.Binding
	yes          key.Binding
	no           key.Binding
	help         key.Binding
	quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		section:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		users:        key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "user filter")),
		hideWatched:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "hide watched")),
		hideUpcoming: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "hide upcoming")),
		add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add movie")),
		discard:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard")),
		flag:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle flag")),
		sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		reverse:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reverse sort")),
		content:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "content filter")),
		pageSize:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "page size")),
		nextPage:     key.NewBinding(key.WithKeys("]", "right"), key.WithHelp("]", "next page")),
		prevPage:     key.NewBinding(key.WithKeys("[", "left"), key.WithHelp("[", "prev page")),
		view:         key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view type")),
		theme:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		login:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
		logout:       key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "logout")),
		enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.section, k.nextPage, k.prevPage},
		{k.search, k.users, k.content, k.sort, k.reverse, k.pageSize},
		{k.add, k.discard, k.flag, k.refresh, k.hideWatched, k.hideUpcoming},
		{k.view, k.theme, k.login, k.logout, k.quit},
	}
}
