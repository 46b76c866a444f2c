package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	submit   key.Binding
	newline  key.Binding
	login    key.Binding
	template key.Binding
	theme    key.Binding
	history  key.Binding
	results  key.Binding
	reuse    key.Binding
	remove   key.Binding
	up       key.Binding
	down     key.Binding
	back     key.Binding
	dismiss  key.Binding
	quit     key.Binding
	forceQ   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create journey")),
		newline:  key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "newline")),
		login:    key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "log in")),
		template: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next example")),
		theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		history:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		results:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "last journey")),
		reuse:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "reuse")),
		remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		back:     key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
		dismiss:  key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "dismiss")),
		quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQ:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.forceQ}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.newline, k.template},
		{k.theme, k.history, k.results},
		{k.up, k.down, k.reuse, k.remove},
		{k.back, k.dismiss, k.quit, k.forceQ},
	}
}
