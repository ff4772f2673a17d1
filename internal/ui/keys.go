package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings for the application.
type keyMap struct {
	Quit key.Binding

	ViewDashboard key.Binding
	ViewDocuments key.Binding
	ViewCrawl     key.Binding
	ViewAudit     key.Binding

	Up   key.Binding
	Down key.Binding

	NextPage key.Binding
	PrevPage key.Binding

	Approve key.Binding
	Reject  key.Binding
	Delete  key.Binding

	Logout key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		ViewDashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		ViewDocuments: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "documents"),
		),
		ViewCrawl: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "crawl"),
		),
		ViewAudit: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "audit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev page"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reject"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
	}
}
