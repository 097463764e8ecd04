// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Actions
	Lookup     key.Binding
	ExportXLSX key.Binding
	ExportCard key.Binding

	// Tab navigation
	NextTab key.Binding
	PrevTab key.Binding

	// General
	ToggleStatusBar key.Binding
	Clear           key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Lookup: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "consultar"),
		),
		ExportXLSX: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "exportar xlsx"),
		),
		ExportCard: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "exportar cartão"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "próxima aba"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "aba anterior"),
		),
		ToggleStatusBar: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "barra de status"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "limpar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "sair"),
		),
	}
}
