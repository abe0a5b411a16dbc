// Package keys holds the key bindings of the interactive views.
package keys

import "github.com/charmbracelet/bubbles/key"

// SubmitKeyMap defines the bindings available while an issue is being
// created.
type SubmitKeyMap struct {
	Cancel key.Binding
}

// DefaultSubmitKeyMap returns the default bindings of the submit view.
func DefaultSubmitKeyMap() SubmitKeyMap {
	return SubmitKeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k SubmitKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k SubmitKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
