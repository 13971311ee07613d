package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit     key.Binding
	Camera     key.Binding
	Library    key.Binding
	Attach     key.Binding
	ClearDraft key.Binding
	Focus      key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding

	// Modal navigation.
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add item")),
		Camera:     key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "take photo")),
		Library:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "photos")),
		Attach:     key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "attach…")),
		ClearDraft: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "drop photos")),
		Focus:      key.NewBinding(key.WithKeys("enter", "i", "a"), key.WithHelp("i", "type")),
		Quit:       key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),

		Next:    key.NewBinding(key.WithKeys("tab", "right", "l", "down", "j")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "left", "h", "up", "k")),
		Confirm: key.NewBinding(key.WithKeys("enter", " ")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+g")),
	}
}

func (k keyMap) focusedHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Camera, k.Library, k.Attach, k.ClearDraft}
}

func (k keyMap) blurredHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Camera, k.Library, k.Attach, k.Quit}
}
