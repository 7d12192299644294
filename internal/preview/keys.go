package preview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Bigger   key.Binding
	Smaller  key.Binding
	Motion   key.Binding
	Contrast key.Binding
	Clear    key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "light/dark")),
		Bigger:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "larger text")),
		Smaller:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "smaller text")),
		Motion:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "reduce motion")),
		Contrast: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "high contrast")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "follow system")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy theme")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Bigger, k.Smaller, k.Motion, k.Contrast, k.Clear, k.Copy, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Bigger, k.Smaller},
		{k.Motion, k.Contrast, k.Clear},
		{k.Copy, k.Quit},
	}
}
