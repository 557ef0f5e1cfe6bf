package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Tap      key.Binding
	Next     key.Binding
	Prev     key.Binding
	Back     key.Binding
	Settings key.Binding
	FontUp   key.Binding
	FontDown key.Binding
	SubText  key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "select")),
		Tap:      key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "count")),
		Next:     key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "next")),
		Prev:     key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "previous")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace", "b"), key.WithHelp("esc", "back")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		FontUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "larger")),
		FontDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "smaller")),
		SubText:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "notes")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

// screenHelp adapts a list of bindings to help.KeyMap.
type screenHelp []key.Binding

func (h screenHelp) ShortHelp() []key.Binding  { return h }
func (h screenHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }
