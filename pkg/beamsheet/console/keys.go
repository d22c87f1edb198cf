package console

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/session"
)

// KeyMap binds console actions to keys.
type KeyMap struct {
	BeginA     key.Binding
	BeginB     key.Binding
	Confirm    key.Binding
	Finish     key.Binding
	Cancel     key.Binding
	Scenario   key.Binding
	DCL        key.Binding
	DCM        key.Binding
	DCH        key.Binding
	Secondary  key.Binding
	DirX       key.Binding
	DirY       key.Binding
	Resistance key.Binding
	PrevStory  key.Binding
	NextStory  key.Binding
	Reset      key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		BeginA:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "begin Infrastructura")),
		BeginB:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "begin Suprastructura")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm+next")),
		Finish:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "confirm+finish")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Scenario:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scenario")),
		DCL:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "DCL")),
		DCM:        key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "DCM")),
		DCH:        key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "DCH")),
		Secondary:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Secundare")),
		DirX:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Dir X")),
		DirY:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "Dir Y")),
		Resistance: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resistance")),
		PrevStory:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev story")),
		NextStory:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next story")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// buttons pairs the panel bindings with the buttons they press.
func (k KeyMap) buttons() []struct {
	binding key.Binding
	button  session.Button
} {
	return []struct {
		binding key.Binding
		button  session.Button
	}{
		{k.DCL, session.ButtonDCL},
		{k.DCM, session.ButtonDCM},
		{k.DCH, session.ButtonDCH},
		{k.Secondary, session.ButtonSecondary},
		{k.DirX, session.ButtonDirX},
		{k.DirY, session.ButtonDirY},
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.BeginA, k.BeginB, k.Confirm, k.Finish, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.BeginA, k.BeginB, k.Confirm, k.Finish, k.Cancel},
		{k.DCL, k.DCM, k.DCH, k.Secondary, k.DirX, k.DirY},
		{k.Resistance, k.PrevStory, k.NextStory, k.Scenario},
		{k.Reset, k.Quit},
	}
}
