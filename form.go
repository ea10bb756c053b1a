package main

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fieldEditor is the inline text input opened on a text control.
type fieldEditor struct {
	id      string
	control Control
	input   textinput.Model
}

func newFieldEditor(n *Node) (fieldEditor, tea.Cmd) {
	t := textinput.New()
	t.Cursor.Style = focusedStyle
	t.Prompt = ""
	t.CharLimit = 200
	t.TextStyle = focusedStyle

	switch n.Control.Op {
	case OpAddTask:
		t.Placeholder = "Describe a new quest"
	case OpSetOverlay:
		t.Placeholder = "0.00 - 0.90"
		t.CharLimit = 5
		t.SetValue(n.Value)
	case OpRenameHero:
		t.Placeholder = "Your names"
		t.SetValue(n.Value)
	case OpSetTagline:
		t.Placeholder = "A line about the two of you"
		t.SetValue(n.Value)
	default:
		t.SetValue(n.Value)
	}
	t.CursorEnd()

	cmd := t.Focus()
	return fieldEditor{id: n.ID, control: *n.Control, input: t}, cmd
}

func (e fieldEditor) Update(msg tea.Msg) (fieldEditor, tea.Cmd) {
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

func (e fieldEditor) View() string {
	return e.input.View()
}

func (e fieldEditor) Value() string {
	return e.input.Value()
}

// commitsOnBlur reports whether leaving the field keeps what was typed. Adding a quest needs an
// explicit enter.
func (e fieldEditor) commitsOnBlur() bool {
	return e.control.Op != OpAddTask
}

func (e *fieldEditor) clear() {
	e.input.Reset()
}
