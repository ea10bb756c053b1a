package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const statusDuration = 3 * time.Second

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Left     key.Binding
	Right    key.Binding
	Delete   key.Binding
	Mode     key.Binding
	Reload   key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "shift+tab"),
		key.WithHelp("↑/k", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "tab"),
		key.WithHelp("↓/j", "next"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter/space", "toggle / edit"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "lighter"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "darker"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d/x", "delete quest"),
	),
	Mode: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit / done"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset to defaults"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Mode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Activate},
		{k.Left, k.Right, k.Delete, k.Mode},
		{k.Reload, k.Reset, k.Help, k.Quit},
	}
}

type tickMsg time.Time

type model struct {
	app    *App
	log    *slog.Logger
	width  int
	height int

	focus      string
	focusIndex int

	editor  *fieldEditor
	picking bool
	picker  filepicker.Model

	help         help.Model
	confirmReset bool
	statusMsg    string
	statusExpire time.Time
}

func newModel(app *App, log *slog.Logger) model {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := model{
		app:  app,
		log:  log,
		help: help.New(),
	}
	m.syncFocus()
	return m
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.picker.Height = pickerHeight(msg.Height)
		return m, nil

	case tickMsg:
		return m, tick()

	case backgroundLoadedMsg:
		if err := m.app.Dispatch(SetBackground{Ref: msg.ref}); err != nil {
			m.setStatus("Could not set background")
			return m, nil
		}
		m.log.Info("background updated", "path", msg.path, "bytes", len(msg.ref))
		m.syncFocus()
		m.setStatus("Background updated")
		return m, nil

	case backgroundFailedMsg:
		m.log.Warn("read background failed", "path", msg.path, "err", msg.err)
		m.setStatus("Could not read image: " + msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.picking:
			return m.updatePicker(msg)
		case m.editor != nil:
			return m.updateEditor(msg)
		default:
			return m.handleKeyPress(msg)
		}
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	if m.editor != nil {
		e, cmd := m.editor.Update(msg)
		m.editor = &e
		return m, cmd
	}
	return m, nil
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, keys.Reset) {
		m.confirmReset = false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, keys.Up):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, keys.Mode):
		m.dispatch(ToggleMode{})
		return m, nil

	case key.Matches(msg, keys.Reload):
		m.app.Reload()
		m.syncFocus()
		m.setStatus("Quest log reloaded")
		return m, nil

	case key.Matches(msg, keys.Reset):
		if !m.confirmReset {
			m.confirmReset = true
			m.setStatus("Press R again to reset everything to the defaults")
			return m, nil
		}
		m.confirmReset = false
		m.app.Reset()
		m.syncFocus()
		m.setStatus("Quest log reset")
		return m, nil

	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		n := m.focused()
		if n == nil || n.Control.Op != OpSetOverlay {
			return m, nil
		}
		step := overlayStep
		if key.Matches(msg, keys.Left) {
			step = -step
		}
		m.dispatch(SetOverlay{Value: stepOverlay(m.app.State().Overlay, step)})
		return m, nil

	case key.Matches(msg, keys.Delete):
		n := m.focused()
		if !m.app.EditMode() || n == nil {
			return m, nil
		}
		if op := n.Control.Op; op != OpToggleTask && op != OpDeleteTask {
			return m, nil
		}
		if m.dispatch(DeleteTask{Section: n.Control.Section, Index: n.Control.Task}) {
			m.setStatus("Quest deleted")
		}
		return m, nil

	case key.Matches(msg, keys.Activate):
		return m.activate()
	}

	return m, nil
}

// activate runs the focused control the way a click would.
func (m model) activate() (tea.Model, tea.Cmd) {
	n := m.focused()
	if n == nil {
		return m, nil
	}

	switch n.Control.Op {
	case OpRenameHero, OpSetTagline, OpRenameCategory, OpAddTask, OpSetOverlay:
		e, cmd := newFieldEditor(n)
		m.editor = &e
		return m, cmd

	case OpPickBackground:
		m.picking = true
		m.picker = newBackgroundPicker(m.height)
		return m, m.picker.Init()
	}

	cmd, ok, err := commandFor(*n.Control, n.Value)
	if err != nil || !ok {
		return m, nil
	}
	if m.dispatch(cmd) {
		switch cmd.(type) {
		case DeleteTask:
			m.setStatus("Quest deleted")
		case ToggleTask:
			if m.app.Root().Find(n.ID).Checked {
				m.setStatus("Quest completed!")
			} else {
				m.setStatus("Quest reopened")
			}
		}
	}
	return m, nil
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.editor = nil
		return m, nil

	case "enter":
		return m.commitEditor()

	case "tab", "shift+tab":
		e := m.editor
		m.editor = nil
		if e.commitsOnBlur() {
			if cmd, ok, err := commandFor(e.control, e.Value()); err == nil && ok {
				m.dispatch(cmd)
			}
		}
		if msg.String() == "tab" {
			m.moveFocus(1)
		} else {
			m.moveFocus(-1)
		}
		return m, nil
	}

	e, cmd := m.editor.Update(msg)
	m.editor = &e
	return m, cmd
}

func (m model) commitEditor() (tea.Model, tea.Cmd) {
	e := m.editor
	cmd, ok, err := commandFor(e.control, e.Value())
	if err != nil {
		m.setStatus("Enter a number between 0 and 0.9")
		return m, nil
	}
	if !ok {
		m.editor = nil
		return m, nil
	}

	if add, isAdd := cmd.(AddTask); isAdd {
		if strings.TrimSpace(add.Text) == "" {
			m.editor = nil
			return m, nil
		}
		if m.dispatch(add) {
			e.clear()
			m.setStatus("Quest added")
		}
		return m, nil
	}

	m.editor = nil
	m.dispatch(cmd)
	return m, nil
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.setStatus("Reading image…")
		return m, readImageCmd(path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setStatus("Not an image: " + path)
	}
	return m, cmd
}

// dispatch runs cmd against the app and keeps focus on a control that still exists.
func (m *model) dispatch(cmd Command) bool {
	if err := m.app.Dispatch(cmd); err != nil {
		switch {
		case errors.Is(err, ErrNoSuchTask):
			m.setStatus("That quest is gone")
		case errors.Is(err, ErrNoSuchCategory):
			m.setStatus("That list is gone")
		default:
			m.setStatus("Error: " + err.Error())
		}
		return false
	}
	m.syncFocus()
	return true
}

func (m *model) focused() *Node {
	if m.focus == "" {
		return nil
	}
	n := m.app.Root().Find(m.focus)
	if n == nil || n.Control == nil {
		return nil
	}
	return n
}

func (m *model) moveFocus(delta int) {
	controls := m.app.Root().Controls()
	if len(controls) == 0 {
		m.focus, m.focusIndex = "", 0
		return
	}
	i := (m.focusIndex + delta) % len(controls)
	if i < 0 {
		i += len(controls)
	}
	m.focusIndex = i
	m.focus = controls[i].ID
}

// syncFocus re-resolves the focused control after a rebuild. If its id is gone the cursor stays
// at the same position, clamped to the new list.
func (m *model) syncFocus() {
	controls := m.app.Root().Controls()
	if len(controls) == 0 {
		m.focus, m.focusIndex = "", 0
		return
	}
	for i, c := range controls {
		if c.ID == m.focus {
			m.focusIndex = i
			return
		}
	}
	m.focusIndex = min(max(m.focusIndex, 0), len(controls)-1)
	m.focus = controls[m.focusIndex].ID
}

func (m *model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusExpire = time.Now().Add(statusDuration)
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.picking {
		return m.pickerView()
	}

	opts := paintOptions{width: m.width, focus: m.focus}
	if m.editor != nil {
		opts.editing = m.editor.id
		opts.editor = m.editor.View()
	}

	var b strings.Builder
	b.WriteString(paint(m.app.Root(), opts))
	b.WriteString("\n\n")

	if time.Now().Before(m.statusExpire) {
		statusStyle := lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true)
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	if m.editor != nil {
		b.WriteString(mutedStyle.Render("enter: save • esc: cancel • tab: next field"))
	} else {
		b.WriteString(m.help.View(keys))
	}

	return lipgloss.NewStyle().Padding(1, 1).Render(b.String())
}

func (m model) pickerView() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Choose a background image"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter: choose • h/←: up a directory • esc: cancel"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func pickerHeight(screenH int) int {
	return max(screenH-10, 8)
}

func newBackgroundPicker(screenH int) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = imageExtensions
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = pickerHeight(screenH)
	fp.Cursor = "›"
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorHeading)
	fp.Styles.DisabledFile = mutedStyle
	fp.Styles.FileSize = mutedStyle.Width(fp.Styles.FileSize.GetWidth()).Align(lipgloss.Right)

	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}
	return fp
}
