package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (model, *Store) {
	t.Helper()
	app, store, _ := newTestApp(t)
	m := newModel(app, nil)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}), store
}

func update(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func focusOn(t *testing.T, m *model, id string) {
	t.Helper()
	if n := m.app.Root().Find(id); n == nil || n.Control == nil {
		t.Fatalf("no control %q on the page", id)
	}
	m.focus = id
	m.syncFocus()
}

func TestModel_StartsInViewModeFocusedOnToggle(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	if m.app.EditMode() {
		t.Fatalf("expected view mode")
	}
	if m.focus != idModeToggle {
		t.Fatalf("expected focus on mode toggle; got %q", m.focus)
	}

	m = update(t, m, keyEnter)
	if !m.app.EditMode() {
		t.Fatalf("activating the toggle should enter edit mode")
	}
	m = update(t, m, runes("e"))
	if m.app.EditMode() {
		t.Fatalf("e should leave edit mode")
	}
}

func TestModel_AddTaskThroughEditor(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, sectionAddID(0))

	m = update(t, m, keyEnter)
	if m.editor == nil || m.editor.id != sectionAddID(0) {
		t.Fatalf("expected add editor to open")
	}
	m = update(t, m, runes("Swim with dolphins"), keyEnter)

	tasks := m.app.State().Sections[0].Tasks
	if len(tasks) != 5 || tasks[4] != (Task{Text: "Swim with dolphins"}) {
		t.Fatalf("expected new quest at the end; got %+v", tasks)
	}
	if got := store.Load(context.Background()).Sections[0].Tasks; len(got) != 5 {
		t.Fatalf("expected new quest persisted; got %d tasks", len(got))
	}
	if m.editor == nil || m.editor.Value() != "" {
		t.Fatalf("expected the add input to stay open and be cleared")
	}

	m = update(t, m, runes("   "), keyEnter)
	if len(m.app.State().Sections[0].Tasks) != 5 {
		t.Fatalf("blank add should not create a quest")
	}
	if m.editor != nil {
		t.Fatalf("blank enter should close the add input")
	}
}

func TestModel_TabOnAddInputDoesNotAdd(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, sectionAddID(1))
	m = update(t, m, keyEnter, runes("Half-typed"), keyTab)

	if len(m.app.State().Sections[1].Tasks) != 4 {
		t.Fatalf("leaving the add input must not add a quest")
	}
	if m.editor != nil {
		t.Fatalf("expected editor closed")
	}
}

func TestModel_TabCommitsHeroEdit(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, idNames)

	m = update(t, m, keyEnter, runes(" forever"), keyTab)

	if got := m.app.State().Names; got != "Alex & Sam forever" {
		t.Fatalf("expected names committed; got %q", got)
	}
	if got := store.Load(context.Background()).Names; got != "Alex & Sam forever" {
		t.Fatalf("expected names persisted; got %q", got)
	}
	if m.focus != idTagline {
		t.Fatalf("expected focus to move to tagline; got %q", m.focus)
	}
}

func TestModel_EscCancelsEdit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, sectionTitleID(0))
	m = update(t, m, keyEnter, runes("Nope"), keyEsc)

	if got := m.app.State().Sections[0].Title; got != "Travel Adventures" {
		t.Fatalf("esc should discard the edit; got %q", got)
	}
	if m.editor != nil {
		t.Fatalf("expected editor closed")
	}
}

func TestModel_SpaceTogglesFocusedQuest(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	focusOn(t, &m, taskCheckID(0, 1))

	m = update(t, m, keySpace)
	if !m.app.State().Sections[0].Tasks[1].Completed {
		t.Fatalf("expected quest completed")
	}
	if m.statusMsg != "Quest completed!" {
		t.Fatalf("unexpected status %q", m.statusMsg)
	}
	if m.focus != taskCheckID(0, 1) {
		t.Fatalf("focus should stay on the toggled quest; got %q", m.focus)
	}

	m = update(t, m, keySpace)
	if m.app.State().Sections[0].Tasks[1].Completed {
		t.Fatalf("expected quest reopened")
	}
}

func TestModel_OverlayArrowsUseFastPath(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, idOverlayRange)
	renders := m.app.Renders()

	m = update(t, m, keyRight)
	if got := m.app.State().Overlay; got != 0.65 {
		t.Fatalf("expected 0.65; got %v", got)
	}
	m = update(t, m, keyLeft, keyLeft)
	if got := m.app.State().Overlay; got != 0.55 {
		t.Fatalf("expected 0.55; got %v", got)
	}
	if got := store.Load(context.Background()).Overlay; got != 0.55 {
		t.Fatalf("expected 0.55 persisted; got %v", got)
	}
	if m.app.Renders() != renders {
		t.Fatalf("slider steps should not rebuild the page")
	}

	for i := 0; i < 30; i++ {
		m = update(t, m, keyRight)
	}
	if got := m.app.State().Overlay; got != overlayMax {
		t.Fatalf("expected overlay to stop at %v; got %v", overlayMax, got)
	}
}

func TestModel_OverlayEditorKeepsTypedValue(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, idOverlayRange)

	m = update(t, m, keyEnter)
	if m.editor == nil {
		t.Fatalf("expected overlay editor to open")
	}
	m.editor.input.SetValue("0.333")
	m = update(t, m, keyEnter)

	if got := m.app.State().Overlay; got != 0.333 {
		t.Fatalf("expected 0.333; got %v", got)
	}
	if got := store.Load(context.Background()).Overlay; got != 0.333 {
		t.Fatalf("expected 0.333 persisted; got %v", got)
	}

	// Arrow steps snap back onto hundredths.
	m = update(t, m, keyRight)
	if got := m.app.State().Overlay; got != 0.38 {
		t.Fatalf("expected 0.38 after one step; got %v", got)
	}
}

func TestModel_DeleteOnlyInEditMode(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	focusOn(t, &m, taskCheckID(0, 0))
	m = update(t, m, runes("d"))
	if len(m.app.State().Sections[0].Tasks) != 4 {
		t.Fatalf("delete must be unavailable in view mode")
	}

	m = update(t, m, runes("e"))
	focusOn(t, &m, taskCheckID(0, 0))
	m = update(t, m, runes("d"))
	tasks := m.app.State().Sections[0].Tasks
	if len(tasks) != 3 || tasks[0].Text != "Road trip along the coast" {
		t.Fatalf("expected first quest deleted; got %+v", tasks)
	}

	focusOn(t, &m, taskDeleteID(1, 0))
	m = update(t, m, keyEnter)
	if got := m.app.State().Sections[1].Tasks; len(got) != 3 || got[0].Text != "Learn to cook a new cuisine" {
		t.Fatalf("expected first personal goal deleted; got %+v", got)
	}
	if m.focus != taskDeleteID(1, 0) {
		t.Fatalf("expected focus to stay on the row position; got %q", m.focus)
	}
}

func TestModel_FocusClampsWhenControlDisappears(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, taskDeleteID(1, 3))
	m = update(t, m, keyEnter)

	if m.focused() == nil {
		t.Fatalf("expected a focused control after deleting the last row")
	}
}

func TestModel_BackgroundMessages(t *testing.T) {
	t.Parallel()

	m, store := newTestModel(t)
	ref := "data:image/png;base64,iVBORw0KGgo="

	m = update(t, m, backgroundFailedMsg{path: "/nope.png", err: errors.New("boom")})
	if m.app.State().Background != defaultBackground {
		t.Fatalf("failed read must not change the background")
	}
	if !strings.Contains(m.statusMsg, "boom") {
		t.Fatalf("expected failure in status; got %q", m.statusMsg)
	}

	m = update(t, m, backgroundLoadedMsg{path: "/x.png", ref: ref})
	if m.app.State().Background != ref {
		t.Fatalf("expected background set")
	}
	if store.Load(context.Background()).Background != ref {
		t.Fatalf("expected background persisted")
	}
}

func TestModel_PickerOpensAndCancels(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = update(t, m, runes("e"))
	focusOn(t, &m, idBackgroundPick)

	next, cmd := m.Update(keyEnter)
	m = next.(model)
	if !m.picking || cmd == nil {
		t.Fatalf("expected the file picker to open with an init command")
	}
	if !strings.Contains(ansi.Strip(m.View()), "Choose a background image") {
		t.Fatalf("expected picker view")
	}

	m = update(t, m, keyEsc)
	if m.picking {
		t.Fatalf("esc should close the picker")
	}
}

func TestModel_ResetNeedsConfirmation(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	focusOn(t, &m, taskCheckID(1, 0))
	m = update(t, m, keySpace)

	m = update(t, m, runes("R"))
	if !m.app.State().Sections[1].Tasks[0].Completed {
		t.Fatalf("first R must only ask for confirmation")
	}
	m = update(t, m, runes("R"))
	if m.app.State().Sections[1].Tasks[0].Completed {
		t.Fatalf("second R should reset to defaults")
	}

	m = update(t, m, runes("R"), runes("j"))
	if m.confirmReset {
		t.Fatalf("another key in between should cancel the pending reset")
	}
}

func TestModel_QuitCommand(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestModel_ViewShowsPage(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	out := ansi.Strip(m.View())
	for _, want := range []string{"[ Edit ]", "Alex & Sam", "Travel Adventures", "Personal Goals", "[ ] Camp under the stars"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}

	m = update(t, m, runes("e"))
	focusOn(t, &m, idNames)
	m = update(t, m, keyEnter)
	out = ansi.Strip(m.View())
	if !strings.Contains(out, "enter: save") {
		t.Fatalf("expected editor hint in view:\n%s", out)
	}
}
