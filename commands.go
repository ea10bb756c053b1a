package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one state transition triggered by the UI.
type Command interface {
	apply(a *App) (effect, error)
}

// effect tells Dispatch what has to happen after a command ran.
type effect int

const (
	effectNone    effect = iota // nothing changed
	effectRender                // view-only change: rebuild, do not persist
	effectPersist               // persist, then rebuild
	effectRestyle               // persist, then patch the overlay node in place
)

// RenameHero stores the names line exactly as entered. Empty is allowed.
type RenameHero struct{ Names string }

// SetTagline stores the tagline exactly as entered. Empty is allowed.
type SetTagline struct{ Tagline string }

// SetOverlay sets the backdrop darkness, clamped to [0, 0.9].
type SetOverlay struct{ Value float64 }

// SetBackground replaces the backdrop reference (URL or data URI).
type SetBackground struct{ Ref string }

// ToggleMode flips between view and edit mode. It never touches AppState.
type ToggleMode struct{}

// AddTask appends a quest to a category. Blank text is ignored.
type AddTask struct {
	Section int
	Text    string
}

// DeleteTask removes the quest at Index.
type DeleteTask struct {
	Section int
	Index   int
}

// ToggleTask flips the completed flag of one quest.
type ToggleTask struct {
	Section int
	Index   int
}

// RenameCategory stores a category title exactly as entered.
type RenameCategory struct {
	Section int
	Title   string
}

func (c RenameHero) apply(a *App) (effect, error) {
	a.state.Names = c.Names
	return effectPersist, nil
}

func (c SetTagline) apply(a *App) (effect, error) {
	a.state.Tagline = c.Tagline
	return effectPersist, nil
}

func (c SetOverlay) apply(a *App) (effect, error) {
	a.state.Overlay = clampOverlay(c.Value)
	return effectRestyle, nil
}

func (c SetBackground) apply(a *App) (effect, error) {
	a.state.Background = c.Ref
	return effectPersist, nil
}

func (ToggleMode) apply(a *App) (effect, error) {
	a.editMode = !a.editMode
	return effectRender, nil
}

func (c AddTask) apply(a *App) (effect, error) {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return effectNone, nil
	}
	cat, err := a.state.category(c.Section)
	if err != nil {
		return effectNone, err
	}
	cat.Tasks = append(cat.Tasks, Task{Text: text})
	return effectPersist, nil
}

func (c DeleteTask) apply(a *App) (effect, error) {
	if _, err := a.state.task(c.Section, c.Index); err != nil {
		return effectNone, err
	}
	cat := &a.state.Sections[c.Section]
	cat.Tasks = append(cat.Tasks[:c.Index], cat.Tasks[c.Index+1:]...)
	return effectPersist, nil
}

func (c ToggleTask) apply(a *App) (effect, error) {
	task, err := a.state.task(c.Section, c.Index)
	if err != nil {
		return effectNone, err
	}
	task.Completed = !task.Completed
	return effectPersist, nil
}

func (c RenameCategory) apply(a *App) (effect, error) {
	cat, err := a.state.category(c.Section)
	if err != nil {
		return effectNone, err
	}
	cat.Title = c.Title
	return effectPersist, nil
}

// commandFor turns an activated control and its current input into a command.
// It reports false for controls that do not map to a synchronous command (the file picker).
func commandFor(ctrl Control, value string) (Command, bool, error) {
	switch ctrl.Op {
	case OpToggleMode:
		return ToggleMode{}, true, nil
	case OpRenameHero:
		return RenameHero{Names: value}, true, nil
	case OpSetTagline:
		return SetTagline{Tagline: value}, true, nil
	case OpSetOverlay:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, false, fmt.Errorf("overlay %q: %w", value, err)
		}
		return SetOverlay{Value: v}, true, nil
	case OpRenameCategory:
		return RenameCategory{Section: ctrl.Section, Title: value}, true, nil
	case OpToggleTask:
		return ToggleTask{Section: ctrl.Section, Index: ctrl.Task}, true, nil
	case OpDeleteTask:
		return DeleteTask{Section: ctrl.Section, Index: ctrl.Task}, true, nil
	case OpAddTask:
		return AddTask{Section: ctrl.Section, Text: value}, true, nil
	default:
		return nil, false, nil
	}
}
