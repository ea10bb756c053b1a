package main

import (
	"context"
	"io"
	"log/slog"
)

// App owns the quest log for the lifetime of the process: the state, the edit/view flag and
// the last rendered page. It is not safe for concurrent use; the Bubble Tea update loop is its
// only caller.
type App struct {
	ctx      context.Context
	store    *Store
	log      *slog.Logger
	state    *AppState
	editMode bool
	root     *Node
	renders  int
}

func NewApp(ctx context.Context, store *Store, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		ctx:   ctx,
		store: store,
		log:   log,
		state: store.Load(ctx),
	}
	a.render()
	return a
}

func (a *App) State() *AppState { return a.state }
func (a *App) EditMode() bool   { return a.editMode }

// Root is the page as last rendered (or restyled).
func (a *App) Root() *Node { return a.root }

// Renders counts full rebuilds since the App was created.
func (a *App) Renders() int { return a.renders }

// Dispatch applies cmd, then persists and refreshes the page as the command requires.
// A failed command leaves state, storage and page untouched.
func (a *App) Dispatch(cmd Command) error {
	eff, err := cmd.apply(a)
	if err != nil {
		a.log.Warn("command rejected", "command", commandName(cmd), "err", err)
		return err
	}
	a.log.Debug("command applied", "command", commandName(cmd))

	switch eff {
	case effectRender:
		a.render()
	case effectPersist:
		a.store.Save(a.ctx, a.state)
		a.render()
	case effectRestyle:
		a.store.Save(a.ctx, a.state)
		a.restyleOverlay()
	}
	return nil
}

// Reload replaces the in-memory state with whatever storage holds now.
func (a *App) Reload() {
	a.state = a.store.Load(a.ctx)
	a.render()
}

// Reset writes the default quest log to storage and shows it.
func (a *App) Reset() {
	a.state = a.store.Reset(a.ctx)
	a.render()
}

func (a *App) render() {
	a.root = Render(a.state, a.editMode)
	a.renders++
}

// restyleOverlay updates the live overlay and slider without rebuilding the page.
func (a *App) restyleOverlay() {
	if n := a.root.Find(idOverlay); n != nil {
		n.Opacity = a.state.Overlay
	}
	if n := a.root.Find(idOverlayRange); n != nil {
		n.Value = formatOverlay(a.state.Overlay)
	}
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case RenameHero:
		return "RenameHero"
	case SetTagline:
		return "SetTagline"
	case SetOverlay:
		return "SetOverlay"
	case SetBackground:
		return "SetBackground"
	case ToggleMode:
		return "ToggleMode"
	case AddTask:
		return "AddTask"
	case DeleteTask:
		return "DeleteTask"
	case ToggleTask:
		return "ToggleTask"
	case RenameCategory:
		return "RenameCategory"
	default:
		return "unknown"
	}
}
