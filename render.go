package main

import "fmt"

type NodeKind int

const (
	KindPage NodeKind = iota
	KindBackdrop
	KindOverlay
	KindButton
	KindHero
	KindHeading
	KindText
	KindTextInput
	KindFilePicker
	KindRange
	KindSection
	KindTaskRow
	KindCheckbox
	KindDelete
	KindAddTask
	KindProgress
)

// Op names the command a control dispatches when activated.
type Op int

const (
	OpNone Op = iota
	OpToggleMode
	OpRenameHero
	OpSetTagline
	OpPickBackground
	OpSetOverlay
	OpRenameCategory
	OpToggleTask
	OpDeleteTask
	OpAddTask
)

// Control binds a node to the command it dispatches.
type Control struct {
	Op      Op
	Section int
	Task    int
}

// Node is one element of the rendered page. Trees are plain values: rendering the same
// state twice yields deep-equal trees.
type Node struct {
	Kind     NodeKind
	ID       string
	Text     string
	Value    string
	Checked  bool
	Classes  []string
	Opacity  float64
	Fraction float64
	Min      float64
	Max      float64
	Step     float64
	Control  *Control
	Children []*Node
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns the first node with the given id, depth first.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its descendants in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Controls lists the interactive nodes in document order.
func (n *Node) Controls() []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.Control != nil {
			out = append(out, node)
		}
	})
	return out
}

const (
	idBackdrop       = "backdrop"
	idOverlay        = "overlay"
	idModeToggle     = "mode"
	idHero           = "hero"
	idNames          = "hero.names"
	idTagline        = "hero.tagline"
	idBackgroundPick = "backdrop.file"
	idOverlayRange   = "backdrop.overlay"
)

func sectionID(i int) string         { return fmt.Sprintf("section.%d", i) }
func sectionTitleID(i int) string    { return fmt.Sprintf("section.%d.title", i) }
func sectionAddID(i int) string      { return fmt.Sprintf("section.%d.add", i) }
func taskRowID(i, j int) string      { return fmt.Sprintf("section.%d.task.%d", i, j) }
func taskCheckID(i, j int) string    { return fmt.Sprintf("section.%d.task.%d.check", i, j) }
func taskDeleteID(i, j int) string   { return fmt.Sprintf("section.%d.task.%d.delete", i, j) }
func sectionProgressID(i int) string { return fmt.Sprintf("section.%d.progress", i) }

// Render builds the whole page from state. It has no side effects.
func Render(st *AppState, editMode bool) *Node {
	page := &Node{Kind: KindPage, ID: "page"}
	if editMode {
		page.Classes = []string{"editing"}
	}

	page.add(
		&Node{Kind: KindBackdrop, ID: idBackdrop, Value: st.Background},
		&Node{Kind: KindOverlay, ID: idOverlay, Opacity: st.Overlay},
		renderModeToggle(editMode),
		renderHero(st, editMode),
	)

	if editMode {
		page.add(renderBackdropEditors(st))
	}

	for i := range st.Sections {
		page.add(renderSection(st.Sections[i], i, editMode))
	}
	return page
}

func renderModeToggle(editMode bool) *Node {
	label := "Edit"
	if editMode {
		label = "Done"
	}
	return &Node{Kind: KindButton, ID: idModeToggle, Text: label, Control: &Control{Op: OpToggleMode}}
}

func renderHero(st *AppState, editMode bool) *Node {
	hero := &Node{Kind: KindHero, ID: idHero}
	if !editMode {
		return hero.add(
			&Node{Kind: KindHeading, ID: idNames, Text: st.Names},
			&Node{Kind: KindText, ID: idTagline, Text: st.Tagline},
		)
	}
	return hero.add(
		&Node{Kind: KindTextInput, ID: idNames, Text: "Names", Value: st.Names, Control: &Control{Op: OpRenameHero}},
		&Node{Kind: KindTextInput, ID: idTagline, Text: "Tagline", Value: st.Tagline, Control: &Control{Op: OpSetTagline}},
	)
}

func renderBackdropEditors(st *AppState) *Node {
	return (&Node{Kind: KindSection, ID: "backdrop.editors", Text: "Backdrop"}).add(
		&Node{Kind: KindFilePicker, ID: idBackgroundPick, Text: "Background image", Value: st.Background, Control: &Control{Op: OpPickBackground}},
		&Node{
			Kind:    KindRange,
			ID:      idOverlayRange,
			Text:    "Darkness",
			Value:   formatOverlay(st.Overlay),
			Min:     overlayMin,
			Max:     overlayMax,
			Step:    overlayStep,
			Control: &Control{Op: OpSetOverlay},
		},
	)
}

func renderSection(c Category, i int, editMode bool) *Node {
	section := &Node{Kind: KindSection, ID: sectionID(i), Text: c.Title}
	if editMode {
		section.add(&Node{Kind: KindTextInput, ID: sectionTitleID(i), Text: "Title", Value: c.Title, Control: &Control{Op: OpRenameCategory, Section: i}})
	} else {
		section.add(&Node{Kind: KindHeading, ID: sectionTitleID(i), Text: c.Title})
	}

	section.add(&Node{
		Kind:     KindProgress,
		ID:       sectionProgressID(i),
		Text:     fmt.Sprintf("%d/%d complete", c.completedCount(), len(c.Tasks)),
		Fraction: c.progress(),
	})

	for j, task := range c.Tasks {
		section.add(renderTask(task, i, j, editMode))
	}

	if editMode {
		section.add(&Node{Kind: KindAddTask, ID: sectionAddID(i), Text: "New quest", Control: &Control{Op: OpAddTask, Section: i}})
	}
	return section
}

func renderTask(task Task, i, j int, editMode bool) *Node {
	row := &Node{Kind: KindTaskRow, ID: taskRowID(i, j), Text: task.Text}
	if task.Completed {
		row.Classes = []string{"completed"}
	}
	row.add(&Node{
		Kind:    KindCheckbox,
		ID:      taskCheckID(i, j),
		Text:    task.Text,
		Checked: task.Completed,
		Control: &Control{Op: OpToggleTask, Section: i, Task: j},
	})
	if editMode {
		row.add(&Node{Kind: KindDelete, ID: taskDeleteID(i, j), Text: "delete", Control: &Control{Op: OpDeleteTask, Section: i, Task: j}})
	}
	return row
}
