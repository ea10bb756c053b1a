package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	minWidth       = 40
	contentPadding = 2
	columnGap      = 4
	minColumnWidth = 34
	heroBaseColor  = "#3f6fa8"
)

var (
	colorAccent  = lipgloss.Color("#4ec9b0")
	colorHeading = lipgloss.Color("#569cd6")
	colorText    = lipgloss.Color("#d4d4d4")
	colorMuted   = lipgloss.Color("#666666")
	colorDanger  = lipgloss.Color("#d73a4a")
	colorHeroFg  = lipgloss.Color("#ffffff")

	focusedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeading)
)

// paintOptions carries the terminal-side state that is not part of the page tree.
type paintOptions struct {
	width   int
	focus   string // id of the focused control
	editing string // id of the control whose editor is open
	editor  string // rendered editor shown in place of that control's value
}

// paint draws a rendered page for the terminal.
func paint(root *Node, opts paintOptions) string {
	if root == nil {
		return ""
	}
	width := max(opts.width, minWidth) - contentPadding

	var (
		backdrop, overlay *Node
		toggle, hero      *Node
		editors           *Node
		sections          []*Node
	)
	for _, n := range root.Children {
		switch {
		case n.Kind == KindBackdrop:
			backdrop = n
		case n.Kind == KindOverlay:
			overlay = n
		case n.Kind == KindButton:
			toggle = n
		case n.Kind == KindHero:
			hero = n
		case n.ID == "backdrop.editors":
			editors = n
		case n.Kind == KindSection:
			sections = append(sections, n)
		}
	}

	opacity := 0.0
	if overlay != nil {
		opacity = overlay.Opacity
	}

	var b strings.Builder
	if toggle != nil {
		b.WriteString(paintButton(toggle, opts))
	}
	if backdrop != nil {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(ansi.Truncate(
			fmt.Sprintf("backdrop: %s · darkness %d%%", describeBackground(backdrop.Value), int(opacity*100+0.5)),
			width-12, "…")))
	}
	b.WriteString("\n\n")

	if hero != nil {
		b.WriteString(paintHero(hero, opacity, width, opts))
		b.WriteString("\n\n")
	}
	if editors != nil {
		b.WriteString(paintEditors(editors, width, opts))
		b.WriteString("\n\n")
	}
	b.WriteString(paintSections(sections, width, opts))

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

// shade darkens the hero base color the way the overlay darkens the backdrop image.
func shade(opacity float64) lipgloss.Color {
	base, err := colorful.Hex(heroBaseColor)
	if err != nil {
		return lipgloss.Color(heroBaseColor)
	}
	return lipgloss.Color(base.BlendRgb(colorful.Color{}, opacity).Clamped().Hex())
}

func cursorFor(id string, opts paintOptions) string {
	if id != "" && id == opts.focus {
		return "› "
	}
	return "  "
}

func paintButton(n *Node, opts paintOptions) string {
	label := "[ " + n.Text + " ]"
	if n.ID == opts.focus {
		return focusedStyle.Render("› " + label)
	}
	return textStyle.Render("  " + label)
}

func paintHero(hero *Node, opacity float64, width int, opts paintOptions) string {
	panel := lipgloss.NewStyle().
		Background(shade(opacity)).
		Foreground(colorHeroFg).
		Width(width).
		Padding(1, 2).
		Align(lipgloss.Center)

	var lines []string
	for _, n := range hero.Children {
		switch n.Kind {
		case KindHeading:
			lines = append(lines, lipgloss.NewStyle().Bold(true).Render(n.Text))
		case KindText:
			lines = append(lines, lipgloss.NewStyle().Italic(true).Render(n.Text))
		case KindTextInput:
			lines = append(lines, paintInputLine(n, width-6, opts))
		}
	}
	return panel.Render(strings.Join(lines, "\n"))
}

func paintInputLine(n *Node, width int, opts paintOptions) string {
	value := n.Value
	if n.ID == opts.editing {
		value = opts.editor
	} else if value == "" {
		value = mutedStyle.Render("(empty)")
	}
	line := cursorFor(n.ID, opts) + n.Text + ": " + value
	if n.ID == opts.focus && n.ID != opts.editing {
		return focusedStyle.Render(ansi.Truncate(line, width, "…"))
	}
	return ansi.Truncate(line, width, "…")
}

func paintEditors(editors *Node, width int, opts paintOptions) string {
	var lines []string
	lines = append(lines, headingStyle.Render(editors.Text))
	for _, n := range editors.Children {
		switch n.Kind {
		case KindFilePicker:
			line := cursorFor(n.ID, opts) + n.Text + ": " + describeBackground(n.Value)
			line = ansi.Truncate(line, width, "…")
			if n.ID == opts.focus {
				line = focusedStyle.Render(line) + mutedStyle.Render("  enter to choose")
			}
			lines = append(lines, line)
		case KindRange:
			lines = append(lines, paintRange(n, width, opts))
		}
	}
	return strings.Join(lines, "\n")
}

func paintRange(n *Node, width int, opts paintOptions) string {
	bar := progress.New(
		progress.WithSolidFill(string(colorAccent)),
		progress.WithoutPercentage(),
		progress.WithWidth(min(24, max(width-30, 8))),
	)
	fraction := 0.0
	if n.Max > n.Min {
		if v, err := strconv.ParseFloat(n.Value, 64); err == nil {
			fraction = (v - n.Min) / (n.Max - n.Min)
		}
	}
	label := cursorFor(n.ID, opts) + n.Text + ": "
	if n.ID == opts.focus {
		label = focusedStyle.Render(label)
	}
	hint := ""
	if n.ID == opts.focus {
		hint = mutedStyle.Render("  ←/→")
	}
	return label + bar.ViewAs(fraction) + " " + n.Value + hint
}

func paintSections(sections []*Node, width int, opts paintOptions) string {
	if len(sections) == 0 {
		return mutedStyle.Italic(true).Render("No quest lists yet.")
	}

	// The first two categories are the two pages; they sit side by side when there is room.
	pages := sections[:min(2, len(sections))]
	rest := sections[len(pages):]

	var out []string
	if len(pages) == 2 && width >= 2*minColumnWidth+columnGap {
		colWidth := (width - columnGap) / 2
		left := lipgloss.NewStyle().Width(colWidth).Render(paintSection(pages[0], colWidth, opts))
		right := lipgloss.NewStyle().Width(colWidth).Render(paintSection(pages[1], colWidth, opts))
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", columnGap), right))
	} else {
		for _, s := range pages {
			out = append(out, paintSection(s, width, opts))
		}
	}
	for _, s := range rest {
		out = append(out, paintSection(s, width, opts))
	}
	return strings.Join(out, "\n\n")
}

func paintSection(section *Node, width int, opts paintOptions) string {
	var lines []string
	for _, n := range section.Children {
		switch n.Kind {
		case KindHeading:
			lines = append(lines, headingStyle.Render(ansi.Truncate(n.Text, width, "…")))
		case KindTextInput:
			lines = append(lines, paintInputLine(n, width, opts))
		case KindProgress:
			bar := progress.New(
				progress.WithDefaultGradient(),
				progress.WithoutPercentage(),
				progress.WithWidth(max(width-18, 6)),
			)
			lines = append(lines, bar.ViewAs(n.Fraction)+" "+mutedStyle.Render(n.Text), "")
		case KindTaskRow:
			lines = append(lines, paintTaskRow(n, width, opts))
		case KindAddTask:
			lines = append(lines, "", paintAddTask(n, width, opts))
		}
	}
	return strings.Join(lines, "\n")
}

func paintTaskRow(row *Node, width int, opts paintOptions) string {
	var check, del *Node
	for _, c := range row.Children {
		switch c.Kind {
		case KindCheckbox:
			check = c
		case KindDelete:
			del = c
		}
	}

	cursor := "  "
	if (check != nil && check.ID == opts.focus) || (del != nil && del.ID == opts.focus) {
		cursor = "› "
	}

	box := "[ ]"
	if check != nil && check.Checked {
		box = "[x]"
	}

	style := textStyle
	if row.HasClass("completed") {
		style = style.Foreground(colorMuted).Strikethrough(true)
	}
	if check != nil && check.ID == opts.focus {
		style = style.Bold(true).Foreground(colorAccent)
	}

	suffix := ""
	if del != nil {
		suffix = "  ✕"
		if del.ID == opts.focus {
			suffix = lipgloss.NewStyle().Foreground(colorDanger).Bold(true).Render("  ✕ delete")
		} else {
			suffix = mutedStyle.Render(suffix)
		}
	}

	maxText := max(width-lipgloss.Width(cursor+box+" ")-lipgloss.Width(suffix), 4)
	text := ansi.Truncate(row.Text, maxText, "…")
	return cursor + box + " " + style.Render(text) + suffix
}

func paintAddTask(n *Node, width int, opts paintOptions) string {
	if n.ID == opts.editing {
		return cursorFor(n.ID, opts) + "+ " + opts.editor
	}
	line := cursorFor(n.ID, opts) + "+ " + n.Text
	if n.ID == opts.focus {
		return focusedStyle.Render(ansi.Truncate(line, width, "…"))
	}
	return mutedStyle.Render(ansi.Truncate(line, width, "…"))
}
