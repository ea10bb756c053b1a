package main

import (
	"math"
	"strconv"
)

const (
	overlayMin  = 0.0
	overlayMax  = 0.9
	overlayStep = 0.05
)

// Task is a single quest on a checklist.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Category is a titled checklist. Slice order is display order.
type Category struct {
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// AppState is everything that gets persisted.
type AppState struct {
	Names      string     `json:"names"`
	Tagline    string     `json:"tagline"`
	Background string     `json:"background"`
	Overlay    float64    `json:"overlay"`
	Sections   []Category `json:"sections"`
}

// Clone returns a deep copy. Nil slices stay nil so a clone compares equal to its source.
func (s *AppState) Clone() *AppState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Sections != nil {
		out.Sections = make([]Category, len(s.Sections))
		for i, c := range s.Sections {
			out.Sections[i] = Category{Title: c.Title}
			if c.Tasks != nil {
				out.Sections[i].Tasks = append([]Task{}, c.Tasks...)
			}
		}
	}
	return &out
}

func (s *AppState) category(i int) (*Category, error) {
	if i < 0 || i >= len(s.Sections) {
		return nil, errNoSuchCategory(i)
	}
	return &s.Sections[i], nil
}

func (s *AppState) task(section, index int) (*Task, error) {
	c, err := s.category(section)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Tasks) {
		return nil, errNoSuchTask(section, index)
	}
	return &c.Tasks[index], nil
}

func (c Category) completedCount() int {
	count := 0
	for _, task := range c.Tasks {
		if task.Completed {
			count++
		}
	}
	return count
}

func (c Category) progress() float64 {
	if len(c.Tasks) == 0 {
		return 0
	}
	return float64(c.completedCount()) / float64(len(c.Tasks))
}

// clampOverlay keeps v inside [overlayMin, overlayMax]. In-range values pass through untouched.
func clampOverlay(v float64) float64 {
	if math.IsNaN(v) {
		return overlayMin
	}
	return min(max(v, overlayMin), overlayMax)
}

// stepOverlay moves v by delta and snaps the result to hundredths so repeated slider steps
// do not drift.
func stepOverlay(v, delta float64) float64 {
	return clampOverlay(math.Round((v+delta)*100) / 100)
}

func formatOverlay(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
