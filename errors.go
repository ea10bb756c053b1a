package main

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchCategory = errors.New("no such category")
	ErrNoSuchTask     = errors.New("no such task")
)

type indexError struct {
	kind    error
	section int
	index   int
}

func (e indexError) Error() string {
	if errors.Is(e.kind, ErrNoSuchCategory) {
		return fmt.Sprintf("%v: %d", e.kind, e.section)
	}
	return fmt.Sprintf("%v: section %d, index %d", e.kind, e.section, e.index)
}

func (e indexError) Unwrap() error {
	return e.kind
}

func errNoSuchCategory(section int) error {
	return indexError{kind: ErrNoSuchCategory, section: section, index: -1}
}

func errNoSuchTask(section, index int) error {
	return indexError{kind: ErrNoSuchTask, section: section, index: index}
}
