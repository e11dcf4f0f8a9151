package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Unit is one compilation unit: a .jack class, a .vm module or an .asm
// program, identified by its file stem.
type Unit struct {
	Name string
	Path string
	Text string
}

// NewUnit builds a unit from a file path and its contents. The unit name is
// the file name without directory or extension.
func NewUnit(path string, text string) Unit {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return Unit{Name: name, Path: path, Text: text}
}

// Line returns the text of the given 1-based line, without its terminator.
func (u Unit) Line(n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.Split(u.Text, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// Pos locates a character within a unit. Line and Column count from 1.
type Pos struct {
	Unit   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Column == 0 {
		return fmt.Sprintf("%s:%d", p.Unit, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.Unit, p.Line, p.Column)
}

// Error is implemented by every error that can be traced back to a place in
// a unit's text.
type Error interface {
	error
	Position() Pos
	Message() string
}
