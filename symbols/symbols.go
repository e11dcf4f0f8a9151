package symbols

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Kind int

const (
	Static Kind = iota
	Field
	Argument
	Local
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "field"
	case Argument:
		return "argument"
	case Local:
		return "local"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) classScoped() bool {
	return k == Static || k == Field
}

// Entry is a declared variable. Index is dense and zero-based within the
// entry's kind and scope.
type Entry struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}

type scope struct {
	entries map[string]Entry
	counts  map[Kind]int
}

func newScope() *scope {
	return &scope{
		entries: make(map[string]Entry),
		counts:  make(map[Kind]int),
	}
}

// Table holds the class scope (statics and fields) of one class and the
// subroutine scope (arguments and locals) of the subroutine being compiled.
type Table struct {
	class      *scope
	subroutine *scope
}

func New() *Table {
	return &Table{
		class:      newScope(),
		subroutine: newScope(),
	}
}

func (t *Table) scopeOf(kind Kind) *scope {
	if kind.classScoped() {
		return t.class
	}
	return t.subroutine
}

// Define declares name in the scope its kind belongs to.
func (t *Table) Define(name, typ string, kind Kind) (Entry, error) {
	s := t.scopeOf(kind)
	if previous, ok := s.entries[name]; ok {
		return Entry{}, fmt.Errorf("%s already defined as %s %s", name, previous.Kind, previous.Type)
	}

	entry := Entry{Name: name, Type: typ, Kind: kind, Index: s.counts[kind]}
	s.entries[name] = entry
	s.counts[kind]++

	return entry, nil
}

// Lookup resolves name, preferring the subroutine scope. A miss means the
// name is a class or subroutine name rather than a variable.
func (t *Table) Lookup(name string) (Entry, bool) {
	if entry, ok := t.subroutine.entries[name]; ok {
		return entry, true
	}
	entry, ok := t.class.entries[name]
	return entry, ok
}

func (t *Table) CountOf(kind Kind) int {
	return t.scopeOf(kind).counts[kind]
}

func (t *Table) ResetSubroutineScope() {
	t.subroutine = newScope()
}

// StartSubroutine opens a fresh subroutine scope. Methods receive the
// object they operate on as the implicit argument 0, named this.
func (t *Table) StartSubroutine(method bool, class string) {
	t.ResetSubroutineScope()
	if method {
		t.Define("this", class, Argument)
	}
}

// Entries lists the symbols of one kind in index order.
func (t *Table) Entries(kind Kind) []Entry {
	s := t.scopeOf(kind)

	names := maps.Keys(s.entries)
	slices.Sort(names)

	entries := make([]Entry, s.counts[kind])
	for _, name := range names {
		if entry := s.entries[name]; entry.Kind == kind {
			entries[entry.Index] = entry
		}
	}
	return entries
}
