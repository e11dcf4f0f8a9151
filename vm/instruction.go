package vm

import "fmt"

type Segment int

const (
	Constant Segment = iota
	Argument
	Local
	Static
	This
	That
	Pointer
	Temp
)

var segmentNames = [...]string{
	Constant: "constant",
	Argument: "argument",
	Local:    "local",
	Static:   "static",
	This:     "this",
	That:     "that",
	Pointer:  "pointer",
	Temp:     "temp",
}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return fmt.Sprintf("Segment(%d)", int(s))
	}
	return segmentNames[s]
}

func ParseSegment(name string) (Segment, bool) {
	for s, n := range segmentNames {
		if n == name {
			return Segment(s), true
		}
	}
	return 0, false
}

type Op int

const (
	Add Op = iota
	Sub
	Neg
	Eq
	Gt
	Lt
	And
	Or
	Not
)

var opNames = [...]string{
	Add: "add",
	Sub: "sub",
	Neg: "neg",
	Eq:  "eq",
	Gt:  "gt",
	Lt:  "lt",
	And: "and",
	Or:  "or",
	Not: "not",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Unary reports whether the operation pops a single operand.
func (o Op) Unary() bool {
	return o == Neg || o == Not
}

// Comparison reports whether the operation pushes a boolean.
func (o Op) Comparison() bool {
	return o == Eq || o == Gt || o == Lt
}

func ParseOp(name string) (Op, bool) {
	for o, n := range opNames {
		if n == name {
			return Op(o), true
		}
	}
	return 0, false
}

// Instruction is one VM command. The concrete types below are the only
// implementations.
type Instruction interface {
	fmt.Stringer
	instruction()
}

type Push struct {
	Segment Segment
	Index   int
}

type Pop struct {
	Segment Segment
	Index   int
}

type Arithmetic struct {
	Op Op
}

type Label struct {
	Name string
}

type Goto struct {
	Label string
}

type IfGoto struct {
	Label string
}

type Function struct {
	Name   string
	Locals int
}

type Call struct {
	Name string
	Args int
}

type Return struct{}

func (Push) instruction()       {}
func (Pop) instruction()        {}
func (Arithmetic) instruction() {}
func (Label) instruction()      {}
func (Goto) instruction()       {}
func (IfGoto) instruction()     {}
func (Function) instruction()   {}
func (Call) instruction()       {}
func (Return) instruction()     {}

func (i Push) String() string       { return fmt.Sprintf("push %s %d", i.Segment, i.Index) }
func (i Pop) String() string        { return fmt.Sprintf("pop %s %d", i.Segment, i.Index) }
func (i Arithmetic) String() string { return i.Op.String() }
func (i Label) String() string      { return "label " + i.Name }
func (i Goto) String() string       { return "goto " + i.Label }
func (i IfGoto) String() string     { return "if-goto " + i.Label }
func (i Function) String() string   { return fmt.Sprintf("function %s %d", i.Name, i.Locals) }
func (i Call) String() string       { return fmt.Sprintf("call %s %d", i.Name, i.Args) }
func (Return) String() string       { return "return" }

// Unit is the VM code of one compilation unit. Its name qualifies the
// unit's static segment. Lines, when present, holds the source line of each
// instruction.
type Unit struct {
	Name         string
	Instructions []Instruction
	Lines        []int
}

// Line returns the source line of the i-th instruction, or 0 when unknown.
func (u Unit) Line(i int) int {
	if i < len(u.Lines) {
		return u.Lines[i]
	}
	return 0
}
