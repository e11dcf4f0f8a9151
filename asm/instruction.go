package asm

import (
	"strconv"
	"strings"
)

// Instruction is one line of Hack assembly.
type Instruction interface {
	String() string
	instruction()
}

// AInstruction loads a constant or the address bound to Symbol into A.
type AInstruction struct {
	Value  int
	Symbol string
}

// CInstruction computes Comp, stores it in Dest and jumps on Jump. Empty
// Dest or Jump mean none.
type CInstruction struct {
	Dest string
	Comp string
	Jump string
}

// Label binds Name to the address of the next instruction.
type Label struct {
	Name string
}

func (AInstruction) instruction() {}
func (CInstruction) instruction() {}
func (Label) instruction()        {}

func (i AInstruction) String() string {
	if i.Symbol != "" {
		return "@" + i.Symbol
	}
	return "@" + strconv.Itoa(i.Value)
}

func (i CInstruction) String() string {
	var b strings.Builder
	if i.Dest != "" {
		b.WriteString(i.Dest)
		b.WriteString("=")
	}
	b.WriteString(i.Comp)
	if i.Jump != "" {
		b.WriteString(";")
		b.WriteString(i.Jump)
	}
	return b.String()
}

func (i Label) String() string {
	return "(" + i.Name + ")"
}

// At is the A-instruction @symbol.
func At(symbol string) AInstruction {
	return AInstruction{Symbol: symbol}
}

// Const is the A-instruction @value.
func Const(value int) AInstruction {
	return AInstruction{Value: value}
}

// C builds a C-instruction from its textual form, such as "AM=M-1" or
// "D;JGT". The text is not validated.
func C(text string) CInstruction {
	var i CInstruction
	if dest, rest, ok := strings.Cut(text, "="); ok {
		i.Dest = dest
		text = rest
	}
	if comp, jump, ok := strings.Cut(text, ";"); ok {
		i.Jump = jump
		text = comp
	}
	i.Comp = text
	return i
}

// Program is the instruction sequence of one assembly unit. Lines holds the
// source line of each instruction when the program was parsed from text.
type Program struct {
	Name         string
	Instructions []Instruction
	Lines        []int
}

func (p Program) Line(i int) int {
	if i < len(p.Lines) {
		return p.Lines[i]
	}
	return 0
}

// Render formats instructions one per line. Labels start in the first
// column, everything else is indented.
func Render(instructions []Instruction) string {
	var out strings.Builder
	for _, i := range instructions {
		if _, ok := i.(Label); !ok {
			out.WriteString("    ")
		}
		out.WriteString(i.String())
		out.WriteString("\n")
	}
	return out.String()
}
