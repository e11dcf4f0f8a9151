package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/source"
)

// MaxConstant is the largest value an A-instruction can load.
const MaxConstant = 32767

// Parse reads the assembly text of unit. Comments and blank lines are
// dropped and whitespace inside an instruction is ignored. Mnemonics are
// checked when the program is assembled.
func Parse(unit source.Unit) (Program, error) {
	program := Program{Name: unit.Name}

	for n, raw := range strings.Split(unit.Text, "\n") {
		lineNo := n + 1
		line := stripComments(raw)
		if line == "" {
			continue
		}

		instr, err := parseLine(line)
		if err != nil {
			return program, &AssemblyError{
				Pos: source.Pos{Unit: unit.Name, Line: lineNo},
				Msg: err.Error(),
			}
		}
		program.Instructions = append(program.Instructions, instr)
		program.Lines = append(program.Lines, lineNo)
	}

	return program, nil
}

func stripComments(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	return strings.Join(strings.Fields(line), "")
}

func parseLine(line string) (Instruction, error) {
	switch {
	case strings.HasPrefix(line, "("):
		if !strings.HasSuffix(line, ")") {
			return nil, fmt.Errorf("unterminated label %q", line)
		}
		name := line[1 : len(line)-1]
		if !isSymbol(name) {
			return nil, fmt.Errorf("invalid label %q", name)
		}
		return Label{name}, nil

	case strings.HasPrefix(line, "@"):
		operand := line[1:]
		if operand != "" && isDigit(operand[0]) {
			value, err := strconv.Atoi(operand)
			if err != nil {
				return nil, fmt.Errorf("invalid constant %q", operand)
			}
			if value > MaxConstant {
				return nil, fmt.Errorf("constant %d out of range [0, %d]", value, MaxConstant)
			}
			return Const(value), nil
		}
		if !isSymbol(operand) {
			return nil, fmt.Errorf("invalid symbol %q", operand)
		}
		return At(operand), nil
	}

	return C(line), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isSymbol accepts letters, digits and _ . $ : not starting with a digit.
func isSymbol(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		case c == '_', c == '.', c == '$', c == ':':
		default:
			return false
		}
	}
	return true
}
