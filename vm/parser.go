package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/source"
)

// SyntaxError reports a line of VM text that is not a well-formed command.
type SyntaxError struct {
	Pos source.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Position() source.Pos {
	return e.Pos
}

func (e *SyntaxError) Message() string {
	return e.Msg
}

// Parse reads the VM text of one unit. Comments start with // and run to the
// end of the line. Operand ranges are not checked here.
func Parse(unit source.Unit) (Unit, error) {
	result := Unit{Name: unit.Name}

	for n, line := range strings.Split(unit.Text, "\n") {
		if at := strings.Index(line, "//"); at >= 0 {
			line = line[:at]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		pos := source.Pos{Unit: unit.Name, Line: n + 1}
		instruction, err := parseCommand(fields)
		if err != nil {
			return result, &SyntaxError{pos, err.Error()}
		}

		result.Instructions = append(result.Instructions, instruction)
		result.Lines = append(result.Lines, n+1)
	}

	return result, nil
}

var arity = map[string]int{
	"push":     3,
	"pop":      3,
	"label":    2,
	"goto":     2,
	"if-goto":  2,
	"function": 3,
	"call":     3,
	"return":   1,
}

func parseCommand(fields []string) (Instruction, error) {
	command := fields[0]

	want, ok := arity[command]
	if !ok {
		if _, ok := ParseOp(command); !ok {
			return nil, fmt.Errorf("unknown command %q", command)
		}
		want = 1
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%s expects %d operand(s), got %d", command, want-1, len(fields)-1)
	}

	switch command {
	case "push", "pop":
		segment, ok := ParseSegment(fields[1])
		if !ok {
			return nil, fmt.Errorf("unknown segment %q", fields[1])
		}
		index, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", fields[2])
		}
		if command == "push" {
			return Push{segment, index}, nil
		}
		return Pop{segment, index}, nil
	case "label":
		return Label{fields[1]}, nil
	case "goto":
		return Goto{fields[1]}, nil
	case "if-goto":
		return IfGoto{fields[1]}, nil
	case "function", "call":
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid count %q", fields[2])
		}
		if command == "function" {
			return Function{fields[1], n}, nil
		}
		return Call{fields[1], n}, nil
	case "return":
		return Return{}, nil
	}

	op, _ := ParseOp(command)
	return Arithmetic{op}, nil
}
