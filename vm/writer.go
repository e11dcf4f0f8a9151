package vm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// arithmeticOpsTable maps the binary operators of Jack to the VM code that
// implements them. Multiplication and division are delegated to the OS.
var arithmeticOpsTable = map[string]Instruction{
	"+": Arithmetic{Add},
	"-": Arithmetic{Sub},
	"=": Arithmetic{Eq},
	">": Arithmetic{Gt},
	"<": Arithmetic{Lt},
	"&": Arithmetic{And},
	"|": Arithmetic{Or},
	"*": Call{"Math.multiply", 2},
	"/": Call{"Math.divide", 2},
}

var unaryOpsTable = map[string]Op{
	"-": Neg,
	"~": Not,
}

// Writer collects emitted instructions in program order. Instructions are
// only ever appended.
type Writer struct {
	out []Instruction
}

func New() *Writer {
	return &Writer{out: make([]Instruction, 0)}
}

func (w *Writer) write(i Instruction) {
	w.out = append(w.out, i)
}

func (w *Writer) WritePush(segment Segment, index int) {
	w.write(Push{segment, index})
}

func (w *Writer) WritePop(segment Segment, index int) {
	w.write(Pop{segment, index})
}

func (w *Writer) WriteArithmetic(op Op) {
	w.write(Arithmetic{op})
}

// WriteBinaryOp emits the code of a Jack binary operator symbol.
func (w *Writer) WriteBinaryOp(symbol string) error {
	val, ok := arithmeticOpsTable[symbol]
	if !ok {
		return fmt.Errorf("unknown binary operator %q", symbol)
	}
	w.write(val)
	return nil
}

// WriteUnaryOp emits the code of a Jack unary operator symbol.
func (w *Writer) WriteUnaryOp(symbol string) error {
	op, ok := unaryOpsTable[symbol]
	if !ok {
		return fmt.Errorf("unknown unary operator %q", symbol)
	}
	w.WriteArithmetic(op)
	return nil
}

func (w *Writer) WriteLabel(label string) {
	w.write(Label{label})
}

func (w *Writer) WriteGoto(label string) {
	w.write(Goto{label})
}

func (w *Writer) WriteIf(label string) {
	w.write(IfGoto{label})
}

func (w *Writer) WriteSubroutine(class, subroutine string, nLocalVars int) {
	w.write(Function{class + "." + subroutine, nLocalVars})
}

func (w *Writer) WriteCall(subroutineType, subroutineName string, nArgs int) {
	w.write(Call{subroutineType + "." + subroutineName, nArgs})
}

func (w *Writer) WriteReturn() {
	w.write(Return{})
}

// WriteString emits the construction of a string constant through the OS
// String class, leaving the new object on the stack.
func (w *Writer) WriteString(value string) {
	w.WritePush(Constant, utf8.RuneCountInString(value))
	w.WriteCall("String", "new", 1)
	for _, char := range value {
		w.WritePush(Constant, int(char))
		w.WriteCall("String", "appendChar", 2)
	}
}

func (w *Writer) Instructions() []Instruction {
	return w.out
}

func (w *Writer) Len() int {
	return len(w.out)
}

// String renders the instructions as VM source text.
func (w *Writer) String() string {
	return Render(w.out)
}

// Render formats instructions one per line.
func Render(instructions []Instruction) string {
	var out strings.Builder
	for _, i := range instructions {
		out.WriteString(i.String())
		out.WriteString("\n")
	}
	return out.String()
}
