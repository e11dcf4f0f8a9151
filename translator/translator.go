package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/asm"
	"github.com/hlmerscher/hack-toolchain-go/labels"
	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/vm"
	log "github.com/sirupsen/logrus"
)

const (
	// StackBase is where the bootstrap code places the stack.
	StackBase = 256

	pointerBase = 3
	tempBase    = 5
)

var segmentLimits = map[vm.Segment]int{
	vm.Constant: asm.MaxConstant,
	vm.Argument: asm.MaxConstant,
	vm.Local:    asm.MaxConstant,
	vm.This:     asm.MaxConstant,
	vm.That:     asm.MaxConstant,
	vm.Static:   239,
	vm.Pointer:  1,
	vm.Temp:     7,
}

var segmentRegisters = map[vm.Segment]string{
	vm.Local:    "LCL",
	vm.Argument: "ARG",
	vm.This:     "THIS",
	vm.That:     "THAT",
}

var binaryComps = map[vm.Op]string{
	vm.Add: "D+M",
	vm.Sub: "M-D",
	vm.And: "D&M",
	vm.Or:  "D|M",
}

var unaryComps = map[vm.Op]string{
	vm.Neg: "-M",
	vm.Not: "!M",
}

var comparisonJumps = map[vm.Op]string{
	vm.Eq: "JEQ",
	vm.Gt: "JGT",
	vm.Lt: "JLT",
}

// Translator lowers VM units to Hack assembly. Generated labels are unique
// across every unit handed to the same Translator.
type Translator struct {
	out       []asm.Instruction
	labels    *labels.Counter
	functions map[string]source.Pos

	unit     string
	function string
}

func New() *Translator {
	return &Translator{
		labels:    labels.New(),
		functions: make(map[string]source.Pos),
	}
}

// Translate lowers a whole program. The bootstrap code is emitted first
// when requested.
func Translate(units []vm.Unit, bootstrap bool) ([]asm.Instruction, error) {
	t := New()
	if bootstrap {
		t.Bootstrap()
	}
	for _, u := range units {
		if err := t.Unit(u); err != nil {
			return nil, err
		}
	}
	return t.Instructions(), nil
}

func (t *Translator) Instructions() []asm.Instruction {
	return t.out
}

func (t *Translator) emit(instrs ...asm.Instruction) {
	t.out = append(t.out, instrs...)
}

// Bootstrap sets SP and calls Sys.init.
func (t *Translator) Bootstrap() {
	t.unit, t.function = "Bootstrap", ""
	t.emit(asm.Const(StackBase), asm.C("D=A"), asm.At("SP"), asm.C("M=D"))
	t.call("Sys.init", 0)
}

// Unit lowers the instructions of u. Static variables are named after the
// unit.
func (t *Translator) Unit(u vm.Unit) error {
	t.unit, t.function = u.Name, ""
	start := len(t.out)

	for i, instr := range u.Instructions {
		pos := source.Pos{Unit: u.Name, Line: u.Line(i)}
		if err := t.instruction(instr, pos); err != nil {
			return err
		}
	}

	log.Debugf("translated %s: %d vm instructions, %d assembly instructions",
		u.Name, len(u.Instructions), len(t.out)-start)
	return nil
}

func (t *Translator) instruction(instr vm.Instruction, pos source.Pos) error {
	switch instr := instr.(type) {
	case vm.Push:
		return t.push(instr.Segment, instr.Index, pos)
	case vm.Pop:
		return t.pop(instr.Segment, instr.Index, pos)
	case vm.Arithmetic:
		t.arithmetic(instr.Op)
	case vm.Label:
		t.emit(asm.Label{Name: t.scoped(instr.Name)})
	case vm.Goto:
		t.emit(asm.At(t.scoped(instr.Label)), asm.C("0;JMP"))
	case vm.IfGoto:
		t.popD()
		t.emit(asm.At(t.scoped(instr.Label)), asm.C("D;JNE"))
	case vm.Function:
		return t.functionDef(instr.Name, instr.Locals, pos)
	case vm.Call:
		if instr.Args+5 > asm.MaxConstant {
			return t.errorf(pos, "call %s: argument count %d out of range", instr.Name, instr.Args)
		}
		t.call(instr.Name, instr.Args)
	case vm.Return:
		t.ret()
	default:
		return t.errorf(pos, "unsupported instruction %s", instr)
	}
	return nil
}

func (t *Translator) errorf(pos source.Pos, format string, args ...any) *TranslationError {
	return &TranslationError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (t *Translator) checkIndex(op string, segment vm.Segment, index int, pos source.Pos) error {
	limit := segmentLimits[segment]
	if index < 0 || index > limit {
		return t.errorf(pos, "%s %s %d: index out of range [0, %d]", op, segment, index, limit)
	}
	return nil
}

// pushD pushes the D register.
func (t *Translator) pushD() {
	t.emit(asm.At("SP"), asm.C("A=M"), asm.C("M=D"), asm.At("SP"), asm.C("M=M+1"))
}

// popD pops into D, leaving A at the popped slot.
func (t *Translator) popD() {
	t.emit(asm.At("SP"), asm.C("AM=M-1"), asm.C("D=M"))
}

func (t *Translator) static(index int) string {
	return t.unit + "." + strconv.Itoa(index)
}

func (t *Translator) push(segment vm.Segment, index int, pos source.Pos) error {
	if err := t.checkIndex("push", segment, index, pos); err != nil {
		return err
	}

	switch segment {
	case vm.Constant:
		t.emit(asm.Const(index), asm.C("D=A"))
	case vm.Local, vm.Argument, vm.This, vm.That:
		t.emit(asm.At(segmentRegisters[segment]), asm.C("D=M"), asm.Const(index), asm.C("A=D+A"), asm.C("D=M"))
	case vm.Pointer:
		t.emit(asm.Const(pointerBase+index), asm.C("D=M"))
	case vm.Temp:
		t.emit(asm.Const(tempBase+index), asm.C("D=M"))
	case vm.Static:
		t.emit(asm.At(t.static(index)), asm.C("D=M"))
	}
	t.pushD()
	return nil
}

func (t *Translator) pop(segment vm.Segment, index int, pos source.Pos) error {
	if segment == vm.Constant {
		return t.errorf(pos, "pop constant %d: constant is not addressable", index)
	}
	if err := t.checkIndex("pop", segment, index, pos); err != nil {
		return err
	}

	switch segment {
	case vm.Local, vm.Argument, vm.This, vm.That:
		t.emit(asm.At(segmentRegisters[segment]), asm.C("D=M"), asm.Const(index), asm.C("D=D+A"), asm.At("R13"), asm.C("M=D"))
		t.popD()
		t.emit(asm.At("R13"), asm.C("A=M"), asm.C("M=D"))
	case vm.Pointer:
		t.popD()
		t.emit(asm.Const(pointerBase+index), asm.C("M=D"))
	case vm.Temp:
		t.popD()
		t.emit(asm.Const(tempBase+index), asm.C("M=D"))
	case vm.Static:
		t.popD()
		t.emit(asm.At(t.static(index)), asm.C("M=D"))
	}
	return nil
}

func (t *Translator) arithmetic(op vm.Op) {
	if op.Unary() {
		t.emit(asm.At("SP"), asm.C("A=M-1"), asm.C("M="+unaryComps[op]))
		return
	}

	t.popD()
	t.emit(asm.C("A=A-1"))

	if !op.Comparison() {
		t.emit(asm.C("M=" + binaryComps[op]))
		return
	}

	// comparisons leave -1 when true and 0 otherwise
	label := fmt.Sprintf("%s_TRUE.%d", strings.ToUpper(op.String()), t.labels.Next("compare"))
	t.emit(
		asm.C("D=M-D"),
		asm.C("M=-1"),
		asm.At(label),
		asm.C("D;"+comparisonJumps[op]),
		asm.At("SP"),
		asm.C("A=M-1"),
		asm.C("M=0"),
		asm.Label{Name: label},
	)
}

// scoped qualifies a VM label with the function it appears in.
func (t *Translator) scoped(label string) string {
	if t.function == "" {
		return t.unit + "$" + label
	}
	return t.function + "$" + label
}

func (t *Translator) functionDef(name string, locals int, pos source.Pos) error {
	if previous, ok := t.functions[name]; ok {
		return t.errorf(pos, "function %s already defined at %s", name, previous)
	}
	if locals > asm.MaxConstant {
		return t.errorf(pos, "function %s: local count %d out of range", name, locals)
	}
	t.functions[name] = pos
	t.function = name

	t.emit(asm.Label{Name: name})
	for i := 0; i < locals; i++ {
		t.emit(asm.At("SP"), asm.C("A=M"), asm.C("M=0"), asm.At("SP"), asm.C("M=M+1"))
	}
	return nil
}

func (t *Translator) call(name string, nArgs int) {
	caller := t.function
	if caller == "" {
		caller = t.unit
	}
	ret := fmt.Sprintf("%s$ret.%d", caller, t.labels.Next("return"))

	t.emit(asm.At(ret), asm.C("D=A"))
	t.pushD()
	for _, register := range []string{"LCL", "ARG", "THIS", "THAT"} {
		t.emit(asm.At(register), asm.C("D=M"))
		t.pushD()
	}

	// ARG = SP - n - 5
	t.emit(asm.At("SP"), asm.C("D=M"), asm.Const(nArgs+5), asm.C("D=D-A"), asm.At("ARG"), asm.C("M=D"))
	// LCL = SP
	t.emit(asm.At("SP"), asm.C("D=M"), asm.At("LCL"), asm.C("M=D"))

	t.emit(asm.At(name), asm.C("0;JMP"), asm.Label{Name: ret})
}

func (t *Translator) ret() {
	// R13 = frame, R14 = return address
	t.emit(asm.At("LCL"), asm.C("D=M"), asm.At("R13"), asm.C("M=D"))
	t.emit(asm.Const(5), asm.C("A=D-A"), asm.C("D=M"), asm.At("R14"), asm.C("M=D"))

	t.popD()
	t.emit(asm.At("ARG"), asm.C("A=M"), asm.C("M=D"))
	t.emit(asm.At("ARG"), asm.C("D=M+1"), asm.At("SP"), asm.C("M=D"))

	for _, register := range []string{"THAT", "THIS", "ARG", "LCL"} {
		t.emit(asm.At("R13"), asm.C("AM=M-1"), asm.C("D=M"), asm.At(register), asm.C("M=D"))
	}

	t.emit(asm.At("R14"), asm.C("A=M"), asm.C("0;JMP"))
}
