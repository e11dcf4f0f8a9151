package engine

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/labels"
	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/symbols"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"github.com/hlmerscher/hack-toolchain-go/vm"
	log "github.com/sirupsen/logrus"
)

// Compiler recognizes one Jack class and emits its VM code while parsing.
// A Compiler owns all state of the unit in flight and is used once.
type Compiler struct {
	tk      *tokenizer.Tokenizer
	vmw     *vm.Writer
	symbols *symbols.Table
	labels  *labels.Counter
	trace   Tracer

	class      string
	subroutine string
	kind       string
}

func New(vmw *vm.Writer) *Compiler {
	return &Compiler{
		vmw:     vmw,
		symbols: symbols.New(),
		labels:  labels.New(),
		trace:   nopTracer{},
	}
}

// Trace installs t to observe the recognition of the next class.
func (c *Compiler) Trace(t Tracer) {
	c.trace = t
}

// Compile parses a complete class from tk. Anything following the closing
// brace of the class is an error.
func (c *Compiler) Compile(tk *tokenizer.Tokenizer) error {
	c.tk = tk
	if err := c.advance(); err != nil {
		return err
	}

	if err := c.Class(); err != nil {
		return err
	}

	if !tk.Current.IsEOF() {
		return errorAt(tk.Current, "unexpected %s after end of class", tk.Current)
	}
	return nil
}

// Compile translates a Jack unit into VM instructions.
func Compile(unit source.Unit) (vm.Unit, error) {
	return compile(unit, nopTracer{})
}

// CompileTraced is Compile with t observing the parse.
func CompileTraced(unit source.Unit, t Tracer) (vm.Unit, error) {
	return compile(unit, t)
}

func compile(unit source.Unit, t Tracer) (vm.Unit, error) {
	vmw := vm.New()
	c := New(vmw)
	c.Trace(t)

	if err := c.Compile(tokenizer.New(unit.Name, strings.NewReader(unit.Text))); err != nil {
		return vm.Unit{}, err
	}

	if c.class != unit.Name {
		log.Warnf("%s: class %s is declared in a unit of a different name", unit.Name, c.class)
	}
	log.Debugf("compiled %s: %d instructions", unit.Name, vmw.Len())
	for _, kind := range []symbols.Kind{symbols.Static, symbols.Field} {
		for _, e := range c.symbols.Entries(kind) {
			log.Debugf("%s: %s %s %s %d", unit.Name, e.Kind, e.Type, e.Name, e.Index)
		}
	}

	return vm.Unit{Name: unit.Name, Instructions: vmw.Instructions()}, nil
}

func (c *Compiler) advance() error {
	_, err := c.tk.Advance()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// process consumes the current token if it satisfies m.
func (c *Compiler) process(m matcher) (tokenizer.Token, error) {
	token := c.tk.Current
	if !m.matches(token) {
		return token, errorAt(token, "expected %s, got %s", m.expect, token)
	}

	c.trace.Terminal(token)
	return token, c.advance()
}

func (c *Compiler) at(m matcher) bool {
	return m.matches(c.tk.Current)
}

func (c *Compiler) Class() error {
	c.trace.Open("class")

	if _, err := c.process(is("class")); err != nil {
		return err
	}
	name, err := c.process(isIdentifier())
	if err != nil {
		return err
	}
	c.class = name.Raw

	if _, err := c.process(is("{")); err != nil {
		return err
	}

	for c.at(isClassVarDec()) {
		if err := c.ClassVarDec(); err != nil {
			return err
		}
	}

	for c.at(isSubroutineDec()) {
		if err := c.Subroutine(); err != nil {
			return err
		}
	}

	if _, err := c.process(is("}")); err != nil {
		return err
	}

	c.trace.Close("class")
	return nil
}

func (c *Compiler) ClassVarDec() error {
	c.trace.Open("classVarDec")

	kindToken, err := c.process(isClassVarDec())
	if err != nil {
		return err
	}
	kind := symbols.Field
	if kindToken.Raw == "static" {
		kind = symbols.Static
	}

	if err := c.declarations(kind); err != nil {
		return err
	}

	c.trace.Close("classVarDec")
	return nil
}

// declarations handles the "type name (, name)* ;" tail shared by class and
// local variable declarations.
func (c *Compiler) declarations(kind symbols.Kind) error {
	typ, err := c.process(isType())
	if err != nil {
		return err
	}

	for {
		if err := c.define(typ.Raw, kind); err != nil {
			return err
		}
		if !c.at(is(",")) {
			break
		}
		if _, err := c.process(is(",")); err != nil {
			return err
		}
	}

	_, err = c.process(is(";"))
	return err
}

func (c *Compiler) define(typ string, kind symbols.Kind) error {
	name, err := c.process(isIdentifier())
	if err != nil {
		return err
	}
	if _, err := c.symbols.Define(name.Raw, typ, kind); err != nil {
		return identifierError(name, "%s", err)
	}
	return nil
}

func (c *Compiler) Subroutine() error {
	c.trace.Open("subroutineDec")

	kind, err := c.process(isSubroutineDec())
	if err != nil {
		return err
	}
	c.kind = kind.Raw

	if _, err := c.process(or(is("void"), isType())); err != nil {
		return err
	}
	name, err := c.process(isIdentifier())
	if err != nil {
		return err
	}
	c.subroutine = name.Raw
	c.symbols.StartSubroutine(c.kind == "method", c.class)

	if _, err := c.process(is("(")); err != nil {
		return err
	}
	if err := c.ParameterList(); err != nil {
		return err
	}
	if _, err := c.process(is(")")); err != nil {
		return err
	}

	if err := c.SubroutineBody(); err != nil {
		return err
	}

	c.trace.Close("subroutineDec")
	return nil
}

func (c *Compiler) ParameterList() error {
	c.trace.Open("parameterList")

	for !c.at(is(")")) {
		typ, err := c.process(isType())
		if err != nil {
			return err
		}
		if err := c.define(typ.Raw, symbols.Argument); err != nil {
			return err
		}
		if !c.at(is(",")) {
			break
		}
		if _, err := c.process(is(",")); err != nil {
			return err
		}
	}

	c.trace.Close("parameterList")
	return nil
}

func (c *Compiler) SubroutineBody() error {
	c.trace.Open("subroutineBody")

	if _, err := c.process(is("{")); err != nil {
		return err
	}

	for c.at(is("var")) {
		if err := c.VarDec(); err != nil {
			return err
		}
	}

	c.vmw.WriteSubroutine(c.class, c.subroutine, c.symbols.CountOf(symbols.Local))
	switch c.kind {
	case "constructor":
		c.vmw.WritePush(vm.Constant, c.symbols.CountOf(symbols.Field))
		c.vmw.WriteCall("Memory", "alloc", 1)
		c.vmw.WritePop(vm.Pointer, 0)
	case "method":
		c.vmw.WritePush(vm.Argument, 0)
		c.vmw.WritePop(vm.Pointer, 0)
	}

	if err := c.Statements(); err != nil {
		return err
	}
	if _, err := c.process(is("}")); err != nil {
		return err
	}

	c.trace.Close("subroutineBody")
	return nil
}

func (c *Compiler) VarDec() error {
	c.trace.Open("varDec")

	if _, err := c.process(is("var")); err != nil {
		return err
	}
	if err := c.declarations(symbols.Local); err != nil {
		return err
	}

	c.trace.Close("varDec")
	return nil
}

func (c *Compiler) Statements() error {
	c.trace.Open("statements")

	for {
		var err error
		switch {
		case c.at(is("let")):
			err = c.Let()
		case c.at(is("if")):
			err = c.If()
		case c.at(is("while")):
			err = c.While()
		case c.at(is("do")):
			err = c.Do()
		case c.at(is("return")):
			err = c.Return()
		default:
			c.trace.Close("statements")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Compiler) Let() error {
	c.trace.Open("letStatement")

	if _, err := c.process(is("let")); err != nil {
		return err
	}
	name, err := c.process(isIdentifier())
	if err != nil {
		return err
	}
	entry, err := c.variable(name)
	if err != nil {
		return err
	}

	indexed := c.at(is("["))
	if indexed {
		c.push(entry)
		if err := c.bracketed("[", "]"); err != nil {
			return err
		}
		c.vmw.WriteArithmetic(vm.Add)
	}

	if _, err := c.process(is("=")); err != nil {
		return err
	}
	if err := c.Expression(); err != nil {
		return err
	}
	if _, err := c.process(is(";")); err != nil {
		return err
	}

	if indexed {
		c.vmw.WritePop(vm.Temp, 0)
		c.vmw.WritePop(vm.Pointer, 1)
		c.vmw.WritePush(vm.Temp, 0)
		c.vmw.WritePop(vm.That, 0)
	} else {
		c.pop(entry)
	}

	c.trace.Close("letStatement")
	return nil
}

func (c *Compiler) If() error {
	c.trace.Open("ifStatement")

	n := c.labels.Next("IF")
	trueLabel := labelName("IF_TRUE", n)
	falseLabel := labelName("IF_FALSE", n)
	endLabel := labelName("IF_END", n)

	if _, err := c.process(is("if")); err != nil {
		return err
	}
	if err := c.bracketed("(", ")"); err != nil {
		return err
	}

	c.vmw.WriteIf(trueLabel)
	c.vmw.WriteGoto(falseLabel)
	c.vmw.WriteLabel(trueLabel)

	if err := c.block(); err != nil {
		return err
	}

	if c.at(is("else")) {
		c.vmw.WriteGoto(endLabel)
		c.vmw.WriteLabel(falseLabel)
		if _, err := c.process(is("else")); err != nil {
			return err
		}
		if err := c.block(); err != nil {
			return err
		}
		c.vmw.WriteLabel(endLabel)
	} else {
		c.vmw.WriteLabel(falseLabel)
	}

	c.trace.Close("ifStatement")
	return nil
}

func (c *Compiler) While() error {
	c.trace.Open("whileStatement")

	n := c.labels.Next("WHILE")
	expLabel := labelName("WHILE_EXP", n)
	endLabel := labelName("WHILE_END", n)

	if _, err := c.process(is("while")); err != nil {
		return err
	}

	c.vmw.WriteLabel(expLabel)
	if err := c.bracketed("(", ")"); err != nil {
		return err
	}
	c.vmw.WriteArithmetic(vm.Not)
	c.vmw.WriteIf(endLabel)

	if err := c.block(); err != nil {
		return err
	}
	c.vmw.WriteGoto(expLabel)
	c.vmw.WriteLabel(endLabel)

	c.trace.Close("whileStatement")
	return nil
}

func (c *Compiler) Do() error {
	c.trace.Open("doStatement")

	if _, err := c.process(is("do")); err != nil {
		return err
	}
	name, err := c.process(isIdentifier())
	if err != nil {
		return err
	}
	if err := c.SubroutineCall(name); err != nil {
		return err
	}
	if _, err := c.process(is(";")); err != nil {
		return err
	}
	c.vmw.WritePop(vm.Temp, 0)

	c.trace.Close("doStatement")
	return nil
}

func (c *Compiler) Return() error {
	c.trace.Open("returnStatement")

	if _, err := c.process(is("return")); err != nil {
		return err
	}

	if c.at(is(";")) {
		c.vmw.WritePush(vm.Constant, 0)
	} else if err := c.Expression(); err != nil {
		return err
	}

	if _, err := c.process(is(";")); err != nil {
		return err
	}
	c.vmw.WriteReturn()

	c.trace.Close("returnStatement")
	return nil
}

// block is a brace-delimited statement sequence.
func (c *Compiler) block() error {
	if _, err := c.process(is("{")); err != nil {
		return err
	}
	if err := c.Statements(); err != nil {
		return err
	}
	_, err := c.process(is("}"))
	return err
}

// bracketed is an expression between the open and close symbols.
func (c *Compiler) bracketed(open, close string) error {
	if _, err := c.process(is(open)); err != nil {
		return err
	}
	if err := c.Expression(); err != nil {
		return err
	}
	_, err := c.process(is(close))
	return err
}

// Expression emits operands before their operator. Binary operators have no
// precedence and apply left to right.
func (c *Compiler) Expression() error {
	c.trace.Open("expression")

	if err := c.Term(); err != nil {
		return err
	}

	for c.at(isOp()) {
		op, err := c.process(isOp())
		if err != nil {
			return err
		}
		if err := c.Term(); err != nil {
			return err
		}
		if err := c.vmw.WriteBinaryOp(op.Raw); err != nil {
			return errorAt(op, "%s", err)
		}
	}

	c.trace.Close("expression")
	return nil
}

func (c *Compiler) Term() error {
	c.trace.Open("term")

	token := c.tk.Current
	switch {
	case token.Type == tokenizer.INT_CONST:
		if _, err := c.process(ofType("integer constant", tokenizer.INT_CONST)); err != nil {
			return err
		}
		c.vmw.WritePush(vm.Constant, token.Value)

	case token.Type == tokenizer.STRING_CONST:
		if _, err := c.process(ofType("string constant", tokenizer.STRING_CONST)); err != nil {
			return err
		}
		c.vmw.WriteString(token.Raw)

	case c.at(isKeywordConstant()):
		if err := c.keywordConstant(); err != nil {
			return err
		}

	case c.at(is("(")):
		if err := c.bracketed("(", ")"); err != nil {
			return err
		}

	case c.at(isUnaryOp()):
		op, err := c.process(isUnaryOp())
		if err != nil {
			return err
		}
		if err := c.Term(); err != nil {
			return err
		}
		if err := c.vmw.WriteUnaryOp(op.Raw); err != nil {
			return errorAt(op, "%s", err)
		}

	case token.Type == tokenizer.IDENTIFIER:
		if err := c.identifierTerm(); err != nil {
			return err
		}

	default:
		return errorAt(token, "expected term, got %s", token)
	}

	c.trace.Close("term")
	return nil
}

func (c *Compiler) keywordConstant() error {
	token, err := c.process(isKeywordConstant())
	if err != nil {
		return err
	}

	switch token.Raw {
	case "true":
		c.vmw.WritePush(vm.Constant, 0)
		c.vmw.WriteArithmetic(vm.Not)
	case "false", "null":
		c.vmw.WritePush(vm.Constant, 0)
	case "this":
		if c.kind == "function" {
			return errorAt(token, "this cannot be referenced in function %s.%s", c.class, c.subroutine)
		}
		c.vmw.WritePush(vm.Pointer, 0)
	}
	return nil
}

// identifierTerm is a variable, an array element or a subroutine call,
// told apart by the token following the name.
func (c *Compiler) identifierTerm() error {
	name, err := c.process(isIdentifier())
	if err != nil {
		return err
	}

	switch {
	case c.at(is("[")):
		entry, err := c.variable(name)
		if err != nil {
			return err
		}
		c.push(entry)
		if err := c.bracketed("[", "]"); err != nil {
			return err
		}
		c.vmw.WriteArithmetic(vm.Add)
		c.vmw.WritePop(vm.Pointer, 1)
		c.vmw.WritePush(vm.That, 0)

	case c.at(or(is("("), is("."))):
		return c.SubroutineCall(name)

	default:
		entry, err := c.variable(name)
		if err != nil {
			return err
		}
		c.push(entry)
	}
	return nil
}

// SubroutineCall compiles the remainder of a call whose first name has
// already been consumed.
func (c *Compiler) SubroutineCall(name tokenizer.Token) error {
	var target string
	var nArgs int

	if c.at(is(".")) {
		if _, err := c.process(is(".")); err != nil {
			return err
		}
		subroutine, err := c.process(isIdentifier())
		if err != nil {
			return err
		}

		if entry, ok := c.symbols.Lookup(name.Raw); ok {
			if isPrimitive(entry.Type) {
				return identifierError(name, "cannot call %s on %s of type %s", subroutine.Raw, name.Raw, entry.Type)
			}
			if err := c.checkFieldAccess(name, entry); err != nil {
				return err
			}
			c.push(entry)
			nArgs = 1
			target = entry.Type
		} else {
			target = name.Raw
		}
		name = subroutine
	} else {
		if c.kind == "function" {
			return identifierError(name, "method %s cannot be called without an object in function %s.%s", name.Raw, c.class, c.subroutine)
		}
		c.vmw.WritePush(vm.Pointer, 0)
		nArgs = 1
		target = c.class
	}

	if _, err := c.process(is("(")); err != nil {
		return err
	}
	n, err := c.ExpressionList()
	if err != nil {
		return err
	}
	if _, err := c.process(is(")")); err != nil {
		return err
	}

	c.vmw.WriteCall(target, name.Raw, nArgs+n)
	return nil
}

// ExpressionList returns the number of expressions compiled.
func (c *Compiler) ExpressionList() (int, error) {
	c.trace.Open("expressionList")

	var n int
	for !c.at(is(")")) {
		if err := c.Expression(); err != nil {
			return n, err
		}
		n++
		if !c.at(is(",")) {
			break
		}
		if _, err := c.process(is(",")); err != nil {
			return n, err
		}
	}

	c.trace.Close("expressionList")
	return n, nil
}

func (c *Compiler) variable(name tokenizer.Token) (symbols.Entry, error) {
	entry, ok := c.symbols.Lookup(name.Raw)
	if !ok {
		return entry, identifierError(name, "undefined variable %s", name.Raw)
	}
	return entry, c.checkFieldAccess(name, entry)
}

func (c *Compiler) checkFieldAccess(name tokenizer.Token, entry symbols.Entry) error {
	if entry.Kind == symbols.Field && c.kind == "function" {
		return identifierError(name, "field %s cannot be referenced in function %s.%s", name.Raw, c.class, c.subroutine)
	}
	return nil
}

var segments = map[symbols.Kind]vm.Segment{
	symbols.Static:   vm.Static,
	symbols.Field:    vm.This,
	symbols.Argument: vm.Argument,
	symbols.Local:    vm.Local,
}

func (c *Compiler) push(entry symbols.Entry) {
	c.vmw.WritePush(segments[entry.Kind], entry.Index)
}

func (c *Compiler) pop(entry symbols.Entry) {
	c.vmw.WritePop(segments[entry.Kind], entry.Index)
}

func labelName(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}
