package engine

import (
	"strings"
	"testing"

	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/symbols"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"github.com/hlmerscher/hack-toolchain-go/vm"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileText(t *testing.T, name, text string) string {
	t.Helper()
	unit, err := Compile(source.Unit{Name: name, Text: text})
	require.NoError(t, err)
	return vm.Render(unit.Instructions)
}

func lines(text string) string {
	return strings.TrimLeft(text, "\n")
}

func TestIfStatementWithKnownLocal(t *testing.T) {
	w := vm.New()
	c := New(w)
	for _, name := range []string{"a", "b", "x"} {
		_, err := c.symbols.Define(name, "int", symbols.Local)
		require.NoError(t, err)
	}
	c.tk = tokenizer.New("Main", strings.NewReader("if (x < 10) { return x; }"))
	require.NoError(t, c.advance())

	require.NoError(t, c.Statements())

	assert.Equal(t, []vm.Instruction{
		vm.Push{Segment: vm.Local, Index: 2},
		vm.Push{Segment: vm.Constant, Index: 10},
		vm.Arithmetic{Op: vm.Lt},
		vm.IfGoto{Label: "IF_TRUE0"},
		vm.Goto{Label: "IF_FALSE0"},
		vm.Label{Name: "IF_TRUE0"},
		vm.Push{Segment: vm.Local, Index: 2},
		vm.Return{},
		vm.Label{Name: "IF_FALSE0"},
	}, w.Instructions())
	assert.True(t, c.tk.Current.IsEOF())
}

func TestExpressionsApplyLeftToRight(t *testing.T) {
	out := compileText(t, "Main", `
class Main {
	function void main() {
		do Output.printInt(1 + (2 * 3));
		return 1 + 2 * 3;
	}
}`)

	assert.Equal(t, lines(`
function Main.main 0
push constant 1
push constant 2
push constant 3
call Math.multiply 2
add
call Output.printInt 1
pop temp 0
push constant 1
push constant 2
add
push constant 3
call Math.multiply 2
return
`), out)
}

func TestObjects(t *testing.T) {
	out := compileText(t, "Point", `
class Point {
	field int x, y;
	static int count;

	/** Creates a point. */
	constructor Point new(int ax, int ay) {
		let x = ax;
		let y = ay;
		let count = count + 1;
		return this;
	}

	method int getX() { return x; }

	method int sum(Point other) {
		return x + other.getX();
	}

	method void redraw() {
		do draw();
		return;
	}
}`)

	assert.Equal(t, lines(`
function Point.new 0
push constant 2
call Memory.alloc 1
pop pointer 0
push argument 0
pop this 0
push argument 1
pop this 1
push static 0
push constant 1
add
pop static 0
push pointer 0
return
function Point.getX 0
push argument 0
pop pointer 0
push this 0
return
function Point.sum 0
push argument 0
pop pointer 0
push this 0
push argument 1
call Point.getX 1
add
return
function Point.redraw 0
push argument 0
pop pointer 0
push pointer 0
call Point.draw 1
pop temp 0
push constant 0
return
`), out)
}

func TestArrays(t *testing.T) {
	out := compileText(t, "Main", `
class Main {
	function void main() {
		var Array a;
		var int i;
		let a = Array.new(3);
		let a[i] = a[i + 1];
		return;
	}
}`)

	assert.Equal(t, lines(`
function Main.main 2
push constant 3
call Array.new 1
pop local 0
push local 0
push local 1
add
push local 0
push local 1
push constant 1
add
add
pop pointer 1
push that 0
pop temp 0
pop pointer 1
push temp 0
pop that 0
push constant 0
return
`), out)
}

func TestConstants(t *testing.T) {
	out := compileText(t, "Main", `
class Main {
	function void main() {
		var boolean b;
		var String s;
		var int i;
		let b = true;
		let b = ~false;
		let s = null;
		let s = "Hi";
		let i = -i;
		return;
	}
}`)

	assert.Equal(t, lines(`
function Main.main 3
push constant 0
not
pop local 0
push constant 0
not
pop local 0
push constant 0
pop local 1
push constant 2
call String.new 1
push constant 72
call String.appendChar 2
push constant 105
call String.appendChar 2
pop local 1
push local 2
neg
pop local 2
push constant 0
return
`), out)
}

func TestControlFlow(t *testing.T) {
	out := compileText(t, "Main", `
class Main {
	function void f() {
		var int i;
		while (i < 2) {
			if (i = 0) { let i = 1; } else { let i = 2; }
		}
		while (false) {}
		return;
	}
}`)

	assert.Equal(t, lines(`
function Main.f 1
label WHILE_EXP0
push local 0
push constant 2
lt
not
if-goto WHILE_END0
push local 0
push constant 0
eq
if-goto IF_TRUE0
goto IF_FALSE0
label IF_TRUE0
push constant 1
pop local 0
goto IF_END0
label IF_FALSE0
push constant 2
pop local 0
label IF_END0
goto WHILE_EXP0
label WHILE_END0
label WHILE_EXP1
push constant 0
not
if-goto WHILE_END1
goto WHILE_EXP1
label WHILE_END1
push constant 0
return
`), out)
}

func TestLabelsAreUniqueWithinUnit(t *testing.T) {
	unit, err := Compile(source.Unit{Name: "Main", Text: `
class Main {
	function void f(int n) {
		while (n > 0) { if (n = 1) { let n = 0; } let n = n - 1; }
		return;
	}
	function void g(int n) {
		if (n) { while (n) { if (n) {} else {} } }
		while (n) {}
		return;
	}
}`})
	require.NoError(t, err)

	defined := make(map[string]bool)
	var targets []string
	for _, i := range unit.Instructions {
		switch i := i.(type) {
		case vm.Label:
			assert.False(t, defined[i.Name], "label %s defined twice", i.Name)
			defined[i.Name] = true
		case vm.Goto:
			targets = append(targets, i.Label)
		case vm.IfGoto:
			targets = append(targets, i.Label)
		}
	}

	require.NotEmpty(t, targets)
	for _, target := range targets {
		assert.True(t, defined[target], "jump to undefined label %s", target)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		identifier string
		msg        string
	}{
		{
			name:       "undefined variable",
			body:       "function void f() { let y = 1; return; }",
			identifier: "y",
			msg:        "undefined variable y",
		},
		{
			name:       "call on primitive",
			body:       "function void f() { var int n; do n.foo(); return; }",
			identifier: "n",
			msg:        "cannot call foo on n of type int",
		},
		{
			name:       "unqualified call in function",
			body:       "function void f() { do foo(); return; }",
			identifier: "foo",
			msg:        "without an object",
		},
		{
			name:       "redefinition",
			body:       "function void f() { var int a; var char a; return; }",
			identifier: "a",
			msg:        "a already defined as local int",
		},
		{
			name:       "field in function",
			body:       "field int x; function void f() { let x = 1; return; }",
			identifier: "x",
			msg:        "field x cannot be referenced in function Main.f",
		},
		{
			name: "this in function",
			body: "function Main f() { return this; }",
			msg:  "this cannot be referenced in function Main.f",
		},
		{
			name: "missing name",
			body: "function void f() { let = 1; return; }",
			msg:  "expected identifier, got =",
		},
		{
			name: "stray semicolon",
			body: "function void f() { return ; ; }",
			msg:  "expected '}', got ;",
		},
		{
			name: "missing operand",
			body: "function void f() { var int i; let i = 1 + ; return; }",
			msg:  "expected term, got ;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(source.Unit{Name: "Main", Text: "class Main { " + tt.body + " }"})

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.identifier, perr.Identifier)
			assert.Contains(t, perr.Msg, tt.msg)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Compile(source.Unit{Name: "Main", Text: "class Main {\n  function void f() {\n    let y = 1;\n  }\n}\n"})

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, source.Pos{Unit: "Main", Line: 3, Column: 9}, perr.Position())
	assert.Equal(t, "Main:3:9: undefined variable y", perr.Error())
}

func TestUnexpectedEndOfInput(t *testing.T) {
	_, err := Compile(source.Unit{Name: "Main", Text: "class Main { function void f() { return"})

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Msg, "got end of input")
}

func TestTrailingTokens(t *testing.T) {
	_, err := Compile(source.Unit{Name: "Main", Text: "class Main { } class"})

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "unexpected class after end of class", perr.Msg)
}

func TestLexErrorsSurface(t *testing.T) {
	_, err := Compile(source.Unit{Name: "Main", Text: "class Main { function void f() { return 40000; } }"})

	var lerr *tokenizer.LexError
	require.ErrorAs(t, err, &lerr)
}

type recorder struct {
	events []string
}

func (r *recorder) Open(rule string)  { r.events = append(r.events, "<"+rule+">") }
func (r *recorder) Close(rule string) { r.events = append(r.events, "</"+rule+">") }
func (r *recorder) Terminal(token tokenizer.Token) {
	r.events = append(r.events, token.Raw)
}

func TestTracer(t *testing.T) {
	r := &recorder{}
	_, err := CompileTraced(source.Unit{Name: "Main", Text: "class Main { static int n; }"}, r)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"<class>", "class", "Main", "{",
		"<classVarDec>", "static", "int", "n", ";", "</classVarDec>",
		"}", "</class>",
	}, r.events)
}

func TestClassVariablesAreLogged(t *testing.T) {
	hook := test.NewGlobal()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetLevel(level)
		log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	})

	_, err := Compile(source.Unit{Name: "Point", Text: "class Point { field int x, y; static Point origin; }"})
	require.NoError(t, err)

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "Point: static Point origin 0")
	assert.Contains(t, messages, "Point: field int x 0")
	assert.Contains(t, messages, "Point: field int y 1")
}
