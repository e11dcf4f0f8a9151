package asm

import (
	"strings"
	"testing"

	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, text string) ([]uint16, *Assembler) {
	t.Helper()
	program, err := Parse(source.Unit{Name: "Prog", Text: text})
	require.NoError(t, err)

	a := NewAssembler()
	words, err := a.Assemble(program)
	require.NoError(t, err)
	return words, a
}

func TestAssembleAdd(t *testing.T) {
	words, _ := assemble(t, `// Computes R0 = 2 + 3
@2
D=A
@3
D = D + A   // spaces are ignored
@0
M=D
`)

	assert.Equal(t, strings.Join([]string{
		"0000000000000010",
		"1110110000010000",
		"0000000000000011",
		"1110000010010000",
		"0000000000000000",
		"1110001100001000",
	}, "\n")+"\n", Binary(words))
}

func TestAssembleLabels(t *testing.T) {
	words, a := assemble(t, `
@R0
D=M
@R1
D=D-M
@OUTPUT_FIRST
D;JGT
@R1
D=M
@OUTPUT_D
0;JMP
(OUTPUT_FIRST)
@R0
D=M
(OUTPUT_D)
@R2
M=D
(INFINITE_LOOP)
@INFINITE_LOOP
0;JMP
`)

	require.Len(t, words, 16)
	assert.Equal(t, uint16(10), words[4])
	assert.Equal(t, uint16(0b1110001100000001), words[5])
	assert.Equal(t, uint16(12), words[8])
	assert.Equal(t, uint16(0b1110101010000111), words[9])
	assert.Equal(t, uint16(2), words[12])
	assert.Equal(t, uint16(14), words[14])

	address, ok := a.Symbol("OUTPUT_D")
	assert.True(t, ok)
	assert.Equal(t, uint16(12), address)
	assert.Equal(t, []string{"INFINITE_LOOP", "OUTPUT_D", "OUTPUT_FIRST"}, SymbolNames(a.Symbols()))
}

func TestAssembleVariables(t *testing.T) {
	words, a := assemble(t, `
@i
M=1
@sum
M=0
@i
D=M
@SCREEN
@KBD
@Main.0
`)

	assert.Equal(t, uint16(16), words[0])
	assert.Equal(t, uint16(17), words[2])
	assert.Equal(t, uint16(16), words[4])
	assert.Equal(t, uint16(16384), words[6])
	assert.Equal(t, uint16(24576), words[7])
	assert.Equal(t, uint16(18), words[8])
	assert.Equal(t, map[string]uint16{"i": 16, "sum": 17, "Main.0": 18}, a.Symbols())
}

func TestAssemblyErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		msg  string
	}{
		{"unknown comp", "@1\nD=D*A\n", 2, `unknown comp "D*A"`},
		{"unknown dest", "X=D\n", 1, `unknown dest "X"`},
		{"unknown jump", "@1\n\nD;JXX\n", 3, `unknown jump "JXX"`},
		{"duplicate label", "(LOOP)\n@LOOP\n(LOOP)\n", 3, "duplicate label LOOP"},
		{"predefined label", "(SP)\n", 1, "duplicate label SP"},
		{"constant out of range", "@32768\n", 1, "constant 32768 out of range [0, 32767]"},
		{"invalid label", "(1abc)\n", 1, `invalid label "1abc"`},
		{"unterminated label", "(LOOP\n", 1, `unterminated label "(LOOP"`},
		{"invalid symbol", "@-x\n", 1, `invalid symbol "-x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Parse(source.Unit{Name: "Prog", Text: tt.text})
			if err == nil {
				_, err = Assemble(program)
			}

			var aerr *AssemblyError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, source.Pos{Unit: "Prog", Line: tt.line}, aerr.Position())
			assert.Equal(t, tt.msg, aerr.Message())
		})
	}
}

func TestInstructionText(t *testing.T) {
	tests := []struct {
		text  string
		instr Instruction
	}{
		{"AM=M-1", CInstruction{Dest: "AM", Comp: "M-1"}},
		{"D;JGT", CInstruction{Comp: "D", Jump: "JGT"}},
		{"0;JMP", CInstruction{Comp: "0", Jump: "JMP"}},
		{"M=D", CInstruction{Dest: "M", Comp: "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.instr, C(tt.text))
			assert.Equal(t, tt.text, tt.instr.String())
		})
	}

	assert.Equal(t, "@SP", At("SP").String())
	assert.Equal(t, "@256", Const(256).String())
	assert.Equal(t, "(LOOP)", Label{"LOOP"}.String())
}

func TestRenderParsesBack(t *testing.T) {
	instructions := []Instruction{Const(256), C("D=A"), At("SP"), C("M=D"), Label{"END"}, At("END"), C("0;JMP")}

	text := Render(instructions)
	assert.True(t, strings.HasPrefix(text, "    @256\n"))

	program, err := Parse(source.Unit{Name: "Prog", Text: text})
	require.NoError(t, err)
	assert.Equal(t, instructions, program.Instructions)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, program.Lines)
}
