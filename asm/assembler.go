package asm

import (
	"fmt"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/source"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// compTable holds the a-bit followed by the six ALU control bits.
var compTable = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"D|M": 0b1010101,
	// commutative spellings
	"A+D": 0b0000010,
	"A&D": 0b0000000,
	"A|D": 0b0010101,
	"M+D": 0b1000010,
	"M&D": 0b1000000,
	"M|D": 0b1010101,
}

var destTable = map[string]uint16{
	"":     0b000,
	"null": 0b000,
	"M":    0b001,
	"D":    0b010,
	"MD":   0b011,
	"A":    0b100,
	"AM":   0b101,
	"AD":   0b110,
	"AMD":  0b111,
}

var jumpTable = map[string]uint16{
	"":     0b000,
	"null": 0b000,
	"JGT":  0b001,
	"JEQ":  0b010,
	"JGE":  0b011,
	"JLT":  0b100,
	"JNE":  0b101,
	"JLE":  0b110,
	"JMP":  0b111,
}

var predefinedSymbols = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

func init() {
	for i := uint16(0); i < 16; i++ {
		predefinedSymbols[fmt.Sprintf("R%d", i)] = i
	}
}

// VariableBase is the RAM address of the first variable symbol.
const VariableBase = 16

type Assembler struct {
	symbols map[string]uint16
	next    uint16
}

func NewAssembler() *Assembler {
	symbols := make(map[string]uint16, len(predefinedSymbols))
	for name, address := range predefinedSymbols {
		symbols[name] = address
	}
	return &Assembler{symbols: symbols, next: VariableBase}
}

// Assemble translates program into machine words.
func Assemble(program Program) ([]uint16, error) {
	return NewAssembler().Assemble(program)
}

func (a *Assembler) Assemble(program Program) ([]uint16, error) {
	if err := a.pass1(program); err != nil {
		return nil, err
	}

	words, err := a.pass2(program)
	if err != nil {
		return nil, err
	}

	log.Debugf("assembled %s: %d words", program.Name, len(words))
	return words, nil
}

// pass1 binds every label to the ROM address of the instruction after it.
func (a *Assembler) pass1(program Program) error {
	var address uint16

	for i, instr := range program.Instructions {
		label, ok := instr.(Label)
		if !ok {
			address++
			continue
		}
		if _, exists := a.symbols[label.Name]; exists {
			return a.errorf(program, i, "duplicate label %s", label.Name)
		}
		a.symbols[label.Name] = address
	}

	return nil
}

func (a *Assembler) pass2(program Program) ([]uint16, error) {
	words := make([]uint16, 0, len(program.Instructions))

	for i, instr := range program.Instructions {
		switch instr := instr.(type) {
		case Label:
			continue

		case AInstruction:
			if instr.Symbol == "" {
				if instr.Value < 0 || instr.Value > MaxConstant {
					return nil, a.errorf(program, i, "constant %d out of range [0, %d]", instr.Value, MaxConstant)
				}
				words = append(words, uint16(instr.Value))
				continue
			}
			words = append(words, a.resolve(instr.Symbol))

		case CInstruction:
			word, err := encode(instr)
			if err != nil {
				return nil, a.errorf(program, i, "%s", err)
			}
			words = append(words, word)
		}
	}

	return words, nil
}

// resolve returns the address of symbol, allocating a new variable for
// symbols seen for the first time.
func (a *Assembler) resolve(symbol string) uint16 {
	if address, ok := a.symbols[symbol]; ok {
		return address
	}
	address := a.next
	a.symbols[symbol] = address
	a.next++
	return address
}

func encode(instr CInstruction) (uint16, error) {
	comp, ok := compTable[instr.Comp]
	if !ok {
		return 0, fmt.Errorf("unknown comp %q", instr.Comp)
	}
	dest, ok := destTable[instr.Dest]
	if !ok {
		return 0, fmt.Errorf("unknown dest %q", instr.Dest)
	}
	jump, ok := jumpTable[instr.Jump]
	if !ok {
		return 0, fmt.Errorf("unknown jump %q", instr.Jump)
	}
	return 0b111<<13 | comp<<6 | dest<<3 | jump, nil
}

func (a *Assembler) errorf(program Program, i int, format string, args ...any) *AssemblyError {
	return &AssemblyError{
		Pos: source.Pos{Unit: program.Name, Line: program.Line(i)},
		Msg: fmt.Sprintf(format, args...),
	}
}

// Symbol returns the address bound to name.
func (a *Assembler) Symbol(name string) (uint16, bool) {
	address, ok := a.symbols[name]
	return address, ok
}

// Symbols returns the user-defined labels and variables.
func (a *Assembler) Symbols() map[string]uint16 {
	symbols := make(map[string]uint16)
	for name, address := range a.symbols {
		if _, ok := predefinedSymbols[name]; !ok {
			symbols[name] = address
		}
	}
	return symbols
}

// SymbolNames lists the names of symbols in order.
func SymbolNames(symbols map[string]uint16) []string {
	names := maps.Keys(symbols)
	slices.Sort(names)
	return names
}

// Binary renders words as 16-digit binary strings, one per line.
func Binary(words []uint16) string {
	var out strings.Builder
	for _, w := range words {
		fmt.Fprintf(&out, "%016b\n", w)
	}
	return out.String()
}
