// Package hacktest runs assembled Hack programs so tests can check the
// behaviour of generated code rather than its text.
package hacktest

import (
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/asm"
	"github.com/hlmerscher/hack-toolchain-go/source"
)

const RAMSize = 32768

// Machine is a Hack CPU with its ROM and RAM.
type Machine struct {
	ROM []uint16
	RAM []uint16
	A   uint16
	D   uint16
	PC  uint16

	// HaltAt is the address of the halt loop added by Load.
	HaltAt uint16
	Steps  int
}

func New(rom []uint16) *Machine {
	return &Machine{ROM: rom, RAM: make([]uint16, RAMSize)}
}

// Peek reads a RAM word as a signed value.
func (m *Machine) Peek(address int) int16 {
	return int16(m.RAM[address])
}

func (m *Machine) Poke(address int, value int16) {
	m.RAM[address] = uint16(value)
}

// Step executes the instruction at PC.
func (m *Machine) Step() error {
	if int(m.PC) >= len(m.ROM) {
		return fmt.Errorf("pc %d outside program of %d words", m.PC, len(m.ROM))
	}
	instr := m.ROM[m.PC]
	m.Steps++

	if instr&0x8000 == 0 {
		m.A = instr
		m.PC++
		return nil
	}

	y := m.A
	if instr&0x1000 != 0 {
		if int(m.A) >= RAMSize {
			return fmt.Errorf("pc %d: memory access at %d", m.PC, m.A)
		}
		y = m.RAM[m.A]
	}
	out := alu(m.D, y, (instr>>6)&0x3f)

	address := m.A
	dest := (instr >> 3) & 0b111
	if dest&0b001 != 0 {
		if int(address) >= RAMSize {
			return fmt.Errorf("pc %d: memory write at %d", m.PC, address)
		}
		m.RAM[address] = out
	}
	if dest&0b010 != 0 {
		m.D = out
	}
	if dest&0b100 != 0 {
		m.A = out
	}

	if jumps(int16(out), instr&0b111) {
		m.PC = address
	} else {
		m.PC++
	}
	return nil
}

// RunUntil steps until PC reaches stop, failing after limit steps.
func (m *Machine) RunUntil(stop uint16, limit int) error {
	for i := 0; i < limit; i++ {
		if m.PC == stop {
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return fmt.Errorf("pc %d did not reach %d within %d steps", m.PC, stop, limit)
}

// Run steps until the halt loop is reached.
func (m *Machine) Run(limit int) error {
	return m.RunUntil(m.HaltAt, limit)
}

func alu(x, y uint16, control uint16) uint16 {
	if control&0b100000 != 0 {
		x = 0
	}
	if control&0b010000 != 0 {
		x = ^x
	}
	if control&0b001000 != 0 {
		y = 0
	}
	if control&0b000100 != 0 {
		y = ^y
	}

	var out uint16
	if control&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if control&0b000001 != 0 {
		out = ^out
	}
	return out
}

func jumps(out int16, jump uint16) bool {
	return jump&0b100 != 0 && out < 0 ||
		jump&0b010 != 0 && out == 0 ||
		jump&0b001 != 0 && out > 0
}

// Halt is the label Load appends to every program, bound to an endless
// loop.
const Halt = "__HALT"

// Load assembles instructions followed by a halt loop. The program text is
// rendered and parsed again so that errors carry line numbers. It returns
// the machine and the ROM address of the halt loop.
func Load(name string, instructions []asm.Instruction) (*Machine, *asm.Assembler, error) {
	instructions = append(instructions[:len(instructions):len(instructions)],
		asm.Label{Name: Halt}, asm.At(Halt), asm.C("0;JMP"))

	program, err := asm.Parse(source.Unit{Name: name, Text: asm.Render(instructions)})
	if err != nil {
		return nil, nil, err
	}

	a := asm.NewAssembler()
	words, err := a.Assemble(program)
	if err != nil {
		return nil, nil, err
	}
	m := New(words)
	m.HaltAt, _ = a.Symbol(Halt)
	return m, a, nil
}

// Address returns the ROM or RAM address bound to symbol.
func Address(a *asm.Assembler, symbol string) (uint16, error) {
	address, ok := a.Symbol(symbol)
	if !ok {
		return 0, fmt.Errorf("unknown symbol %s", symbol)
	}
	return address, nil
}
