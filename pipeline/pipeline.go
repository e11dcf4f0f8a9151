package pipeline

import (
	"github.com/hlmerscher/hack-toolchain-go/asm"
	"github.com/hlmerscher/hack-toolchain-go/engine"
	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/translator"
	"github.com/hlmerscher/hack-toolchain-go/vm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Result pairs an output with the unit it was produced from.
type Result[T any] struct {
	Unit  source.Unit
	Value T
}

// Failure records a unit that could not be processed.
type Failure struct {
	Unit source.Unit
	Err  error
}

// Batch runs one stage over many units. Units are independent: a failure
// never alters the output of another unit. Without KeepGoing the batch
// stops at the first failure, keeping the results produced before it.
type Batch struct {
	KeepGoing bool
	Failures  []Failure
}

func (b *Batch) Failed() bool {
	return len(b.Failures) > 0
}

// Each applies fn to every unit in order.
func Each[T any](b *Batch, verb string, units []source.Unit, fn func(source.Unit) (T, error)) ([]Result[T], error) {
	results := make([]Result[T], 0, len(units))

	for _, unit := range units {
		value, err := fn(unit)
		if err != nil {
			err = errors.Wrapf(err, "%s %s", verb, unit.Name)
			b.Failures = append(b.Failures, Failure{Unit: unit, Err: err})
			if !b.KeepGoing {
				return results, err
			}
			log.Warnf("skipping %s", unit.Name)
			continue
		}
		results = append(results, Result[T]{Unit: unit, Value: value})
	}

	if b.Failed() {
		return results, errors.Errorf("%d of %d units failed", len(b.Failures), len(units))
	}
	return results, nil
}

// Compile compiles Jack units to VM code.
func (b *Batch) Compile(units []source.Unit) ([]Result[vm.Unit], error) {
	return Each(b, "compiling", units, engine.Compile)
}

// Parse reads VM units.
func (b *Batch) Parse(units []source.Unit) ([]Result[vm.Unit], error) {
	return Each(b, "parsing", units, vm.Parse)
}

// Translate lowers VM units to one assembly program. A program with a
// missing unit is not translated.
func (b *Batch) Translate(units []source.Unit, bootstrap bool) ([]asm.Instruction, error) {
	results, err := b.Parse(units)
	if err != nil {
		return nil, err
	}

	vmUnits := make([]vm.Unit, len(results))
	for i, r := range results {
		vmUnits[i] = r.Value
	}

	instructions, err := translator.Translate(vmUnits, bootstrap)
	if err != nil {
		return nil, errors.Wrap(err, "translating")
	}
	return instructions, nil
}

// MachineCode is an assembled unit with the symbols its assembly bound.
type MachineCode struct {
	Words   []uint16
	Symbols map[string]uint16
}

// Assemble assembles Hack assembly units to machine words.
func (b *Batch) Assemble(units []source.Unit) ([]Result[MachineCode], error) {
	return Each(b, "assembling", units, func(unit source.Unit) (MachineCode, error) {
		program, err := asm.Parse(unit)
		if err != nil {
			return MachineCode{}, err
		}

		a := asm.NewAssembler()
		words, err := a.Assemble(program)
		if err != nil {
			return MachineCode{}, err
		}
		return MachineCode{Words: words, Symbols: a.Symbols()}, nil
	})
}
