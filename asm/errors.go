package asm

import (
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/source"
)

type AssemblyError struct {
	Pos source.Pos
	Msg string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *AssemblyError) Position() source.Pos {
	return e.Pos
}

func (e *AssemblyError) Message() string {
	return e.Msg
}
