package engine

import (
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
)

// ParseError reports a grammar violation or a name that cannot be resolved.
// Identifier is set when a particular name is at fault.
type ParseError struct {
	Pos        source.Pos
	Identifier string
	Msg        string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *ParseError) Position() source.Pos {
	return e.Pos
}

func (e *ParseError) Message() string {
	return e.Msg
}

func errorAt(token tokenizer.Token, format string, args ...any) *ParseError {
	return &ParseError{Pos: token.Pos, Msg: fmt.Sprintf(format, args...)}
}

func identifierError(token tokenizer.Token, format string, args ...any) *ParseError {
	return &ParseError{Pos: token.Pos, Identifier: token.Raw, Msg: fmt.Sprintf(format, args...)}
}
