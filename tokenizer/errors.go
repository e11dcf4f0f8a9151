package tokenizer

import (
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/source"
)

// LexError reports an illegal character, an unterminated string or comment,
// or an integer constant that does not fit a Hack word.
type LexError struct {
	Pos source.Pos
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *LexError) Position() source.Pos {
	return e.Pos
}

func (e *LexError) Message() string {
	return e.Msg
}
