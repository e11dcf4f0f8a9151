package translator

import (
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/source"
)

// TranslationError reports a VM instruction that has no valid lowering,
// such as an out of range segment index or a pop into constant.
type TranslationError struct {
	Pos source.Pos
	Msg string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *TranslationError) Position() source.Pos {
	return e.Pos
}

func (e *TranslationError) Message() string {
	return e.Msg
}
