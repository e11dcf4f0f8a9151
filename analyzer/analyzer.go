package analyzer

import (
	"encoding/xml"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/engine"
	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"github.com/hlmerscher/hack-toolchain-go/writer"
)

type tokensWrapper struct {
	XMLName xml.Name `xml:"tokens"`
	Tokens  []tokenizer.Token
}

// Tokens renders the token sequence of unit as XML.
func Tokens(unit source.Unit, out *strings.Builder) error {
	tk := tokenizer.New(unit.Name, strings.NewReader(unit.Text))

	tokens, err := tk.Collect()
	if err != nil {
		return err
	}

	return writer.XML(out, tokensWrapper{Tokens: tokens})
}

// Tree renders the parse tree of unit as XML, one element per nonterminal
// with the consumed tokens as leaves.
func Tree(unit source.Unit, out *strings.Builder) error {
	tb := &treeBuilder{}
	if _, err := engine.CompileTraced(unit, tb); err != nil {
		return err
	}

	return writer.XML(out, tb.root)
}
