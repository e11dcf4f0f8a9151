package analyzer

import (
	"encoding/xml"

	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
)

type NestedToken struct {
	XMLName  xml.Name
	Children []xml.Marshaler
}

func (nt *NestedToken) append(token xml.Marshaler) {
	if token != nil {
		nt.Children = append(nt.Children, token)
	}
}

func (nt *NestedToken) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = nt.XMLName
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range nt.Children {
		if err := e.Encode(child); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// treeBuilder assembles NestedTokens from the events of a parse.
type treeBuilder struct {
	root  *NestedToken
	stack []*NestedToken
}

func (tb *treeBuilder) Open(rule string) {
	nt := &NestedToken{XMLName: xml.Name{Local: rule}}
	if top := tb.top(); top != nil {
		top.append(nt)
	} else {
		tb.root = nt
	}
	tb.stack = append(tb.stack, nt)
}

func (tb *treeBuilder) Close(string) {
	tb.stack = tb.stack[:len(tb.stack)-1]
}

func (tb *treeBuilder) Terminal(token tokenizer.Token) {
	if top := tb.top(); top != nil {
		top.append(token)
	}
}

func (tb *treeBuilder) top() *NestedToken {
	if len(tb.stack) == 0 {
		return nil
	}
	return tb.stack[len(tb.stack)-1]
}
