package engine

import "github.com/hlmerscher/hack-toolchain-go/tokenizer"

// Tracer observes recognition as it happens: Open and Close bracket each
// nonterminal, Terminal receives every consumed token.
type Tracer interface {
	Open(rule string)
	Close(rule string)
	Terminal(token tokenizer.Token)
}

type nopTracer struct{}

func (nopTracer) Open(string)              {}
func (nopTracer) Close(string)             {}
func (nopTracer) Terminal(tokenizer.Token) {}
