package tokenizer

import (
	"encoding/xml"
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/source"
	"golang.org/x/exp/slices"
)

type TokenType string

const (
	KEYWORD      = TokenType("keyword")
	SYMBOL       = TokenType("symbol")
	IDENTIFIER   = TokenType("identifier")
	INT_CONST    = TokenType("integerConstant")
	STRING_CONST = TokenType("stringConstant")
)

// MaxInt is the largest integer constant a Jack program may spell out.
const MaxInt = 32767

var EmptyToken = Token{}

// Token is one lexical item. Raw holds the literal text, without quotes for
// string constants; Value holds the number of an integer constant.
type Token struct {
	Raw   string
	Type  TokenType
	Value int
	Pos   source.Pos
}

// IsEOF reports whether t is the sentinel left in Current once the input is
// exhausted.
func (t Token) IsEOF() bool {
	return t.Type == ""
}

func (t Token) String() string {
	switch t.Type {
	case "":
		return "end of input"
	case STRING_CONST:
		return fmt.Sprintf("%q", t.Raw)
	}
	return t.Raw
}

func (t Token) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = string(t.Type)
	return e.EncodeElement(fmt.Sprintf(" %s ", t.Raw), start)
}

var keywords = []string{
	"class",
	"constructor",
	"function",
	"method",
	"field",
	"static",
	"var",
	"int",
	"char",
	"boolean",
	"void",
	"true",
	"false",
	"null",
	"this",
	"let",
	"do",
	"if",
	"else",
	"while",
	"return",
}

func isKeyword(value string) bool {
	return slices.Contains(keywords, value)
}

var symbols = []string{
	"{", "}",
	"(", ")",
	"[", "]",
	".", ",", ";",
	"+", "-", "*", "/",
	"&", "|",
	"<", ">",
	"=", "~",
}

func isSymbol(value string) bool {
	return slices.Contains(symbols, value)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isWordChar(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
