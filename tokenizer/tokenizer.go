package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/source"
)

func New(unit string, input io.Reader) *Tokenizer {
	return &Tokenizer{
		input:   bufio.NewReader(input),
		unit:    unit,
		line:    1,
		column:  1,
		Current: EmptyToken,
	}
}

// Tokenizer produces the tokens of one unit on demand. Current holds the
// most recently produced token and serves as the parser's lookahead.
type Tokenizer struct {
	input   *bufio.Reader
	unit    string
	line    int
	column  int
	Current Token
}

// Advance moves to the next token. Once the input is exhausted it returns
// io.EOF and leaves an end-of-input sentinel in Current.
func (tk *Tokenizer) Advance() (Token, error) {
	token, err := tk.advance()
	if err != nil {
		tk.Current = Token{Pos: tk.pos()}
		return tk.Current, err
	}
	tk.Current = token
	return token, nil
}

// Collect drains the remaining tokens.
func (tk *Tokenizer) Collect() ([]Token, error) {
	tokens := make([]Token, 0)
	for {
		token, err := tk.Advance()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}
}

func (tk *Tokenizer) advance() (Token, error) {
	if err := tk.skipIgnored(); err != nil {
		return EmptyToken, err
	}

	pos := tk.pos()
	char, err := tk.next()
	if err != nil {
		return EmptyToken, err
	}

	switch {
	case char == '"':
		return tk.stringConstant(pos)
	case isDigit(char):
		return tk.integerConstant(pos, char)
	case isLetter(char):
		return tk.word(pos, char), nil
	case isSymbol(string(char)):
		return Token{Raw: string(char), Type: SYMBOL, Pos: pos}, nil
	}

	return EmptyToken, &LexError{pos, fmt.Sprintf("illegal character %q", char)}
}

func (tk *Tokenizer) skipIgnored() error {
	for {
		ahead, err := tk.input.Peek(2)
		if len(ahead) == 0 {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch {
		case isSpace(ahead[0]):
			if _, err := tk.next(); err != nil {
				return err
			}
		case len(ahead) == 2 && ahead[0] == '/' && ahead[1] == '/':
			if err := tk.skipLineComment(); err != nil {
				return err
			}
		case len(ahead) == 2 && ahead[0] == '/' && ahead[1] == '*':
			if err := tk.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (tk *Tokenizer) skipLineComment() error {
	for {
		char, err := tk.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if char == '\n' {
			return nil
		}
	}
}

func (tk *Tokenizer) skipBlockComment() error {
	pos := tk.pos()
	// opening "/*"
	tk.next()
	tk.next()

	for {
		char, err := tk.next()
		if errors.Is(err, io.EOF) {
			return &LexError{pos, "unterminated comment"}
		}
		if err != nil {
			return err
		}
		if char != '*' {
			continue
		}
		if ahead, _ := tk.input.Peek(1); len(ahead) == 1 && ahead[0] == '/' {
			tk.next()
			return nil
		}
	}
}

func (tk *Tokenizer) stringConstant(pos source.Pos) (Token, error) {
	var raw strings.Builder

	for {
		char, err := tk.next()
		if errors.Is(err, io.EOF) {
			return EmptyToken, &LexError{pos, "unterminated string constant"}
		}
		if err != nil {
			return EmptyToken, err
		}

		switch char {
		case '"':
			return Token{Raw: raw.String(), Type: STRING_CONST, Pos: pos}, nil
		case '\n', '\r':
			return EmptyToken, &LexError{pos, "string constant may not span lines"}
		}
		raw.WriteRune(char)
	}
}

func (tk *Tokenizer) integerConstant(pos source.Pos, first rune) (Token, error) {
	raw := tk.collect(first, isDigit)

	value, err := strconv.Atoi(raw)
	if err != nil || value > MaxInt {
		return EmptyToken, &LexError{pos, fmt.Sprintf("integer constant %s out of range [0, %d]", raw, MaxInt)}
	}

	return Token{Raw: raw, Type: INT_CONST, Value: value, Pos: pos}, nil
}

func (tk *Tokenizer) word(pos source.Pos, first rune) Token {
	raw := tk.collect(first, isWordChar)
	if isKeyword(raw) {
		return Token{Raw: raw, Type: KEYWORD, Pos: pos}
	}
	return Token{Raw: raw, Type: IDENTIFIER, Pos: pos}
}

func (tk *Tokenizer) collect(first rune, accept func(rune) bool) string {
	var raw strings.Builder
	raw.WriteRune(first)

	for {
		char, _, err := tk.input.ReadRune()
		if err != nil {
			return raw.String()
		}
		if !accept(char) {
			tk.input.UnreadRune()
			return raw.String()
		}
		tk.column++
		raw.WriteRune(char)
	}
}

func (tk *Tokenizer) next() (rune, error) {
	char, _, err := tk.input.ReadRune()
	if err != nil {
		return 0, err
	}

	if char == '\n' {
		tk.line++
		tk.column = 1
	} else {
		tk.column++
	}

	return char, nil
}

func (tk *Tokenizer) pos() source.Pos {
	return source.Pos{Unit: tk.unit, Line: tk.line, Column: tk.column}
}
