package engine

import (
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/tokenizer"
	"golang.org/x/exp/slices"
)

type matcher struct {
	expect string
	match  func(tokenizer.Token) bool
}

func (m matcher) matches(token tokenizer.Token) bool {
	return m.match(token)
}

func is(raw string) matcher {
	return matcher{
		expect: "'" + raw + "'",
		match: func(token tokenizer.Token) bool {
			return token.Raw == raw && (token.Type == tokenizer.KEYWORD || token.Type == tokenizer.SYMBOL)
		},
	}
}

func or(matchers ...matcher) matcher {
	expects := make([]string, len(matchers))
	for i, m := range matchers {
		expects[i] = m.expect
	}

	return matcher{
		expect: strings.Join(expects, " or "),
		match: func(token tokenizer.Token) bool {
			for _, m := range matchers {
				if m.matches(token) {
					return true
				}
			}
			return false
		},
	}
}

func ofType(expect string, typ tokenizer.TokenType) matcher {
	return matcher{
		expect: expect,
		match: func(token tokenizer.Token) bool {
			return token.Type == typ
		},
	}
}

func isIdentifier() matcher {
	return ofType("identifier", tokenizer.IDENTIFIER)
}

var primitiveTypes = []string{"int", "char", "boolean"}

func isPrimitive(typ string) bool {
	return slices.Contains(primitiveTypes, typ)
}

func isType() matcher {
	return matcher{
		expect: "type",
		match: func(token tokenizer.Token) bool {
			return token.Type == tokenizer.IDENTIFIER ||
				token.Type == tokenizer.KEYWORD && isPrimitive(token.Raw)
		},
	}
}

var binaryOps = []string{"+", "-", "*", "/", "&", "|", "<", ">", "="}

func isOp() matcher {
	return matcher{
		expect: "operator",
		match: func(token tokenizer.Token) bool {
			return token.Type == tokenizer.SYMBOL && slices.Contains(binaryOps, token.Raw)
		},
	}
}

func isUnaryOp() matcher {
	return or(is("-"), is("~"))
}

func isKeywordConstant() matcher {
	return or(is("true"), is("false"), is("null"), is("this"))
}

func isClassVarDec() matcher {
	return or(is("static"), is("field"))
}

func isSubroutineDec() matcher {
	return or(is("constructor"), is("function"), is("method"))
}
