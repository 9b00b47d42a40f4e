package plan

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes (start at 1 to avoid clash with parsly.EOF).
const (
	identifierCode = iota + 1
	openParenCode
	closeParenCode
	equalsCode
	callBodyCode
	quotedValueCode
)

var (
	whitespaceToken  = parsly.NewToken(0, "Whitespace", matcher.NewWhiteSpace())
	identifierToken  = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	openParenToken   = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken  = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	equalsToken      = parsly.NewToken(equalsCode, "=", matcher.NewByte('='))
	callBodyToken    = parsly.NewToken(callBodyCode, "CallBody", newCallBodyMatcher())
	quotedValueToken = parsly.NewToken(quotedValueCode, "QuotedValue", newQuotedValueMatcher())
)

func newIdentifierMatcher() parsly.Matcher {
	return &identifierMatcher{}
}

func newCallBodyMatcher() parsly.Matcher {
	return &callBodyMatcher{}
}

func newQuotedValueMatcher() parsly.Matcher {
	return &quotedValueMatcher{}
}

// identifierMatcher matches call and argument names
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	// First character must be a letter or underscore
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}

	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}

	return matched
}

// callBodyMatcher captures an argument body up to the parenthesis that closes
// the enclosing call, tracking nesting depth so values may legally contain
// balanced parentheses. On unbalanced input it consumes the remainder; the
// caller detects the missing close.
type callBodyMatcher struct{}

func (m *callBodyMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	depth := 0

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == '(' {
			depth++
		}

		if input[i] == ')' {
			if depth == 0 {
				break
			}

			depth--
		}
		matched++
	}

	if matched == 0 {
		return 0
	}

	return matched
}

// quotedValueMatcher matches a quoted argument value including its delimiters.
// Supported delimiters: single, double, and triple (single or double) quotes.
// Triple-quoted spans run to the first occurrence of the closing triple and may
// embed newlines and the other quote character unescaped. Single and double
// quoted spans honor backslash escapes and must close on the same line.
type quotedValueMatcher struct{}

func (m *quotedValueMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	quote := input[pos]
	if quote != '"' && quote != '\'' {
		return 0
	}

	if pos+2 < size && input[pos+1] == quote && input[pos+2] == quote {
		return m.matchTriple(input, pos, size, quote)
	}

	for i := pos + 1; i < size; i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i - pos + 1
		case '\n':
			return 0
		}
	}
	return 0
}

func (m *quotedValueMatcher) matchTriple(input []byte, pos, size int, quote byte) int {
	for i := pos + 3; i+2 < size; i++ {
		if input[i] == quote && input[i+1] == quote && input[i+2] == quote {
			return i + 3 - pos
		}
	}
	return 0
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
