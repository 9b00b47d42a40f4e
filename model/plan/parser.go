package plan

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

// Parse parses one call expression in the format:
//
//	name(key="value", key2='value', key3="""multi
//	line value""")
//
// The argument body is located by matching the parenthesis that closes the
// call, so values may contain balanced parentheses. Argument values accept
// single, double, or triple quotes; triple-quoted values run to the first
// closing triple and keep their content verbatim, single and double quoted
// values are unescaped.
func Parse(text string) (*Call, error) {
	cursor := parsly.NewCursor("", []byte(strings.TrimSpace(text)), 0)

	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return nil, fmt.Errorf("expected call name: %w", cursor.NewError(identifierToken))
	}
	name := matched.Text(cursor)

	matched = cursor.MatchAfterOptional(whitespaceToken, openParenToken)
	if matched.Code != openParenToken.Code {
		return nil, fmt.Errorf("call %q: expected '(': %w", name, cursor.NewError(openParenToken))
	}

	var body string
	matched = cursor.MatchOne(callBodyToken)
	if matched.Code == callBodyToken.Code {
		body = matched.Text(cursor)
	}

	matched = cursor.MatchOne(closeParenToken)
	if matched.Code != closeParenToken.Code {
		return nil, fmt.Errorf("call %q: %w", name, ErrMismatchedDelimiters)
	}

	args, err := parseArgs(body)
	if err != nil {
		return nil, fmt.Errorf("call %q: %w", name, err)
	}
	return &Call{Name: name, Args: args, Raw: strings.TrimSpace(text)}, nil
}

// parseArgs scans the argument body for key=<quoted value> pairs. Text between
// pairs that matches no pair is skipped; a non-empty body producing no pair at
// all is malformed.
func parseArgs(body string) (map[string]string, error) {
	args := make(map[string]string)
	if strings.TrimSpace(body) == "" {
		return args, nil
	}

	cursor := parsly.NewCursor("", []byte(body), 0)
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
		if matched.Code == parsly.EOF {
			break
		}
		if matched.Code != identifierToken.Code {
			cursor.Pos++
			continue
		}
		key := matched.Text(cursor)

		matched = cursor.MatchAfterOptional(whitespaceToken, equalsToken)
		if matched.Code != equalsToken.Code {
			continue
		}

		matched = cursor.MatchAfterOptional(whitespaceToken, quotedValueToken)
		if matched.Code != quotedValueToken.Code {
			continue
		}
		args[key] = unquote(matched.Text(cursor))
	}

	if len(args) == 0 {
		return nil, ErrNoArgumentsParsed
	}
	return args, nil
}

// unquote strips the value delimiters. Triple-quoted content is kept verbatim;
// single and double quoted content has backslash-escaped newline and quote
// sequences decoded.
func unquote(raw string) string {
	if len(raw) >= 6 {
		if strings.HasPrefix(raw, `"""`) || strings.HasPrefix(raw, "'''") {
			return raw[3 : len(raw)-3]
		}
	}
	if len(raw) < 2 {
		return raw
	}
	return unescape(raw[1 : len(raw)-1])
}

func unescape(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' && i+1 < len(value) {
			switch value[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '"':
				b.WriteByte('"')
				i++
				continue
			case '\'':
				b.WriteByte('\'')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
