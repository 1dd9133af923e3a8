package eval

import (
	"fmt"
	"strings"
)

// tokenKind identifies the lexical class of a token.
type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenString
	tokenInt
	tokenBool
	tokenIdent
	tokenOperator
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

var tokenKindNames = [...]string{
	tokenEOF:      "end of expression",
	tokenString:   "string",
	tokenInt:      "integer",
	tokenBool:     "boolean",
	tokenIdent:    "identifier",
	tokenOperator: "operator",
	tokenLParen:   "'('",
	tokenRParen:   "')'",
	tokenLBracket: "'['",
	tokenRBracket: "']'",
	tokenComma:    "','",
}

func (k tokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("tokenKind(%d)", int(k))
}

// token is one lexical element of an expression. String tokens carry
// their unescaped value in text; all others carry source text.
type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits an expression into tokens, ending with a tokenEOF entry.
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++
		case c == '[':
			tokens = append(tokens, token{tokenLBracket, "[", i})
			i++
		case c == ']':
			tokens = append(tokens, token{tokenRBracket, "]", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ",", i})
			i++
		case c == '-':
			tokens = append(tokens, token{tokenOperator, "-", i})
			i++
		case c == '\'' || c == '"':
			value, next, err := lexString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{tokenString, value, i})
			i = next
		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenOperator, "==", i})
				i += 2
				break
			}
			return nil, fmt.Errorf("unexpected character '=' at position %d", i)
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenOperator, "!=", i})
				i += 2
				break
			}
			return nil, fmt.Errorf("unexpected character '!' at position %d", i)
		case isDigit(c):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			tokens = append(tokens, token{tokenInt, input[start:i], start})
		case isAlpha(c) || c == '_':
			start := i
			for i < len(input) && (isAlpha(input[i]) || isDigit(input[i]) || input[i] == '_') {
				i++
			}
			word := input[start:i]
			switch word {
			case "and", "or", "not", "in":
				tokens = append(tokens, token{tokenOperator, word, start})
			case "true", "True":
				tokens = append(tokens, token{tokenBool, "true", start})
			case "false", "False":
				tokens = append(tokens, token{tokenBool, "false", start})
			default:
				tokens = append(tokens, token{tokenIdent, word, start})
			}
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(input)})
	return tokens, nil
}

// lexString scans a quoted string literal starting at input[start] and
// returns its unescaped value and the position after the closing quote.
func lexString(input string, start int) (value string, next int, err error) {
	quote := input[start]
	var b strings.Builder
	i := start + 1
	for i < len(input) {
		c := input[i]
		if c == quote {
			return b.String(), i + 1, nil
		}
		if c == '\\' && i+1 < len(input) {
			switch input[i+1] {
			case '\'':
				b.WriteByte('\'')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte('\\')
				b.WriteByte(input[i+1])
			}
			i += 2
			continue
		}
		b.WriteByte(c)
		i++
	}
	return "", 0, fmt.Errorf("unterminated string literal at position %d", start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
