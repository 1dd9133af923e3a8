package eval

import (
	"fmt"
	"strconv"
)

// nodeKind identifies the shape of an expression AST node.
type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeIdent
	nodeUnary
	nodeBinary
	nodeCall
	nodeSubscript
	nodeList
)

// node is an expression AST node. Literal values live in val, ident and
// call names in name, operator text in op.
type node struct {
	kind     nodeKind
	val      any
	name     string
	op       string
	children []*node
}

// binaryPrecedence orders the infix operators, loosest binding first.
var binaryPrecedence = map[string]int{
	"or":     10,
	"and":    20,
	"==":     40,
	"!=":     40,
	"in":     40,
	"not in": 40,
}

// Unary operators bind tighter than the infix operators below them:
// "not a == b" parses as not (a == b), "-1 == x" as (-1) == x.
const (
	notPrecedence   = 30
	minusPrecedence = 50
)

type parser struct {
	tokens []token
	pos    int
}

// parseExpr lexes and parses one complete expression, rejecting
// trailing input.
func parseExpr(input string) (*node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	n, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %s %q at position %d", tok.kind, tok.text, tok.pos)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

// next consumes and returns the current token. The trailing EOF token
// is never consumed, so peek and next stay in bounds.
func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

// parseExpression parses with precedence climbing: operators binding
// looser than minPrec are left for the caller.
func (p *parser) parseExpression(minPrec int) (*node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, width, prec := p.peekBinary()
		if op == "" || prec < minPrec {
			return left, nil
		}
		p.pos += width

		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &node{kind: nodeBinary, op: op, children: []*node{left, right}}
	}
}

// peekBinary reports the infix operator at the cursor with its token
// width and precedence. "not in" spans two tokens; a bare infix "not"
// is not an operator.
func (p *parser) peekBinary() (op string, width, prec int) {
	tok := p.peek()
	if tok.kind != tokenOperator {
		return "", 0, 0
	}
	switch tok.text {
	case "not":
		next := p.tokens[p.pos+1]
		if next.kind == tokenOperator && next.text == "in" {
			return "not in", 2, binaryPrecedence["not in"]
		}
		return "", 0, 0
	case "==", "!=", "in", "and", "or":
		return tok.text, 1, binaryPrecedence[tok.text]
	}
	return "", 0, 0
}

func (p *parser) parseUnary() (*node, error) {
	tok := p.peek()
	if tok.kind == tokenOperator && (tok.text == "not" || tok.text == "-") {
		p.pos++
		prec := notPrecedence
		if tok.text == "-" {
			prec = minusPrecedence
		}
		operand, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeUnary, op: tok.text, children: []*node{operand}}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by call and
// subscript suffixes. Calls attach to identifiers only; the language
// has no other callables.
func (p *parser) parsePostfix() (*node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.kind == tokenLParen && left.kind == nodeIdent {
			p.pos++
			args, err := p.parseSequence(tokenRParen)
			if err != nil {
				return nil, err
			}
			left = &node{kind: nodeCall, name: left.name, children: args}
			continue
		}
		if tok.kind == tokenLBracket {
			p.pos++
			index, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if t := p.next(); t.kind != tokenRBracket {
				return nil, fmt.Errorf("expected ']' at position %d, found %s", t.pos, t.kind)
			}
			left = &node{kind: nodeSubscript, children: []*node{left, index}}
			continue
		}
		return left, nil
	}
}

func (p *parser) parsePrimary() (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenString:
		return &node{kind: nodeLiteral, val: tok.text}, nil
	case tokenInt:
		v, err := strconv.Atoi(tok.text)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q at position %d", tok.text, tok.pos)
		}
		return &node{kind: nodeLiteral, val: v}, nil
	case tokenBool:
		return &node{kind: nodeLiteral, val: tok.text == "true"}, nil
	case tokenIdent:
		return &node{kind: nodeIdent, name: tok.text}, nil
	case tokenLParen:
		n, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if t := p.next(); t.kind != tokenRParen {
			return nil, fmt.Errorf("expected ')' at position %d, found %s", t.pos, t.kind)
		}
		return n, nil
	case tokenLBracket:
		items, err := p.parseSequence(tokenRBracket)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeList, children: items}, nil
	case tokenEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %s %q at position %d", tok.kind, tok.text, tok.pos)
	}
}

// parseSequence parses comma-separated expressions up to the closing
// token, which is consumed.
func (p *parser) parseSequence(closer tokenKind) ([]*node, error) {
	var items []*node
	if p.peek().kind == closer {
		p.pos++
		return items, nil
	}
	for {
		item, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tok := p.next()
		if tok.kind == closer {
			return items, nil
		}
		if tok.kind != tokenComma {
			return nil, fmt.Errorf("expected ',' or %s at position %d, found %s", closer, tok.pos, tok.kind)
		}
	}
}
