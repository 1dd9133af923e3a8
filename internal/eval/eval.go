package eval

import (
	"fmt"
	"regexp"
	"strings"
)

// Doubled parentheses are swapped for these sentinels before call
// extraction so the extraction regex never sees them.
const (
	escapeOpen  = "\x00ESCAPE_OPEN\x00"
	escapeClose = "\x00ESCAPE_CLOSE\x00"
)

// funcCallRegex matches one function call with no nested parentheses.
// Extraction runs it to a fixpoint, innermost calls first.
var funcCallRegex = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*\(([^()]*)\)`)

// extracted is one function call pulled out of a template.
type extracted struct {
	placeholder string
	expr        string
}

// Template evaluates every function call embedded in tmpl against
// funcs and substitutes the results in place. Text outside calls
// passes through verbatim; (( and )) render as literal parentheses.
//
// Results substitute as text: strings as-is, integers in decimal,
// booleans as "true"/"false". A list result has no text form and
// fails the evaluation.
func Template(tmpl string, funcs Registry) (string, error) {
	processed, calls := extractCalls(tmpl)

	for _, c := range calls {
		v, err := evalString(c.expr, funcs, nil)
		if err != nil {
			return "", &TemplateError{Expr: c.expr, Err: err}
		}
		s, err := stringify(v)
		if err != nil {
			return "", &TemplateError{Expr: c.expr, Err: err}
		}
		processed = strings.ReplaceAll(processed, c.placeholder, s)
	}

	processed = strings.ReplaceAll(processed, escapeOpen, "(")
	processed = strings.ReplaceAll(processed, escapeClose, ")")
	return processed, nil
}

// extractCalls replaces each function call in tmpl with a unique
// placeholder and records the call expression. Escaped parentheses
// are swapped out first so they cannot terminate a call.
func extractCalls(tmpl string) (string, []extracted) {
	processed := strings.ReplaceAll(tmpl, "((", escapeOpen)
	processed = strings.ReplaceAll(processed, "))", escapeClose)

	var calls []extracted
	for {
		prev := processed
		processed = funcCallRegex.ReplaceAllStringFunc(processed, func(m string) string {
			groups := funcCallRegex.FindStringSubmatch(m)
			placeholder := fmt.Sprintf("\x01FUNC_%d\x01", len(calls))
			calls = append(calls, extracted{
				placeholder: placeholder,
				expr:        groups[1] + "(" + groups[2] + ")",
			})
			return placeholder
		})
		if processed == prev {
			return processed, calls
		}
	}
}

// Predicate evaluates expr and requires a boolean result. Function
// calls resolve through funcs, bare identifiers through vars; the
// two namespaces are independent.
func Predicate(expr string, funcs Registry, vars map[string]any) (bool, error) {
	v, err := evalString(expr, funcs, vars)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &NonBooleanError{Predicate: expr, Result: v}
	}
	return b, nil
}

func evalString(expr string, funcs Registry, vars map[string]any) (any, error) {
	n, err := parseExpr(expr)
	if err != nil {
		return nil, err
	}
	in := &interp{funcs: funcs, vars: vars}
	return in.eval(n)
}
