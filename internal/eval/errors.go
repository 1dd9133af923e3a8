package eval

import "fmt"

// TemplateError wraps a failure while expanding one embedded expression
// of a path template.
type TemplateError struct {
	Expr string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template expression %q: %v", e.Expr, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// NonBooleanError reports a predicate that evaluated to something other
// than a boolean. Truthiness is never coerced.
type NonBooleanError struct {
	Predicate string
	Result    any
}

func (e *NonBooleanError) Error() string {
	return fmt.Sprintf("predicate must evaluate to boolean, got %s: %s", typeName(e.Result), e.Predicate)
}

// UnknownFunctionError reports a call to a function the registry does
// not define.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// UnknownVariableError reports an identifier with no bound value.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// MissingContextError reports a context function called while the field
// it reads is absent, e.g. branch() during a clone-only evaluation.
type MissingContextError struct {
	Func  string
	Field string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("no %s context available for %s()", e.Field, e.Func)
}

// TypeError reports an operator or function applied to the wrong kind
// or number of values.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

func typeErrorf(format string, args ...any) error {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

// typeName names a value's type in user-facing errors.
func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []any:
		return "list"
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
