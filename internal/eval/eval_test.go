package eval

import (
	"errors"
	"testing"

	"github.com/raphi011/gww/internal/uri"
)

func mustParseURI(t *testing.T, s string) *uri.URI {
	t.Helper()
	u, err := uri.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", s, err)
	}
	return u
}

// TestTemplate verifies call substitution in path templates.
//
// Scenario: templates mix static text, function calls and escaped
// parentheses, evaluated against a URI/branch/tag context.
// Expected: each call is replaced by its result, static text and
// escaped parentheses pass through, repeated calls all substitute.
func TestTemplate(t *testing.T) {
	t.Parallel()

	ctx := &Context{
		URI:    mustParseURI(t, "https://github.com/user/repo.git"),
		Branch: "feature/new-ui",
		Tags:   map[string]string{"env": "dev", "flag": ""},
	}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{
			name: "static text only",
			tmpl: "~/sources/static",
			want: "~/sources/static",
		},
		{
			name: "host substitution",
			tmpl: "~/sources/host()/repo",
			want: "~/sources/github.com/repo",
		},
		{
			name: "path segments",
			tmpl: "~/sources/path(-2)/path(-1)",
			want: "~/sources/user/repo",
		},
		{
			name: "repeated call",
			tmpl: "path(-1)/path(-1)",
			want: "repo/repo",
		},
		{
			name: "tag value",
			tmpl: "~/sources/tag('env')/path(-1)",
			want: "~/sources/dev/repo",
		},
		{
			name: "missing tag is empty",
			tmpl: "x/tag('nope')/y",
			want: "x//y",
		},
		{
			name: "empty tag value",
			tmpl: "x/tag('flag')/y",
			want: "x//y",
		},
		{
			name: "norm_branch default separator",
			tmpl: "wt/norm_branch()",
			want: "wt/feature-new-ui",
		},
		{
			name: "norm_branch custom separator",
			tmpl: "wt/norm_branch('_')",
			want: "wt/feature_new_ui",
		},
		{
			name: "branch verbatim",
			tmpl: "wt/branch()",
			want: "wt/feature/new-ui",
		},
		{
			name: "escaped parentheses",
			tmpl: "a((b))c",
			want: "a(b)c",
		},
		{
			name: "call inside escaped parentheses",
			tmpl: "((host()))",
			want: "(github.com)",
		},
		{
			name: "whitespace before call parenthesis",
			tmpl: "x/host ()/y",
			want: "x/github.com/y",
		},
		{
			name: "boolean result renders lowercase",
			tmpl: "flags/tag_exist('env')",
			want: "flags/true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Template(tt.tmpl, Funcs(ctx))
			if err != nil {
				t.Fatalf("Template(%q) unexpected error: %v", tt.tmpl, err)
			}
			if got != tt.want {
				t.Errorf("Template(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

// TestTemplate_Errors verifies that failing calls surface as
// TemplateError with the underlying cause preserved.
func TestTemplate_Errors(t *testing.T) {
	t.Parallel()

	ctx := &Context{URI: mustParseURI(t, "https://github.com/user/repo.git")}

	tests := []struct {
		name  string
		tmpl  string
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown function",
			tmpl: "x/nope()/y",
			check: func(t *testing.T, err error) {
				var ue *UnknownFunctionError
				if !errors.As(err, &ue) {
					t.Fatalf("error = %v, want UnknownFunctionError", err)
				}
				if ue.Name != "nope" {
					t.Errorf("Name = %q, want %q", ue.Name, "nope")
				}
			},
		},
		{
			name: "missing branch context",
			tmpl: "x/branch()",
			check: func(t *testing.T, err error) {
				var me *MissingContextError
				if !errors.As(err, &me) {
					t.Fatalf("error = %v, want MissingContextError", err)
				}
				if me.Func != "branch" {
					t.Errorf("Func = %q, want %q", me.Func, "branch")
				}
			},
		},
		{
			name: "path index out of range",
			tmpl: "x/path(5)",
			check: func(t *testing.T, err error) {
				var ie *uri.IndexError
				if !errors.As(err, &ie) {
					t.Fatalf("error = %v, want uri.IndexError", err)
				}
				if ie.Index != 5 || ie.Count != 2 {
					t.Errorf("IndexError = %+v, want Index 5 Count 2", ie)
				}
			},
		},
		{
			name: "list result cannot substitute",
			tmpl: "x/path()",
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) {
					t.Fatalf("error = %v, want TypeError", err)
				}
			},
		},
		{
			name: "wrong arity",
			tmpl: "x/host('extra')",
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) {
					t.Fatalf("error = %v, want TypeError", err)
				}
			},
		},
		{
			name: "nested calls are not supported",
			tmpl: "x/tag(tag('env'))",
			check: func(t *testing.T, err error) {
				var te *TemplateError
				if !errors.As(err, &te) {
					t.Fatalf("error = %v, want TemplateError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Template(tt.tmpl, Funcs(ctx))
			if err == nil {
				t.Fatalf("Template(%q) expected error, got nil", tt.tmpl)
			}
			var te *TemplateError
			if !errors.As(err, &te) {
				t.Fatalf("Template(%q) error = %v, want TemplateError wrapper", tt.tmpl, err)
			}
			tt.check(t, err)
		})
	}
}

// TestPredicate verifies boolean expression evaluation.
//
// Scenario: routing predicates combine function calls, literals,
// membership tests and boolean operators.
// Expected: expressions evaluate with Python-like semantics over a
// closed grammar; and/or short-circuit; "in" means substring on
// strings and membership on lists.
func TestPredicate(t *testing.T) {
	t.Parallel()

	ctx := &Context{
		URI:    mustParseURI(t, "https://github.com/myorg/repo.git"),
		Branch: "main",
		Tags:   map[string]string{"env": "prod", "flag": ""},
	}

	tests := []struct {
		name string
		expr string
		vars map[string]any
		want bool
	}{
		{
			name: "substring in host",
			expr: `"github" in host()`,
			want: true,
		},
		{
			name: "substring not present",
			expr: `"gitlab" in host()`,
			want: false,
		},
		{
			name: "not in",
			expr: `"gitlab" not in host()`,
			want: true,
		},
		{
			name: "segment equality",
			expr: `path(0) == "myorg"`,
			want: true,
		},
		{
			name: "segment inequality",
			expr: `path(0) != "otherorg"`,
			want: true,
		},
		{
			name: "tag guard with value check",
			expr: `tag_exist('env') and tag('env') == 'prod'`,
			want: true,
		},
		{
			name: "negated tag probe",
			expr: `not tag_exist('missing')`,
			want: true,
		},
		{
			name: "empty tag still exists",
			expr: `tag_exist('flag') and tag('flag') == ''`,
			want: true,
		},
		{
			name: "protocol alternatives",
			expr: `protocol() == 'ssh' or protocol() == 'https'`,
			want: true,
		},
		{
			name: "list membership",
			expr: `path(-1) in ['repo', 'other']`,
			want: true,
		},
		{
			name: "list membership miss",
			expr: `path(-1) in ['x', 'y']`,
			want: false,
		},
		{
			name: "subscript with negative index",
			expr: `path()[-1] == 'repo'`,
			want: true,
		},
		{
			name: "or binds looser than and",
			expr: `tag_exist('env') or tag_exist('env') and tag_exist('missing')`,
			want: true,
		},
		{
			name: "not binds tighter than in chain",
			expr: `not 'hub' in host()`,
			want: false,
		},
		{
			name: "short-circuit and skips right side",
			expr: `tag_exist('missing') and branch()`,
			want: false,
		},
		{
			name: "short-circuit or skips right side",
			expr: `tag_exist('env') or branch()`,
			want: true,
		},
		{
			name: "grouping overrides precedence",
			expr: `(tag_exist('env') or tag_exist('missing')) and tag_exist('flag')`,
			want: true,
		},
		{
			name: "boolean literal",
			expr: `true`,
			want: true,
		},
		{
			name: "bare variable",
			expr: `flagged`,
			vars: map[string]any{"flagged": true},
			want: true,
		},
		{
			name: "variable comparison",
			expr: `count == 2`,
			vars: map[string]any{"count": 2},
			want: true,
		},
		{
			name: "negative literal comparison",
			expr: `count == -1`,
			vars: map[string]any{"count": -1},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Predicate(tt.expr, Funcs(ctx), tt.vars)
			if err != nil {
				t.Fatalf("Predicate(%q) unexpected error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Predicate(%q) = %t, want %t", tt.expr, got, tt.want)
			}
		})
	}
}

// TestPredicate_Errors verifies rejection of non-boolean results,
// unknown names and type mismatches.
func TestPredicate_Errors(t *testing.T) {
	t.Parallel()

	ctx := &Context{
		URI:  mustParseURI(t, "https://github.com/myorg/repo.git"),
		Tags: map[string]string{"env": "prod"},
	}

	tests := []struct {
		name  string
		expr  string
		check func(t *testing.T, err error)
	}{
		{
			name: "string result is not a predicate",
			expr: `'x'`,
			check: func(t *testing.T, err error) {
				var ne *NonBooleanError
				if !errors.As(err, &ne) {
					t.Fatalf("error = %v, want NonBooleanError", err)
				}
			},
		},
		{
			name: "call result is not boolean",
			expr: `host()`,
			check: func(t *testing.T, err error) {
				var ne *NonBooleanError
				if !errors.As(err, &ne) {
					t.Fatalf("error = %v, want NonBooleanError", err)
				}
			},
		},
		{
			name: "unknown variable",
			expr: `flagged`,
			check: func(t *testing.T, err error) {
				var ue *UnknownVariableError
				if !errors.As(err, &ue) {
					t.Fatalf("error = %v, want UnknownVariableError", err)
				}
			},
		},
		{
			name: "unknown function",
			expr: `nope()`,
			check: func(t *testing.T, err error) {
				var ue *UnknownFunctionError
				if !errors.As(err, &ue) {
					t.Fatalf("error = %v, want UnknownFunctionError", err)
				}
			},
		},
		{
			name: "and requires booleans",
			expr: `tag('env') and true`,
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) {
					t.Fatalf("error = %v, want TypeError", err)
				}
			},
		},
		{
			name: "not requires boolean",
			expr: `not 'x'`,
			check: func(t *testing.T, err error) {
				var te *TypeError
				if !errors.As(err, &te) {
					t.Fatalf("error = %v, want TypeError", err)
				}
			},
		},
		{
			name: "ordering comparison is not supported",
			expr: `1 < 2`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected error")
				}
			},
		},
		{
			name: "unterminated string",
			expr: `'abc`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected error")
				}
			},
		},
		{
			name: "dangling operator",
			expr: `tag_exist('env') and`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Predicate(tt.expr, Funcs(ctx), nil)
			if err == nil {
				t.Fatalf("Predicate(%q) expected error, got nil", tt.expr)
			}
			tt.check(t, err)
		})
	}
}
