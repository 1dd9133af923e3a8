package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/eval"
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

func testConfig() *config.Config {
	return &config.Config{
		DefaultSources:   "/srv/sources/path(-2)/path(-1)",
		DefaultWorktrees: "/srv/worktrees/path(-1)/norm_branch()",
		Sources: []config.SourceRule{
			{
				Name:      "github",
				Predicate: "'github' in host()",
				Sources:   "/srv/github/path(-2)/path(-1)",
				Worktrees: "/srv/github-wt/path(-1)/norm_branch()",
			},
			{
				Name:      "gitlab",
				Predicate: "host() == 'gitlab.com'",
				Sources:   "/srv/gitlab/path(-1)",
			},
			{
				Name:      "work",
				Predicate: "tag_exist('work')",
				Sources:   "/srv/work/path(-1)",
			},
		},
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	tests := []struct {
		name string
		uri  string
		tags map[string]string
		want string // matched rule name, "" for no match
	}{
		{
			name: "first rule",
			uri:  "git@github.com:user/repo.git",
			want: "github",
		},
		{
			name: "later rule",
			uri:  "https://gitlab.com/group/proj.git",
			want: "gitlab",
		},
		{
			name: "tag routes to work rule",
			uri:  "git@example.com:corp/api.git",
			tags: map[string]string{"work": ""},
			want: "work",
		},
		{
			name: "no rule matches",
			uri:  "git@example.com:corp/api.git",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule, err := Match(cfg, mustParseURI(t, tt.uri), tt.tags)
			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}

			got := ""
			if rule != nil {
				got = rule.Name
			}
			if got != tt.want {
				t.Errorf("Match() rule = %q, want %q", got, tt.want)
			}
		})
	}
}

// Scenario: a repository URI satisfies the predicates of two rules.
// Expected: the rule declared first in the sources mapping wins.
func TestMatch_DeclarationOrder(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultSources:   "/srv/sources/path(-1)",
		DefaultWorktrees: "/srv/worktrees/path(-1)",
		Sources: []config.SourceRule{
			{Name: "broad", Predicate: "'.' in host()", Sources: "/broad/path(-1)"},
			{Name: "narrow", Predicate: "'github' in host()", Sources: "/narrow/path(-1)"},
		},
	}

	rule, err := Match(cfg, mustParseURI(t, "git@github.com:user/repo.git"), nil)
	if err != nil {
		t.Fatalf("Match() unexpected error: %v", err)
	}
	if rule == nil || rule.Name != "broad" {
		t.Errorf("Match() rule = %+v, want broad", rule)
	}
}

func TestMatch_PredicateError(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultSources:   "/srv/sources/path(-1)",
		DefaultWorktrees: "/srv/worktrees/path(-1)",
		Sources: []config.SourceRule{
			{Name: "broken", Predicate: "hots() == 'github.com'", Sources: "/x/path(-1)"},
		},
	}

	_, err := Match(cfg, mustParseURI(t, "git@github.com:user/repo.git"), nil)

	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("Match() error = %v, want *RuleError", err)
	}
	if ruleErr.Rule != "broken" {
		t.Errorf("RuleError.Rule = %q, want %q", ruleErr.Rule, "broken")
	}

	var unknown *eval.UnknownFunctionError
	if !errors.As(err, &unknown) {
		t.Errorf("error %v does not wrap UnknownFunctionError", err)
	}
}

func TestSourcePath(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	tests := []struct {
		name string
		uri  string
		tags map[string]string
		want string
	}{
		{
			name: "matching rule template",
			uri:  "git@github.com:user/repo.git",
			want: "/srv/github/user/repo",
		},
		{
			name: "later rule template",
			uri:  "https://gitlab.com/group/proj.git",
			want: "/srv/gitlab/proj",
		},
		{
			name: "no match falls back to default",
			uri:  "git@example.com:corp/api.git",
			want: "/srv/sources/corp/api",
		},
		{
			name: "tagged repo routes to work rule",
			uri:  "git@example.com:corp/api.git",
			tags: map[string]string{"work": ""},
			want: "/srv/work/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SourcePath(cfg, mustParseURI(t, tt.uri), tt.tags)
			if err != nil {
				t.Fatalf("SourcePath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SourcePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Scenario: the matching rule pins worktrees but carries no sources
// template.
// Expected: the source path falls back to default_sources.
func TestSourcePath_RuleWithoutTemplate(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultSources:   "/srv/sources/path(-2)/path(-1)",
		DefaultWorktrees: "/srv/worktrees/path(-1)",
		Sources: []config.SourceRule{
			{Name: "github", Predicate: "'github' in host()", Worktrees: "/fast/path(-1)"},
		},
	}

	got, err := SourcePath(cfg, mustParseURI(t, "git@github.com:user/repo.git"), nil)
	if err != nil {
		t.Fatalf("SourcePath() unexpected error: %v", err)
	}
	if want := "/srv/sources/user/repo"; got != want {
		t.Errorf("SourcePath() = %q, want %q", got, want)
	}
}

func TestSourcePath_RelativeTemplate(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultSources:   "src/host()",
		DefaultWorktrees: "worktrees/host()",
	}

	got, err := SourcePath(cfg, mustParseURI(t, "git@github.com:user/repo.git"), nil)
	if err != nil {
		t.Fatalf("SourcePath() unexpected error: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() unexpected error: %v", err)
	}
	if want := filepath.Join(cwd, "src", "github.com"); got != want {
		t.Errorf("SourcePath() = %q, want %q", got, want)
	}
}

// Cannot use t.Parallel() — t.Setenv mutates process env.
func TestSourcePath_TildeExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/dev")

	cfg := &config.Config{
		DefaultSources:   "~/sources/path(-1)",
		DefaultWorktrees: "~/worktrees/path(-1)",
	}

	got, err := SourcePath(cfg, mustParseURI(t, "git@github.com:user/repo.git"), nil)
	if err != nil {
		t.Fatalf("SourcePath() unexpected error: %v", err)
	}
	if want := "/home/dev/sources/repo"; got != want {
		t.Errorf("SourcePath() = %q, want %q", got, want)
	}
}

func TestSourcePath_TemplateError(t *testing.T) {
	t.Parallel()

	// norm_branch() needs a branch, which clone resolution never has.
	cfg := &config.Config{
		DefaultSources:   "/srv/sources/norm_branch()",
		DefaultWorktrees: "/srv/worktrees/path(-1)",
	}

	_, err := SourcePath(cfg, mustParseURI(t, "git@github.com:user/repo.git"), nil)

	var tmplErr *eval.TemplateError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("SourcePath() error = %v, want *eval.TemplateError", err)
	}
	var missing *eval.MissingContextError
	if !errors.As(err, &missing) {
		t.Fatalf("error %v does not wrap MissingContextError", err)
	}
	if missing.Func != "norm_branch" {
		t.Errorf("MissingContextError.Func = %q, want %q", missing.Func, "norm_branch")
	}
}

func TestWorktreePath(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	tests := []struct {
		name   string
		uri    string
		branch string
		want   string
	}{
		{
			name:   "matching rule template",
			uri:    "git@github.com:user/repo.git",
			branch: "feature/new-ui",
			want:   "/srv/github-wt/repo/feature-new-ui",
		},
		{
			name:   "rule without worktrees falls back to default",
			uri:    "https://gitlab.com/group/proj.git",
			branch: "main",
			want:   "/srv/worktrees/proj/main",
		},
		{
			name:   "no match falls back to default",
			uri:    "git@example.com:corp/api.git",
			branch: "fix/bug-1",
			want:   "/srv/worktrees/api/fix-bug-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := WorktreePath(cfg, mustParseURI(t, tt.uri), tt.branch, nil)
			if err != nil {
				t.Fatalf("WorktreePath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WorktreePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Scenario: a predicate calls branch(), which is only bound during
// template expansion.
// Expected: rule matching fails with the rule's name attached.
func TestWorktreePath_BranchInPredicate(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultSources:   "/srv/sources/path(-1)",
		DefaultWorktrees: "/srv/worktrees/path(-1)",
		Sources: []config.SourceRule{
			{Name: "main-only", Predicate: "branch() == 'main'", Worktrees: "/x/path(-1)"},
		},
	}

	_, err := WorktreePath(cfg, mustParseURI(t, "git@github.com:user/repo.git"), "main", nil)

	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("WorktreePath() error = %v, want *RuleError", err)
	}
	if ruleErr.Rule != "main-only" {
		t.Errorf("RuleError.Rule = %q, want %q", ruleErr.Rule, "main-only")
	}
	var missing *eval.MissingContextError
	if !errors.As(err, &missing) {
		t.Errorf("error %v does not wrap MissingContextError", err)
	}
}
