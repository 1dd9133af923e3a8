package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/eval"
	"github.com/raphi011/gww/internal/uri"
)

// RuleError reports a source rule whose predicate could not be
// evaluated. It carries the rule name so the user knows which entry of
// the sources mapping to fix.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("source rule %q predicate: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Match returns the first source rule whose predicate holds for the
// repository URI, or nil when none matches. Rules are tried in the
// order they appear in the config file, so earlier rules shadow later
// ones.
func Match(cfg *config.Config, u *uri.URI, tags map[string]string) (*config.SourceRule, error) {
	return matchRule(cfg, eval.Funcs(&eval.Context{URI: u, Tags: tags}))
}

func matchRule(cfg *config.Config, funcs eval.Registry) (*config.SourceRule, error) {
	for i := range cfg.Sources {
		rule := &cfg.Sources[i]
		ok, err := eval.Predicate(rule.Predicate, funcs, nil)
		if err != nil {
			return nil, &RuleError{Rule: rule.Name, Err: err}
		}
		if ok {
			return rule, nil
		}
	}
	return nil, nil
}

// SourcePath resolves the directory a repository cloned from u belongs
// in. The first matching source rule supplies the template; a rule
// without a sources template, or no matching rule at all, falls back to
// default_sources. The result is absolute with a leading ~ expanded.
func SourcePath(cfg *config.Config, u *uri.URI, tags map[string]string) (string, error) {
	funcs := eval.Funcs(&eval.Context{URI: u, Tags: tags})

	rule, err := matchRule(cfg, funcs)
	if err != nil {
		return "", err
	}

	tmpl := cfg.DefaultSources
	if rule != nil && rule.Sources != "" {
		tmpl = rule.Sources
	}

	path, err := eval.Template(tmpl, funcs)
	if err != nil {
		return "", fmt.Errorf("source path template: %w", err)
	}
	return absPath(path)
}

// WorktreePath resolves the directory a new worktree for branch belongs
// in. Rule matching sees only the URI and tags; the branch is bound for
// the template expansion itself.
func WorktreePath(cfg *config.Config, u *uri.URI, branch string, tags map[string]string) (string, error) {
	rule, err := matchRule(cfg, eval.Funcs(&eval.Context{URI: u, Tags: tags}))
	if err != nil {
		return "", err
	}

	tmpl := cfg.DefaultWorktrees
	if rule != nil && rule.Worktrees != "" {
		tmpl = rule.Worktrees
	}

	funcs := eval.Funcs(&eval.Context{URI: u, Branch: branch, Tags: tags})
	path, err := eval.Template(tmpl, funcs)
	if err != nil {
		return "", fmt.Errorf("worktree path template: %w", err)
	}
	return absPath(path)
}

// absPath expands a leading ~ and makes the path absolute relative to
// the current working directory.
func absPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
