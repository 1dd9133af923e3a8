package actions

import (
	"fmt"

	"mvdan.cc/sh/v3/shell"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/eval"
)

// MatcherError reports a project rule that could not be evaluated.
// Project rules are anonymous, so the index in the projects list is the
// handle the user has.
type MatcherError struct {
	Rule int
	Err  error
}

func (e *MatcherError) Error() string {
	return fmt.Sprintf("project rule %d: %v", e.Rule, e.Err)
}

func (e *MatcherError) Unwrap() error { return e.Err }

// MatchProjects returns every project rule whose predicate holds for
// the repository at sourceDir, in declaration order.
func MatchProjects(rules []config.ProjectRule, sourceDir, destDir string, tags map[string]string) ([]config.ProjectRule, error) {
	funcs := eval.ProjectFuncs(projectContext(sourceDir, destDir, tags))

	var matched []config.ProjectRule
	for i := range rules {
		ok, err := eval.Predicate(rules[i].Predicate, funcs, nil)
		if err != nil {
			return nil, &MatcherError{Rule: i, Err: err}
		}
		if ok {
			matched = append(matched, rules[i])
		}
	}
	return matched, nil
}

// CloneActions collects the after_clone actions of every matching
// project rule for a freshly cloned repository. Command actions come
// back with their argv already evaluated and split.
func CloneActions(rules []config.ProjectRule, sourceDir string, tags map[string]string) ([]config.Action, error) {
	return collect(rules, projectContext(sourceDir, "", tags), func(r *config.ProjectRule) []config.Action {
		return r.AfterClone
	})
}

// AddActions collects the after_add actions of every matching project
// rule for a new worktree at destDir.
func AddActions(rules []config.ProjectRule, sourceDir, destDir string, tags map[string]string) ([]config.Action, error) {
	return collect(rules, projectContext(sourceDir, destDir, tags), func(r *config.ProjectRule) []config.Action {
		return r.AfterAdd
	})
}

func collect(rules []config.ProjectRule, ctx *eval.Context, list func(*config.ProjectRule) []config.Action) ([]config.Action, error) {
	funcs := eval.ProjectFuncs(ctx)

	var out []config.Action
	for i := range rules {
		ok, err := eval.Predicate(rules[i].Predicate, funcs, nil)
		if err != nil {
			return nil, &MatcherError{Rule: i, Err: err}
		}
		if !ok {
			continue
		}
		for _, act := range list(&rules[i]) {
			if act.Type != config.ActionCommand {
				out = append(out, act)
				continue
			}
			argv, err := commandArgv(act.Args[0], funcs)
			if err != nil {
				return nil, &MatcherError{Rule: i, Err: err}
			}
			out = append(out, config.Action{Type: act.Type, Args: argv})
		}
	}
	return out, nil
}

// commandArgv expands template calls inside a command string and splits
// the result into an argv with POSIX shell word rules. $VAR and ~
// resolve from the process environment; the argv runs without a shell,
// so command substitution fails here rather than silently at run time.
func commandArgv(command string, funcs eval.Registry) ([]string, error) {
	evaluated, err := eval.Template(command, funcs)
	if err != nil {
		return nil, err
	}
	argv, err := shell.Fields(evaluated, nil)
	if err != nil {
		return nil, fmt.Errorf("split command %q: %w", evaluated, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command %q is empty after evaluation", command)
	}
	return argv, nil
}

// projectContext binds the evaluation context for project rules. The
// source repository backs both source_path() and relative probe paths;
// during clone runs there is no separate destination yet, so
// dest_path() falls back to the source.
func projectContext(sourceDir, destDir string, tags map[string]string) *eval.Context {
	return &eval.Context{
		Tags:      tags,
		SourceDir: sourceDir,
		DestDir:   destDir,
		WorkRoot:  sourceDir,
	}
}
