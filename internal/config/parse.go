package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawConfig mirrors the YAML document before validation. The sources
// and projects sections stay as nodes: sources so the mapping order
// survives decoding, projects so validation errors can name the rule
// index.
type rawConfig struct {
	DefaultSources   *string   `yaml:"default_sources"`
	DefaultWorktrees *string   `yaml:"default_worktrees"`
	Sources          yaml.Node `yaml:"sources"`
	Projects         yaml.Node `yaml:"projects"`
}

type rawSourceRule struct {
	Predicate *string `yaml:"predicate"`
	Sources   *string `yaml:"sources"`
	Worktrees *string `yaml:"worktrees"`
}

type rawProjectRule struct {
	Predicate  *string   `yaml:"predicate"`
	AfterClone yaml.Node `yaml:"after_clone"`
	AfterAdd   yaml.Node `yaml:"after_add"`
}

// Parse unmarshals and validates one config document.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	cfg := &Config{}
	var err error
	if cfg.DefaultSources, err = requiredString(raw.DefaultSources, "default_sources"); err != nil {
		return nil, err
	}
	if cfg.DefaultWorktrees, err = requiredString(raw.DefaultWorktrees, "default_worktrees"); err != nil {
		return nil, err
	}
	if cfg.Sources, err = parseSources(&raw.Sources); err != nil {
		return nil, err
	}
	if cfg.Projects, err = parseProjects(&raw.Projects); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSources(node *yaml.Node) ([]SourceRule, error) {
	node = deref(node)
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: sources must be a mapping of rule names", ErrInvalid)
	}

	seen := map[string]bool{}
	rules := make([]SourceRule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if seen[name] {
			return nil, fmt.Errorf("%w: sources: duplicate rule name %q", ErrInvalid, name)
		}
		seen[name] = true

		var rr rawSourceRule
		if err := node.Content[i+1].Decode(&rr); err != nil {
			return nil, fmt.Errorf("%w: sources.%s: %v", ErrInvalid, name, err)
		}

		rule := SourceRule{Name: name}
		var err error
		if rule.Predicate, err = requiredString(rr.Predicate, "sources."+name+".predicate"); err != nil {
			return nil, err
		}
		if rule.Sources, err = optionalString(rr.Sources, "sources."+name+".sources"); err != nil {
			return nil, err
		}
		if rule.Worktrees, err = optionalString(rr.Worktrees, "sources."+name+".worktrees"); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseProjects(node *yaml.Node) ([]ProjectRule, error) {
	node = deref(node)
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: projects must be a list", ErrInvalid)
	}

	rules := make([]ProjectRule, 0, len(node.Content))
	for i, item := range node.Content {
		path := fmt.Sprintf("projects[%d]", i)

		var rp rawProjectRule
		if err := item.Decode(&rp); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}

		rule := ProjectRule{}
		var err error
		if rule.Predicate, err = requiredString(rp.Predicate, path+".predicate"); err != nil {
			return nil, err
		}
		if rule.AfterClone, err = parseActions(&rp.AfterClone, path+".after_clone"); err != nil {
			return nil, err
		}
		if rule.AfterAdd, err = parseActions(&rp.AfterAdd, path+".after_add"); err != nil {
			return nil, err
		}
		if len(rule.AfterClone) == 0 && len(rule.AfterAdd) == 0 {
			return nil, fmt.Errorf("%w: %s must declare after_clone or after_add actions", ErrInvalid, path)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseActions(node *yaml.Node, path string) ([]Action, error) {
	node = deref(node)
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s must be a list", ErrInvalid, path)
	}

	actions := make([]Action, 0, len(node.Content))
	for i, item := range node.Content {
		act, err := parseAction(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}
	return actions, nil
}

// parseAction decodes one single-key action mapping like
// "- command: npm install" or "- rel_copy: [.env, .env.local]".
func parseAction(node *yaml.Node, path string) (Action, error) {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return Action{}, fmt.Errorf("%w: %s: action must be a mapping", ErrInvalid, path)
	}
	if len(node.Content) != 2 {
		return Action{}, fmt.Errorf("%w: %s: action must have exactly one key", ErrInvalid, path)
	}

	typ := ActionType(node.Content[0].Value)
	val := deref(node.Content[1])

	switch typ {
	case ActionCommand:
		var cmd string
		if val == nil || val.Kind != yaml.ScalarNode {
			return Action{}, fmt.Errorf("%w: %s: command must be a single string", ErrInvalid, path)
		}
		if err := val.Decode(&cmd); err != nil {
			return Action{}, fmt.Errorf("%w: %s: command must be a single string", ErrInvalid, path)
		}
		if isBlank(cmd) {
			return Action{}, fmt.Errorf("%w: %s: command cannot be empty", ErrInvalid, path)
		}
		return Action{Type: typ, Args: []string{cmd}}, nil

	case ActionAbsCopy, ActionRelCopy:
		var args []string
		switch {
		case val != nil && val.Kind == yaml.ScalarNode:
			var s string
			if err := val.Decode(&s); err != nil {
				return Action{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			args = []string{s}
		case val != nil && val.Kind == yaml.SequenceNode:
			if err := val.Decode(&args); err != nil {
				return Action{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
		default:
			return Action{}, fmt.Errorf("%w: %s: arguments must be a string or list of strings", ErrInvalid, path)
		}
		return Action{Type: typ, Args: args}, nil

	default:
		return Action{}, fmt.Errorf("%w: %s: unknown action type %q (want abs_copy, rel_copy or command)", ErrInvalid, path, typ)
	}
}

// deref follows alias nodes and reports absent sections as nil.
func deref(node *yaml.Node) *yaml.Node {
	if node == nil || node.IsZero() {
		return nil
	}
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return deref(node.Alias)
	}
	// An explicit null (e.g. "sources:") decodes as a !!null scalar.
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	return node
}
