package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports that no config file exists yet.
var ErrNotFound = errors.New("config file not found")

// ErrInvalid wraps every schema violation found while loading.
var ErrInvalid = errors.New("invalid config")

// ActionType names one of the supported project actions.
type ActionType string

const (
	ActionAbsCopy ActionType = "abs_copy"
	ActionRelCopy ActionType = "rel_copy"
	ActionCommand ActionType = "command"
)

// Action is one validated project action. Command actions carry the
// single command template in Args[0]; copy actions carry src and
// optional dst.
type Action struct {
	Type ActionType
	Args []string
}

// SourceRule routes repositories whose predicate matches to its
// templates. Sources and Worktrees are optional; an empty template
// falls back to the config default.
type SourceRule struct {
	Name      string
	Predicate string
	Sources   string
	Worktrees string
}

// ProjectRule runs actions after clone or worktree add when its
// predicate matches the repository.
type ProjectRule struct {
	Predicate  string
	AfterClone []Action
	AfterAdd   []Action
}

// Config is the validated gww configuration. Sources keeps the YAML
// declaration order, which decides rule precedence.
type Config struct {
	DefaultSources   string
	DefaultWorktrees string
	Sources          []SourceRule
	Projects         []ProjectRule
}

// SourceRule returns the named rule, or nil.
func (c *Config) SourceRule(name string) *SourceRule {
	for i := range c.Sources {
		if c.Sources[i].Name == name {
			return &c.Sources[i]
		}
	}
	return nil
}

// Path returns the config file location: gww/config.yml under the
// platform config directory (os.UserConfigDir).
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "gww", "config.yml"), nil
}

// Load reads and validates the config from the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config at path. A missing file is
// ErrNotFound so callers can suggest "gww init config".
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}
