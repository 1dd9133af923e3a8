package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/log"
)

// ActionError reports a project action that failed.
type ActionError struct {
	Type config.ActionType
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Execute runs acts in order against targetDir, stopping at the first
// failure. sourceDir is the repository rel_copy reads from and is empty
// for clone runs. The count of completed actions is returned alongside
// any failure.
func Execute(ctx context.Context, acts []config.Action, sourceDir, targetDir string) (int, error) {
	for i, act := range acts {
		if err := run(ctx, act, sourceDir, targetDir); err != nil {
			return i, &ActionError{Type: act.Type, Err: err}
		}
	}
	return len(acts), nil
}

func run(ctx context.Context, act config.Action, sourceDir, targetDir string) error {
	switch act.Type {
	case config.ActionAbsCopy:
		if len(act.Args) < 2 {
			return errors.New("abs_copy requires source and destination arguments")
		}
		src, err := expandHome(act.Args[0])
		if err != nil {
			return err
		}
		return copyFile(src, filepath.Join(targetDir, act.Args[1]))

	case config.ActionRelCopy:
		if len(act.Args) < 1 {
			return errors.New("rel_copy requires a source argument")
		}
		if sourceDir == "" {
			return errors.New("rel_copy requires a source repository")
		}
		dst := act.Args[0]
		if len(act.Args) > 1 {
			dst = act.Args[1]
		}
		return copyFile(filepath.Join(sourceDir, act.Args[0]), filepath.Join(targetDir, dst))

	case config.ActionCommand:
		if len(act.Args) == 0 {
			return errors.New("command requires a command name")
		}
		return runCommand(ctx, act.Args, targetDir)
	}
	return fmt.Errorf("unknown action type %q", act.Type)
}

// copyFile copies src to dst, creating parent directories and carrying
// over the permission bits and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("source file not found: %s", src)
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source is not a file: %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, time.Now(), info.ModTime())
}

// runCommand runs an argv with targetDir as the working directory.
// Stdout is discarded; stderr feeds the error message.
func runCommand(ctx context.Context, argv []string, dir string) error {
	done := log.FromContext(ctx).Command(dir, argv[0], argv[1:]...)
	start := time.Now()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Dir = dir
	var stderr bytes.Buffer
	c.Stderr = &stderr
	err := c.Run()
	done(time.Since(start))

	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := fmt.Sprintf("%s failed with exit code %d", strings.Join(argv, " "), exitErr.ExitCode())
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return errors.New(msg)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("command not found: %s", argv[0])
	}
	return err
}

// expandHome expands a leading ~ in an abs_copy source path.
func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
