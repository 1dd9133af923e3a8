// Package cmd provides helpers for executing external commands with proper error handling.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/gww/internal/log"
)

// Run executes a command and returns stderr in the error message if it fails
func Run(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return fmt.Errorf("%s", errMsg)
		}
		return err
	}
	return nil
}

// Output executes a command and returns stdout, with stderr in error if it fails
func Output(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return output, nil
}

// RunContext runs name with args in dir, honoring context cancellation.
// The invocation is echoed through the context logger in verbose mode.
// An empty dir runs the command in the current working directory.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	err := Run(c)
	done(time.Since(start))
	return err
}

// OutputContext runs name with args in dir and returns its stdout,
// honoring context cancellation. The invocation is echoed through the
// context logger in verbose mode.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	out, err := Output(c)
	done(time.Since(start))
	return out, err
}
