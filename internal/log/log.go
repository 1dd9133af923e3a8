// Package log provides context-aware diagnostic logging for gww.
// Diagnostics go to stderr; primary data output is the output package's job.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

type ctxKey struct{}

// Logger writes diagnostics, honoring the --verbose and --quiet flags.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

// New creates a new logger.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted diagnostics. Suppressed by --quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a diagnostic line. Suppressed by --quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Debug writes a message followed by key=value pairs, verbose mode only.
// An unpaired trailing key is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.verbose || l.quiet {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Command logs an external command invocation, verbose mode only.
// The returned func logs the line together with the elapsed time;
// call it when the command finishes.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.verbose || l.quiet {
		return func(time.Duration) {}
	}
	var b strings.Builder
	if dir != "" {
		fmt.Fprintf(&b, "[%s] ", dir)
	}
	b.WriteString("$ " + name)
	if len(args) > 0 {
		b.WriteString(" " + strings.Join(args, " "))
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s (%s)\n", b.String(), d)
	}
}

// IsVerbose reports whether verbose diagnostics are enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
