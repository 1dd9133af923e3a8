package eval

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/gww/internal/uri"
)

// Func is a template function callable from expressions. Arguments
// arrive already evaluated.
type Func func(args []any) (any, error)

// Registry maps function names to their implementations for one
// evaluation.
type Registry map[string]Func

// Context carries the data template functions read. Every field is
// optional; zero values mean the field is absent. Functions that need
// an absent field return a MissingContextError, except the tag
// functions and source_path, which tolerate absence.
//
// Contexts are cheap and immutable by convention. Build a fresh one
// per evaluation instead of sharing.
type Context struct {
	// URI backs host(), port(), protocol(), uri() and path().
	URI *uri.URI

	// Branch backs branch() and norm_branch().
	Branch string

	// Tags backs tag() and tag_exist(). A key present with an empty
	// value is distinct from an absent key.
	Tags map[string]string

	// SourceDir is the repository path the filesystem probes resolve
	// relative paths against.
	SourceDir string

	// DestDir is the clone target or worktree path, when known.
	// dest_path() falls back to SourceDir without it.
	DestDir string

	// WorkRoot is the repository or worktree root containing the
	// working directory, empty when outside one. Callers detect it
	// up front so evaluation itself never shells out.
	WorkRoot string
}

// Funcs builds the base registry: URI, branch and tag functions.
func Funcs(ctx *Context) Registry {
	r := Registry{}

	r["host"] = func(args []any) (any, error) {
		if err := noArgs("host", args); err != nil {
			return nil, err
		}
		if ctx.URI == nil {
			return nil, &MissingContextError{Func: "host", Field: "URI"}
		}
		return ctx.URI.Host, nil
	}
	r["port"] = func(args []any) (any, error) {
		if err := noArgs("port", args); err != nil {
			return nil, err
		}
		if ctx.URI == nil {
			return nil, &MissingContextError{Func: "port", Field: "URI"}
		}
		return ctx.URI.Port, nil
	}
	r["protocol"] = func(args []any) (any, error) {
		if err := noArgs("protocol", args); err != nil {
			return nil, err
		}
		if ctx.URI == nil {
			return nil, &MissingContextError{Func: "protocol", Field: "URI"}
		}
		return ctx.URI.Protocol, nil
	}
	r["uri"] = func(args []any) (any, error) {
		if err := noArgs("uri", args); err != nil {
			return nil, err
		}
		if ctx.URI == nil {
			return nil, &MissingContextError{Func: "uri", Field: "URI"}
		}
		return ctx.URI.Raw, nil
	}
	r["path"] = func(args []any) (any, error) {
		if ctx.URI == nil {
			return nil, &MissingContextError{Func: "path", Field: "URI"}
		}
		switch len(args) {
		case 0:
			segments := make([]any, len(ctx.URI.Segments))
			for i, s := range ctx.URI.Segments {
				segments[i] = s
			}
			return segments, nil
		case 1:
			i, ok := args[0].(int)
			if !ok {
				return nil, typeErrorf("path() index must be an integer, got %s", typeName(args[0]))
			}
			return ctx.URI.Segment(i)
		default:
			return nil, typeErrorf("path() takes at most one argument, got %d", len(args))
		}
	}
	r["branch"] = func(args []any) (any, error) {
		if err := noArgs("branch", args); err != nil {
			return nil, err
		}
		if ctx.Branch == "" {
			return nil, &MissingContextError{Func: "branch", Field: "branch"}
		}
		return ctx.Branch, nil
	}
	r["norm_branch"] = func(args []any) (any, error) {
		sep := "-"
		switch len(args) {
		case 0:
		case 1:
			s, ok := args[0].(string)
			if !ok {
				return nil, typeErrorf("norm_branch() separator must be a string, got %s", typeName(args[0]))
			}
			sep = s
		default:
			return nil, typeErrorf("norm_branch() takes at most one argument, got %d", len(args))
		}
		if ctx.Branch == "" {
			return nil, &MissingContextError{Func: "norm_branch", Field: "branch"}
		}
		return strings.ReplaceAll(ctx.Branch, "/", sep), nil
	}
	r["tag"] = func(args []any) (any, error) {
		name, err := oneString("tag", args)
		if err != nil {
			return nil, err
		}
		return ctx.Tags[name], nil
	}
	r["tag_exist"] = func(args []any) (any, error) {
		name, err := oneString("tag_exist", args)
		if err != nil {
			return nil, err
		}
		_, ok := ctx.Tags[name]
		return ok, nil
	}

	return r
}

// ProjectFuncs builds the registry for project rule evaluation: the
// base functions plus the path and filesystem probe functions.
func ProjectFuncs(ctx *Context) Registry {
	r := Funcs(ctx)

	r["source_path"] = func(args []any) (any, error) {
		if err := noArgs("source_path", args); err != nil {
			return nil, err
		}
		return ctx.WorkRoot, nil
	}
	r["dest_path"] = func(args []any) (any, error) {
		if err := noArgs("dest_path", args); err != nil {
			return nil, err
		}
		if ctx.DestDir != "" {
			return ctx.DestDir, nil
		}
		if ctx.SourceDir != "" {
			return ctx.SourceDir, nil
		}
		return nil, &MissingContextError{Func: "dest_path", Field: "destination path"}
	}
	r["file_exists"] = probe("file_exists", ctx, func(info os.FileInfo) bool {
		return info.Mode().IsRegular()
	})
	r["dir_exists"] = probe("dir_exists", ctx, func(info os.FileInfo) bool {
		return info.IsDir()
	})
	r["path_exists"] = probe("path_exists", ctx, func(os.FileInfo) bool {
		return true
	})

	return r
}

// probe builds a filesystem existence function. Relative paths
// resolve against the context's source directory; absolute paths are
// used as given.
func probe(name string, ctx *Context, match func(os.FileInfo) bool) Func {
	return func(args []any) (any, error) {
		p, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(p) {
			if ctx.SourceDir == "" {
				return nil, &MissingContextError{Func: name, Field: "source path"}
			}
			p = filepath.Join(ctx.SourceDir, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return false, nil
		}
		return match(info), nil
	}
}

func noArgs(name string, args []any) error {
	if len(args) != 0 {
		return typeErrorf("%s() takes no arguments, got %d", name, len(args))
	}
	return nil
}

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", typeErrorf("%s() takes exactly one argument, got %d", name, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", typeErrorf("%s() argument must be a string, got %s", name, typeName(args[0]))
	}
	return s, nil
}
