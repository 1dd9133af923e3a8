// Package eval implements the expression language behind path
// templates and routing predicates.
//
// # Templates
//
// Path templates are plain strings with embedded function calls:
//
//	~/sources/host()/path(-2)/path(-1)
//	~/worktrees/path(-1)/norm_branch()
//
// Each call is evaluated against the bound [Context] and its result
// replaces the call text; everything else passes through verbatim.
// Literal parentheses are written doubled, so ((v1)) renders as (v1).
//
// # Predicates
//
// Predicates are boolean expressions that route repositories and
// projects to configuration rules:
//
//	"github" in host() and tag_exist('prod')
//	path(0) == "myorg" or file_exists("go.mod")
//
// The grammar is deliberately small: string, integer, boolean and
// list literals, calls to registered functions, list indexing with
// Python-style negative indices, and the operators ==, !=, in,
// not in, and, or, not. There is no arithmetic, no ordering
// comparison, and no attribute access. and/or/not require boolean
// operands; nothing is coerced.
//
// # Functions
//
// [Funcs] builds the registry for path resolution:
//
//   - host(), port(), protocol(), uri(): components of the bound URI
//   - path(n): URI path segment by signed index; path() is the full list
//   - branch(), norm_branch(sep): branch name, raw or with / replaced
//   - tag(name), tag_exist(name): CLI tag lookup, never an error
//
// [ProjectFuncs] adds the functions project rules need:
//
//   - source_path(), dest_path(): bound repository and target paths
//   - file_exists(p), dir_exists(p), path_exists(p): stat probes
//     relative to the source path
package eval
