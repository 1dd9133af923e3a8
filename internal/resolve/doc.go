// Package resolve maps repository URIs to filesystem locations.
//
// Every clone and worktree lands at a path computed from the config
// file, never at a path the user types. Resolution walks the sources
// mapping in declaration order, evaluates each rule's predicate against
// the repository URI and any -t tags, and takes the first rule that
// matches:
//
//	sources:
//	  github:
//	    predicate: "'github' in host()"
//	    sources: ~/src/github/path(-2)/path(-1)
//	  work:
//	    predicate: tag_exist('work')
//	    sources: ~/work/path(-1)
//
// A matching rule without a sources (or worktrees) template, and a URI
// no rule matches, both fall back to default_sources / default_worktrees.
//
// Resolved paths have a leading ~ expanded and are made absolute, so
// callers can hand them straight to git.
package resolve
