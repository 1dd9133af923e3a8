// Package actions matches project rules against a repository and runs
// their actions after clone and add operations.
//
// A project rule pairs a predicate with action lists:
//
//	projects:
//	  - predicate: file_exists('package.json')
//	    after_clone:
//	      - abs_copy: [~/secrets/npmrc, .npmrc]
//	    after_add:
//	      - rel_copy: .env
//	      - command: npm install
//
// Unlike source rules, every matching project rule applies. Matching
// evaluates predicates with the filesystem probe functions bound to the
// source repository; the collected actions preserve rule order and,
// within a rule, declaration order.
//
// Command actions are template-evaluated at match time, so a command
// string can embed calls like tag('prompt') or dest_path(). The result
// is split into an argv with POSIX word rules (quoting honored) and
// later run directly, without a shell.
package actions
