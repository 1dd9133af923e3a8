// Package config loads and validates the gww configuration file.
//
// The config is a YAML file in the user config directory
// ($XDG_CONFIG_HOME/gww/config.yml on Linux). It declares the path
// templates and routing rules everything else runs on:
//
//	default_sources: ~/src/host()/path(-2)/path(-1)
//	default_worktrees: ~/worktrees/path(-1)/norm_branch()
//
//	sources:
//	  github:
//	    predicate: '"github" in host()'
//	    sources: ~/src/github/path(-2)/path(-1)
//	    worktrees: ~/worktrees/github/path(-1)/norm_branch()
//
//	projects:
//	  - predicate: file_exists("package.json")
//	    after_add:
//	      - rel_copy: [.env]
//	      - command: npm install
//
// # Rule Ordering
//
// Source rules route by first match in declaration order. A Go map
// would lose that order, so the sources mapping is decoded from the
// YAML node stream and kept as a slice.
//
// # Errors
//
// Load returns ErrNotFound when no config file exists; "gww init
// config" writes one. Every schema violation wraps ErrInvalid and
// names the offending field path (sources.github.predicate,
// projects[0].after_clone[1]). Both count as config errors and exit
// the CLI with status 2.
package config
