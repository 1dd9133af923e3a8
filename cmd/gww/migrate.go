package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
	"github.com/raphi011/gww/internal/log"
	"github.com/raphi011/gww/internal/output"
	"github.com/raphi011/gww/internal/resolve"
	"github.com/raphi011/gww/internal/uri"
)

// migrationPlan describes relocating one repository to the source path
// its remote resolves to.
type migrationPlan struct {
	oldPath string
	newPath string
	skip    string // non-empty when the plan will not be executed
}

func newMigrateCmd() *cobra.Command {
	var dryRun, move bool

	cmd := &cobra.Command{
		Use:     "migrate <dir>",
		Short:   "Migrate repositories to their configured locations",
		GroupID: GroupRepo,
		Args:    cobra.ExactArgs(1),
		Long: `Scan a directory for git repositories and relocate each one to the
source path its origin remote resolves to under the current
configuration.

Repositories without an origin remote, with an unparseable remote, or
whose path cannot be resolved are skipped; --verbose names each skip.
Worktrees migrate like repositories, and after a worktree is moved the
link in its source repository is repaired.

By default repositories are copied and the originals stay in place;
--move relocates them instead.`,
		Example: `  gww migrate ~/old-code --dry-run
  gww migrate ~/old-code
  gww migrate ~/old-code --move`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)
			tags := parseTags(tagArgs)

			root, err := expandPath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("path does not exist: %s", root)
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory: %s", root)
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			if l.IsVerbose() {
				l.Printf("Scanning %s for repositories...\n", root)
			}
			repos, err := git.FindRepositories(root)
			if err != nil {
				return err
			}

			plans, atTarget := planMigration(ctx, cfg, repos, tags)

			if len(plans) == 0 && len(atTarget) == 0 {
				p.Println("No repositories to migrate.")
				return nil
			}

			var valid, skipped []migrationPlan
			for _, plan := range plans {
				if plan.skip == "" {
					valid = append(valid, plan)
				} else {
					skipped = append(skipped, plan)
				}
			}

			for _, path := range atTarget {
				p.Printf("Already at target: %s\n", path)
			}

			if dryRun {
				for _, plan := range valid {
					p.Printf("%s -> %s\n", plan.oldPath, plan.newPath)
				}
				for _, plan := range skipped {
					p.Printf("%s: %s\n", plan.oldPath, plan.skip)
				}
				p.Printf("Would migrate %d repositories\n", len(valid))
				if len(skipped) > 0 {
					p.Printf("Would skip %d repositories\n", len(skipped))
				}
				return nil
			}

			migrated, repaired, failed := executeMigration(ctx, valid, move)

			verb := "Migrated"
			if move {
				verb = "Moved"
			}
			p.Printf("%s %d repositories\n", verb, migrated)
			if repaired > 0 {
				p.Printf("Repaired %d worktrees\n", repaired)
			}
			if len(skipped) > 0 {
				p.Printf("Skipped %d repositories\n", len(skipped))
			}
			if len(atTarget) > 0 {
				p.Printf("Already at target: %d repositories\n", len(atTarget))
			}
			if failed > 0 {
				p.Printf("Failed %d repositories\n", failed)
				return fmt.Errorf("%d of %d migrations failed", failed, len(valid))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be migrated without changing anything")
	cmd.Flags().BoolVar(&move, "move", false, "Move repositories instead of copying them")
	return cmd
}

// planMigration resolves the configured source path of every scanned
// repository in parallel. Repositories that cannot be resolved are
// reported through the verbose log and dropped, never failed.
func planMigration(ctx context.Context, cfg *config.Config, repos []string, tags map[string]string) (plans []migrationPlan, atTarget []string) {
	l := log.FromContext(ctx)

	type result struct {
		plan     *migrationPlan
		atTarget string
		dropped  string
	}
	// Per-repo results stored by index for stable ordering
	results := make([]result, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // Bound concurrent git operations

	for i, repoPath := range repos {
		g.Go(func() error {
			remote, err := git.RemoteURL(ctx, repoPath)
			if err != nil {
				results[i] = result{dropped: fmt.Sprintf("Skipping %s: no origin remote configured", repoPath)}
				return nil
			}

			u, err := uri.Parse(remote)
			if err != nil {
				results[i] = result{dropped: fmt.Sprintf("Skipping %s: %v", repoPath, err)}
				return nil
			}

			expected, err := resolve.SourcePath(cfg, u, tags)
			if err != nil {
				results[i] = result{dropped: fmt.Sprintf("Skipping %s: %v", repoPath, err)}
				return nil
			}

			if samePath(repoPath, expected) {
				results[i] = result{atTarget: repoPath}
				return nil
			}

			plan := &migrationPlan{oldPath: repoPath, newPath: expected}
			if _, err := os.Stat(expected); err == nil {
				plan.skip = "destination exists - will skip"
			}
			results[i] = result{plan: plan}
			return nil // Never fail, drops are reported instead
		})
	}
	_ = g.Wait() // Always nil, goroutines record drops instead of errors

	for _, r := range results {
		switch {
		case r.plan != nil:
			plans = append(plans, *r.plan)
		case r.atTarget != "":
			atTarget = append(atTarget, r.atTarget)
		case r.dropped != "":
			if l.IsVerbose() {
				l.Printf("%s\n", r.dropped)
			}
		}
	}
	return plans, atTarget
}

// executeMigration copies or moves each planned repository and repairs
// source repository links for moved worktrees. Failures are reported
// per repository and the rest continues.
func executeMigration(ctx context.Context, plans []migrationPlan, move bool) (migrated, repaired, failed int) {
	l := log.FromContext(ctx)
	p := output.FromContext(ctx)

	for _, plan := range plans {
		p.Printf("%s -> %s\n", plan.oldPath, plan.newPath)

		// Re-check the destination: an earlier plan in this run may have
		// claimed it, e.g. a repo and its worktree sharing one remote.
		if _, err := os.Stat(plan.newPath); err == nil {
			fmt.Fprintf(os.Stderr, "Error migrating %s: destination exists: %s\n", plan.oldPath, plan.newPath)
			failed++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(plan.newPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error migrating %s: %v\n", plan.oldPath, err)
			failed++
			continue
		}

		// The gitdir link only resolves while the worktree still sits at
		// its old path, so the source repo must be found before moving.
		var sourceRepo string
		if move && git.IsWorktree(plan.oldPath) {
			if src, err := git.SourceRepository(ctx, plan.oldPath); err == nil {
				sourceRepo = src
			}
		}

		var err error
		if move {
			if l.IsVerbose() {
				l.Printf("Moving %s -> %s\n", plan.oldPath, plan.newPath)
			}
			err = movePath(plan.oldPath, plan.newPath)
		} else {
			if l.IsVerbose() {
				l.Printf("Copying %s -> %s\n", plan.oldPath, plan.newPath)
			}
			err = copyTree(plan.oldPath, plan.newPath)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error migrating %s: %v\n", plan.oldPath, err)
			failed++
			continue
		}
		migrated++

		if sourceRepo != "" {
			if l.IsVerbose() {
				l.Printf("Repairing worktree paths in %s\n", sourceRepo)
			}
			if err := git.RepairWorktrees(ctx, sourceRepo, plan.newPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to repair worktree paths for %s: %v\n", plan.newPath, err)
			} else {
				repaired++
			}
		}
	}
	return migrated, repaired, failed
}

// samePath reports whether two paths name the same location once
// symlinks are resolved.
func samePath(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		ra = filepath.Clean(a)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		rb = filepath.Clean(b)
	}
	return ra == rb
}

// movePath renames src to dst, falling back to copy-and-delete when
// renaming fails, typically across filesystems.
func movePath(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// copyTree copies the directory tree at src to dst. Permission bits
// and modification times carry over; symlinks are copied as links so
// .git internals survive intact.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyTreeFile(path, target, info)
		}
	})
}

// copyTreeFile copies one regular file during a tree copy.
func copyTreeFile(src, dst string, info fs.FileInfo) error {
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
	return os.Chtimes(dst, time.Now(), info.ModTime())
}
