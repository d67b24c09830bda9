package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/4thel00z/tickets/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
)

func NewWatchCmd(resolver *internal.ScopeResolver, historySvc *internal.HistoryService, repoSvc *internal.RepositoryService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print item commits as they happen",
		Long:  `Watch the item ref and print every new commit, including ones made by other processes or fetched from a remote.`,
		Args:  cobra.NoArgs,
		RunE:  makeWatchRunner(resolver, historySvc, repoSvc),
	}

	cmd.Flags().Duration("debounce", 200*time.Millisecond, "Debounce window for batching ref updates")
	return cmd
}

func makeWatchRunner(resolver *internal.ScopeResolver, historySvc *internal.HistoryService, repoSvc *internal.RepositoryService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		path := repoPath(cmd)
		debounce, _ := cmd.Flags().GetDuration("debounce")

		scope, err := resolver.Resolve(path)
		if err != nil {
			return err
		}
		cfg, _, err := repoSvc.Config(path)
		if err != nil {
			return err
		}

		refPath := scope.RefPath(cfg.Ref)
		if err := os.MkdirAll(filepath.Dir(refPath), 0755); err != nil {
			return fmt.Errorf("create ref directory: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		for _, dir := range []string{filepath.Dir(refPath), scope.GitDir} {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}

		last, err := latestItemCommit(cmd.Context(), historySvc, path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes...\n", cfg.Ref)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event, refPath, scope.GitDir) {
					continue
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				page, err := historySvc.Items(cmd.Context(), 0, path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "read history: %v\n", err)
					continue
				}
				fresh := commitsSince(page.Results, last)
				if len(fresh) == 0 {
					continue
				}
				last = fresh[0].Hash
				if err := printWatchCommits(cmd, fresh); err != nil {
					return err
				}
			}
		}
	}
}

func latestItemCommit(ctx context.Context, historySvc *internal.HistoryService, path string) (plumbing.Hash, error) {
	page, err := historySvc.Items(ctx, 1, path)
	if errors.Is(err, internal.ErrNotFound) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if len(page.Results) == 0 {
		return plumbing.ZeroHash, nil
	}
	return page.Results[0].Hash, nil
}

// commitsSince returns the commits newer than last, newest first. A zero
// last, or one no longer in history, returns everything.
func commitsSince(commits []internal.Commit, last plumbing.Hash) []internal.Commit {
	for i, c := range commits {
		if c.Hash == last {
			return commits[:i]
		}
	}
	return commits
}

func printWatchCommits(cmd *cobra.Command, commits []internal.Commit) error {
	// oldest first reads naturally in a stream
	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		if wantJSON(cmd) {
			if err := writeJSON(cmd, map[string]any{
				"hash":      c.Hash.String(),
				"message":   c.Message,
				"timestamp": c.Timestamp,
			}); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", c.Hash.String()[:7], c.Message)
	}
	return nil
}

func shouldIgnoreEvent(event fsnotify.Event, refPath, gitDir string) bool {
	if event.Name != refPath && event.Name != filepath.Join(gitDir, "packed-refs") {
		return true
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return true
	}

	return false
}
