package internal

import (
	"context"
	"fmt"
)

type CommitLogOptions struct {
	// Ref is where the walk starts: empty or "HEAD", a full ref name or a
	// commit hash.
	Ref string
	// Depth caps the commits per page; zero or less walks to the root.
	Depth int
}

// ListCommits pages through the first-parent chain starting at opts.Ref,
// newest first. A repository without commits reports ErrNotFound.
func (t *Tracker) ListCommits(ctx context.Context, opts CommitLogOptions) (*Page[Commit], error) {
	commits, err := t.objects.LogCommits(ctx, opts.Ref, opts.Depth)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}

	page := &Page[Commit]{Results: make([]Commit, 0, len(commits))}
	for _, c := range commits {
		page.Results = append(page.Results, *c)
	}

	if len(commits) == 0 {
		return page, nil
	}

	oldest := commits[len(commits)-1]
	if len(oldest.Parents) == 0 {
		return page, nil
	}

	cursor := oldest.Parents[0]
	depth := opts.Depth
	page.HasNext = true
	page.Cursor = cursor
	page.next = func(ctx context.Context) (*Page[Commit], error) {
		return t.ListCommits(ctx, CommitLogOptions{Ref: cursor.String(), Depth: depth})
	}

	return page, nil
}

// ItemHistory pages through the commits of the items ref.
func (t *Tracker) ItemHistory(ctx context.Context, depth int) (*Page[Commit], error) {
	return t.ListCommits(ctx, CommitLogOptions{Ref: t.ref, Depth: depth})
}
