package internal

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T) (string, *ItemService, *HistoryService, *RepositoryService) {
	t.Helper()
	tmpDir := t.TempDir()

	resolver := NewScopeResolver()
	repos := NewRepositoryService(resolver)
	if _, err := repos.Init(tmpDir); err != nil {
		t.Fatalf("init repo: %v", err)
	}

	open := OpenTracker(quietLogger())
	items := NewItemService(resolver, open, LoadConfig)
	history := NewHistoryService(resolver, open)

	return tmpDir, items, history, repos
}

func TestItemServiceAddUsesDefaultKind(t *testing.T) {
	dir, svc, _, _ := setupServiceTest(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, AddItem{Title: Text("no kind")}, dir)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Kind != Text("issue") {
		t.Errorf("kind = %v, want issue", item.Kind)
	}

	item, err = svc.Add(ctx, AddItem{Title: Text("bug"), Kind: Text("bug")}, dir)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Kind != Text("bug") {
		t.Errorf("kind = %v, want bug", item.Kind)
	}
}

func TestItemServiceRoundTrip(t *testing.T) {
	dir, svc, history, _ := setupServiceTest(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, AddItem{Title: Text("First")}, dir)
	require.NoError(t, err)

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))

	edited, err := svc.Edit(ctx, EditItem{ID: added.ID, Description: Text("from a subdirectory")}, sub)
	require.NoError(t, err)
	assert.Equal(t, Text("from a subdirectory"), edited.Description)

	got, err := svc.Get(ctx, added.ID, dir)
	require.NoError(t, err)
	assert.Equal(t, edited, got)

	page, err := svc.List(ctx, ListOptions{Limit: 10}, dir)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)

	commits, err := history.Items(ctx, 0, dir)
	require.NoError(t, err)
	assert.Len(t, commits.Results, 2)

	_, err = history.Log(ctx, CommitLogOptions{}, dir)
	assert.ErrorIs(t, err, ErrNotFound, "HEAD stays unborn")
}

func TestItemServiceSearch(t *testing.T) {
	dir, svc, _, _ := setupServiceTest(t)
	ctx := context.Background()

	for _, in := range []AddItem{
		{Title: Text("crash on start"), Kind: Text("bug")},
		{Title: Text("dark mode"), Kind: Text("feature")},
		{Title: Text("crash on exit"), Kind: Text("bug"), Description: Text("segfault")},
	} {
		_, err := svc.Add(ctx, in, dir)
		require.NoError(t, err)
	}

	found, err := svc.Search(ctx, []string{"kind=bug", "title~crash"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"crash on exit", "crash on start"}, titlesOf(found))

	found, err = svc.Search(ctx, []string{"kind=bug", "description?"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"crash on exit"}, titlesOf(found))

	_, err = svc.Search(ctx, []string{"garbage"}, dir)
	assert.Error(t, err)
}

func TestItemServiceOutsideRepository(t *testing.T) {
	resolver := NewScopeResolver()
	svc := NewItemService(resolver, OpenTracker(quietLogger()), LoadConfig)

	_, err := svc.List(context.Background(), ListOptions{}, t.TempDir())
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRepositoryServiceConfig(t *testing.T) {
	dir, svc, _, repos := setupServiceTest(t)
	ctx := context.Background()

	require.NoError(t, repos.SetConfig("defaults.kind", "task", dir))
	require.NoError(t, repos.SetConfig("ref", "refs/tickets/alt", dir))

	cfg, _, err := repos.Config(dir)
	require.NoError(t, err)
	assert.Equal(t, "task", cfg.Defaults.Kind)

	item, err := svc.Add(ctx, AddItem{Title: Text("configured")}, dir)
	require.NoError(t, err)
	assert.Equal(t, Text("task"), item.Kind)

	scope, err := NewScope(dir)
	require.NoError(t, err)
	repo, err := NewGitRepository(scope)
	require.NoError(t, err)
	_, err = repo.ResolveRef(ctx, "refs/tickets/alt")
	assert.NoError(t, err)
	_, err = repo.ResolveRef(ctx, DefaultRef)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repos.SetConfig("bogus", "x", dir), ErrUnknownConfigKey)
}

func TestRepositoryServiceInitTwice(t *testing.T) {
	dir, _, _, repos := setupServiceTest(t)

	_, err := repos.Init(dir)
	assert.Error(t, err)
}

func TestRepositoryServiceClone(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	src, svc, _, repos := setupServiceTest(t)
	ctx := context.Background()

	// a clone needs a branch to check out
	scope, err := NewScope(src)
	require.NoError(t, err)
	repo, err := NewGitRepository(scope)
	require.NoError(t, err)
	commitChain(t, repo, 1)

	added, err := svc.Add(ctx, AddItem{Title: Text("travels along")}, src)
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "clone")
	_, err = repos.Clone(ctx, src, dst)
	require.NoError(t, err)

	got, err := svc.Get(ctx, added.ID, dst)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}
