package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	DefaultBranch = "main"
	DefaultAuthor = "tickets"
	DefaultEmail  = "tickets@local"

	// TicketsRefSpec mirrors every tickets ref of a remote.
	TicketsRefSpec = "+refs/tickets/*:refs/tickets/*"
)

var _ ObjectStore = (*GitRepository)(nil)

// GitRepository implements ObjectStore on a go-git repository. go-git
// storers are not safe for concurrent use, so every call holds mu.
type GitRepository struct {
	mu   sync.Mutex
	repo *git.Repository
}

func NewGitRepository(scope Scope) (*GitRepository, error) {
	if _, err := os.Stat(scope.GitDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, scope.GitDir)
	}

	fs := osfs.New(scope.GitDir)
	st := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())

	repo, err := git.Open(st, osfs.New(scope.Path))
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &GitRepository{repo: repo}, nil
}

// NewMemoryRepository returns an empty bare repository held in memory.
func NewMemoryRepository() (*GitRepository, error) {
	repo, err := initStorage(memory.NewStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &GitRepository{repo: repo}, nil
}

// InitRepository creates a repository at scope.Path with HEAD on an unborn
// main branch. No commit is created.
func InitRepository(scope Scope) error {
	if err := os.MkdirAll(scope.GitDir, 0755); err != nil {
		return fmt.Errorf("create git directory: %w", err)
	}

	fs := osfs.New(scope.GitDir)
	st := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())

	if _, err := initStorage(st, osfs.New(scope.Path)); err != nil {
		return err
	}
	return nil
}

func initStorage(st storage.Storer, wt billy.Filesystem) (*git.Repository, error) {
	repo, err := git.InitWithOptions(st, wt, git.InitOptions{
		DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
	})
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}
	return repo, nil
}

// CloneRepository clones url into path and fetches the tickets refs, which a
// plain clone leaves behind.
func CloneRepository(ctx context.Context, url, path string) (*GitRepository, error) {
	repo, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{URL: url})
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []config.RefSpec{TicketsRefSpec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}

	return &GitRepository{repo: repo}, nil
}

func (r *GitRepository) WriteBlob(ctx context.Context, data []byte) (plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("open blob writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob: %w", err)
	}

	return r.store(obj)
}

func (r *GitRepository) ReadBlob(ctx context.Context, hash plumbing.Hash) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, err := r.repo.BlobObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, &NotFoundError{Kind: "blob", Name: hash.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	rd, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer rd.Close()

	return io.ReadAll(rd)
}

func (r *GitRepository) WriteTree(ctx context.Context, entries []object.TreeEntry) (plumbing.Hash, error) {
	sorted := make([]object.TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Sort(object.TreeEntrySorter(sorted))

	r.mu.Lock()
	defer r.mu.Unlock()

	tree := &object.Tree{Entries: sorted}
	obj := r.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode tree: %w", err)
	}

	return r.store(obj)
}

func (r *GitRepository) ReadTree(ctx context.Context, hash plumbing.Hash) ([]object.TreeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tree, err := r.repo.TreeObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, &NotFoundError{Kind: "tree", Name: hash.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	entries := make([]object.TreeEntry, len(tree.Entries))
	copy(entries, tree.Entries)
	return entries, nil
}

func (r *GitRepository) Commit(ctx context.Context, opts CommitOptions) (plumbing.Hash, error) {
	sig := object.Signature{
		Name:  opts.Author.Name,
		Email: opts.Author.Email,
		When:  time.Now(),
	}
	if sig.Name == "" {
		sig.Name = DefaultAuthor
	}
	if sig.Email == "" {
		sig.Email = DefaultEmail
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      opts.Message,
		TreeHash:     opts.Tree,
		ParentHashes: opts.Parents,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	obj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode commit: %w", err)
	}

	return r.store(obj)
}

func (r *GitRepository) ReadCommit(ctx context.Context, hash plumbing.Hash) (*Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.repo.CommitObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, &NotFoundError{Kind: "commit", Name: hash.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}

	return toCommit(c), nil
}

func (r *GitRepository) ResolveRef(ctx context.Context, name string) (plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, &NotFoundError{Kind: "ref", Name: name}
	}
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", name, err)
	}

	return ref.Hash(), nil
}

// WriteRef points name at hash. Without force the update only succeeds when
// the ref does not exist yet.
func (r *GitRepository) WriteRef(ctx context.Context, name string, hash plumbing.Hash, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), hash)
	if force {
		if err := r.repo.Storer.SetReference(ref); err != nil {
			return fmt.Errorf("write ref %s: %w", name, err)
		}
		return nil
	}

	if _, err := r.repo.Storer.Reference(ref.Name()); err == nil {
		return fmt.Errorf("write ref %s: reference already exists", name)
	}
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("write ref %s: %w", name, err)
	}
	return nil
}

func (r *GitRepository) LogCommits(ctx context.Context, start string, depth int) ([]*Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, err := r.resolveStart(start)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if depth > 0 && len(commits) >= depth {
			return storer.ErrStop
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

func (r *GitRepository) resolveStart(start string) (plumbing.Hash, error) {
	if start == "" || start == "HEAD" {
		head, err := r.repo.Head()
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, &NotFoundError{Kind: "ref", Name: "HEAD"}
		}
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("get HEAD: %w", err)
		}
		return head.Hash(), nil
	}

	if strings.HasPrefix(start, "refs/") {
		ref, err := r.repo.Reference(plumbing.ReferenceName(start), true)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, &NotFoundError{Kind: "ref", Name: start}
		}
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", start, err)
		}
		return ref.Hash(), nil
	}

	resolved, err := r.repo.ResolveRevision(plumbing.Revision(start))
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, &NotFoundError{Kind: "ref", Name: start}
	}
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", start, err)
	}
	return *resolved, nil
}

// helpers

func (r *GitRepository) store(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store %s: %w", obj.Type(), err)
	}
	return hash, nil
}

func toCommit(c *object.Commit) *Commit {
	parents := make([]plumbing.Hash, len(c.ParentHashes))
	copy(parents, c.ParentHashes)

	return &Commit{
		Hash:      c.Hash,
		Tree:      c.TreeHash,
		Parents:   parents,
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When,
	}
}
