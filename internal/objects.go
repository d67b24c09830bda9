package internal

import (
	"context"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type Commit struct {
	Hash      plumbing.Hash
	Tree      plumbing.Hash
	Parents   []plumbing.Hash
	Message   string
	Author    string
	Email     string
	Timestamp time.Time
}

type Signature struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type CommitOptions struct {
	Tree    plumbing.Hash
	Parents []plumbing.Hash
	Message string
	Author  Signature
}

// ObjectStore is the slice of a git object database the tracker needs.
// ResolveRef and LogCommits report unborn refs with an error matching
// ErrNotFound.
type ObjectStore interface {
	WriteBlob(ctx context.Context, data []byte) (plumbing.Hash, error)
	ReadBlob(ctx context.Context, hash plumbing.Hash) ([]byte, error)
	WriteTree(ctx context.Context, entries []object.TreeEntry) (plumbing.Hash, error)
	ReadTree(ctx context.Context, hash plumbing.Hash) ([]object.TreeEntry, error)
	Commit(ctx context.Context, opts CommitOptions) (plumbing.Hash, error)
	ReadCommit(ctx context.Context, hash plumbing.Hash) (*Commit, error)
	ResolveRef(ctx context.Context, name string) (plumbing.Hash, error)
	WriteRef(ctx context.Context, name string, hash plumbing.Hash, force bool) error
	// LogCommits walks history from start (HEAD when empty), newest first.
	// depth <= 0 walks everything.
	LogCommits(ctx context.Context, start string, depth int) ([]*Commit, error)
}
