package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scope locates one repository on disk.
type Scope struct {
	Path   string // working directory root
	GitDir string // .git directory path
}

// NewScope returns the scope of a non-bare repository rooted at path. The
// repository does not need to exist yet.
func NewScope(path string) (Scope, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Scope{}, fmt.Errorf("resolve path: %w", err)
	}
	return Scope{Path: abs, GitDir: filepath.Join(abs, ".git")}, nil
}

func (s Scope) ConfigPath() string {
	return filepath.Join(s.GitDir, "tickets.yaml")
}

// RefPath is where the loose file of ref lives.
func (s Scope) RefPath(ref string) string {
	return filepath.Join(s.GitDir, filepath.FromSlash(ref))
}

type ScopeResolver struct {
	getwd func() (string, error)
}

func NewScopeResolver() *ScopeResolver {
	return &ScopeResolver{getwd: os.Getwd}
}

// Resolve finds the repository containing explicit, or the current
// directory when explicit is empty.
func (r *ScopeResolver) Resolve(explicit string) (Scope, error) {
	start := explicit
	if start == "" {
		cwd, err := r.getwd()
		if err != nil {
			return Scope{}, fmt.Errorf("get working directory: %w", err)
		}
		start = cwd
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return Scope{}, fmt.Errorf("resolve path: %w", err)
	}

	gitDir, err := FindGitDir(abs)
	if err != nil {
		return Scope{}, err
	}

	return Scope{Path: filepath.Dir(gitDir), GitDir: gitDir}, nil
}

// FindGitDir walks up from dir looking for a .git directory.
func FindGitDir(dir string) (string, error) {
	for {
		gitDir := filepath.Join(dir, ".git")
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return gitDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no .git found", ErrNotInitialized)
		}
		dir = parent
	}
}
