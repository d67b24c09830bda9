package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestScopeConfigPath(t *testing.T) {
	scope := Scope{GitDir: "/work/project/.git"}
	expected := "/work/project/.git/tickets.yaml"
	if scope.ConfigPath() != expected {
		t.Errorf("expected %q, got %q", expected, scope.ConfigPath())
	}
}

func TestScopeRefPath(t *testing.T) {
	scope := Scope{GitDir: "/work/project/.git"}
	expected := filepath.Join("/work/project/.git", "refs", "tickets", "main")
	if got := scope.RefPath(DefaultRef); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestNewScope(t *testing.T) {
	tmp := t.TempDir()

	scope, err := NewScope(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if scope.Path != tmp {
		t.Errorf("expected Path %q, got %q", tmp, scope.Path)
	}
	if scope.GitDir != filepath.Join(tmp, ".git") {
		t.Errorf("unexpected GitDir %q", scope.GitDir)
	}
}

func TestScopeResolverNotARepository(t *testing.T) {
	tmp := t.TempDir()

	_, err := NewScopeResolver().Resolve(tmp)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestScopeResolverExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	gitDir := filepath.Join(tmp, ".git")
	if err := os.Mkdir(gitDir, 0755); err != nil {
		t.Fatal(err)
	}

	scope, err := NewScopeResolver().Resolve(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if scope.GitDir != gitDir {
		t.Errorf("expected GitDir %q, got %q", gitDir, scope.GitDir)
	}
	if scope.Path != tmp {
		t.Errorf("expected Path %q, got %q", tmp, scope.Path)
	}
}

func TestScopeResolverFindsParent(t *testing.T) {
	tmp := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmp, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	subDir := filepath.Join(tmp, "sub", "dir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	resolver := &ScopeResolver{getwd: func() (string, error) { return subDir, nil }}
	scope, err := resolver.Resolve("")
	if err != nil {
		t.Fatal("expected Resolve() to find .git in parent")
	}

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedPath, _ := filepath.EvalSymlinks(tmp)
	actualPath, _ := filepath.EvalSymlinks(scope.Path)
	if actualPath != expectedPath {
		t.Errorf("expected Path %q, got %q", expectedPath, actualPath)
	}
}

func TestFindGitDirIgnoresPlainFile(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ".git"), []byte("gitdir: elsewhere"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := FindGitDir(tmp); err == nil {
		t.Error("expected a .git file to be skipped")
	}
}
