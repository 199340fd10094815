package gitrepo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func TestRootFromGitDir(t *testing.T) {
	tests := []struct {
		name    string
		workDir string
		raw     string
		want    string
	}{
		{
			name:    "relative git dir at repo root",
			workDir: "/home/dev/project",
			raw:     ".git\n",
			want:    "/home/dev/project",
		},
		{
			name:    "absolute nested git dir",
			workDir: "/home/dev/project/sub",
			raw:     "/home/dev/project/.git",
			want:    "/home/dev/project",
		},
		{
			name:    "linked worktree git dir is kept as is",
			workDir: "/home/dev/wt",
			raw:     "/home/dev/project/.git/worktrees/wt",
			want:    "/home/dev/project/.git/worktrees/wt",
		},
		{
			name:    "bare-style absolute dir is kept as is",
			workDir: "/srv",
			raw:     "/srv/repo.git",
			want:    "/srv/repo.git",
		},
		{
			name:    "surrounding whitespace is trimmed",
			workDir: "/home/dev/project",
			raw:     "  .git  \n",
			want:    "/home/dev/project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rootFromGitDir(tt.workDir, tt.raw)
			if got != tt.want {
				t.Errorf("rootFromGitDir(%q, %q) = %q, want %q", tt.workDir, tt.raw, got, tt.want)
			}
		})
	}
}

// gitBin resolves the git binary or skips the test.
func gitBin(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git binary not available")
	}
	return path
}

// createTestRepo initializes a repository with one commit so the index diff
// has a baseline to compare against.
func createTestRepo(t *testing.T) (*gogit.Repository, string) {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("Initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return repo, dir
}

// stageFile writes a file and adds it to the index without committing.
func stageFile(t *testing.T, repo *gogit.Repository, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
}

func TestCLIRoot(t *testing.T) {
	git := gitBin(t)
	_, dir := createTestRepo(t)

	ctx := context.Background()

	t.Run("from repo root", func(t *testing.T) {
		root, err := NewCLI(git, dir).Root(ctx)
		require.NoError(t, err)
		require.Equal(t, dir, root)
	})

	t.Run("from subdirectory", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.MkdirAll(sub, 0755))

		root, err := NewCLI(git, sub).Root(ctx)
		require.NoError(t, err)
		require.Equal(t, dir, root)
	})
}

func TestCLIRoot_NotARepository(t *testing.T) {
	git := gitBin(t)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	_, err = NewCLI(git, dir).Root(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotARepository), "expected ErrNotARepository, got %v", err)
}

func TestCLIStagedFiles(t *testing.T) {
	git := gitBin(t)
	repo, dir := createTestRepo(t)
	ctx := context.Background()
	cli := NewCLI(git, dir)

	t.Run("empty index diff", func(t *testing.T) {
		staged, err := cli.StagedFiles(ctx, dir)
		require.NoError(t, err)
		require.Empty(t, staged)
	})

	t.Run("added and modified files are listed", func(t *testing.T) {
		stageFile(t, repo, dir, "config/app.yaml", "key: value\n")
		stageFile(t, repo, dir, "README.md", "# changed\n")

		staged, err := cli.StagedFiles(ctx, dir)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"config/app.yaml", "README.md"}, staged)
	})
}

func TestCLIStagedFiles_DeletionExcluded(t *testing.T) {
	git := gitBin(t)
	repo, dir := createTestRepo(t)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Remove("README.md")
	require.NoError(t, err)

	// A staged deletion cannot be scanned and must not be listed.
	staged, err := NewCLI(git, dir).StagedFiles(context.Background(), dir)
	require.NoError(t, err)
	require.Empty(t, staged)
}

func TestCLIStagedFiles_BadRepo(t *testing.T) {
	git := gitBin(t)

	dir := t.TempDir()
	_, err := NewCLI(git, dir).StagedFiles(context.Background(), dir)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr), "expected CommandError, got %v", err)
}
