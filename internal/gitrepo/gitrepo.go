// Package gitrepo provides access to the state of the enclosing git
// repository. The default implementation shells out to the git executable,
// but the Gateway interface allows alternative implementations without
// changing callers.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotARepository indicates the working directory is not inside a git
// working tree.
var ErrNotARepository = errors.New("not a git repository")

// CommandError records a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Gateway abstracts the two repository queries the hook needs.
type Gateway interface {
	// Root resolves the absolute path of the repository's working tree.
	Root(ctx context.Context) (string, error)
	// StagedFiles lists paths staged with status added, copied or modified,
	// relative to root. Deletions and pure renames are excluded: a deleted
	// file cannot be scanned and a rename without a content change carries
	// no new risk.
	StagedFiles(ctx context.Context, root string) ([]string, error)
}

// CLI is the production Gateway, backed by the git binary.
type CLI struct {
	gitPath string
	workDir string
}

// NewCLI creates a subprocess-backed Gateway. gitPath must be an absolute
// path to the git executable and workDir the directory queries are anchored
// to.
func NewCLI(gitPath, workDir string) *CLI {
	return &CLI{gitPath: gitPath, workDir: workDir}
}

// Root runs `git rev-parse --git-dir` and derives the working tree root from
// its output. If the reported path's last segment is the conventional ".git"
// metadata directory the parent is returned; otherwise the path is returned
// as is, which handles linked worktree setups where the git-dir already
// lives elsewhere.
func (c *CLI) Root(ctx context.Context) (string, error) {
	out, err := c.run(ctx, c.workDir, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotARepository, err)
	}
	return rootFromGitDir(c.workDir, out), nil
}

// rootFromGitDir turns a rev-parse --git-dir answer into a working tree
// root. Relative answers are anchored at workDir.
func rootFromGitDir(workDir, raw string) string {
	gitDir := strings.TrimSpace(raw)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(workDir, gitDir)
	}
	gitDir = filepath.Clean(gitDir)

	if filepath.Base(gitDir) == ".git" {
		return filepath.Dir(gitDir)
	}
	return gitDir
}

// StagedFiles runs `git diff --cached --name-only --diff-filter=ACM` with
// the subprocess anchored at root, so the reported paths are relative to the
// repository. The output is split on whitespace.
func (c *CLI) StagedFiles(ctx context.Context, root string) ([]string, error) {
	out, err := c.run(ctx, root, "diff", "--cached", "--name-only", "--diff-filter=ACM")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

func (c *CLI) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.gitPath, args...)
	cmd.Dir = dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return string(out), nil
}
