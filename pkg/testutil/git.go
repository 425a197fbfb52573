package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when the git binary is unavailable.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// GitRepo is a local repository used as a clone source.
type GitRepo struct {
	t    *testing.T
	Path string
}

// NewGitRepo initialises a repository with one commit on branch main.
func NewGitRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()
	RequireGit(t)

	require.NoError(t, os.MkdirAll(dir, 0755))
	repo := &GitRepo{t: t, Path: dir}
	repo.Git("init", "--initial-branch=main")
	repo.Git("config", "user.email", "test@example.com")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "commit.gpgsign", "false")
	repo.Commit("README.md", "# test\n", "Initial commit")
	return repo
}

// Git runs a git command inside the repository and returns trimmed output.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	return RunGit(r.t, r.Path, args...)
}

// Commit writes a file and commits it.
func (r *GitRepo) Commit(name, content, message string) {
	r.t.Helper()
	full := filepath.Join(r.Path, name)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0644))
	r.Git("add", name)
	r.Git("commit", "-m", message)
}

// Branch creates a branch at HEAD without switching to it.
func (r *GitRepo) Branch(name string) {
	r.t.Helper()
	r.Git("branch", name)
}

// Head returns the commit hash of HEAD.
func (r *GitRepo) Head() string {
	r.t.Helper()
	return r.Git("rev-parse", "HEAD")
}

// RunGit runs git in dir with a sanitized environment.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_TERMINAL_PROMPT=0",
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}
