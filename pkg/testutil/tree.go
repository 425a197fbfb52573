package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested FileTree directories.
type FileTree map[string]interface{}

// CreateFileTree recursively creates tree under basePath on the real
// filesystem.
func CreateFileTree(t *testing.T, basePath string, tree FileTree) {
	t.Helper()

	require.NoError(t, os.MkdirAll(basePath, 0755))
	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
			require.NoError(t, os.WriteFile(fullPath, []byte(v), 0644))
		case FileTree:
			require.NoError(t, os.MkdirAll(fullPath, 0755))
			CreateFileTree(t, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// AssertSymlinkTo checks that link is a symlink whose destination is want.
func AssertSymlinkTo(t *testing.T, link, want string) {
	t.Helper()

	info, err := os.Lstat(link)
	if !assert.NoError(t, err, "expected symlink at %s", link) {
		return
	}
	if !assert.NotZero(t, info.Mode()&os.ModeSymlink, "%s is not a symlink", link) {
		return
	}
	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, want, dest)
}

// AssertFileContent checks that path is a regular file holding want.
func AssertFileContent(t *testing.T, path, want string) {
	t.Helper()

	info, err := os.Lstat(path)
	if !assert.NoError(t, err) {
		return
	}
	assert.True(t, info.Mode().IsRegular(), "%s is not a regular file", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

// ListDir returns the names in dir, failing the test on error.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}
