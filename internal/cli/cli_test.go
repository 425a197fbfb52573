package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mtcollect/pkg/manifest"
	"github.com/arthur-debert/mtcollect/pkg/output"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/arthur-debert/mtcollect/pkg/testutil"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// isolate points every tool directory at a temporary location.
func isolate(t *testing.T) {
	t.Helper()
	base := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(base, "config"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(base, "cache"))
	t.Setenv(paths.EnvStateDir, filepath.Join(base, "state"))
	t.Setenv("NO_COLOR", "1")
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(assert.AnError))
	assert.Equal(t, ExitConflicts, ExitCode(syncExit(false, true)))
	assert.Equal(t, ExitFailure, ExitCode(syncExit(true, true)))
	assert.Nil(t, syncExit(false, false))
	assert.Equal(t, ExitFailure, ExitCode(runExit(true)))
	assert.Nil(t, runExit(false))
}

func TestVersion(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "version")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "mtcollect version dev")
}

func TestManifestEditing(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "collection.json")

	code, out, stderr := run(t, "create-config", path, "--schema", "--auto-sort")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "Created "+path)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), manifest.SchemaFileName))

	code, _, stderr = run(t, "add-package", path, "mods", "git", "https://github.com/minetest-mods/i3")
	require.Equal(t, ExitOK, code, stderr)
	code, out, stderr = run(t, "add-package", path, "mods", "git", "https://github.com/a/Alpha.git", "--folder-name", "alpha", "--git-remote-branch", "dev")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "(folder alpha)")

	m, err := manifest.Load(path)
	require.NoError(t, err)
	mods := m.Packages(types.CategoryMods)
	require.Len(t, mods, 2)
	assert.Equal(t, "https://github.com/a/Alpha.git", mods[0].URL)
	assert.Equal(t, "dev", mods[0].Branch)

	code, _, stderr = run(t, "remove-package", path, "mods", "git", "https://github.com/minetest-mods/i3")
	require.Equal(t, ExitOK, code, stderr)
	m, err = manifest.Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Packages(types.CategoryMods), 1)
}

func TestCreateConfig_RefusesOverwrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "collection.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	code, _, stderr := run(t, "create-config", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "ALREADY_EXISTS")
}

func TestAddPackage_InvalidArguments(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "collection.json")
	code, _, _ := run(t, "create-config", path)
	require.Equal(t, ExitOK, code)

	code, _, stderr := run(t, "add-package", path, "shaders", "git", "https://x/y")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "INVALID_INPUT")

	code, _, stderr = run(t, "add-package", path, "mods", "svn", "https://x/y")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "package type")

	code, _, _ = run(t, "add-package", path, "mods")
	assert.Equal(t, ExitFailure, code)
}

func TestRemovePackage_NotDeclared(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "collection.json")
	code, _, _ := run(t, "create-config", path)
	require.Equal(t, ExitOK, code)

	code, _, stderr := run(t, "remove-package", path, "mods", "git", "https://x/y")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "NOT_FOUND")
}

func TestUpdate_InvalidManifest(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "collection.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"content": {"mods": [{"type": "svn", "url": "x"}]}}`), 0644))

	code, out, _ := run(t, "--format", "json", "update", path, filepath.Join(dir, "collection"))
	assert.Equal(t, ExitFailure, code)

	var view output.ErrorView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "CONFIG_INVALID", view.Code)
	assert.NoDirExists(t, filepath.Join(dir, "collection"))
}

func TestUpdate_Git(t *testing.T) {
	testutil.RequireGit(t)
	isolate(t)

	base := t.TempDir()
	upstream := testutil.NewGitRepo(t, filepath.Join(base, "upstream"))
	root := filepath.Join(base, "collection")
	path := filepath.Join(base, "collection.json")

	code, _, stderr := run(t, "create-config", path)
	require.Equal(t, ExitOK, code, stderr)
	code, _, stderr = run(t, "add-package", path, "mods", "git", upstream.Path)
	require.Equal(t, ExitOK, code, stderr)

	code, out, stderr := run(t, "--format", "json", "update", path, root)
	require.Equal(t, ExitOK, code, stderr)

	var view output.RunView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "materialize", view.Entries[0].Action)
	assert.Equal(t, "ok", view.Entries[0].Status)
	testutil.AssertFileContent(t, filepath.Join(root, "mods", "upstream", "README.md"), "# test\n")

	upstream.Commit("init.lua", "-- mod\n", "Add init")
	code, out, stderr = run(t, "update", path, root)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "ok upstream refresh")
	testutil.AssertFileContent(t, filepath.Join(root, "mods", "upstream", "init.lua"), "-- mod\n")
}

func TestUpdate_FailedPackageExitsOne(t *testing.T) {
	testutil.RequireGit(t)
	isolate(t)

	base := t.TempDir()
	root := filepath.Join(base, "collection")
	path := filepath.Join(base, "collection.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"content": {"mods": [
		{"type": "git", "url": "`+filepath.Join(base, "missing-repo")+`"}
	]}}`), 0644))

	code, out, _ := run(t, "--format", "text", "update", path, root)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "FAILED missing-repo materialize")
	assert.Contains(t, out, "1 failed")
}

func TestSync_ExitCodes(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	install := filepath.Join(base, "install")
	testutil.CreateFileTree(t, collection, testutil.FileTree{
		"mods": testutil.FileTree{"i3": testutil.FileTree{"init.lua": "--"}},
	})

	code, out, stderr := run(t, "sync", collection, install)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "created i3")
	testutil.AssertSymlinkTo(t, filepath.Join(install, "mods", "i3"), filepath.Join(collection, "mods", "i3"))

	testutil.CreateFileTree(t, collection, testutil.FileTree{
		"mods": testutil.FileTree{"worldedit": testutil.FileTree{}},
	})
	testutil.CreateFileTree(t, install, testutil.FileTree{
		"mods": testutil.FileTree{"worldedit": "not a link"},
	})

	code, out, _ = run(t, "--format", "json", "sync", collection, install)
	assert.Equal(t, ExitConflicts, code)

	var view output.SyncView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 1, view.Summary.Conflicts)
	assert.Equal(t, 1, view.Summary.AlreadyLinked)
	testutil.AssertFileContent(t, filepath.Join(install, "mods", "worldedit"), "not a link")
}

func TestSyncDev(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	dev := filepath.Join(base, "dev")
	testutil.CreateFileTree(t, dev, testutil.FileTree{
		"games": testutil.FileTree{"mygame": testutil.FileTree{"game.conf": "name = mine"}},
	})

	code, _, stderr := run(t, "sync-dev", collection, dev)
	require.Equal(t, ExitOK, code, stderr)
	testutil.AssertSymlinkTo(t, filepath.Join(collection, "games", "mygame"), filepath.Join(dev, "games", "mygame"))
}

func TestSettings(t *testing.T) {
	isolate(t)

	code, out, stderr := run(t, "settings")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "[contentdb]")
	assert.Contains(t, out, "1m0s")

	t.Setenv("MTCOLLECT_HTTP_TIMEOUT", "15s")
	code, out, _ = run(t, "settings")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "15s")

	code, out, _ = run(t, "settings", "--defaults")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "# mtcollect settings")
}

func TestSettings_ExplicitFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(file, []byte("[git]\nremote = \"upstream\"\n"), 0644))

	code, out, stderr := run(t, "--settings", file, "settings")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "# loaded from "+file)
	assert.Contains(t, out, "upstream")

	code, _, stderr = run(t, "--settings", filepath.Join(t.TempDir(), "none.toml"), "settings")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "CONFIG_LOAD")
}

func TestInvalidFormat(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t, "--format", "xml", "version")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "--format")
}

func TestExplain(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "--format", "text", "explain")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, manifest.Guide(), out)
}

func TestCompletionAndMan(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "completion", "bash")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "mtcollect")

	code, out, _ = run(t, "man")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "MTCOLLECT")

	code, _, _ = run(t, "completion", "tcsh")
	assert.Equal(t, ExitFailure, code)
}
