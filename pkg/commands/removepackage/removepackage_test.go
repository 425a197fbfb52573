package removepackage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/manifest"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

func seed(t *testing.T) string {
	t.Helper()
	m := manifest.New(false)
	require.NoError(t, m.Add(types.CategoryMods, types.PackageRef{Kind: types.OriginGit, URL: "https://github.com/a/one"}))
	require.NoError(t, m.Add(types.CategoryMods, types.PackageRef{Kind: types.OriginGit, URL: "https://github.com/a/two"}))
	path := filepath.Join(t.TempDir(), "collection.json")
	require.NoError(t, manifest.Save(path, m, manifest.SaveOptions{}))
	return path
}

func TestRemovePackage(t *testing.T) {
	path := seed(t)

	err := RemovePackage(RemovePackageOptions{
		ManifestPath: path,
		Category:     types.CategoryMods,
		Kind:         types.OriginGit,
		URL:          "https://github.com/a/one",
	})
	require.NoError(t, err)

	m, err := manifest.Load(path)
	require.NoError(t, err)
	require.Len(t, m.Packages(types.CategoryMods), 1)
	assert.Equal(t, "https://github.com/a/two", m.Packages(types.CategoryMods)[0].URL)
}

func TestRemovePackage_NotDeclared(t *testing.T) {
	path := seed(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, opts := range []RemovePackageOptions{
		{ManifestPath: path, Category: types.CategoryMods, Kind: types.OriginGit, URL: "https://github.com/a/three"},
		{ManifestPath: path, Category: types.CategoryMods, Kind: types.OriginContentDB, URL: "https://github.com/a/one"},
		{ManifestPath: path, Category: types.CategoryGames, Kind: types.OriginGit, URL: "https://github.com/a/one"},
	} {
		err := RemovePackage(opts)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "got %v", err)
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemovePackage_MissingManifest(t *testing.T) {
	err := RemovePackage(RemovePackageOptions{
		ManifestPath: filepath.Join(t.TempDir(), "none.json"),
		Category:     types.CategoryMods,
		Kind:         types.OriginGit,
		URL:          "https://x/y",
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
