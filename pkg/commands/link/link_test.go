package link

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mtcollect/pkg/testutil"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

func section(t *testing.T, r *types.SyncReport, c types.Category) types.SyncSection {
	t.Helper()
	for _, s := range r.Sections {
		if s.Category == c {
			return s
		}
	}
	t.Fatalf("no section for %s", c)
	return types.SyncSection{}
}

func TestSync(t *testing.T) {
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	install := filepath.Join(base, "install")
	testutil.CreateFileTree(t, collection, testutil.FileTree{
		"mods": testutil.FileTree{
			"i3":        testutil.FileTree{"init.lua": "-- i3"},
			"worldedit": testutil.FileTree{"init.lua": "-- we"},
		},
		"games": testutil.FileTree{
			"mineclone2": testutil.FileTree{"game.conf": "name = mcl"},
		},
	})
	testutil.CreateFileTree(t, install, testutil.FileTree{
		"mods": testutil.FileTree{
			"worldedit": testutil.FileTree{"init.lua": "-- someone else's copy"},
		},
	})

	report, err := Sync(SyncOptions{CollectionRoot: collection, InstallRoot: install})
	require.NoError(t, err)
	require.Len(t, report.Sections, len(types.Categories))

	mods := section(t, report, types.CategoryMods)
	require.NotNil(t, mods.Report)
	require.Len(t, mods.Report.Created(), 1)
	require.Len(t, mods.Report.Conflicts(), 1)
	assert.Equal(t, "worldedit", mods.Report.Conflicts()[0].Name)
	testutil.AssertSymlinkTo(t, filepath.Join(install, "mods", "i3"), filepath.Join(collection, "mods", "i3"))
	testutil.AssertFileContent(t, filepath.Join(install, "mods", "worldedit", "init.lua"), "-- someone else's copy")

	games := section(t, report, types.CategoryGames)
	require.NotNil(t, games.Report)
	testutil.AssertSymlinkTo(t, filepath.Join(install, "games", "mineclone2"), filepath.Join(collection, "games", "mineclone2"))

	cm := section(t, report, types.CategoryClientMods)
	assert.Nil(t, cm.Report)
	assert.Equal(t, SkipNoSource, cm.Skipped)
	assert.NoDirExists(t, filepath.Join(install, "client_mods"))

	assert.True(t, report.HasConflicts())
	assert.False(t, report.HasFailures())
}

func TestSync_Idempotent(t *testing.T) {
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	install := filepath.Join(base, "install")
	testutil.CreateFileTree(t, collection, testutil.FileTree{
		"texture_packs": testutil.FileTree{"soothing": testutil.FileTree{"a.png": "png"}},
	})

	_, err := Sync(SyncOptions{CollectionRoot: collection, InstallRoot: install})
	require.NoError(t, err)

	report, err := Sync(SyncOptions{CollectionRoot: collection, InstallRoot: install})
	require.NoError(t, err)
	tp := section(t, report, types.CategoryTexturePacks)
	require.NotNil(t, tp.Report)
	assert.Empty(t, tp.Report.Created())
	assert.Len(t, tp.Report.AlreadyLinked(), 1)
	assert.False(t, report.HasConflicts())
}

func TestSyncDev(t *testing.T) {
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	dev := filepath.Join(base, "dev")
	testutil.CreateFileTree(t, dev, testutil.FileTree{
		"mods": testutil.FileTree{"mymod": testutil.FileTree{"init.lua": "-- wip"}},
	})
	testutil.CreateFileTree(t, collection, testutil.FileTree{
		"mods": testutil.FileTree{"i3": testutil.FileTree{}},
	})

	report, err := SyncDev(SyncDevOptions{CollectionRoot: collection, DevRoot: dev})
	require.NoError(t, err)

	mods := section(t, report, types.CategoryMods)
	require.NotNil(t, mods.Report)
	assert.Equal(t, filepath.Join(dev, "mods"), mods.Report.SourceDir)
	testutil.AssertSymlinkTo(t, filepath.Join(collection, "mods", "mymod"), filepath.Join(dev, "mods", "mymod"))
	assert.DirExists(t, filepath.Join(collection, "mods", "i3"))
}

func TestSync_SourceNotADirectory(t *testing.T) {
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	require.NoError(t, os.MkdirAll(collection, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(collection, "mods"), []byte("x"), 0644))

	report, err := Sync(SyncOptions{CollectionRoot: collection, InstallRoot: filepath.Join(base, "install")})
	require.NoError(t, err)
	assert.Equal(t, SkipNotDir, section(t, report, types.CategoryMods).Skipped)
}

func TestSync_EmptyRoot(t *testing.T) {
	_, err := Sync(SyncOptions{CollectionRoot: "", InstallRoot: t.TempDir()})
	assert.Error(t, err)
}
