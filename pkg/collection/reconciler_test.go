package collection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
	"github.com/arthur-debert/mtcollect/pkg/linker"
	"github.com/arthur-debert/mtcollect/pkg/origin"
	"github.com/arthur-debert/mtcollect/pkg/origin/origintest"
	"github.com/arthur-debert/mtcollect/pkg/testutil"
	"github.com/arthur-debert/mtcollect/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func gitRef(url string) types.PackageRef {
	return types.PackageRef{Kind: types.OriginGit, URL: url}
}

// newGitMock returns a git handler mock whose Materialize creates dest.
func newGitMock(t *testing.T) *origintest.MockHandler {
	h := origintest.NewMockHandler(types.OriginGit)
	h.OnMaterialize = func(_ types.PackageRef, dest string) {
		require.NoError(t, os.MkdirAll(dest, 0755))
	}
	return h
}

func newReconciler(t *testing.T, handlers ...origin.Handler) *Reconciler {
	reg, err := origin.NewRegistry(handlers...)
	require.NoError(t, err)
	return New(reg)
}

func TestReconcile_MaterializesMissingPackages(t *testing.T) {
	root := t.TempDir()
	h := newGitMock(t)
	h.On("Materialize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	refs := types.CategorizedRefs{
		types.CategoryMods:  {gitRef("https://github.com/minetest-mods/i3.git")},
		types.CategoryGames: {gitRef("https://git.minetest.land/MineClone2/MineClone2/")},
	}

	report, err := newReconciler(t, h).Reconcile(context.Background(), root, refs)
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, types.ActionMaterialize, report.Entries[0].Action)
	assert.Equal(t, filepath.Join(root, "mods", "i3"), report.Entries[0].Path)
	assert.Equal(t, filepath.Join(root, "games", "MineClone2"), report.Entries[1].Path)
	assert.False(t, report.Failed())
	assert.DirExists(t, filepath.Join(root, "mods", "i3"))
	h.AssertNumberOfCalls(t, "Materialize", 2)
	h.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_MaterializeThenRefresh(t *testing.T) {
	root := t.TempDir()
	h := newGitMock(t)
	h.On("Materialize", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	h.On("Refresh", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	refs := types.CategorizedRefs{types.CategoryMods: {gitRef("https://github.com/x/mod")}}
	r := newReconciler(t, h)

	first, err := r.Reconcile(context.Background(), root, refs)
	require.NoError(t, err)
	assert.Equal(t, types.ActionMaterialize, first.Entries[0].Action)

	second, err := r.Reconcile(context.Background(), root, refs)
	require.NoError(t, err)
	assert.Equal(t, types.ActionRefresh, second.Entries[0].Action)

	h.AssertExpectations(t)
}

func TestReconcile_PresenceIsTheOnlySignal(t *testing.T) {
	root := t.TempDir()
	// An empty directory is still "present".
	require.NoError(t, os.MkdirAll(filepath.Join(root, "mods", "mod"), 0755))

	h := newGitMock(t)
	h.On("Refresh", mock.Anything, mock.Anything, filepath.Join(root, "mods", "mod")).Return(nil)

	report, err := newReconciler(t, h).Reconcile(context.Background(), root,
		types.CategorizedRefs{types.CategoryMods: {gitRef("https://github.com/x/mod")}})
	require.NoError(t, err)
	assert.Equal(t, types.ActionRefresh, report.Entries[0].Action)
	h.AssertExpectations(t)
}

func TestReconcile_DoesNotRefreshThroughDevLinks(t *testing.T) {
	root := t.TempDir()
	dev := t.TempDir()
	testutil.CreateFileTree(t, dev, testutil.FileTree{
		"mods": testutil.FileTree{
			"tsm_pyramids": testutil.FileTree{"init.lua": "dev", "work_in_progress.lua": "wip"},
		},
	})

	link, err := linker.New(filesystem.NewOS()).Reconcile(filepath.Join(dev, "mods"), filepath.Join(root, "mods"))
	require.NoError(t, err)
	require.Len(t, link.Created(), 1)

	cdb := origintest.NewMockHandler(types.OriginContentDB)
	ref := types.PackageRef{Kind: types.OriginContentDB, URL: "https://content.minetest.net/packages/Wuzzy/tsm_pyramids/"}

	report, err := newReconciler(t, cdb).Reconcile(context.Background(), root,
		types.CategorizedRefs{types.CategoryMods: {ref}})
	require.NoError(t, err)

	require.Len(t, report.Failures(), 1)
	assert.Equal(t, types.ActionRefresh, report.Entries[0].Action)
	assert.True(t, errors.IsErrorCode(report.Entries[0].Err, errors.ErrLinkedPackage))
	cdb.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything, mock.Anything)
	testutil.AssertFileContent(t, filepath.Join(dev, "mods", "tsm_pyramids", "work_in_progress.lua"), "wip")
	testutil.AssertSymlinkTo(t, filepath.Join(root, "mods", "tsm_pyramids"), filepath.Join(dev, "mods", "tsm_pyramids"))
}

func TestReconcile_FailureIsIsolated(t *testing.T) {
	root := t.TempDir()
	bad := gitRef("https://github.com/x/bad")
	h := newGitMock(t)
	h.On("Materialize", mock.Anything, bad, mock.Anything).
		Return(errors.New(errors.ErrOriginNetwork, "unreachable"))
	h.On("Materialize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	refs := types.CategorizedRefs{
		types.CategoryMods: {
			gitRef("https://github.com/x/one"),
			bad,
			gitRef("https://github.com/x/three"),
		},
		types.CategoryTexturePacks: {gitRef("https://github.com/x/tp")},
	}

	report, err := newReconciler(t, h).Reconcile(context.Background(), root, refs)
	require.NoError(t, err)

	require.Len(t, report.Entries, 4)
	assert.True(t, report.Failed())
	require.Len(t, report.Failures(), 1)
	assert.Equal(t, bad, report.Failures()[0].Ref)
	assert.True(t, errors.IsErrorCode(report.Failures()[0].Err, errors.ErrOriginNetwork))
	assert.Len(t, report.Succeeded(), 3)
	assert.DirExists(t, filepath.Join(root, "mods", "three"))
	assert.DirExists(t, filepath.Join(root, "texture_packs", "tp"))
}

func TestReconcile_CategoryOrder(t *testing.T) {
	root := t.TempDir()
	h := newGitMock(t)
	h.On("Materialize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	refs := types.CategorizedRefs{
		types.CategoryTexturePacks: {gitRef("https://x/tp")},
		types.CategoryGames:        {gitRef("https://x/game")},
		types.CategoryClientMods:   {gitRef("https://x/cm")},
		types.CategoryMods:         {gitRef("https://x/m1"), gitRef("https://x/m2")},
	}

	report, err := newReconciler(t, h).Reconcile(context.Background(), root, refs)
	require.NoError(t, err)

	var got []string
	for _, e := range report.Entries {
		got = append(got, string(e.Category)+"/"+e.Ref.Folder())
	}
	assert.Equal(t, []string{"mods/m1", "mods/m2", "client_mods/cm", "games/game", "texture_packs/tp"}, got)
}

func TestReconcile_UnknownOriginKind(t *testing.T) {
	root := t.TempDir()
	h := newGitMock(t)
	h.On("Materialize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	refs := types.CategorizedRefs{types.CategoryMods: {
		{Kind: types.OriginContentDB, URL: "https://content.minetest.net/packages/a/b/"},
		gitRef("https://x/after"),
	}}

	report, err := newReconciler(t, h).Reconcile(context.Background(), root, refs)
	require.NoError(t, err)

	require.Len(t, report.Failures(), 1)
	assert.True(t, errors.IsErrorCode(report.Failures()[0].Err, errors.ErrOriginUnsupportedType))
	assert.DirExists(t, filepath.Join(root, "mods", "after"))
}

func TestReconcile_ReportsOrphansWithoutTouchingThem(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFileTree(t, root, testutil.FileTree{
		"mods": testutil.FileTree{
			"declared":  testutil.FileTree{"init.lua": "x"},
			"leftover":  testutil.FileTree{"init.lua": "keep"},
			"notes.txt": "not a package",
		},
	})
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(root, "mods", "devlink")))

	h := newGitMock(t)
	h.On("Refresh", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	report, err := newReconciler(t, h).Reconcile(context.Background(), root,
		types.CategorizedRefs{types.CategoryMods: {gitRef("https://x/declared")}})
	require.NoError(t, err)

	require.Len(t, report.Orphans, 1)
	assert.Equal(t, types.Orphan{
		Category: types.CategoryMods,
		Name:     "leftover",
		Path:     filepath.Join(root, "mods", "leftover"),
	}, report.Orphans[0])
	testutil.AssertFileContent(t, filepath.Join(root, "mods", "leftover", "init.lua"), "keep")
}

func TestReconcile_FailedEntriesAreNotOrphans(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "games", "broken"), 0755))

	h := newGitMock(t)
	h.On("Refresh", mock.Anything, mock.Anything, mock.Anything).Return(errors.New(errors.ErrOriginDirty, "dirty"))

	report, err := newReconciler(t, h).Reconcile(context.Background(), root,
		types.CategorizedRefs{types.CategoryGames: {gitRef("https://x/broken")}})
	require.NoError(t, err)
	assert.Empty(t, report.Orphans)
	assert.True(t, report.Failed())
}

func TestReconcile_EmptyManifest(t *testing.T) {
	root := filepath.Join(t.TempDir(), "collection")

	report, err := newReconciler(t).Reconcile(context.Background(), root, types.CategorizedRefs{})
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.Empty(t, report.Orphans)
	assert.False(t, report.Failed())
}

func TestReconcile_CategoryDirCannotBeCreated(t *testing.T) {
	root := t.TempDir()
	// A file where the category directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(root, "mods"), []byte("x"), 0644))

	h := newGitMock(t)
	refs := types.CategorizedRefs{types.CategoryMods: {gitRef("https://x/a")}}

	report, err := newReconciler(t, h).Reconcile(context.Background(), root, refs)
	require.NoError(t, err)
	require.Len(t, report.Failures(), 1)
	assert.True(t, errors.IsErrorCode(report.Failures()[0].Err, errors.ErrFilesystem))
	h.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_Progress(t *testing.T) {
	root := t.TempDir()
	h := newGitMock(t)
	h.On("Materialize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	reg, err := origin.NewRegistry(h)
	require.NoError(t, err)

	type call struct {
		done, total int
		finished    bool
	}
	var calls []call
	r := New(reg, WithProgress(func(done, total int, _ types.PackageRef, result *types.EntryResult) {
		calls = append(calls, call{done, total, result != nil})
	}))

	_, err = r.Reconcile(context.Background(), root, types.CategorizedRefs{
		types.CategoryMods: {gitRef("https://x/a"), gitRef("https://x/b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []call{{0, 2, false}, {1, 2, true}, {1, 2, false}, {2, 2, true}}, calls)
}

func TestReconcile_CancelledContext(t *testing.T) {
	h := newGitMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newReconciler(t, h).Reconcile(ctx, t.TempDir(),
		types.CategorizedRefs{types.CategoryMods: {gitRef("https://x/a")}})
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Empty(t, report.Entries)
}
