package linker

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/arthur-debert/mtcollect/pkg/types"
	"github.com/rs/zerolog"
)

// Reconciler links source children into a target directory.
type Reconciler struct {
	fs     filesystem.FS
	logger zerolog.Logger
}

// New creates a Reconciler working on fs.
func New(fs filesystem.FS) *Reconciler {
	return &Reconciler{
		fs:     fs,
		logger: logging.GetLogger("linker"),
	}
}

// Reconcile ensures targetDir/<name> is a symlink to sourceDir/<name> for
// every immediate child of sourceDir. The returned error is reserved for
// problems that prevent looking at the directories at all; per-child
// problems are recorded in the report.
func (r *Reconciler) Reconcile(sourceDir, targetDir string) (*types.LinkReport, error) {
	absSource, err := paths.Normalize(sourceDir)
	if err != nil {
		return nil, err
	}
	absTarget, err := paths.Normalize(targetDir)
	if err != nil {
		return nil, err
	}

	entries, err := r.fs.ReadDir(absSource)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot list source directory %s", absSource).
			WithDetail("path", absSource)
	}

	if err := r.ensureTargetDir(absTarget); err != nil {
		return nil, err
	}

	report := &types.LinkReport{
		SourceDir: absSource,
		TargetDir: absTarget,
		Entries:   make([]types.LinkEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		name := entry.Name()
		linkEntry := r.reconcileChild(
			name,
			filepath.Join(absSource, name),
			filepath.Join(absTarget, name),
			absTarget,
		)
		r.logger.Debug().
			Str("name", name).
			Str("target", linkEntry.Target).
			Str("state", string(linkEntry.State)).
			Msg("Link reconciled")
		report.Entries = append(report.Entries, linkEntry)
	}

	return report, nil
}

func (r *Reconciler) ensureTargetDir(dir string) error {
	info, err := r.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.Newf(errors.ErrFilesystem, "target %s is not a directory", dir).
				WithDetail("path", dir)
		}
		return nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect target directory %s", dir)
	}
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot create target directory %s", dir)
	}
	return nil
}

func (r *Reconciler) reconcileChild(name, source, target, targetDir string) types.LinkEntry {
	entry := types.LinkEntry{Name: name, Source: source, Target: target}

	info, err := r.fs.Lstat(target)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		if err := r.fs.Symlink(source, target); err != nil {
			entry.State = types.LinkFailed
			entry.Err = linkError(err, target)
			return entry
		}
		entry.State = types.LinkCreated
		return entry

	case err != nil:
		entry.State = types.LinkFailed
		entry.Err = errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect %s", target).
			WithDetail("path", target)
		return entry

	case info.Mode()&os.ModeSymlink != 0:
		dest, err := r.fs.Readlink(target)
		if err != nil {
			entry.State = types.LinkFailed
			entry.Err = linkError(err, target)
			return entry
		}
		if resolveLink(targetDir, dest) == source {
			entry.State = types.LinkAlreadyLinked
			return entry
		}
		entry.State = types.LinkConflict
		entry.Existing = dest
		entry.Err = errors.Newf(errors.ErrLinkConflict, "%s is a symlink to %s", target, dest).
			WithDetail("path", target).
			WithDetail("existing", dest)
		return entry

	default:
		kind := "file"
		if info.IsDir() {
			kind = "directory"
		}
		entry.State = types.LinkConflict
		entry.Err = errors.Newf(errors.ErrLinkConflict, "%s already exists as a %s", target, kind).
			WithDetail("path", target)
		return entry
	}
}

// resolveLink makes a link destination absolute relative to the directory
// holding the link.
func resolveLink(linkDir, dest string) string {
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(linkDir, dest)
	}
	return filepath.Clean(dest)
}

func linkError(err error, target string) error {
	if filesystem.IsNotSymlinkable(err) {
		return errors.Wrapf(err, errors.ErrNotSymlinkable, "%s is not symlinkable", target).
			WithDetail("path", target)
	}
	return errors.Wrapf(err, errors.ErrFilesystem, "cannot link %s", target).
		WithDetail("path", target)
}
