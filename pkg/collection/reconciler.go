package collection

import (
	"context"
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/origin"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/arthur-debert/mtcollect/pkg/types"
	"github.com/rs/zerolog"
)

// ProgressFunc observes each entry as it starts (result is nil) and again
// when it finishes. done counts finished entries out of total.
type ProgressFunc func(done, total int, ref types.PackageRef, result *types.EntryResult)

// Reconciler drives origin handlers over a collection root.
type Reconciler struct {
	handlers *origin.Registry
	fs       filesystem.FS
	progress ProgressFunc
	logger   zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithFS sets the filesystem used for existence checks and orphan scans.
func WithFS(fsys filesystem.FS) Option {
	return func(r *Reconciler) {
		r.fs = fsys
	}
}

// WithProgress registers a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Reconciler) {
		r.progress = fn
	}
}

// New creates a Reconciler dispatching to handlers.
func New(handlers *origin.Registry, opts ...Option) *Reconciler {
	r := &Reconciler{
		handlers: handlers,
		fs:       filesystem.NewOS(),
		logger:   logging.GetLogger("collection"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile processes every category in fixed order and every reference in
// declaration order. A failing entry never stops the run; it is recorded
// and the next entry is processed. The error return is reserved for an
// unusable root or a cancelled context, in which case the report holds
// what was done so far.
func (r *Reconciler) Reconcile(ctx context.Context, root string, refs types.CategorizedRefs) (*types.RunReport, error) {
	absRoot, err := paths.Normalize(root)
	if err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(r.logger, "reconcile collection")
	defer done()

	report := &types.RunReport{Root: absRoot}
	total := refs.Count()
	finished := 0

	for _, category := range types.Categories {
		declared := make(map[string]bool)

		for _, ref := range refs[category] {
			if err := ctx.Err(); err != nil {
				return report, errors.Wrap(err, errors.ErrInternal, "collection update interrupted")
			}

			r.notify(finished, total, ref, nil)
			result := r.reconcileEntry(ctx, absRoot, category, ref)
			declared[ref.Folder()] = true
			report.Entries = append(report.Entries, result)
			finished++
			r.notify(finished, total, ref, &result)
		}

		report.Orphans = append(report.Orphans, r.findOrphans(absRoot, category, declared)...)
	}

	r.logger.Info().
		Int("entries", len(report.Entries)).
		Int("failed", len(report.Failures())).
		Int("orphans", len(report.Orphans)).
		Msg("Collection reconciled")

	return report, nil
}

func (r *Reconciler) reconcileEntry(ctx context.Context, root string, category types.Category, ref types.PackageRef) types.EntryResult {
	dest := paths.PackagePath(root, string(category), ref.Folder())
	result := types.EntryResult{Category: category, Ref: ref, Path: dest}

	logger := r.logger.With().
		Str("category", string(category)).
		Str("ref", ref.String()).
		Str("dest", dest).
		Logger()

	info, err := r.fs.Lstat(dest)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		result.Action = types.ActionMaterialize
	case err != nil:
		result.Action = types.ActionRefresh
		result.Err = errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect %s", dest).
			WithDetail("path", dest)
		logger.Error().Err(result.Err).Msg("Package failed")
		return result
	case info.Mode()&fs.ModeSymlink != 0:
		// Handlers write below dest; through a link that would be the
		// link's target, which is not part of the collection.
		result.Action = types.ActionRefresh
		target, _ := r.fs.Readlink(dest)
		result.Err = errors.Newf(errors.ErrLinkedPackage, "%s is a symlink to %s, not refreshing it", dest, target).
			WithDetail("path", dest).
			WithDetail("target", target)
		logger.Warn().Err(result.Err).Msg("Package skipped")
		return result
	default:
		result.Action = types.ActionRefresh
	}

	handler, err := r.handlers.Get(ref.Kind)
	if err != nil {
		result.Err = err
		logger.Error().Err(err).Msg("Package failed")
		return result
	}

	if result.Action == types.ActionMaterialize {
		categoryDir := paths.CategoryDir(root, string(category))
		if err := r.fs.MkdirAll(categoryDir, 0755); err != nil {
			result.Err = errors.Wrapf(err, errors.ErrFilesystem, "cannot create %s", categoryDir).
				WithDetail("path", categoryDir)
			logger.Error().Err(result.Err).Msg("Package failed")
			return result
		}
		result.Err = handler.Materialize(ctx, ref, dest)
	} else {
		result.Err = handler.Refresh(ctx, ref, dest)
	}

	if result.Err != nil {
		logger.Error().Err(result.Err).Str("action", string(result.Action)).Msg("Package failed")
	} else {
		logger.Info().Str("action", string(result.Action)).Msg("Package reconciled")
	}
	return result
}

// findOrphans lists directories under root/category that no reference
// declares. Symlinks and plain files are not considered.
func (r *Reconciler) findOrphans(root string, category types.Category, declared map[string]bool) []types.Orphan {
	dir := paths.CategoryDir(root, string(category))
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot scan for orphaned packages")
		}
		return nil
	}

	var orphans []types.Orphan
	for _, e := range entries {
		if !e.IsDir() || declared[e.Name()] {
			continue
		}
		orphans = append(orphans, types.Orphan{
			Category: category,
			Name:     e.Name(),
			Path:     paths.PackagePath(root, string(category), e.Name()),
		})
	}
	return orphans
}

func (r *Reconciler) notify(done, total int, ref types.PackageRef, result *types.EntryResult) {
	if r.progress != nil {
		r.progress(done, total, ref, result)
	}
}
