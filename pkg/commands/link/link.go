package link

import (
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
	"github.com/arthur-debert/mtcollect/pkg/linker"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// SkipNoSource is the reason recorded for categories without a source dir.
const SkipNoSource = "source directory does not exist"

// SkipNotDir is the reason recorded when the category source is not a directory.
const SkipNotDir = "source is not a directory"

// SyncOptions defines the options for the Sync command.
type SyncOptions struct {
	// CollectionRoot holds the packages, one folder per category.
	CollectionRoot string
	// InstallRoot receives one link per package, under the same categories.
	InstallRoot string
	// FS defaults to the real filesystem.
	FS filesystem.FS
}

// SyncDevOptions defines the options for the SyncDev command.
type SyncDevOptions struct {
	// CollectionRoot receives links to the development folders.
	CollectionRoot string
	// DevRoot holds work-in-progress packages, one folder per category.
	DevRoot string
	// FS defaults to the real filesystem.
	FS filesystem.FS
}

// Sync links every package of the collection into the install root.
func Sync(opts SyncOptions) (*types.SyncReport, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("command", "Sync").Msg("Executing command")
	return linkCategories(opts.FS, opts.CollectionRoot, opts.InstallRoot)
}

// SyncDev links every development package into the collection.
func SyncDev(opts SyncDevOptions) (*types.SyncReport, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("command", "SyncDev").Msg("Executing command")
	return linkCategories(opts.FS, opts.DevRoot, opts.CollectionRoot)
}

// linkCategories reconciles sourceRoot/<category> into
// targetRoot/<category> for every category. A report covering the
// categories processed so far is returned alongside any error.
func linkCategories(fsys filesystem.FS, sourceRoot, targetRoot string) (*types.SyncReport, error) {
	log := logging.GetLogger("commands.sync")
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	source, err := paths.Normalize(sourceRoot)
	if err != nil {
		return nil, err
	}
	target, err := paths.Normalize(targetRoot)
	if err != nil {
		return nil, err
	}

	reconciler := linker.New(fsys)
	report := &types.SyncReport{Sections: make([]types.SyncSection, 0, len(types.Categories))}

	for _, category := range types.Categories {
		srcDir := paths.CategoryDir(source, string(category))
		dstDir := paths.CategoryDir(target, string(category))

		info, err := fsys.Stat(srcDir)
		switch {
		case stderrors.Is(err, fs.ErrNotExist):
			log.Info().Str("category", string(category)).Str("source", srcDir).Msg("Skipping category, no source directory")
			report.Sections = append(report.Sections, types.SyncSection{Category: category, Skipped: SkipNoSource})
			continue
		case err != nil:
			return report, errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect %s", srcDir).
				WithDetail("path", srcDir)
		case !info.IsDir():
			log.Warn().Str("category", string(category)).Str("source", srcDir).Msg("Skipping category, source is not a directory")
			report.Sections = append(report.Sections, types.SyncSection{Category: category, Skipped: SkipNotDir})
			continue
		}

		links, err := reconciler.Reconcile(srcDir, dstDir)
		if err != nil {
			return report, err
		}
		log.Info().
			Str("category", string(category)).
			Int("created", len(links.Created())).
			Int("conflicts", len(links.Conflicts())).
			Int("failed", len(links.Failures())).
			Msg("Category linked")
		report.Sections = append(report.Sections, types.SyncSection{Category: category, Report: links})
	}

	return report, nil
}
