package addpackage

import (
	"context"

	"github.com/arthur-debert/mtcollect/pkg/commands/internal"
	"github.com/arthur-debert/mtcollect/pkg/config"
	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/manifest"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// FolderResolver looks up the canonical folder name of a registry package.
type FolderResolver interface {
	FolderName(ctx context.Context, url string) (string, error)
}

// AddPackageOptions defines the options for the AddPackage command.
type AddPackageOptions struct {
	ManifestPath string
	Category     types.Category
	Kind         types.OriginKind
	URL          string
	FolderName   string
	// Branch is the git remote branch to track.
	Branch string
	// Sort orders the manifest before saving it.
	Sort bool
	// Settings configures the ContentDB client. Defaults are used when nil.
	Settings *config.Settings
	// Resolver replaces the ContentDB lookup built from Settings.
	Resolver FolderResolver
}

// AddPackage declares a package in the manifest. A ContentDB package
// without an explicit folder name gets the name ContentDB knows it by.
func AddPackage(ctx context.Context, opts AddPackageOptions) (*types.PackageRef, error) {
	log := logging.GetLogger("commands.addpackage")
	log.Debug().Str("command", "AddPackage").Msg("Executing command")

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	folder := opts.FolderName
	if folder == "" && opts.Kind == types.OriginContentDB {
		resolver := opts.Resolver
		if resolver == nil {
			settings, err := internal.ResolveSettings(opts.Settings)
			if err != nil {
				return nil, err
			}
			resolver = internal.NewContentDBHandler(settings)
		}
		if folder, err = resolver.FolderName(ctx, opts.URL); err != nil {
			return nil, err
		}
		if folder == "" {
			return nil, errors.Newf(errors.ErrOriginNotFound, "no package name for %s", opts.URL)
		}
		log.Debug().Str("url", opts.URL).Str("folder", folder).Msg("Resolved folder name")
	}

	ref := types.PackageRef{Kind: opts.Kind, URL: opts.URL, FolderName: folder, Branch: opts.Branch}
	if err := m.Add(opts.Category, ref); err != nil {
		return nil, err
	}
	if err := manifest.Save(opts.ManifestPath, m, manifest.SaveOptions{Sort: opts.Sort}); err != nil {
		return nil, err
	}

	log.Info().
		Str("category", string(opts.Category)).
		Str("package", ref.String()).
		Str("folder", ref.Folder()).
		Msg("Package added")
	return &ref, nil
}
