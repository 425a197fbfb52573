package update

import (
	"context"

	"github.com/arthur-debert/mtcollect/pkg/collection"
	"github.com/arthur-debert/mtcollect/pkg/commands/internal"
	"github.com/arthur-debert/mtcollect/pkg/config"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/manifest"
	"github.com/arthur-debert/mtcollect/pkg/origin"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// UpdateCollectionOptions defines the options for the UpdateCollection command.
type UpdateCollectionOptions struct {
	// ManifestPath is the manifest declaring the packages.
	ManifestPath string
	// CollectionRoot is the directory holding one folder per category.
	CollectionRoot string
	// Settings configures the origin handlers. Defaults are used when nil.
	Settings *config.Settings
	// Handlers replaces the registry built from Settings.
	Handlers *origin.Registry
	// Progress observes every entry.
	Progress collection.ProgressFunc
}

// UpdateCollection materializes missing packages and refreshes present
// ones. A manifest that cannot be loaded aborts before anything is touched;
// per-package failures are carried in the report.
func UpdateCollection(ctx context.Context, opts UpdateCollectionOptions) (*types.RunReport, error) {
	log := logging.GetLogger("commands.update")
	log.Debug().Str("command", "UpdateCollection").Msg("Executing command")

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	root, err := paths.Normalize(opts.CollectionRoot)
	if err != nil {
		return nil, err
	}

	handlers := opts.Handlers
	if handlers == nil {
		settings, err := internal.ResolveSettings(opts.Settings)
		if err != nil {
			return nil, err
		}
		if handlers, err = internal.NewRegistry(settings); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("manifest", opts.ManifestPath).
		Str("root", root).
		Int("packages", m.Count()).
		Interface("origins", handlers.Kinds()).
		Msg("Updating collection")

	done := logging.LogOperationStart(log, "update collection")
	defer done()

	reconciler := collection.New(handlers, collection.WithProgress(opts.Progress))
	report, err := reconciler.Reconcile(ctx, root, m.Categorized())
	if err != nil {
		return report, err
	}

	log.Info().
		Int("succeeded", len(report.Succeeded())).
		Int("failed", len(report.Failures())).
		Int("orphans", len(report.Orphans)).
		Msg("Command finished")
	return report, nil
}
