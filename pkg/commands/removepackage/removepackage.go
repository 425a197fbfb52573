package removepackage

import (
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/manifest"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// RemovePackageOptions defines the options for the RemovePackage command.
type RemovePackageOptions struct {
	ManifestPath string
	Category     types.Category
	Kind         types.OriginKind
	URL          string
}

// RemovePackage drops a declaration from the manifest. The package folder
// in any collection is left alone.
func RemovePackage(opts RemovePackageOptions) error {
	log := logging.GetLogger("commands.removepackage")
	log.Debug().Str("command", "RemovePackage").Msg("Executing command")

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return err
	}
	if err := m.Remove(opts.Category, opts.Kind, opts.URL); err != nil {
		return err
	}
	if err := manifest.Save(opts.ManifestPath, m, manifest.SaveOptions{}); err != nil {
		return err
	}

	log.Info().
		Str("category", string(opts.Category)).
		Str("type", string(opts.Kind)).
		Str("url", opts.URL).
		Msg("Package removed")
	return nil
}
