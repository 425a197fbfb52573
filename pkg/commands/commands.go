// Package commands provides the command implementations behind the CLI.
//
// Each command lives in its own subdirectory:
//   - update/        - UpdateCollection, the collection reconciler driver
//   - link/          - Sync and SyncDev, the link reconciler drivers
//   - createconfig/  - CreateConfig
//   - addpackage/    - AddPackage
//   - removepackage/ - RemovePackage
//   - internal/      - origin handler wiring shared by the commands
//
// This file re-exports the command functions so callers import one package.
package commands

import (
	"context"

	"github.com/arthur-debert/mtcollect/pkg/commands/addpackage"
	"github.com/arthur-debert/mtcollect/pkg/commands/createconfig"
	"github.com/arthur-debert/mtcollect/pkg/commands/link"
	"github.com/arthur-debert/mtcollect/pkg/commands/removepackage"
	"github.com/arthur-debert/mtcollect/pkg/commands/update"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// UpdateCollection materializes and refreshes the declared packages.
type UpdateCollectionOptions = update.UpdateCollectionOptions

func UpdateCollection(ctx context.Context, opts UpdateCollectionOptions) (*types.RunReport, error) {
	return update.UpdateCollection(ctx, opts)
}

// Sync links collection packages into an install root.
type SyncOptions = link.SyncOptions

func Sync(opts SyncOptions) (*types.SyncReport, error) {
	return link.Sync(opts)
}

// SyncDev links development packages into a collection.
type SyncDevOptions = link.SyncDevOptions

func SyncDev(opts SyncDevOptions) (*types.SyncReport, error) {
	return link.SyncDev(opts)
}

// CreateConfig writes a new, empty manifest.
type CreateConfigOptions = createconfig.CreateConfigOptions
type CreateConfigResult = createconfig.CreateConfigResult

func CreateConfig(opts CreateConfigOptions) (*CreateConfigResult, error) {
	return createconfig.CreateConfig(opts)
}

// AddPackage declares a package in a manifest.
type AddPackageOptions = addpackage.AddPackageOptions

func AddPackage(ctx context.Context, opts AddPackageOptions) (*types.PackageRef, error) {
	return addpackage.AddPackage(ctx, opts)
}

// RemovePackage drops a package declaration from a manifest.
type RemovePackageOptions = removepackage.RemovePackageOptions

func RemovePackage(opts RemovePackageOptions) error {
	return removepackage.RemovePackage(opts)
}
