package createconfig

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/manifest"
)

// CreateConfigOptions defines the options for the CreateConfig command.
type CreateConfigOptions struct {
	// Path is where the new manifest is written.
	Path string
	// Schema also writes the JSON Schema next to the manifest and points
	// the manifest's $schema at it.
	Schema bool
	// AutoSort sets auto_sort in the new manifest.
	AutoSort bool
}

// CreateConfigResult lists the files written.
type CreateConfigResult struct {
	ManifestPath string
	SchemaPath   string
}

// CreateConfig writes an empty manifest. An existing file is never
// overwritten.
func CreateConfig(opts CreateConfigOptions) (*CreateConfigResult, error) {
	log := logging.GetLogger("commands.createconfig")
	log.Debug().Str("command", "CreateConfig").Msg("Executing command")

	if opts.Path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "manifest path is required")
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "failed to get absolute path for %s", opts.Path)
	}

	if _, err := os.Lstat(path); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "%s already exists", path).
			WithDetail("path", path)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "failed to create directory %s", dir)
	}

	result := &CreateConfigResult{ManifestPath: path}
	m := manifest.New(opts.AutoSort)

	if opts.Schema {
		result.SchemaPath = filepath.Join(dir, manifest.SchemaFileName)
		if err := os.WriteFile(result.SchemaPath, manifest.JSONSchema(), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFilesystem, "failed to write schema to %s", result.SchemaPath)
		}
		m.Schema = "./" + manifest.SchemaFileName
		log.Info().Str("path", result.SchemaPath).Msg("Written schema file")
	}

	if err := manifest.Save(path, m, manifest.SaveOptions{}); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("Written manifest")
	return result, nil
}
