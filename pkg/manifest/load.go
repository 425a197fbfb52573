package manifest

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// SaveOptions controls how a manifest is written.
type SaveOptions struct {
	// Sort orders every category by url before writing, regardless of the
	// manifest's auto_sort setting.
	Sort bool
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	logger := logging.GetLogger("manifest")

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "manifest %s does not exist", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read manifest %s", path).
			WithDetail("path", path)
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Int("packages", m.Count()).Msg("Manifest loaded")
	return m, nil
}

// Parse validates and decodes manifest data. filename is used in messages.
func Parse(data []byte, filename string) (*Manifest, error) {
	m, err := decode(data, filename)
	if err != nil {
		return nil, err
	}
	m.normalize()

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks what the schema cannot: every reference is well formed
// and folder names are unique within a category, derived names included.
func Validate(m *Manifest) error {
	for _, category := range types.Categories {
		seen := make(map[string]string)
		for i, ref := range m.Packages(category) {
			if err := ref.Validate(); err != nil {
				return errors.Wrapf(err, errors.ErrConfigValid, "%s[%d] is invalid", category, i).
					WithDetail("category", string(category)).
					WithDetail("index", i)
			}

			folder := ref.Folder()
			if other, dup := seen[folder]; dup {
				return errors.Newf(errors.ErrConfigValid,
					"%s: %s and %s both use folder %q", category, other, ref.URL, folder).
					WithDetail("category", string(category)).
					WithDetail("folder_name", folder)
			}
			seen[folder] = ref.URL
		}
	}
	return nil
}

// Save writes m to path as indented JSON with a trailing newline. Categories
// are sorted first when opts.Sort or the manifest's auto_sort is set.
func Save(path string, m *Manifest, opts SaveOptions) error {
	m.normalize()
	if opts.Sort || m.AutoSort {
		m.Sort()
	}

	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot write manifest %s", path).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().Str("path", path).Int("packages", m.Count()).Msg("Manifest saved")
	return nil
}

// Marshal encodes m the way Save writes it.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "encoding manifest")
	}
	return append(data, '\n'), nil
}
