package contentdb

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
)

// MarkerFile records which release a package directory was extracted from.
const MarkerFile = ".contentdb.json"

type marker struct {
	Author  string `json:"author"`
	Name    string `json:"name"`
	Release int    `json:"release"`
	Title   string `json:"title,omitempty"`
}

// readMarker returns the marker in dir, or nil when there is none.
func readMarker(fsys filesystem.FS, dir string) (*marker, error) {
	data, err := fsys.ReadFile(filepath.Join(dir, MarkerFile))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "reading %s marker in %s", MarkerFile, dir)
	}

	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		// An unreadable marker is treated as absent so the package is reinstalled.
		return nil, nil
	}
	return &m, nil
}

func writeMarker(fsys filesystem.FS, dir string, m marker) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "encoding marker")
	}
	data = append(data, '\n')
	if err := fsys.WriteFile(filepath.Join(dir, MarkerFile), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "writing %s marker in %s", MarkerFile, dir)
	}
	return nil
}
