package contentdb

import (
	"archive/zip"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
)

// maxEntryBytes bounds a single extracted file (512 MB).
var maxEntryBytes int64 = 512 << 20

// extract unpacks the archive into dest. When every entry lives under one
// shared top-level directory that directory is stripped, so
// "mymod/init.lua" lands at dest/init.lua. Entries that would escape dest
// abort the extraction before anything is written.
func extract(fsys filesystem.FS, zr *zip.Reader, dest string) error {
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		name, err := entryName(f.Name)
		if err != nil {
			return err
		}
		names[i] = name
	}

	prefix := sharedTopDir(zr.File, names)

	for i, f := range zr.File {
		rel := strings.TrimPrefix(names[i], prefix)
		if rel == "" {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := fsys.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFilesystem, "creating %s", target)
			}
		case mode&fs.ModeSymlink != 0:
			// Archive links are not followed or recreated.
			continue
		default:
			if err := writeEntry(fsys, f, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// entryName cleans an archive path and rejects anything that is not local.
func entryName(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if strings.HasSuffix(name, "/") && clean != "." {
		clean += "/"
	}
	if !filepath.IsLocal(filepath.FromSlash(strings.TrimSuffix(clean, "/"))) {
		return "", errors.Newf(errors.ErrFilesystem, "archive entry %q escapes the destination", name).
			WithDetail("entry", name)
	}
	return clean, nil
}

// sharedTopDir returns "top/" when every entry is under the same top-level
// directory, or "" otherwise.
func sharedTopDir(files []*zip.File, names []string) string {
	top := ""
	for i, name := range names {
		first, _, nested := strings.Cut(name, "/")
		if !nested && !files[i].Mode().IsDir() {
			return ""
		}
		if top == "" {
			top = first
		} else if top != first {
			return ""
		}
	}
	if top == "" {
		return ""
	}
	return top + "/"
}

func writeEntry(fsys filesystem.FS, f *zip.File, target string) error {
	if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "creating %s", filepath.Dir(target))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "reading archive entry %s", f.Name)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "reading archive entry %s", f.Name)
	}
	if int64(len(data)) > maxEntryBytes {
		return errors.Newf(errors.ErrFilesystem, "archive entry %s is larger than %d bytes", f.Name, maxEntryBytes).
			WithDetail("entry", f.Name)
	}

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	if err := fsys.WriteFile(target, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "writing %s", target)
	}
	return nil
}
