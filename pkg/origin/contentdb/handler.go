package contentdb

import (
	"archive/zip"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/filesystem"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/arthur-debert/mtcollect/pkg/types"
	"github.com/rs/zerolog"
)

var supportedTypes = map[string]bool{
	TypeMod:         true,
	TypeGame:        true,
	TypeTexturePack: true,
}

// Handler is the origin.Handler for ContentDB packages.
type Handler struct {
	client      *Client
	fs          filesystem.FS
	downloadDir string
	logger      zerolog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithFS sets the filesystem packages are extracted into.
func WithFS(fsys filesystem.FS) Option {
	return func(h *Handler) {
		h.fs = fsys
	}
}

// WithDownloadDir sets where release archives are staged while they are
// extracted. Defaults to the OS temp directory.
func WithDownloadDir(dir string) Option {
	return func(h *Handler) {
		h.downloadDir = dir
	}
}

// New creates a ContentDB handler.
func New(client *Client, opts ...Option) *Handler {
	h := &Handler{
		client: client,
		fs:     filesystem.NewOS(),
		logger: logging.GetLogger("origin.contentdb"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Kind implements origin.Handler.
func (h *Handler) Kind() types.OriginKind {
	return types.OriginContentDB
}

// FolderName resolves the canonical folder name of the package at
// rawURL: its ContentDB name.
func (h *Handler) FolderName(ctx context.Context, rawURL string) (string, error) {
	pkg, err := h.resolvePackage(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return pkg.Name, nil
}

// Materialize installs the newest release of ref into dest.
func (h *Handler) Materialize(ctx context.Context, ref types.PackageRef, dest string) error {
	pkg, release, err := h.resolveRelease(ctx, ref.URL)
	if err != nil {
		return withRef(err, ref, dest)
	}

	h.logger.Info().
		Str("package", pkg.Author+"/"+pkg.Name).
		Int("release", release.ID).
		Str("dest", dest).
		Msg("Installing package")

	if err := h.fs.MkdirAll(dest, 0755); err != nil {
		return withRef(errors.Wrapf(err, errors.ErrFilesystem, "creating %s", dest), ref, dest)
	}
	if err := h.install(ctx, pkg, release, dest); err != nil {
		_ = h.fs.RemoveAll(dest)
		return withRef(err, ref, dest)
	}
	return nil
}

// Refresh replaces the contents of dest when a newer release than the one
// recorded in its marker is available. A dest without a marker is only
// installed into when it is empty; anything else was not put there by this
// handler and is left alone.
func (h *Handler) Refresh(ctx context.Context, ref types.PackageRef, dest string) error {
	current, err := h.inspect(dest)
	if err != nil {
		return withRef(err, ref, dest)
	}

	pkg, release, err := h.resolveRelease(ctx, ref.URL)
	if err != nil {
		return withRef(err, ref, dest)
	}
	if current != nil && current.Release >= release.ID {
		h.logger.Debug().
			Str("package", pkg.Author+"/"+pkg.Name).
			Int("release", current.Release).
			Msg("Package is up to date")
		return nil
	}

	h.logger.Info().
		Str("package", pkg.Author+"/"+pkg.Name).
		Int("release", release.ID).
		Str("dest", dest).
		Msg("Updating package")

	if err := h.install(ctx, pkg, release, dest); err != nil {
		return withRef(err, ref, dest)
	}
	return nil
}

// inspect returns the marker of dest, or nil for an empty directory. A
// symlink, a non-directory or a populated directory without a marker is
// refused.
func (h *Handler) inspect(dest string) (*marker, error) {
	info, err := h.fs.Lstat(dest)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect %s", dest)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, errors.Newf(errors.ErrLinkedPackage, "%s is a symlink, not refreshing it", dest)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrOriginDirty, "%s is not a directory", dest)
	}

	current, err := readMarker(h.fs, dest)
	if err != nil || current != nil {
		return current, err
	}

	entries, err := h.fs.ReadDir(dest)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "listing %s", dest)
	}
	if len(entries) > 0 {
		return nil, errors.Newf(errors.ErrOriginDirty, "%s has no %s and is not empty; remove it to reinstall", dest, MarkerFile)
	}
	return nil, nil
}

func (h *Handler) resolvePackage(ctx context.Context, rawURL string) (*Package, error) {
	author, name, err := paths.ContentDBLocator(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrOriginNotFound, "not a ContentDB package url").
			WithDetail("url", rawURL)
	}

	pkg, err := h.client.GetPackage(ctx, author, name)
	if err != nil {
		return nil, err
	}
	if !supportedTypes[strings.ToLower(pkg.Type)] {
		return nil, errors.Newf(errors.ErrOriginUnsupportedType, "package %s/%s has unsupported type %q", author, name, pkg.Type).
			WithDetail("type", pkg.Type)
	}
	if pkg.Author == "" {
		pkg.Author = author
	}
	if pkg.Name == "" {
		pkg.Name = name
	}
	return pkg, nil
}

func (h *Handler) resolveRelease(ctx context.Context, rawURL string) (*Package, *Release, error) {
	pkg, err := h.resolvePackage(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	release, err := h.client.LatestRelease(ctx, pkg.Author, pkg.Name)
	if err != nil {
		return nil, nil, err
	}
	return pkg, release, nil
}

// install downloads release and swaps it into dest. The download happens
// before dest is touched, so a failed download leaves dest as it was.
func (h *Handler) install(ctx context.Context, pkg *Package, release *Release, dest string) error {
	archive, cleanup, err := h.download(ctx, release)
	if err != nil {
		return err
	}
	defer cleanup()

	zr, err := zip.OpenReader(archive)
	if stderrors.Is(err, zip.ErrInsecurePath) {
		zr.Close()
		return errors.Wrapf(err, errors.ErrFilesystem, "release %d of %s/%s has entries outside the package", release.ID, pkg.Author, pkg.Name)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrOriginNetwork, "release %d of %s/%s is not a valid zip archive", release.ID, pkg.Author, pkg.Name)
	}
	defer zr.Close()

	// Validate every entry before clearing anything.
	for _, f := range zr.File {
		if _, err := entryName(f.Name); err != nil {
			return err
		}
	}

	if err := h.clear(dest); err != nil {
		return err
	}
	if err := extract(h.fs, &zr.Reader, dest); err != nil {
		return err
	}
	return writeMarker(h.fs, dest, marker{
		Author:  pkg.Author,
		Name:    pkg.Name,
		Release: release.ID,
		Title:   release.Title,
	})
}

func (h *Handler) download(ctx context.Context, release *Release) (string, func(), error) {
	dir := h.downloadDir
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", nil, errors.Wrapf(err, errors.ErrFilesystem, "creating download directory %s", dir)
		}
	}

	tmp, err := os.CreateTemp(dir, "release-*.zip")
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrFilesystem, "creating download file")
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if err := h.client.Download(ctx, release, tmp); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, errors.ErrFilesystem, "writing download file")
	}
	return tmp.Name(), cleanup, nil
}

// clear removes the children of dir, keeping dir itself.
func (h *Handler) clear(dir string) error {
	entries, err := h.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "listing %s", dir)
	}
	for _, e := range entries {
		if err := h.fs.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return errors.Wrapf(err, errors.ErrFilesystem, "removing %s", filepath.Join(dir, e.Name()))
		}
	}
	return nil
}

func withRef(err error, ref types.PackageRef, dest string) error {
	if e, ok := err.(*errors.CollectionError); ok {
		return e.WithDetail("url", ref.URL).WithDetail("dest", dest)
	}
	return errors.Wrap(err, errors.GetErrorCode(err), "contentdb origin failed").
		WithDetail("url", ref.URL).
		WithDetail("dest", dest)
}
