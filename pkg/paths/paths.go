package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/mtcollect/pkg/errors"
)

// Environment variable names
const (
	EnvConfigDir = "MTCOLLECT_CONFIG_DIR"
	EnvCacheDir  = "MTCOLLECT_CACHE_DIR"
	EnvStateDir  = "MTCOLLECT_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under each XDG base directory.
	AppDirName = "mtcollect"

	// SettingsFileName is the tool settings file inside ConfigDir.
	SettingsFileName = "config.toml"

	// DownloadsDir is the cache subdirectory for registry downloads.
	DownloadsDir = "downloads"
)

// ConfigDir returns the directory holding the tool settings.
func ConfigDir() string {
	return xdgDir(EnvConfigDir, func() string { return xdg.ConfigHome })
}

// CacheDir returns the directory for disposable files such as downloads.
func CacheDir() string {
	return xdgDir(EnvCacheDir, func() string { return xdg.CacheHome })
}

// StateDir returns the directory for logs.
func StateDir() string {
	return xdgDir(EnvStateDir, func() string { return xdg.StateHome })
}

// SettingsPath returns the default settings file location.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFileName)
}

// DownloadDir returns the directory used to stage registry archives.
func DownloadDir() string {
	return filepath.Join(CacheDir(), DownloadsDir)
}

func xdgDir(envOverride string, base func() string) string {
	if dir := os.Getenv(envOverride); dir != "" {
		return ExpandHome(dir)
	}
	xdg.Reload()
	return filepath.Join(base(), AppDirName)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// Normalize expands ~, makes path absolute and cleans it.
func Normalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFilesystem, "failed to get absolute path for %s", path)
	}

	return filepath.Clean(abs), nil
}
