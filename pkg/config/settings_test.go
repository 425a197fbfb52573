package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the settings lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	return dir
}

func TestDefaults(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)

	assert.Equal(t, "https://content.minetest.net", s.ContentDB.URL)
	assert.Equal(t, "mtcollect", s.ContentDB.UserAgent)
	assert.Equal(t, 60*time.Second, s.HTTP.Timeout)
	assert.Equal(t, "git", s.Git.Binary)
	assert.Equal(t, "origin", s.Git.Remote)
	assert.Equal(t, "auto", s.Output.Format)
	assert.NoError(t, s.Validate())
}

func TestLoad_NoSettingsFile(t *testing.T) {
	isolate(t)

	s, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, s.Source)
	assert.Equal(t, "origin", s.Git.Remote)
}

func TestLoad_DefaultLocation(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, paths.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("[http]\ntimeout = \"5s\"\n\n[git]\nremote = \"upstream\"\n"), 0644))

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, s.Source)
	assert.Equal(t, 5*time.Second, s.HTTP.Timeout)
	assert.Equal(t, "upstream", s.Git.Remote)
	assert.Equal(t, "git", s.Git.Binary, "unset keys keep their defaults")
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\nformat = \"json\"\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Output.Format)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_MalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[http\ntimeout = "), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MTCOLLECT_CONTENTDB_USER_AGENT", "collector/1.0")
	t.Setenv("MTCOLLECT_HTTP_TIMEOUT", "90s")
	t.Setenv("MTCOLLECT_OUTPUT_FORMAT", "yaml")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "collector/1.0", s.ContentDB.UserAgent)
	assert.Equal(t, 90*time.Second, s.HTTP.Timeout)
	assert.Equal(t, "yaml", s.Output.Format)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"MTCOLLECT_OUTPUT_FORMAT": "xml",
		"MTCOLLECT_CONTENTDB_URL": "not a url",
		"MTCOLLECT_GIT_REMOTE":    " ",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)

			_, err := Load("")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestOverride(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)

	out, err := s.Override(map[string]interface{}{"output.format": "text"})
	require.NoError(t, err)
	assert.Equal(t, "text", out.Output.Format)
	assert.Equal(t, s.HTTP.Timeout, out.HTTP.Timeout)
	assert.Equal(t, "auto", s.Output.Format, "original is untouched")

	_, err = s.Override(map[string]interface{}{"output.format": "html"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "contentdb.user_agent", envKey("MTCOLLECT_CONTENTDB_USER_AGENT"))
	assert.Equal(t, "http.timeout", envKey("MTCOLLECT_HTTP_TIMEOUT"))
}

func TestTOML(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)

	data, err := s.TOML()
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, "1m0s", decoded["http"]["timeout"])
	assert.Equal(t, "origin", decoded["git"]["remote"])

	// The dump can be fed back as a settings file.
	path := filepath.Join(t.TempDir(), "dump.toml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	isolate(t)
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.HTTP, again.HTTP)
}

func TestDefaultFile(t *testing.T) {
	assert.Contains(t, string(DefaultFile()), "[contentdb]")
}
