package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/mtcollect/pkg/errors"
)

type settingsDump struct {
	ContentDB struct {
		URL       string `toml:"url"`
		UserAgent string `toml:"user_agent"`
	} `toml:"contentdb"`
	HTTP struct {
		Timeout string `toml:"timeout"`
	} `toml:"http"`
	Git struct {
		Binary string `toml:"binary"`
		Remote string `toml:"remote"`
	} `toml:"git"`
	Output struct {
		Format string `toml:"format"`
	} `toml:"output"`
}

// TOML renders the settings in the same shape as the settings file.
func (s *Settings) TOML() ([]byte, error) {
	var d settingsDump
	d.ContentDB.URL = s.ContentDB.URL
	d.ContentDB.UserAgent = s.ContentDB.UserAgent
	d.HTTP.Timeout = s.HTTP.Timeout.String()
	d.Git.Binary = s.Git.Binary
	d.Git.Remote = s.Git.Remote
	d.Output.Format = s.Output.Format

	data, err := toml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "encoding settings")
	}
	return data, nil
}

// DefaultFile returns the commented default settings file.
func DefaultFile() []byte {
	return append([]byte(nil), defaultSettings...)
}
