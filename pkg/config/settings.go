package config

import (
	_ "embed"
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// EnvPrefix prefixes every environment override, e.g. MTCOLLECT_HTTP_TIMEOUT.
const EnvPrefix = "MTCOLLECT_"

// OutputFormats lists the accepted output.format values.
var OutputFormats = []string{"auto", "term", "text", "json", "yaml"}

// Settings is the effective tool configuration.
type Settings struct {
	ContentDB ContentDBSettings `koanf:"contentdb"`
	HTTP      HTTPSettings      `koanf:"http"`
	Git       GitSettings       `koanf:"git"`
	Output    OutputSettings    `koanf:"output"`

	// Source is the settings file that was loaded, empty when none was.
	Source string `koanf:"-"`
}

type ContentDBSettings struct {
	URL       string `koanf:"url"`
	UserAgent string `koanf:"user_agent"`
}

type HTTPSettings struct {
	Timeout time.Duration `koanf:"timeout"`
}

type GitSettings struct {
	Binary string `koanf:"binary"`
	Remote string `koanf:"remote"`
}

type OutputSettings struct {
	Format string `koanf:"format"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Defaults returns the embedded default settings.
func Defaults() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}
	return unmarshal(k)
}

// Load builds the effective settings. An empty path means the default
// location under the XDG config directory, which may be absent; an
// explicit path must exist.
func Load(path string) (*Settings, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	explicit := path != ""
	if !explicit {
		path = paths.SettingsPath()
	}

	source := ""
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse settings file %s", path).
				WithDetail("path", path)
		}
		source = path
	} else if explicit || !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read settings file %s", path).
			WithDetail("path", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	s, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	s.Source = source

	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Str("source", source).Msg("Settings loaded")
	return s, nil
}

// Override applies flat key/value overrides (e.g. from flags) on top of s.
func (s *Settings) Override(values map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(s.flatten(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load settings")
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
	}

	out, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	out.Source = s.Source
	return out, out.Validate()
}

// Validate checks value ranges koanf cannot.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.ContentDB.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Newf(errors.ErrConfigValid, "contentdb.url %q is not an absolute url", s.ContentDB.URL).
			WithDetail("key", "contentdb.url")
	}
	if s.HTTP.Timeout < 0 {
		return errors.Newf(errors.ErrConfigValid, "http.timeout must not be negative (got %s)", s.HTTP.Timeout).
			WithDetail("key", "http.timeout")
	}
	if strings.TrimSpace(s.Git.Binary) == "" {
		return errors.New(errors.ErrConfigValid, "git.binary must not be empty").WithDetail("key", "git.binary")
	}
	if strings.TrimSpace(s.Git.Remote) == "" {
		return errors.New(errors.ErrConfigValid, "git.remote must not be empty").WithDetail("key", "git.remote")
	}
	for _, f := range OutputFormats {
		if s.Output.Format == f {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigValid, "output.format %q must be one of %s", s.Output.Format, strings.Join(OutputFormats, ", ")).
		WithDetail("key", "output.format")
}

func (s *Settings) flatten() map[string]interface{} {
	return map[string]interface{}{
		"contentdb.url":        s.ContentDB.URL,
		"contentdb.user_agent": s.ContentDB.UserAgent,
		"http.timeout":         s.HTTP.Timeout.String(),
		"git.binary":           s.Git.Binary,
		"git.remote":           s.Git.Remote,
		"output.format":        s.Output.Format,
	}
}

// envKey maps MTCOLLECT_CONTENTDB_USER_AGENT to contentdb.user_agent: the
// first underscore separates the section, the rest belong to the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*Settings, error) {
	var s Settings
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, conf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid settings")
	}
	return &s, nil
}
