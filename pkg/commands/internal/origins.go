// Package internal holds the wiring shared by the command implementations.
package internal

import (
	"net/http"

	"github.com/arthur-debert/mtcollect/pkg/config"
	"github.com/arthur-debert/mtcollect/pkg/origin"
	"github.com/arthur-debert/mtcollect/pkg/origin/contentdb"
	"github.com/arthur-debert/mtcollect/pkg/origin/git"
	"github.com/arthur-debert/mtcollect/pkg/paths"
)

// ResolveSettings returns s, or the built-in defaults when s is nil.
func ResolveSettings(s *config.Settings) (*config.Settings, error) {
	if s != nil {
		return s, nil
	}
	return config.Defaults()
}

// NewContentDBClient builds a registry client from the settings.
func NewContentDBClient(s *config.Settings) *contentdb.Client {
	return contentdb.NewClient(
		contentdb.WithBaseURL(s.ContentDB.URL),
		contentdb.WithUserAgent(s.ContentDB.UserAgent),
		contentdb.WithHTTPClient(&http.Client{Timeout: s.HTTP.Timeout}),
	)
}

// NewContentDBHandler builds the ContentDB origin handler. Archives are
// staged in the cache download directory.
func NewContentDBHandler(s *config.Settings) *contentdb.Handler {
	return contentdb.New(NewContentDBClient(s), contentdb.WithDownloadDir(paths.DownloadDir()))
}

// NewGitHandler builds the git origin handler.
func NewGitHandler(s *config.Settings) *git.Handler {
	return git.New(
		git.WithRunner(git.NewExecRunner(s.Git.Binary)),
		git.WithRemote(s.Git.Remote),
	)
}

// NewRegistry registers a handler for every supported origin kind.
func NewRegistry(s *config.Settings) (*origin.Registry, error) {
	return origin.NewRegistry(NewGitHandler(s), NewContentDBHandler(s))
}
