package paths

import (
	"fmt"
	"net/url"
	"strings"
)

// GitFolderName returns the last path segment of a repository URL without
// its extension:
//
//	https://github.com/minetest-mods/i3          -> i3
//	https://github.com/minetest-mods/i3.git      -> i3
//	https://git.minetest.land/MineClone2/MineClone2/ -> MineClone2
//
// scp-like locators (git@host:owner/repo.git) are accepted too.
func GitFolderName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		p = u.Path
	} else if i := strings.LastIndex(rawURL, ":"); i >= 0 {
		p = rawURL[i+1:]
	}

	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if i := strings.LastIndex(p, "."); i > 0 {
		p = p[:i]
	}
	return p
}

// ContentDBLocator splits a ContentDB package page URL of the form
// https://content.minetest.net/packages/<author>/<name>/ into author and name.
func ContentDBLocator(rawURL string) (author, name string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid ContentDB url %q: %w", rawURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "packages" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid ContentDB url %q: expected /packages/<author>/<name>/", rawURL)
	}

	return parts[1], parts[2], nil
}
