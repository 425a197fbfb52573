package manifest

import _ "embed"

//go:embed guide.md
var guide string

// Guide returns the manifest guide as markdown.
func Guide() string {
	return guide
}
