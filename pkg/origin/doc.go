// Package origin defines how package content is fetched from where it
// lives. A Handler knows one origin kind; the Registry maps kinds to
// handlers so callers never switch on the kind themselves.
package origin
