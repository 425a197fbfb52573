// Package config loads the tool's own settings (not the collection
// manifest). Settings are layered: embedded defaults, then the user's
// settings file, then MTCOLLECT_* environment variables.
package config
