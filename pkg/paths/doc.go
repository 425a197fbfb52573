// Package paths provides path handling for mtcollect.
//
// It covers three concerns:
//
//   - deriving local folder names from package locators (git URLs and
//     ContentDB package pages)
//   - the collection layout, <root>/<category>/<folder_name>
//   - XDG base directories for the tool's own settings, cache and state
//
// # Environment Variables
//
//   - MTCOLLECT_CONFIG_DIR: override $XDG_CONFIG_HOME/mtcollect
//   - MTCOLLECT_CACHE_DIR: override $XDG_CACHE_HOME/mtcollect
//   - MTCOLLECT_STATE_DIR: override $XDG_STATE_HOME/mtcollect
package paths
