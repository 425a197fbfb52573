// Package filesystem provides the filesystem abstraction used by the
// reconcilers.
//
// Everything goes through afero so tests can swap the backing store. The
// OS implementation supports symlinks; in-memory stores do not, and the
// symlink operations then fail with an error recognised by
// IsNotSymlinkable.
package filesystem
