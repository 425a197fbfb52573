// Package linker projects the immediate children of a source directory into
// a target directory as symbolic links.
//
// Every child ends in exactly one state: CREATED when the link was missing
// and has been made, ALREADY_LINKED when a link to the same source is
// already there, CONFLICT when anything else occupies the name. Conflicting
// content is never removed, overwritten or relinked; it is only reported.
// Running Reconcile twice without external changes yields ALREADY_LINKED
// for every child on the second run.
package linker
