// Package testutil provides fixtures shared by the package tests.
//
// Key components:
//   - FileTree / CreateFileTree: declarative directory setup
//   - AssertSymlinkTo / AssertFileContent: filesystem assertions
//   - GitRepo: throwaway git repositories for origin handler tests
//
// Tests that need git call RequireGit and are skipped when the binary is
// not installed.
package testutil
