// Package git implements the git origin: packages are repositories cloned
// into the collection and fast-forwarded on refresh. All git work goes
// through the git binary behind the Runner interface.
package git
