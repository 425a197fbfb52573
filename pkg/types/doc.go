// Package types defines the values shared by the synchronization engine:
// package references and their categories, the per-entry results of a
// collection update, and the per-child results of a link reconciliation.
package types
