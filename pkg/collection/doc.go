// Package collection reconciles a declared package list against the
// collection root. Missing packages are materialized, present ones are
// refreshed, and folders nobody declares are reported but never removed.
package collection
