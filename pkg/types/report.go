package types

// EntryAction is what the collection reconciler did for an entry.
type EntryAction string

const (
	ActionMaterialize EntryAction = "materialize"
	ActionRefresh     EntryAction = "refresh"
)

// EntryResult is the outcome of reconciling one declared package.
type EntryResult struct {
	Category Category
	Ref      PackageRef
	Path     string
	Action   EntryAction
	Err      error
}

// Succeeded reports whether the entry was processed without error.
func (e EntryResult) Succeeded() bool {
	return e.Err == nil
}

// Orphan is a folder in the collection with no matching declaration.
type Orphan struct {
	Category Category
	Name     string
	Path     string
}

// RunReport aggregates the per-entry outcomes of a collection update.
type RunReport struct {
	Root    string
	Entries []EntryResult
	Orphans []Orphan
}

// Succeeded returns the entries that completed without error.
func (r *RunReport) Succeeded() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Succeeded() {
			out = append(out, e)
		}
	}
	return out
}

// Failures returns the entries that failed.
func (r *RunReport) Failures() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if !e.Succeeded() {
			out = append(out, e)
		}
	}
	return out
}

// Failed is true iff at least one entry failed.
func (r *RunReport) Failed() bool {
	for _, e := range r.Entries {
		if !e.Succeeded() {
			return true
		}
	}
	return false
}
