package types

// LinkState is the terminal classification of one source child.
type LinkState string

const (
	LinkCreated       LinkState = "CREATED"
	LinkAlreadyLinked LinkState = "ALREADY_LINKED"
	LinkConflict      LinkState = "CONFLICT"
	// LinkFailed means the link was missing but could not be created.
	LinkFailed LinkState = "FAILED"
)

// LinkEntry is the reconciliation result for one child of the source dir.
type LinkEntry struct {
	Name string
	// Source is the absolute path the link points (or should point) to.
	Source string
	// Target is the link location inside the target dir.
	Target string
	State  LinkState
	// Existing is the destination of a foreign symlink found at Target.
	Existing string
	Err      error
}

// LinkReport enumerates the outcome of every child of one reconciliation.
type LinkReport struct {
	SourceDir string
	TargetDir string
	Entries   []LinkEntry
}

func (r *LinkReport) filter(state LinkState) []LinkEntry {
	var out []LinkEntry
	for _, e := range r.Entries {
		if e.State == state {
			out = append(out, e)
		}
	}
	return out
}

// Created returns the links made by this run.
func (r *LinkReport) Created() []LinkEntry { return r.filter(LinkCreated) }

// AlreadyLinked returns the links that were already correct.
func (r *LinkReport) AlreadyLinked() []LinkEntry { return r.filter(LinkAlreadyLinked) }

// Conflicts returns targets occupied by foreign content.
func (r *LinkReport) Conflicts() []LinkEntry { return r.filter(LinkConflict) }

// Failures returns links that could not be created.
func (r *LinkReport) Failures() []LinkEntry { return r.filter(LinkFailed) }

// HasConflicts reports whether any conflict was found.
func (r *LinkReport) HasConflicts() bool { return len(r.Conflicts()) > 0 }

// HasFailures reports whether any link could not be created.
func (r *LinkReport) HasFailures() bool { return len(r.Failures()) > 0 }

// SyncSection is the outcome of linking one category.
type SyncSection struct {
	Category Category

	// Report is nil when the category was skipped.
	Report *LinkReport

	// Skipped explains why the category was not linked.
	Skipped string
}

// SyncReport collects the per-category link reports of a sync run.
type SyncReport struct {
	Sections []SyncSection
}

// HasConflicts reports whether any category had a conflict.
func (s *SyncReport) HasConflicts() bool {
	for _, sec := range s.Sections {
		if sec.Report != nil && sec.Report.HasConflicts() {
			return true
		}
	}
	return false
}

// HasFailures reports whether any link could not be created.
func (s *SyncReport) HasFailures() bool {
	for _, sec := range s.Sections {
		if sec.Report != nil && sec.Report.HasFailures() {
			return true
		}
	}
	return false
}
