package output

import (
	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// RunView is the serializable form of a collection update.
type RunView struct {
	Root    string       `json:"root" yaml:"root"`
	Entries []EntryView  `json:"entries" yaml:"entries"`
	Orphans []OrphanView `json:"orphans" yaml:"orphans"`
	Summary RunSummary   `json:"summary" yaml:"summary"`
}

type EntryView struct {
	Category  string `json:"category" yaml:"category"`
	Type      string `json:"type" yaml:"type"`
	URL       string `json:"url" yaml:"url"`
	Folder    string `json:"folder" yaml:"folder"`
	Path      string `json:"path" yaml:"path"`
	Action    string `json:"action" yaml:"action"`
	Status    string `json:"status" yaml:"status"`
	ErrorCode string `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

type OrphanView struct {
	Category string `json:"category" yaml:"category"`
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
}

type RunSummary struct {
	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	Orphans   int `json:"orphans" yaml:"orphans"`
}

// SyncView is the serializable form of a sync run.
type SyncView struct {
	Categories []SyncCategoryView `json:"categories" yaml:"categories"`
	Summary    SyncSummary        `json:"summary" yaml:"summary"`
}

type SyncCategoryView struct {
	Category string          `json:"category" yaml:"category"`
	Source   string          `json:"source,omitempty" yaml:"source,omitempty"`
	Target   string          `json:"target,omitempty" yaml:"target,omitempty"`
	Skipped  string          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Links    []LinkEntryView `json:"links" yaml:"links"`
}

type LinkEntryView struct {
	Name      string `json:"name" yaml:"name"`
	Source    string `json:"source" yaml:"source"`
	Target    string `json:"target" yaml:"target"`
	State     string `json:"state" yaml:"state"`
	Existing  string `json:"existing,omitempty" yaml:"existing,omitempty"`
	ErrorCode string `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

type SyncSummary struct {
	Created       int `json:"created" yaml:"created"`
	AlreadyLinked int `json:"already_linked" yaml:"already_linked"`
	Conflicts     int `json:"conflicts" yaml:"conflicts"`
	Failed        int `json:"failed" yaml:"failed"`
}

// ErrorView is the serializable form of a command error.
type ErrorView struct {
	Error   string                 `json:"error" yaml:"error"`
	Code    string                 `json:"code" yaml:"code"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewRunView flattens a run report.
func NewRunView(r *types.RunReport) RunView {
	v := RunView{
		Root:    r.Root,
		Entries: make([]EntryView, 0, len(r.Entries)),
		Orphans: make([]OrphanView, 0, len(r.Orphans)),
	}
	for _, e := range r.Entries {
		ev := EntryView{
			Category: string(e.Category),
			Type:     string(e.Ref.Kind),
			URL:      e.Ref.URL,
			Folder:   e.Ref.Folder(),
			Path:     e.Path,
			Action:   string(e.Action),
			Status:   "ok",
		}
		if e.Err != nil {
			ev.Status = "failed"
			ev.ErrorCode = string(errors.GetErrorCode(e.Err))
			ev.Error = e.Err.Error()
		}
		v.Entries = append(v.Entries, ev)
	}
	for _, o := range r.Orphans {
		v.Orphans = append(v.Orphans, OrphanView{Category: string(o.Category), Name: o.Name, Path: o.Path})
	}

	failed := len(r.Failures())
	v.Summary = RunSummary{
		Total:     len(r.Entries),
		Succeeded: len(r.Entries) - failed,
		Failed:    failed,
		Orphans:   len(r.Orphans),
	}
	return v
}

// NewSyncView flattens a sync report.
func NewSyncView(r *types.SyncReport) SyncView {
	v := SyncView{Categories: make([]SyncCategoryView, 0, len(r.Sections))}
	for _, sec := range r.Sections {
		cv := SyncCategoryView{Category: string(sec.Category), Skipped: sec.Skipped, Links: []LinkEntryView{}}
		if sec.Report != nil {
			cv.Source = sec.Report.SourceDir
			cv.Target = sec.Report.TargetDir
			for _, e := range sec.Report.Entries {
				lv := LinkEntryView{
					Name:     e.Name,
					Source:   e.Source,
					Target:   e.Target,
					State:    string(e.State),
					Existing: e.Existing,
				}
				if e.Err != nil {
					lv.ErrorCode = string(errors.GetErrorCode(e.Err))
					lv.Error = e.Err.Error()
				}
				cv.Links = append(cv.Links, lv)
			}
			v.Summary.Created += len(sec.Report.Created())
			v.Summary.AlreadyLinked += len(sec.Report.AlreadyLinked())
			v.Summary.Conflicts += len(sec.Report.Conflicts())
			v.Summary.Failed += len(sec.Report.Failures())
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

// NewErrorView describes err with its code and details.
func NewErrorView(err error) ErrorView {
	return ErrorView{
		Error:   err.Error(),
		Code:    string(errors.GetErrorCode(err)),
		Details: errors.GetErrorDetails(err),
	}
}
