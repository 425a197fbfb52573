package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/types"
)

// humanRenderer writes reports for people, styled by its palette.
type humanRenderer struct {
	w  io.Writer
	pl palette
}

func newHumanRenderer(w io.Writer, pl palette) *humanRenderer {
	return &humanRenderer{w: w, pl: pl}
}

func (r *humanRenderer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *humanRenderer) RenderRun(report *types.RunReport) error {
	r.printf("%s %s\n", r.pl.heading("Collection"), r.pl.path(report.Root))

	var current types.Category
	for _, e := range report.Entries {
		if e.Category != current {
			current = e.Category
			r.printf("\n  %s\n", r.pl.heading(string(current)))
		}

		if e.Err != nil {
			r.printf("    %s %s %s\n", r.pl.failMark, e.Ref.Folder(), r.pl.muted(string(e.Action)))
			r.printf("        %s\n", r.pl.failure(e.Err.Error()))
			continue
		}
		r.printf("    %s %s %s\n", r.pl.okMark, e.Ref.Folder(), r.pl.muted(string(e.Action)))
	}

	if len(report.Orphans) > 0 {
		r.printf("\n  %s\n", r.pl.heading("Not in the manifest (left untouched)"))
		for _, o := range report.Orphans {
			r.printf("    %s %s/%s %s\n", r.pl.warnMark, o.Category, o.Name, r.pl.path(o.Path))
		}
	}

	s := NewRunView(report).Summary
	parts := []string{
		fmt.Sprintf("%d packages", s.Total),
		r.pl.success(fmt.Sprintf("%d ok", s.Succeeded)),
	}
	if s.Failed > 0 {
		parts = append(parts, r.pl.failure(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Orphans > 0 {
		parts = append(parts, r.pl.warning(fmt.Sprintf("%d orphaned", s.Orphans)))
	}
	r.printf("\n%s\n", strings.Join(parts, ", "))
	return nil
}

func (r *humanRenderer) RenderSync(report *types.SyncReport) error {
	for i, sec := range report.Sections {
		if i > 0 {
			r.printf("\n")
		}
		if sec.Report == nil {
			r.printf("%s %s\n", r.pl.heading(string(sec.Category)), r.pl.muted("skipped: "+sec.Skipped))
			continue
		}

		r.printf("%s %s -> %s\n", r.pl.heading(string(sec.Category)),
			r.pl.path(sec.Report.SourceDir), r.pl.path(sec.Report.TargetDir))
		if len(sec.Report.Entries) == 0 {
			r.printf("  %s\n", r.pl.muted("nothing to link"))
		}
		for _, e := range sec.Report.Entries {
			r.renderLink(e)
		}
	}

	s := NewSyncView(report).Summary
	parts := []string{
		r.pl.success(fmt.Sprintf("%d created", s.Created)),
		fmt.Sprintf("%d already linked", s.AlreadyLinked),
	}
	if s.Conflicts > 0 {
		parts = append(parts, r.pl.warning(fmt.Sprintf("%d conflicts", s.Conflicts)))
	}
	if s.Failed > 0 {
		parts = append(parts, r.pl.failure(fmt.Sprintf("%d failed", s.Failed)))
	}
	r.printf("\n%s\n", strings.Join(parts, ", "))
	return nil
}

func (r *humanRenderer) renderLink(e types.LinkEntry) {
	switch e.State {
	case types.LinkCreated:
		r.printf("  %s %s\n", r.pl.createdMark, e.Name)
	case types.LinkAlreadyLinked:
		r.printf("  %s %s\n", r.pl.linkedMark, r.pl.muted(e.Name))
	case types.LinkConflict:
		detail := "occupied"
		if e.Existing != "" {
			detail = "links to " + e.Existing
		} else if e.Err != nil {
			detail = e.Err.Error()
		}
		r.printf("  %s %s %s\n", r.pl.conflictMark, e.Name, r.pl.warning(detail))
	default:
		msg := "failed"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		r.printf("  %s %s %s\n", r.pl.failMark, e.Name, r.pl.failure(msg))
	}
}

func (r *humanRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, r.pl.info(msg))
	return err
}

func (r *humanRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "%s %s\n", r.pl.failure("Error:"), err.Error())
	return werr
}
