package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReport(t *testing.T) {
	report := &RunReport{
		Entries: []EntryResult{
			{Ref: PackageRef{URL: "a"}, Action: ActionMaterialize},
			{Ref: PackageRef{URL: "b"}, Action: ActionRefresh, Err: errors.New("boom")},
			{Ref: PackageRef{URL: "c"}, Action: ActionRefresh},
		},
	}

	assert.True(t, report.Failed())
	assert.Len(t, report.Succeeded(), 2)
	failures := report.Failures()
	assert.Len(t, failures, 1)
	assert.Equal(t, "b", failures[0].Ref.URL)

	assert.False(t, (&RunReport{}).Failed())
}

func TestLinkReport(t *testing.T) {
	report := &LinkReport{
		Entries: []LinkEntry{
			{Name: "a", State: LinkCreated},
			{Name: "b", State: LinkAlreadyLinked},
			{Name: "c", State: LinkConflict},
			{Name: "d", State: LinkFailed},
			{Name: "e", State: LinkAlreadyLinked},
		},
	}

	assert.Len(t, report.Created(), 1)
	assert.Len(t, report.AlreadyLinked(), 2)
	assert.Len(t, report.Conflicts(), 1)
	assert.Len(t, report.Failures(), 1)
	assert.True(t, report.HasConflicts())
	assert.True(t, report.HasFailures())

	clean := &LinkReport{Entries: []LinkEntry{{Name: "a", State: LinkAlreadyLinked}}}
	assert.False(t, clean.HasConflicts())
	assert.False(t, clean.HasFailures())
}

func TestSyncReport(t *testing.T) {
	report := &SyncReport{Sections: []SyncSection{
		{Category: CategoryMods, Report: &LinkReport{Entries: []LinkEntry{{Name: "a", State: LinkCreated}}}},
		{Category: CategoryGames, Skipped: "source directory does not exist"},
	}}
	assert.False(t, report.HasConflicts())
	assert.False(t, report.HasFailures())

	report.Sections = append(report.Sections, SyncSection{
		Category: CategoryTexturePacks,
		Report:   &LinkReport{Entries: []LinkEntry{{Name: "b", State: LinkConflict}, {Name: "c", State: LinkFailed}}},
	})
	assert.True(t, report.HasConflicts())
	assert.True(t, report.HasFailures())
}
