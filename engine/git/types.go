// Package git implements the branch-lifecycle protocol (C3): creating and
// switching issue work branches, merging them back via reflog-discovered
// targets, and emitting the `.abort` out-of-band fatality marker on
// unrecoverable states.
package git

import "time"

// StatusSummary categorizes working-tree and index entries into the eight
// buckets the underlying git library distinguishes.
type StatusSummary struct {
	StagedModified   []string
	UnstagedModified []string
	Untracked        []string
	StagedNew        []string
	StagedDeleted    []string
	UnstagedDeleted  []string
	Renamed          []string
	Typechange       []string
}

// IsClean reports whether every bucket is empty.
func (s StatusSummary) IsClean() bool {
	return len(s.StagedModified) == 0 && len(s.UnstagedModified) == 0 &&
		len(s.Untracked) == 0 && len(s.StagedNew) == 0 &&
		len(s.StagedDeleted) == 0 && len(s.UnstagedDeleted) == 0 &&
		len(s.Renamed) == 0 && len(s.Typechange) == 0
}

// TotalChanges sums every bucket's entry count.
func (s StatusSummary) TotalChanges() int {
	return len(s.StagedModified) + len(s.UnstagedModified) + len(s.Untracked) +
		len(s.StagedNew) + len(s.StagedDeleted) + len(s.UnstagedDeleted) +
		len(s.Renamed) + len(s.Typechange)
}

// ReflogEntry is one HEAD reflog record, used for diagnostics and for
// merge-target discovery.
type ReflogEntry struct {
	OldOID    string
	NewOID    string
	Committer string
	Message   string
	Time      time.Time
}
