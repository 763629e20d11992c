// Package issue implements the filesystem-backed issue store (C2): CRUD
// over markdown files under <root>/issues, idempotent complete/pending
// transitions, and deterministic duplicate reconciliation.
package issue

import "time"

// Issue is a markdown file identified by its filename stem.
type Issue struct {
	Name    string
	Content string
}

// Info enriches an Issue with the facets derived from its location on disk.
type Info struct {
	Issue     Issue
	Completed bool
	FilePath  string
	CreatedAt time.Time
}
