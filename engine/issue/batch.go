package issue

import "context"

// BatchItem is one member of a batch create/update/complete request.
type BatchItem struct {
	Name    string
	Content string
}

// CreateBatch creates every item and returns the created issues in request
// order. Precondition checks (none for create — any name, including empty,
// is valid) make this operation all-or-nothing only in the trivial sense
// that no item can fail validation before writes begin.
func (s *Store) CreateBatch(ctx context.Context, items []BatchItem) ([]Issue, error) {
	out := make([]Issue, 0, len(items))
	for _, item := range items {
		created, err := s.Create(ctx, item.Name, item.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// GetBatch resolves every name and fails the whole batch if any one name is
// not found, matching spec §4.2's all-or-nothing batch-read precondition.
func (s *Store) GetBatch(ctx context.Context, names []string) ([]Issue, error) {
	out := make([]Issue, 0, len(names))
	for _, name := range names {
		got, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, got)
	}
	return out, nil
}

// UpdateBatch verifies every named issue exists before writing any of them,
// so a single missing issue leaves the whole batch unmodified.
func (s *Store) UpdateBatch(ctx context.Context, items []BatchItem) ([]Issue, error) {
	for _, item := range items {
		if _, err := s.Get(ctx, item.Name); err != nil {
			return nil, err
		}
	}
	out := make([]Issue, 0, len(items))
	for _, item := range items {
		updated, err := s.Update(ctx, item.Name, item.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// MarkCompleteBatch verifies every named issue exists before completing any
// of them, so a single missing issue leaves the whole batch unmodified.
func (s *Store) MarkCompleteBatch(ctx context.Context, names []string) ([]Info, error) {
	for _, name := range names {
		if _, err := s.Get(ctx, name); err != nil {
			return nil, err
		}
	}
	out := make([]Info, 0, len(names))
	for _, name := range names {
		info, err := s.MarkComplete(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}
