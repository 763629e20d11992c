package issue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
)

const completeDirName = "complete"

// Store is the filesystem-backed issue store described in spec §4.2. All
// reads rely on filesystem atomicity; only Create is serialized by an
// explicit lock (spec §5).
type Store struct {
	root           string
	issuesDir      string
	completeDir    string
	maxFilenameLen int

	createMu   sync.Mutex
	createLock *flock.Flock
}

// Option configures a Store at construction.
type Option func(*Store)

// WithMaxFilenameLength overrides the default 100-character filename cap.
func WithMaxFilenameLength(n int) Option {
	return func(s *Store) { s.maxFilenameLen = n }
}

// Open creates (if necessary) and returns a Store rooted at
// <root>/issues and <root>/issues/complete.
func Open(root string, opts ...Option) (*Store, error) {
	issuesDir := filepath.Join(root, "issues")
	completeDir := filepath.Join(issuesDir, completeDirName)
	if err := os.MkdirAll(completeDir, 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: completeDir, Err: err}
	}
	s := &Store{
		root:           root,
		issuesDir:      issuesDir,
		completeDir:    completeDir,
		maxFilenameLen: DefaultMaxFilenameLength,
		createLock:     flock.New(filepath.Join(issuesDir, ".create.lock")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// entry is an on-disk issue file located during a directory walk.
type entry struct {
	name      string
	path      string
	completed bool
	modTime   time.Time
}

// scan walks dir (and its subdirectories) for *.md files, sorted
// lexicographically by name within the directory (spec §4.2 Read, §5
// list-sort-stability law).
func scan(dir string, completed bool) ([]entry, error) {
	var out []entry
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return out, nil
	}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// The complete/ subdirectory is scanned separately by its own
			// root; skip it here to avoid double-counting when scanning
			// the active directory.
			if path != dir && strings.EqualFold(d.Name(), completeDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, entry{
			name:      strings.TrimSuffix(d.Name(), ".md"),
			path:      path,
			completed: completed,
			modTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, &IOError{Op: "scan", Path: dir, Err: err}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// scanAll returns active entries followed by complete entries, so a
// first-match lookup such as Get prefers the active copy when both exist.
// MarkComplete does not rely on this order; it reconciles the two by mtime.
func (s *Store) scanAll() ([]entry, error) {
	active, err := scan(s.issuesDir, false)
	if err != nil {
		return nil, err
	}
	complete, err := scan(s.completeDir, true)
	if err != nil {
		return nil, err
	}
	return append(active, complete...), nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	return string(b), nil
}

// List returns every issue across both directories, sorted lexicographically
// by name (spec §4.2 Read).
func (s *Store) List(_ context.Context) ([]Issue, error) {
	entries, err := s.scanAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	out := make([]Issue, 0, len(entries))
	for _, e := range entries {
		content, err := readFile(e.path)
		if err != nil {
			return nil, err
		}
		out = append(out, Issue{Name: e.name, Content: content})
	}
	return out, nil
}

// ListInfo enriches List with completion status, file path, and creation
// time (spec §4.2 Read, §3 IssueInfo).
func (s *Store) ListInfo(_ context.Context) ([]Info, error) {
	entries, err := s.scanAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		content, err := readFile(e.path)
		if err != nil {
			return nil, err
		}
		out = append(out, Info{
			Issue:     Issue{Name: e.name, Content: content},
			Completed: e.completed,
			FilePath:  e.path,
			CreatedAt: e.modTime,
		})
	}
	return out, nil
}

// Get returns the first matching issue by name, preferring the active copy
// over the completed one when both exist (spec §4.2 Read).
func (s *Store) Get(_ context.Context, name string) (Issue, error) {
	entries, err := s.scanAll()
	if err != nil {
		return Issue{}, err
	}
	for _, e := range entries {
		if e.name == name {
			content, err := readFile(e.path)
			if err != nil {
				return Issue{}, err
			}
			return Issue{Name: e.name, Content: content}, nil
		}
	}
	return Issue{}, &NotFoundError{Name: name}
}

// Create writes a new issue. An empty name is replaced by a monotonic ULID
// (26 chars, sortable in creation order, spec §8). Concurrent creations in
// this process are serialized by an in-process mutex; the advisory file
// lock additionally discourages (but, per spec §4.2, does not guarantee
// against) concurrent external-process creation races.
func (s *Store) Create(ctx context.Context, name, content string) (Issue, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	if locked, err := s.createLock.TryLockContext(ctx, 20*time.Millisecond); err == nil && locked {
		defer s.createLock.Unlock()
	}

	issueName := strings.TrimSpace(name)
	if issueName == "" {
		issueName = ulid.Make().String()
	} else {
		issueName = SanitizeName(name)
	}

	filename := BuildFilename(issueName, s.maxFilenameLen)
	path := filepath.Join(s.issuesDir, filename+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Issue{}, &IOError{Op: "write", Path: path, Err: err}
	}
	return Issue{Name: filename, Content: content}, nil
}

// Update overwrites an existing issue's content via a sibling-temp-file
// rename, atomic on POSIX filesystems (spec §4.2 Update).
func (s *Store) Update(_ context.Context, name, content string) (Issue, error) {
	entries, err := s.scanAll()
	if err != nil {
		return Issue{}, err
	}
	var target *entry
	for i := range entries {
		if entries[i].name == name {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return Issue{}, &NotFoundError{Name: name}
	}
	tmp := target.path + fmt.Sprintf(".%d.tmp", time.Now().UnixNano())
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return Issue{}, &IOError{Op: "write-temp", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, target.path); err != nil {
		_ = os.Remove(tmp)
		return Issue{}, &IOError{Op: "rename", Path: target.path, Err: err}
	}
	return Issue{Name: name, Content: content}, nil
}

// GetNextIssue returns the first active issue sorted ascending by name, or
// nil when none remain (spec §4.2 Next issue).
func (s *Store) GetNextIssue(_ context.Context) (*Issue, error) {
	active, err := scan(s.issuesDir, false)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	content, err := readFile(active[0].path)
	if err != nil {
		return nil, err
	}
	return &Issue{Name: active[0].name, Content: content}, nil
}

// AllComplete reports whether no active issues remain (spec §4.2).
func (s *Store) AllComplete(ctx context.Context) (bool, error) {
	infos, err := s.ListInfo(ctx)
	if err != nil {
		return false, err
	}
	for _, info := range infos {
		if !info.Completed {
			return false, nil
		}
	}
	return true, nil
}

// MarkComplete performs the idempotent complete transition described in
// spec §4.2: enumerate matches, reconcile active/complete duplicates by
// mtime, then atomically rename the canonical copy into complete/.
func (s *Store) MarkComplete(ctx context.Context, name string) (Info, error) {
	log := logger.FromContext(ctx)
	entries, err := s.scanAll()
	if err != nil {
		return Info{}, err
	}
	var active, complete *entry
	for i := range entries {
		switch {
		case entries[i].name != name:
			continue
		case entries[i].completed:
			complete = &entries[i]
		default:
			active = &entries[i]
		}
	}
	if active == nil && complete == nil {
		return Info{}, &NotFoundError{Name: name}
	}

	// Already complete with no active duplicate: idempotent return.
	if active == nil {
		content, err := readFile(complete.path)
		if err != nil {
			return Info{}, err
		}
		return Info{Issue: Issue{Name: name, Content: content}, Completed: true, FilePath: complete.path, CreatedAt: complete.modTime}, nil
	}

	if complete != nil {
		// Both exist: the newer of the two is a stale duplicate. If the
		// active copy is newer, it is the stale one (spec §4.2 step 4,
		// §9 Open Question: this rule is intentionally load-bearing and
		// not further second-guessed here).
		if active.modTime.After(complete.modTime) {
			if err := os.Remove(active.path); err != nil {
				log.Warn("failed to remove stale active duplicate", "path", active.path, "error", err.Error())
			}
			content, err := readFile(complete.path)
			if err != nil {
				return Info{}, err
			}
			return Info{Issue: Issue{Name: name, Content: content}, Completed: true, FilePath: complete.path, CreatedAt: complete.modTime}, nil
		}
	}

	target := filepath.Join(s.completeDir, filepath.Base(active.path))
	if err := os.Rename(active.path, target); err != nil {
		return Info{}, &IOError{Op: "rename", Path: target, Err: err}
	}

	removeLeftoverDuplicate(ctx, target)

	content, err := readFile(target)
	if err != nil {
		return Info{}, err
	}
	return Info{Issue: Issue{Name: name, Content: content}, Completed: true, FilePath: target, CreatedAt: time.Now()}, nil
}
