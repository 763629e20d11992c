package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	yaml "github.com/goccy/go-yaml"
)

// Store resolves workflow definitions by name. The filesystem-backed
// implementation looks under a directory of "<name>.yaml" files; tests
// construct a Store over a temp directory or an in-memory map instead of
// relying on any global registry, since Go has no thread-local storage to
// mirror the original implementation's test-local override (see DESIGN.md).
type Store interface {
	Load(ctx context.Context, name string) (*Definition, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// FileStore loads workflow definitions from "<Dir>/<name>.yaml".
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.Dir, name+".yaml")
}

func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) Load(_ context.Context, name string) (*Definition, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("load workflow %q: %w", name, err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow %q: %w", name, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow %q: %w", name, err)
	}
	return &def, nil
}

// MemoryStore is an in-process Store used by tests and by callers that
// register workflows programmatically rather than from disk.
type MemoryStore struct {
	definitions map[string]*Definition
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{definitions: make(map[string]*Definition)}
}

func (s *MemoryStore) Register(def *Definition) {
	s.definitions[def.Name] = def
}

func (s *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	_, ok := s.definitions[name]
	return ok, nil
}

func (s *MemoryStore) Load(_ context.Context, name string) (*Definition, error) {
	def, ok := s.definitions[name]
	if !ok {
		return nil, fmt.Errorf("workflow %q not found", name)
	}
	return def, nil
}

// Validate checks structural invariants a Definition must hold before it
// can be run: a start state that exists, and every transition target that
// exists.
func (d *Definition) Validate() error {
	if d.Start == "" {
		return fmt.Errorf("workflow %q has no start state", d.Name)
	}
	if _, ok := d.States[d.Start]; !ok {
		return fmt.Errorf("workflow %q start state %q not defined", d.Name, d.Start)
	}
	for name, state := range d.States {
		for _, t := range state.Transitions {
			if _, ok := d.States[t.To]; !ok {
				return fmt.Errorf("workflow %q state %q transitions to undefined state %q", d.Name, name, t.To)
			}
		}
	}
	return nil
}
