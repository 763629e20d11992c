package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileBytes = 10 * 1024 * 1024 // 10 MiB, spec §4.1/§8

// FileSource loads `sah.yaml` if present, else `sah.toml`, from dir. Neither
// file existing is not an error — Load returns an empty map, matching spec
// §4.1 step 1 ("Open config file; if absent -> return default").
type FileSource struct {
	dir  string
	path string
	typ  SourceType
}

// NewFileSource resolves which of dir/sah.yaml or dir/sah.toml exists,
// preferring YAML per spec §3.
func NewFileSource(dir string) *FileSource {
	yamlPath := filepath.Join(dir, "sah.yaml")
	if info, err := os.Stat(yamlPath); err == nil && !info.IsDir() {
		return &FileSource{dir: dir, path: yamlPath, typ: SourceYAML}
	}
	tomlPath := filepath.Join(dir, "sah.toml")
	if info, err := os.Stat(tomlPath); err == nil && !info.IsDir() {
		return &FileSource{dir: dir, path: tomlPath, typ: SourceTOML}
	}
	return &FileSource{dir: dir, path: "", typ: SourceYAML}
}

func (f *FileSource) Type() SourceType { return f.typ }

func (f *FileSource) Load() (map[string]any, error) {
	if f.path == "" {
		return map[string]any{}, nil
	}
	if info, err := os.Stat(f.path); err == nil && info.Size() > maxConfigFileBytes {
		return nil, &LoadError{Path: f.path, Err: errConfigTooLarge}
	}
	k := koanf.New(".")
	var parser koanf.Parser
	if f.typ == SourceTOML {
		parser = toml.Parser()
	} else {
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(f.path), parser); err != nil {
		return nil, &LoadError{Path: f.path, Err: err}
	}
	return k.All(), nil
}

// Watch calls onChange whenever the underlying file is written. Absent
// files are never watched (there is nothing to react to).
func (f *FileSource) Watch(ctx context.Context, onChange func()) error {
	if f.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		_ = watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) == filepath.Clean(f.path) &&
					(ev.Op&(fsnotify.Write|fsnotify.Create) != 0) {
					onChange()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

var errConfigTooLarge = &configSizeError{}

type configSizeError struct{}

func (*configSizeError) Error() string { return "config file exceeds 10MiB limit" }

// LoadError wraps a source-level load failure with the offending path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return "config: " + e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }
