// Package config implements the layered configuration loader used by the
// model registry (C1) to resolve `sah.yaml`/`sah.toml` project config, and
// generally by any caller that needs koanf-style source composition.
package config

import "context"

// SourceType labels where a Source's data came from, for diagnostics.
type SourceType string

const (
	SourceYAML    SourceType = "yaml"
	SourceTOML    SourceType = "toml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Source is one layer of configuration. Layers are composed by Loader in
// the order supplied, later sources overriding earlier ones per key.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// WatchableSource is implemented by sources that can notify on change (e.g.
// a file source using fsnotify). Watch must return promptly; it launches
// its own goroutine and calls onChange when the underlying data changes.
type WatchableSource interface {
	Source
	Watch(ctx context.Context, onChange func()) error
}
