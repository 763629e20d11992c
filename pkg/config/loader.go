package config

import (
	"context"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ProjectConfig is the `sah.yaml`/`sah.toml` schema from spec §3/§6: a map
// from use case to the agent/model name that should serve it.
type ProjectConfig struct {
	Agents map[string]string `koanf:"agents"`
}

// Loader composes Sources in precedence order (later overrides earlier) and
// decodes the merged tree into a ProjectConfig.
type Loader struct{}

// NewLoader returns a Loader. It holds no state; callers compose sources
// per call.
func NewLoader() *Loader { return &Loader{} }

// Load merges sources in order and decodes the result. Context is accepted
// for symmetry with WatchableSource and future remote sources; no source
// in this package currently blocks on it.
func (l *Loader) Load(_ context.Context, sources ...Source) (*ProjectConfig, error) {
	k := koanf.New(".")
	cfg := &ProjectConfig{Agents: map[string]string{}}
	if err := k.Load(structs.Provider(*cfg, "koanf"), nil); err != nil {
		return nil, err
	}
	for _, src := range sources {
		data, err := src.Load()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		if err := k.Load(confmap.Provider(data, "."), nil); err != nil {
			return nil, err
		}
	}
	out := &ProjectConfig{Agents: map[string]string{}}
	if err := k.Unmarshal("", out); err != nil {
		return nil, err
	}
	return out, nil
}
