package model

import (
	"context"
	"path/filepath"

	sahconfig "github.com/swissarmyhammer/swissarmyhammer/pkg/config"
)

// ResolveForUseCase implements spec §4.1's resolve_agent_config_for_use_case:
//  1. Open <projectDir>/.swissarmyhammer/{sah.yaml,sah.toml}; absent -> default.
//  2. agents.<uc> present -> FindByName + parse.
//  3. uc != root -> try agents.root.
//  4. Otherwise -> ClaudeCodeDefault().
func (r *Registry) ResolveForUseCase(ctx context.Context, projectDir string, uc UseCase) (Config, error) {
	confDir := filepath.Join(projectDir, ".swissarmyhammer")
	src := sahconfig.NewFileSource(confDir)
	loader := sahconfig.NewLoader()
	projectConfig, err := loader.Load(ctx, src)
	if err != nil {
		return Config{}, &Error{Kind: ConfigError, Detail: err.Error()}
	}
	name := sahconfig.ResolveUseCase(projectConfig.Agents, string(uc))
	if name == "" {
		return ClaudeCodeDefault(), nil
	}
	return r.ResolveConfig(ctx, name)
}
