package model

import "context"

// Registry discovers and merges model definitions across all four scopes
// and resolves use-case routing (spec §4.1).
type Registry struct {
	roots    []Root
	builtins BuiltinProvider
}

// NewRegistry builds a Registry over roots, using builtins (or
// DefaultBuiltins if nil) for the Builtin scope.
func NewRegistry(roots []Root, builtins BuiltinProvider) *Registry {
	if builtins == nil {
		builtins = DefaultBuiltins
	}
	return &Registry{roots: roots, builtins: builtins}
}

// List discovers every model definition across all scopes and returns the
// merged, deduplicated result: for each name, the highest-scope definition
// wins (spec §8 precedence-monotonicity law).
func (r *Registry) List(ctx context.Context) ([]Info, error) {
	builtins, err := r.builtins()
	if err != nil {
		return nil, &Error{Kind: ConfigError, Detail: err.Error()}
	}
	vectors := [][]Info{builtins}
	// Roots must be supplied in ascending precedence order (Project,
	// GitRoot, User) for mergeByName's in-order upsert to match spec §4.1.
	for _, root := range r.roots {
		vec, err := discoverRoot(ctx, root)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return mergeByName(vectors...), nil
}

// FindByName resolves a single model definition by its winning (highest
// scope) entry.
func (r *Registry) FindByName(ctx context.Context, name string) (Info, error) {
	if err := ValidateAgentName(name); err != nil {
		return Info{}, err
	}
	all, err := r.List(ctx)
	if err != nil {
		return Info{}, err
	}
	for _, info := range all {
		if info.Name == name {
			return info, nil
		}
	}
	return Info{}, newNotFound(name)
}

// ResolveConfig finds and parses the model named name.
func (r *Registry) ResolveConfig(ctx context.Context, name string) (Config, error) {
	info, err := r.FindByName(ctx, name)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(info.Raw)
}
