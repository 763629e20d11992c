package workflow

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

const (
	defaultCostLimit = uint64(1000)
	defaultCacheSize = 1000
	programCacheCost = 1
)

// CELEvaluator compiles and evaluates CEL boolean expressions against an
// arbitrary data map, caching compiled programs by expression text. It is
// the transition-condition evaluator state machines use (spec §4.6's
// "CEL-like language").
type CELEvaluator struct {
	env          *cel.Env
	costLimit    uint64
	programCache *ristretto.Cache[string, cel.Program]
}

// Option configures a CELEvaluator at construction.
type Option func(*celOptions)

type celOptions struct {
	costLimit uint64
	cacheSize int64
}

// WithCostLimit overrides the default per-evaluation CEL cost budget.
func WithCostLimit(limit uint64) Option {
	return func(o *celOptions) { o.costLimit = limit }
}

// WithCacheSize overrides the default compiled-program cache capacity.
func WithCacheSize(size int) Option {
	return func(o *celOptions) { o.cacheSize = int64(size) }
}

// NewCELEvaluator builds a CEL environment accepting dynamic top-level
// variables (signal, processor, payload, headers, query, context) plus a
// Ristretto-backed compiled-program cache.
func NewCELEvaluator(opts ...Option) (*CELEvaluator, error) {
	options := celOptions{costLimit: defaultCostLimit, cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(&options)
	}

	env, err := cel.NewEnv(
		cel.Variable("signal", cel.DynType),
		cel.Variable("processor", cel.DynType),
		cel.Variable("payload", cel.DynType),
		cel.Variable("headers", cel.DynType),
		cel.Variable("query", cel.DynType),
		cel.Variable("context", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, cel.Program]{
		NumCounters: options.cacheSize * 10,
		MaxCost:     options.cacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create program cache: %w", err)
	}

	return &CELEvaluator{env: env, costLimit: options.costLimit, programCache: cache}, nil
}

func (e *CELEvaluator) compile(expression string) (cel.Program, error) {
	if prog, ok := e.programCache.Get(expression); ok {
		return prog, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}

	prog, err := e.env.Program(ast, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("CEL program construction error: %w", err)
	}

	e.programCache.Set(expression, prog, programCacheCost)
	e.programCache.Wait()
	return prog, nil
}

// Evaluate compiles (or reuses a cached compilation of) expression and runs
// it against data, requiring a boolean result.
func (e *CELEvaluator) Evaluate(ctx context.Context, expression string, data map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	prog, err := e.compile(expression)
	if err != nil {
		return false, err
	}

	out, _, err := prog.ContextEval(ctx, data)
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok || out.Type() != types.BoolType {
		return false, fmt.Errorf("CEL expression did not evaluate to a boolean: %q", expression)
	}
	return result, nil
}

// ValidateExpression reports whether expression compiles without running it.
func (e *CELEvaluator) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}
	return nil
}
