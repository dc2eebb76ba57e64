package mfdata

import (
	"fmt"
	"time"
)

// EngineOption configures one of the bundled evaluators.
type EngineOption func(*engineConfig)

type engineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// EngineCache shares compiled programs between evaluations. Keys are
// prefixed with the engine name so one cache serves every engine.
func EngineCache(cache ProgramCache) EngineOption {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

// EngineFunctions exposes a copy of registry to expressions. Each function
// is callable by name in expr and js, and through call(name, ...) in all
// three engines.
func EngineFunctions(registry *FunctionRegistry) EngineOption {
	return func(cfg *engineConfig) {
		if registry != nil {
			cfg.registry = registry.Clone()
		}
	}
}

// EngineTimeout bounds a single js evaluation. The other engines have no
// loops and ignore it.
func EngineTimeout(d time.Duration) EngineOption {
	return func(cfg *engineConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

func newEngineConfig(opts []EngineOption) engineConfig {
	var cfg engineConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// cachedProgram returns the program stored under engine:key, compiling and
// storing it on a miss. A cached value of the wrong type is recompiled.
func cachedProgram[P any](cfg engineConfig, engine, key string, compile func() (P, error)) (P, error) {
	key = engine + ":" + key
	if cfg.cache != nil {
		if cached, ok := cfg.cache.Get(key); ok {
			if program, ok := cached.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile()
	if err != nil {
		return program, err
	}
	if cfg.cache != nil {
		cfg.cache.Set(key, program)
	}
	return program, nil
}

// environment merges the snapshot into the context bindings. Bindings win
// over snapshot fields of the same name.
func (cfg engineConfig) environment(ctx RuleContext) map[string]any {
	env := ctx.bindings()
	for key, value := range snapshotAsMap(ctx.Snapshot) {
		if _, reserved := env[key]; !reserved {
			env[key] = value
		}
	}
	if cfg.registry != nil {
		env["call"] = cfg.call
	}
	return env
}

func (cfg engineConfig) call(name string, arguments ...any) (any, error) {
	return cfg.registry.Call(name, arguments...)
}

// named returns registry function name as a variadic Go func.
func (cfg engineConfig) named(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return cfg.registry.Call(name, arguments...)
	}
}

// NewEvaluator returns the bundled evaluator called engine: "expr", "cel"
// or "js". The js engine needs the js_eval build tag.
func NewEvaluator(engine string, opts ...EngineOption) (Evaluator, error) {
	switch engine {
	case "", "expr":
		return NewExprEvaluator(opts...), nil
	case "cel":
		return NewCELEvaluator(opts...), nil
	case "js":
		if !jsEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: js requires the js_eval build tag", ErrNoEvaluator)
		}
		return NewJSEvaluator(opts...), nil
	default:
		return nil, fmt.Errorf("mfdata: unknown evaluator engine %q", engine)
	}
}
