package mfdata

import "time"

// Response holds the value an expression evaluated to.
type Response[T any] struct {
	Value T
}

// RuleContext carries the inputs of one evaluation. Snapshot is normally a
// map produced by Package.Snapshot; its entries become top-level variables
// next to now, args, metadata, pkg and period.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Package  string
	// Period is the zero-based stress period the snapshot was taken at.
	Period int
}

// withDefaults pins Now to the current time and replaces nil maps, so an
// evaluation sees one clock and never a nil args or metadata.
func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) label() string {
	if ctx.Package == "" {
		return "unknown"
	}
	return ctx.Package
}

func (ctx RuleContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"now":      *ctx.Now,
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
		"pkg":      ctx.Package,
		"period":   ctx.Period,
	}
}

// Evaluator runs expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is an expression compiled once and run many times.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

type compiledRule func(ctx RuleContext) (any, error)

func (f compiledRule) Evaluate(ctx RuleContext) (any, error) {
	return f(ctx)
}

// engineName names the engine behind e for logs and errors. Evaluators
// from outside the package are reported as "custom".
func engineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ engine() string }); ok {
		return named.engine()
	}
	return "custom"
}

func snapshotAsMap(value any) map[string]any {
	if m, ok := value.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}
